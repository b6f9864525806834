package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
)

// Pagination defaults shared by every list endpoint
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

var validate = validator.New()

// parsePagination reads page and limit from the query string. Bad or missing values fall back
// to page 1 and DefaultPageLimit; limit is capped at MaxPageLimit.
func parsePagination(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page = cast.ToInt(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit = cast.ToInt(q.Get("limit"))
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// caller returns the authenticated identity or writes a 401
func caller(w http.ResponseWriter, r *http.Request) (api.Identity, bool) {
	id, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return api.Identity{}, false
	}
	return id, true
}

// objectIDVar parses a hex object id route variable or writes a 400
func objectIDVar(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	raw := mux.Vars(r)[name]
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalObjectID parses raw when set. An empty string yields nil.
func optionalObjectID(raw string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// decodeBody unmarshals the json body into v and validates it, writing a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return false
	}
	if err := validate.Struct(v); err != nil {
		config.ErrorStatus(validationMessage(err), http.StatusBadRequest, w, err)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("invalid %s: failed %s", lowerFirst(verrs[0].Field()), verrs[0].Tag())
	}
	return "invalid request"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// dbError maps a storage error to 404 when nothing matched and 500 otherwise
func dbError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus(message, http.StatusNotFound, w, err)
		return
	}
	config.ErrorStatus(message, http.StatusInternalServerError, w, err)
}

// ownedBy scopes a filter to documents owned by the caller's organization
func ownedBy(id api.Identity, filter bson.M) bson.M {
	filter["organizationId"] = id.OrganizationID
	return filter
}

// visibleTo matches models owned by, or shared with, the caller's organization
func visibleTo(id api.Identity) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"organizationId": id.OrganizationID},
		bson.M{"sharedOrganizationIds": id.OrganizationID},
	}}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses every run of other characters into a single dash
func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// searchPattern builds a case-insensitive substring match for user input
func searchPattern(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
}
