package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/mailer"
	"github.com/linesmerrill/studio-api/models"
	templates "github.com/linesmerrill/studio-api/templates/html"
)

// Invitation defaults when the request leaves them out
const (
	DefaultInvitationTTL     = 7 * 24 * time.Hour
	DefaultInvitationMaxUses = 1
)

// Invitation serves onboarding links, both the admin side and the public redeem flow
type Invitation struct {
	DB      databases.InvitationDatabase
	Models  OFModel
	Mailer  mailer.Mailer
	Events  events.Publisher
	Metrics *api.Metrics
	BaseURL string

	// Now is stubbed in tests
	Now func() time.Time
}

func (i Invitation) now() time.Time {
	if i.Now != nil {
		return i.Now().UTC()
	}
	return time.Now().UTC()
}

func (i Invitation) view(inv models.Invitation, now time.Time) models.InvitationView {
	return models.NewInvitationView(inv, strings.TrimRight(i.BaseURL, "/"), now)
}

// ListInvitationsHandler returns a page of the organization's invitations. status filters on
// the derived status and q matches label or email.
func (i Invitation) ListInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	now := i.now()
	page, limit := parsePagination(r)

	clauses := bson.A{bson.M{"organizationId": who.OrganizationID}}
	if status := q.Get("status"); status != "" && status != "all" {
		f := databases.StatusFilter(models.InvitationStatus(status), now)
		if f == nil {
			config.ErrorStatus("invalid status", http.StatusBadRequest, w, nil)
			return
		}
		clauses = append(clauses, f)
	}
	if search := strings.TrimSpace(q.Get("q")); search != "" {
		pattern := searchPattern(search)
		clauses = append(clauses, bson.M{"$or": bson.A{bson.M{"label": pattern}, bson.M{"email": pattern}}})
	}
	filter := bson.M{"$and": clauses}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := i.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count invitations", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := i.DB.Find(ctx, filter, databases.PageOptions(page, limit, newestFirst))
	if err != nil {
		config.ErrorStatus("failed to get invitations", http.StatusInternalServerError, w, err)
		return
	}
	views := make([]models.InvitationView, 0, len(dbResp))
	for _, inv := range dbResp {
		views = append(views, i.view(inv, now))
	}
	config.WritePage(w, views, models.NewPagination(page, limit, total))
}

// InvitationHandler returns one invitation with its derived status
func (i Invitation) InvitationHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	inv, err := i.DB.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get invitation by ID", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, i.view(*inv, i.now()))
}

// CreateInvitationHandler issues a new onboarding link and emails it when an address is given
func (i Invitation) CreateInvitationHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreateInvitationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now := i.now()
	inv := NewInvitation(who.OrganizationID, who.UserID, req, now)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := i.DB.InsertOne(ctx, inv); err != nil {
		config.ErrorStatus("failed to create invitation", http.StatusInternalServerError, w, err)
		return
	}
	view := i.view(inv, now)
	if inv.Email != "" {
		i.sendInvitation(ctx, view)
	}
	i.Events.Publish(ctx, events.Event{Subject: events.InvitationCreated, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: view})
	config.WriteJSON(w, http.StatusCreated, view)
}

// sendInvitation emails the link. Delivery failures are logged, the invitation stands.
func (i Invitation) sendInvitation(ctx context.Context, view models.InvitationView) {
	if i.Mailer == nil {
		return
	}
	email := templates.RenderInvitationEmail(view.Label, view.Link, view.ExpiresAt)
	err := i.Mailer.Send(ctx, mailer.Message{
		ToName:    view.Label,
		ToEmail:   view.Email,
		Subject:   email.Subject,
		PlainText: email.PlainText,
		HTML:      email.HTML,
	})
	if err != nil {
		api.Logger(ctx).With("error", err).Warnw("failed to email invitation", "invitationId", view.ID.Hex())
	}
}

// NewInvitation builds an active invitation from a create request, applying the default
// lifetime and use cap
func NewInvitation(orgID, createdBy string, req models.CreateInvitationRequest, now time.Time) models.Invitation {
	ttl := DefaultInvitationTTL
	if req.ExpiresInHrs > 0 {
		ttl = time.Duration(req.ExpiresInHrs) * time.Hour
	}
	maxUses := req.MaxUses
	if maxUses == 0 {
		maxUses = DefaultInvitationMaxUses
	}
	inv := models.Invitation{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Token:          NewInvitationToken(),
		Label:          strings.TrimSpace(req.Label),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		ExpiresAt:      now.Add(ttl),
		MaxUses:        maxUses,
		IsActive:       true,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}
	return inv
}

// NewInvitationToken returns a random 32 character hex token
func NewInvitationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// UpdateInvitationHandler revokes, reactivates, extends or re-caps an invitation
func (i Invitation) UpdateInvitationHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateInvitationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	set := bson.M{}
	if req.Label != nil {
		set["label"] = strings.TrimSpace(*req.Label)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.ExpiresAt != nil {
		set["expiresAt"] = req.ExpiresAt.UTC()
	}
	if req.MaxUses != nil {
		set["maxUses"] = *req.MaxUses
	}
	if len(set) == 0 {
		config.ErrorStatus("nothing to update", http.StatusBadRequest, w, nil)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	inv, err := i.DB.FindOneAndUpdate(ctx, ownedBy(who, bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		dbError(w, "failed to update invitation", err)
		return
	}
	if req.IsActive != nil && !*req.IsActive {
		i.Events.Publish(ctx, events.Event{Subject: events.InvitationRevoked, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: map[string]string{"id": id.Hex()}})
	}
	config.WriteJSON(w, http.StatusOK, i.view(*inv, i.now()))
}

// DeleteInvitationHandler removes an invitation. Models already created through it remain.
func (i Invitation) DeleteInvitationHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.DB.DeleteOne(ctx, ownedBy(who, bson.M{"_id": id})); err != nil {
		dbError(w, "failed to delete invitation", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// revoke deactivates one of the caller's invitations, used by the bulk revoke job
func (i Invitation) revoke(ctx context.Context, who api.Identity, rawID string) error {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return err
	}
	if _, err := i.DB.FindOneAndUpdate(ctx, ownedBy(who, bson.M{"_id": id}), bson.M{"$set": bson.M{"isActive": false}}); err != nil {
		return err
	}
	i.Events.Publish(ctx, events.Event{Subject: events.InvitationRevoked, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: map[string]string{"id": rawID}})
	return nil
}

// PublicInvitationHandler lets an unauthenticated visitor check a link before filling the form
func (i Invitation) PublicInvitationHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	inv, err := i.DB.FindOne(ctx, bson.M{"token": token})
	if err != nil {
		dbError(w, "invitation not found", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, models.PublicInvitation{
		Label:     inv.Label,
		Status:    inv.Status(i.now()),
		ExpiresAt: inv.ExpiresAt,
	})
}

// RedeemInvitationHandler consumes one use of a link and creates a PENDING model from the
// submitted profile. A link that is not active gets 410 with its status.
func (i Invitation) RedeemInvitationHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	var req models.RedeemInvitationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now := i.now()
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	inv, err := i.DB.Redeem(ctx, token, now)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, findErr := i.DB.FindOne(ctx, bson.M{"token": token})
		if findErr != nil {
			dbError(w, "invitation not found", findErr)
			return
		}
		status := existing.Status(now)
		if status == models.InvitationActive {
			// lost a race for the last use
			status = models.InvitationUsedUp
		}
		config.ErrorStatus("invitation is "+string(status), http.StatusGone, w, nil)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to redeem invitation", http.StatusInternalServerError, w, err)
		return
	}

	model := NewModel(inv.OrganizationID, inv.CreatedBy, models.CreateOFModelRequest{
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		Status:          models.ModelStatusPending,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
		SocialLinks:     req.SocialLinks,
	})
	model.InvitationID = &inv.ID
	if err := i.Models.insert(ctx, &model); err != nil {
		config.ErrorStatus("failed to create model", http.StatusInternalServerError, w, err)
		return
	}

	i.Metrics.InvitationRedeemed()
	i.Events.Publish(ctx, events.Event{
		Subject:        events.InvitationRedeemed,
		OrganizationID: inv.OrganizationID,
		Data:           map[string]string{"invitationId": inv.ID.Hex(), "modelId": model.ID.Hex()},
	})
	config.WriteJSON(w, http.StatusCreated, model)
}
