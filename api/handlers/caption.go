package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

// Caption exported for testing purposes
type Caption struct {
	DB      databases.CaptionDatabase
	ModelDB databases.OFModelDatabase
	Events  events.Publisher
}

var captionSorts = map[string]bson.D{
	"newest":  {{Key: "createdAt", Value: -1}},
	"usage":   {{Key: "usageCount", Value: -1}, {Key: "createdAt", Value: -1}},
	"revenue": {{Key: "totalRevenue", Value: -1}, {Key: "usageCount", Value: -1}},
}

// visibleModel loads the {id} model or writes a 400/404
func (c Caption) visibleModel(ctx context.Context, w http.ResponseWriter, r *http.Request, who api.Identity) (*models.OFModel, bool) {
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return nil, false
	}
	model, err := c.ModelDB.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": id}, visibleTo(who)}})
	if err != nil {
		dbError(w, "failed to get model by ID", err)
		return nil, false
	}
	return model, true
}

// ListCaptionsHandler returns a page of a model's caption bank. It accepts q, contentType,
// messageType and sort (newest, usage, revenue).
func (c Caption) ListCaptionsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	model, ok := c.visibleModel(ctx, w, r, who)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, limit := parsePagination(r)

	filter := bson.M{"modelId": model.ID, "organizationId": who.OrganizationID}
	if search := strings.TrimSpace(q.Get("q")); search != "" {
		filter["text"] = searchPattern(search)
	}
	if t := q.Get("contentType"); t != "" {
		filter["contentTypes"] = t
	}
	if t := q.Get("messageType"); t != "" {
		filter["messageTypes"] = t
	}
	sort, ok := captionSorts[q.Get("sort")]
	if !ok {
		sort = captionSorts["newest"]
	}

	total, err := c.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count captions", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := c.DB.Find(ctx, filter, databases.PageOptions(page, limit, sort))
	if err != nil {
		config.ErrorStatus("failed to get captions", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Caption{}
	}
	config.WritePage(w, dbResp, models.NewPagination(page, limit, total))
}

// CaptionAnalyticsHandler reduces the model's whole caption bank into analytics
func (c Caption) CaptionAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	model, ok := c.visibleModel(ctx, w, r, who)
	if !ok {
		return
	}
	captions, err := c.DB.Find(ctx, bson.M{"modelId": model.ID, "organizationId": who.OrganizationID})
	if err != nil {
		config.ErrorStatus("failed to get captions", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusOK, models.SummarizeCaptions(captions))
}

// CreateCaptionHandler adds a caption to a model's bank
func (c Caption) CreateCaptionHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	model, ok := c.visibleModel(ctx, w, r, who)
	if !ok {
		return
	}
	var req models.CreateCaptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := time.Now().UTC()
	caption := models.Caption{
		ID:             primitive.NewObjectID(),
		OrganizationID: who.OrganizationID,
		ModelID:        model.ID,
		Text:           strings.TrimSpace(req.Text),
		ContentTypes:   nonNil(req.ContentTypes),
		MessageTypes:   nonNil(req.MessageTypes),
		CreatedBy:      who.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := c.DB.InsertOne(ctx, caption); err != nil {
		config.ErrorStatus("failed to create caption", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusCreated, caption)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UpdateCaptionHandler patches a caption owned by the caller's organization
func (c Caption) UpdateCaptionHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateCaptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Text != nil {
		set["text"] = strings.TrimSpace(*req.Text)
	}
	if req.ContentTypes != nil {
		set["contentTypes"] = nonNil(*req.ContentTypes)
	}
	if req.MessageTypes != nil {
		set["messageTypes"] = nonNil(*req.MessageTypes)
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	caption, err := c.DB.FindOneAndUpdate(ctx, ownedBy(who, bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		dbError(w, "failed to update caption", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, caption)
}

// DeleteCaptionHandler removes a caption
func (c Caption) DeleteCaptionHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := c.DB.DeleteOne(ctx, ownedBy(who, bson.M{"_id": id})); err != nil {
		dbError(w, "failed to delete caption", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// RecordUsageHandler records one use of a caption and the revenue it made
func (c Caption) RecordUsageHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var req models.RecordCaptionUsageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := c.DB.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get caption by ID", err)
		return
	}
	usage := models.CaptionUsage{
		ID:        primitive.NewObjectID(),
		CaptionID: existing.ID,
		ModelID:   existing.ModelID,
		Revenue:   req.Revenue,
		UsedBy:    who.UserID,
		UsedAt:    time.Now().UTC(),
	}
	caption, err := c.DB.RecordUsage(ctx, usage)
	if err != nil {
		dbError(w, "failed to record caption usage", err)
		return
	}
	c.Events.Publish(ctx, events.Event{Subject: events.CaptionUsed, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: usage})
	config.WriteJSON(w, http.StatusOK, caption)
}
