package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

// OFModel exported for testing purposes
type OFModel struct {
	DB         databases.OFModelDatabase
	CaptionDB  databases.CaptionDatabase
	PipelineDB databases.PipelineDatabase
	Events     events.Publisher
}

// modelSorts maps the sort query param onto a mongo sort
var modelSorts = map[string]bson.D{
	"newest": {{Key: "createdAt", Value: -1}},
	"oldest": {{Key: "createdAt", Value: 1}},
	"name":   {{Key: "name", Value: 1}},
}

// ListModelsHandler returns the models visible to the caller's organization
func (m OFModel) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, limit := parsePagination(r)

	clauses := bson.A{visibleTo(who)}
	if search := strings.TrimSpace(q.Get("q")); search != "" {
		pattern := searchPattern(search)
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"displayName": pattern},
			bson.M{"slug": pattern},
		}})
	}
	if status := q.Get("status"); status != "" {
		if !models.ModelStatus(status).Valid() {
			config.ErrorStatus("invalid status", http.StatusBadRequest, w, nil)
			return
		}
		clauses = append(clauses, bson.M{"status": status})
	}
	sort, ok := modelSorts[q.Get("sort")]
	if !ok {
		sort = modelSorts["newest"]
	}
	filter := bson.M{"$and": clauses}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := m.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count models", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := m.DB.Find(ctx, filter, databases.PageOptions(page, limit, sort))
	if err != nil {
		config.ErrorStatus("failed to get models", http.StatusInternalServerError, w, err)
		return
	}
	// the dashboard expects an array, never null
	if dbResp == nil {
		dbResp = []models.OFModel{}
	}
	config.WritePage(w, dbResp, models.NewPagination(page, limit, total))
}

// ModelHandler returns one model by id
func (m OFModel) ModelHandler(w http.ResponseWriter, r *http.Request) {
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

	model, err := m.DB.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": id}, visibleTo(who)}})
	if err != nil {
		dbError(w, "failed to get model by ID", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, model)
}

// CreateModelHandler creates a model profile in the caller's organization
func (m OFModel) CreateModelHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreateOFModelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	model := NewModel(who.OrganizationID, who.UserID, req)
	if err := m.insert(ctx, &model); err != nil {
		config.ErrorStatus("failed to create model", http.StatusInternalServerError, w, err)
		return
	}
	m.Events.Publish(ctx, events.Event{Subject: events.ModelCreated, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: model})
	config.WriteJSON(w, http.StatusCreated, model)
}

// NewModel builds an ACTIVE model from a create request unless req.Status says otherwise
func NewModel(orgID, createdBy string, req models.CreateOFModelRequest) models.OFModel {
	now := time.Now().UTC()
	status := req.Status
	if status == "" {
		status = models.ModelStatusActive
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Name
	}
	creators := req.CreatorIDs
	if creators == nil {
		creators = []string{}
	}
	return models.OFModel{
		ID:                    primitive.NewObjectID(),
		OrganizationID:        orgID,
		Name:                  strings.TrimSpace(req.Name),
		DisplayName:           displayName,
		Slug:                  slugify(req.Name),
		Status:                status,
		Bio:                   req.Bio,
		ProfileImageURL:       req.ProfileImageURL,
		SocialLinks:           req.SocialLinks,
		CreatorIDs:            creators,
		SharedOrganizationIDs: []string{},
		CreatedBy:             createdBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// insert stores model, suffixing the slug when another model in the organization already uses it
func (m OFModel) insert(ctx context.Context, model *models.OFModel) error {
	if model.Slug == "" {
		model.Slug = "model"
	}
	base := model.Slug
	for attempt := 0; ; attempt++ {
		_, err := m.DB.InsertOne(ctx, *model)
		if err == nil || !databases.IsDuplicateKey(err) || attempt == 3 {
			return err
		}
		model.Slug = base + "-" + uuid.New().String()[:6]
	}
}

// UpdateModelHandler patches a model owned by the caller's organization
func (m OFModel) UpdateModelHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateOFModelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.DisplayName != nil {
		set["displayName"] = *req.DisplayName
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.ProfileImageURL != nil {
		set["profileImageUrl"] = *req.ProfileImageURL
	}
	if req.SocialLinks != nil {
		set["socialLinks"] = *req.SocialLinks
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	model, err := m.DB.FindOneAndUpdate(ctx, ownedBy(who, bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		dbError(w, "failed to update model", err)
		return
	}
	m.Events.Publish(ctx, events.Event{Subject: events.ModelUpdated, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: model})
	config.WriteJSON(w, http.StatusOK, model)
}

// DeleteModelHandler deletes a model along with its captions and pipeline items
func (m OFModel) DeleteModelHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := m.deleteModel(ctx, who, id); err != nil {
		dbError(w, "failed to delete model", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

func (m OFModel) deleteModel(ctx context.Context, who api.Identity, id primitive.ObjectID) error {
	if err := m.DB.DeleteOne(ctx, ownedBy(who, bson.M{"_id": id})); err != nil {
		return err
	}
	if _, err := m.CaptionDB.DeleteMany(ctx, bson.M{"modelId": id}); err != nil {
		return err
	}
	if _, err := m.PipelineDB.DeleteMany(ctx, bson.M{"modelId": id}); err != nil {
		return err
	}
	m.Events.Publish(ctx, events.Event{Subject: events.ModelDeleted, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: map[string]string{"id": id.Hex()}})
	return nil
}
