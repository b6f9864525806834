package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/jobs"
	"github.com/linesmerrill/studio-api/models"
)

// Admin serves the organization admin console. Every route sits behind api.RequireAdmin.
type Admin struct {
	Models      OFModel
	Invitations Invitation
	Creators    databases.CreatorDatabase
	Orgs        databases.OrganizationDatabase
	Jobs        *jobs.Runner
}

// AdminModelsHandler lists the models the organization owns. creatorId narrows to one
// creator's models and unassigned=true to models nobody works on.
func (a Admin) AdminModelsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, limit := parsePagination(r)

	filter := bson.M{"organizationId": who.OrganizationID}
	if search := strings.TrimSpace(q.Get("q")); search != "" {
		pattern := searchPattern(search)
		filter["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"displayName": pattern}, bson.M{"slug": pattern}}
	}
	if status := q.Get("status"); status != "" {
		if !models.ModelStatus(status).Valid() {
			config.ErrorStatus("invalid status", http.StatusBadRequest, w, nil)
			return
		}
		filter["status"] = status
	}
	switch {
	case q.Get("creatorId") != "":
		filter["creatorIds"] = q.Get("creatorId")
	case q.Get("unassigned") == "true":
		filter["creatorIds"] = bson.M{"$size": 0}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := a.Models.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count models", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := a.Models.DB.Find(ctx, filter, databases.PageOptions(page, limit, bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get models", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.OFModel{}
	}
	config.WritePage(w, dbResp, models.NewPagination(page, limit, total))
}

// AdminCreatorsHandler lists the organization's creators
func (a Admin) AdminCreatorsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	page, limit := parsePagination(r)
	filter := bson.M{"organizationId": who.OrganizationID}
	if search := strings.TrimSpace(r.URL.Query().Get("q")); search != "" {
		pattern := searchPattern(search)
		filter["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"email": pattern}}
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := a.Creators.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count creators", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := a.Creators.Find(ctx, filter, databases.PageOptions(page, limit, bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get creators", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Creator{}
	}
	config.WritePage(w, dbResp, models.NewPagination(page, limit, total))
}

// AdminOrganizationsHandler lists the other organizations models can be shared with
func (a Admin) AdminOrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	page, limit := parsePagination(r)
	filter := bson.M{"_id": bson.M{"$ne": who.OrganizationID}}
	if search := strings.TrimSpace(r.URL.Query().Get("q")); search != "" {
		filter["name"] = searchPattern(search)
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := a.Orgs.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count organizations", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := a.Orgs.Find(ctx, filter, databases.PageOptions(page, limit, bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get organizations", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Organization{}
	}
	config.WritePage(w, dbResp, models.NewPagination(page, limit, total))
}

// BulkAssignHandler assigns creators to models in the background
func (a Admin) BulkAssignHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.BulkAssignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	creatorIDs := unique(req.CreatorIDs)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	known, err := a.Creators.CountDocuments(ctx, bson.M{"organizationId": who.OrganizationID, "userId": bson.M{"$in": creatorIDs}})
	if err != nil {
		config.ErrorStatus("failed to check creators", http.StatusInternalServerError, w, err)
		return
	}
	if known != int64(len(creatorIDs)) {
		config.ErrorStatus("unknown creator in creatorIds", http.StatusBadRequest, w, nil)
		return
	}

	update := bson.M{"$addToSet": bson.M{"creatorIds": bson.M{"$each": creatorIDs}}}
	if req.Mode == "replace" {
		update = bson.M{"$set": bson.M{"creatorIds": creatorIDs}}
	}
	stamp(update)
	a.submit(w, r, who, models.JobBulkAssign, req.ModelIDs, func(ctx context.Context, id string) error {
		return a.updateModel(ctx, who, id, update)
	})
}

// BulkShareHandler shares models with, or unshares them from, other organizations
func (a Admin) BulkShareHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.BulkShareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	orgIDs := unique(req.OrganizationIDs)
	for _, id := range orgIDs {
		if id == who.OrganizationID {
			config.ErrorStatus("cannot share a model with its own organization", http.StatusBadRequest, w, nil)
			return
		}
	}

	update := bson.M{"$addToSet": bson.M{"sharedOrganizationIds": bson.M{"$each": orgIDs}}}
	if req.Unshare {
		update = bson.M{"$pullAll": bson.M{"sharedOrganizationIds": orgIDs}}
	}
	stamp(update)
	a.submit(w, r, who, models.JobBulkShare, req.ModelIDs, func(ctx context.Context, id string) error {
		return a.updateModel(ctx, who, id, update)
	})
}

// BulkDeleteHandler deletes models and their captions and pipeline items
func (a Admin) BulkDeleteHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.BulkIDsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a.submit(w, r, who, models.JobBulkDelete, req.IDs, func(ctx context.Context, id string) error {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return err
		}
		ctx, cancel := api.WithQueryTimeout(ctx)
		defer cancel()
		return a.Models.deleteModel(ctx, who, oid)
	})
}

// BulkRevokeHandler deactivates onboarding invitations
func (a Admin) BulkRevokeHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.BulkIDsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a.submit(w, r, who, models.JobBulkRevoke, req.IDs, func(ctx context.Context, id string) error {
		ctx, cancel := api.WithQueryTimeout(ctx)
		defer cancel()
		return a.Invitations.revoke(ctx, who, id)
	})
}

// stamp sets updatedAt on update. It runs once before the job starts since items share update.
func stamp(update bson.M) {
	set, ok := update["$set"].(bson.M)
	if !ok {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now().UTC()
}

func (a Admin) updateModel(ctx context.Context, who api.Identity, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	ctx, cancel := api.WithQueryTimeout(ctx)
	defer cancel()

	if err := a.Models.DB.UpdateOne(ctx, ownedBy(who, bson.M{"_id": oid}), update); err != nil {
		return fmt.Errorf("model %s: %w", id, err)
	}
	a.Models.Events.Publish(ctx, events.Event{Subject: events.ModelUpdated, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: map[string]string{"id": id}})
	return nil
}

// submit queues the job and answers 202 with its id
func (a Admin) submit(w http.ResponseWriter, r *http.Request, who api.Identity, kind models.JobKind, ids []string, fn jobs.ItemFunc) {
	ids = unique(ids)
	job, err := a.Jobs.Submit(r.Context(), models.Job{
		OrganizationID: who.OrganizationID,
		Kind:           kind,
		CreatedBy:      who.UserID,
	}, ids, fn)
	if err != nil {
		config.ErrorStatus("failed to queue job", http.StatusInternalServerError, w, err)
		return
	}
	api.Logger(r.Context()).Infow("job queued", "jobId", job.ID.Hex(), "kind", kind, "total", job.Total)
	config.WriteJSON(w, http.StatusAccepted, models.JobAccepted{JobID: job.ID.Hex()})
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
