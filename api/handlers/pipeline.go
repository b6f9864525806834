package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

// Pipeline serves the Instagram content pipeline and its slots
type Pipeline struct {
	DB      databases.PipelineDatabase
	SlotDB  databases.SlotDatabase
	ModelDB databases.OFModelDatabase
	Events  events.Publisher
}

var (
	errInvalidSlot = errors.New("invalid slot")
	errSlotTaken   = errors.New("slot already linked to another item")
)

// slotFields maps a slot kind onto the pipeline item field that links it
var slotFields = map[models.SlotKind]string{
	models.SlotStory:    "storySlotId",
	models.SlotReel:     "reelSlotId",
	models.SlotFeedPost: "feedPostSlotId",
}

func itemSlots(item models.PipelineItem) map[models.SlotKind]*primitive.ObjectID {
	return map[models.SlotKind]*primitive.ObjectID{
		models.SlotStory:    item.StorySlotID,
		models.SlotReel:     item.ReelSlotID,
		models.SlotFeedPost: item.FeedPostSlotID,
	}
}

// ListPipelineHandler returns a page of pipeline items, filtered by status and modelId
func (p Pipeline) ListPipelineHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	filter, ok := pipelineFilter(w, r, who)
	if !ok {
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.PipelineStatus(status).Valid() {
			config.ErrorStatus("invalid status", http.StatusBadRequest, w, nil)
			return
		}
		filter["status"] = status
	}
	page, limit := parsePagination(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := p.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count pipeline items", http.StatusInternalServerError, w, err)
		return
	}
	dbResp, err := p.DB.Find(ctx, filter, databases.PageOptions(page, limit, bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		config.ErrorStatus("failed to get pipeline items", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.PipelineItem{}
	}
	config.WritePage(w, dbResp, models.NewPagination(page, limit, total))
}

// PipelineSummaryHandler counts pipeline items per status
func (p Pipeline) PipelineSummaryHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	filter, ok := pipelineFilter(w, r, who)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	byStatus, err := p.DB.CountByStatus(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to summarize pipeline", http.StatusInternalServerError, w, err)
		return
	}
	summary := models.PipelineSummary{ByStatus: byStatus}
	for _, n := range byStatus {
		summary.Total += n
	}
	config.WriteJSON(w, http.StatusOK, summary)
}

func pipelineFilter(w http.ResponseWriter, r *http.Request, who api.Identity) (bson.M, bool) {
	filter := bson.M{"organizationId": who.OrganizationID}
	modelID, err := optionalObjectID(r.URL.Query().Get("modelId"))
	if err != nil {
		config.ErrorStatus("invalid modelId", http.StatusBadRequest, w, err)
		return nil, false
	}
	if modelID != nil {
		filter["modelId"] = *modelID
	}
	return filter, true
}

// PipelineItemHandler returns one pipeline item
func (p Pipeline) PipelineItemHandler(w http.ResponseWriter, r *http.Request) {
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

	item, err := p.DB.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get pipeline item by ID", err)
		return
	}
	config.WriteJSON(w, http.StatusOK, item)
}

// CreatePipelineItemHandler adds an item to the pipeline, linking any slots it names
func (p Pipeline) CreatePipelineItemHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreatePipelineItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		req.Status = models.PipelineIdea
	}
	if !req.Status.Valid() {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, nil)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	modelID, _ := primitive.ObjectIDFromHex(req.ModelID)
	if _, err := p.ModelDB.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": modelID}, visibleTo(who)}}); err != nil {
		dbError(w, "failed to get model for pipeline item", err)
		return
	}

	now := time.Now().UTC()
	item := models.PipelineItem{
		ID:             primitive.NewObjectID(),
		OrganizationID: who.OrganizationID,
		ModelID:        modelID,
		Title:          strings.TrimSpace(req.Title),
		Notes:          req.Notes,
		Status:         req.Status,
		DueAt:          req.DueAt,
		CreatedBy:      who.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.Status == models.PipelinePosted {
		item.PostedAt = &now
	}
	links := map[models.SlotKind]string{
		models.SlotStory:    req.StorySlotID,
		models.SlotReel:     req.ReelSlotID,
		models.SlotFeedPost: req.FeedPostSlotID,
	}
	for kind, raw := range links {
		slot, err := p.resolveSlot(ctx, who, item.ID, modelID, kind, raw)
		if err != nil {
			slotError(w, err)
			return
		}
		setItemSlot(&item, kind, slot)
	}

	claimed, err := p.claimSlots(ctx, item.ID, nil, itemSlots(item))
	if err != nil {
		slotError(w, err)
		return
	}
	if _, err := p.DB.InsertOne(ctx, item); err != nil {
		p.releaseSlots(ctx, item.ID, claimed)
		config.ErrorStatus("failed to create pipeline item", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusCreated, item)
}

// UpdatePipelineItemHandler patches a pipeline item. Any status may move to any other; entering
// posted stamps postedAt and leaving it clears postedAt.
func (p Pipeline) UpdatePipelineItemHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdatePipelineItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, nil)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := p.DB.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get pipeline item by ID", err)
		return
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.DueAt != nil {
		set["dueAt"] = req.DueAt.UTC()
	}
	if req.Status != nil {
		set["status"] = *req.Status
		switch {
		case *req.Status == models.PipelinePosted && existing.PostedAt == nil:
			set["postedAt"] = now
		case *req.Status != models.PipelinePosted && existing.Status == models.PipelinePosted:
			unset["postedAt"] = ""
		}
	}

	before := itemSlots(*existing)
	after := itemSlots(*existing)
	links := map[models.SlotKind]*string{
		models.SlotStory:    req.StorySlotID,
		models.SlotReel:     req.ReelSlotID,
		models.SlotFeedPost: req.FeedPostSlotID,
	}
	for kind, raw := range links {
		if raw == nil {
			continue
		}
		slot, err := p.resolveSlot(ctx, who, id, existing.ModelID, kind, *raw)
		if err != nil {
			slotError(w, err)
			return
		}
		after[kind] = slot
		if slot == nil {
			unset[slotFields[kind]] = ""
		} else {
			set[slotFields[kind]] = *slot
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	claimed, err := p.claimSlots(ctx, id, before, after)
	if err != nil {
		slotError(w, err)
		return
	}
	item, err := p.DB.FindOneAndUpdate(ctx, ownedBy(who, bson.M{"_id": id}), update)
	if err != nil {
		p.releaseSlots(ctx, id, claimed)
		dbError(w, "failed to update pipeline item", err)
		return
	}
	p.releaseSlots(ctx, id, droppedSlots(before, after))

	if req.Status != nil && *req.Status != existing.Status {
		p.Events.Publish(ctx, events.Event{
			Subject:        events.PipelineStatusChanged,
			OrganizationID: who.OrganizationID,
			ActorID:        who.UserID,
			Data:           map[string]interface{}{"id": id.Hex(), "from": existing.Status, "to": *req.Status},
		})
	}
	config.WriteJSON(w, http.StatusOK, item)
}

// DeletePipelineItemHandler removes a pipeline item and frees its slots
func (p Pipeline) DeletePipelineItemHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := p.DB.DeleteOne(ctx, ownedBy(who, bson.M{"_id": id})); err != nil {
		dbError(w, "failed to delete pipeline item", err)
		return
	}
	if _, err := p.SlotDB.UpdateMany(ctx, bson.M{"pipelineItemId": id}, bson.M{"$unset": bson.M{"pipelineItemId": ""}}); err != nil {
		api.Logger(ctx).With("error", err).Warnw("failed to free slots", "pipelineItemId", id.Hex())
	}
	config.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// resolveSlot parses and checks a slot link. An empty raw value unlinks.
func (p Pipeline) resolveSlot(ctx context.Context, who api.Identity, itemID, modelID primitive.ObjectID, kind models.SlotKind, raw string) (*primitive.ObjectID, error) {
	slotID, err := optionalObjectID(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidSlot, err)
	}
	if slotID == nil {
		return nil, nil
	}
	slot, err := p.SlotDB.FindOne(ctx, ownedBy(who, bson.M{"_id": *slotID}))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s not found", errInvalidSlot, raw)
	}
	if err != nil {
		return nil, err
	}
	if slot.Kind != kind || slot.ModelID != modelID {
		return nil, fmt.Errorf("%w: %s is not a %s slot of this model", errInvalidSlot, raw, kind)
	}
	if slot.PipelineItemID != nil && *slot.PipelineItemID != itemID {
		return nil, errSlotTaken
	}
	return slotID, nil
}

func slotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errInvalidSlot):
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
	case errors.Is(err, errSlotTaken):
		config.ErrorStatus(err.Error(), http.StatusConflict, w, err)
	default:
		config.ErrorStatus("failed to link slot", http.StatusInternalServerError, w, err)
	}
}

func setItemSlot(item *models.PipelineItem, kind models.SlotKind, id *primitive.ObjectID) {
	switch kind {
	case models.SlotStory:
		item.StorySlotID = id
	case models.SlotReel:
		item.ReelSlotID = id
	case models.SlotFeedPost:
		item.FeedPostSlotID = id
	}
}

// claimSlots points every newly linked slot at itemID. The filter only matches a slot that is
// free or already held by itemID. A slot held elsewhere fails with errSlotTaken and the claims
// made so far are released.
func (p Pipeline) claimSlots(ctx context.Context, itemID primitive.ObjectID, before, after map[models.SlotKind]*primitive.ObjectID) ([]primitive.ObjectID, error) {
	var claimed []primitive.ObjectID
	for kind, next := range after {
		if next == nil || sameID(before[kind], next) {
			continue
		}
		filter := bson.M{"_id": *next, "pipelineItemId": bson.M{"$in": bson.A{nil, itemID}}}
		err := p.SlotDB.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"pipelineItemId": itemID}})
		if err != nil {
			p.releaseSlots(ctx, itemID, claimed)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, errSlotTaken
			}
			return nil, err
		}
		claimed = append(claimed, *next)
	}
	return claimed, nil
}

// releaseSlots clears the back-reference of slots still pointing at itemID
func (p Pipeline) releaseSlots(ctx context.Context, itemID primitive.ObjectID, ids []primitive.ObjectID) {
	for _, id := range ids {
		err := p.SlotDB.UpdateOne(ctx, bson.M{"_id": id, "pipelineItemId": itemID}, bson.M{"$unset": bson.M{"pipelineItemId": ""}})
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			api.Logger(ctx).With("error", err).Warnw("failed to unlink slot", "slotId", id.Hex())
		}
	}
}

// droppedSlots lists the slots linked before an update but not after it
func droppedSlots(before, after map[models.SlotKind]*primitive.ObjectID) []primitive.ObjectID {
	var out []primitive.ObjectID
	for kind, prev := range before {
		if prev != nil && !sameID(prev, after[kind]) {
			out = append(out, *prev)
		}
	}
	return out
}

func sameID(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ListSlotsHandler returns the organization's slots in schedule order. It accepts modelId,
// kind, and an RFC 3339 from/to window.
func (p Pipeline) ListSlotsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	filter, ok := pipelineFilter(w, r, who)
	if !ok {
		return
	}
	q := r.URL.Query()
	if kind := models.SlotKind(q.Get("kind")); kind != "" {
		if _, known := slotFields[kind]; !known {
			config.ErrorStatus("invalid kind", http.StatusBadRequest, w, nil)
			return
		}
		filter["kind"] = kind
	}
	window := bson.M{}
	for param, op := range map[string]string{"from": "$gte", "to": "$lt"} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			config.ErrorStatus("invalid "+param, http.StatusBadRequest, w, err)
			return
		}
		window[op] = t.UTC()
	}
	if len(window) > 0 {
		filter["scheduledFor"] = window
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	slots, err := p.SlotDB.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "scheduledFor", Value: 1}}).SetLimit(500))
	if err != nil {
		config.ErrorStatus("failed to get slots", http.StatusInternalServerError, w, err)
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	config.WriteJSON(w, http.StatusOK, slots)
}

// CreateSlotHandler reserves a slot for a model
func (p Pipeline) CreateSlotHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreateSlotRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	modelID, _ := primitive.ObjectIDFromHex(req.ModelID)
	if _, err := p.ModelDB.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": modelID}, visibleTo(who)}}); err != nil {
		dbError(w, "failed to get model for slot", err)
		return
	}
	slot := models.Slot{
		ID:             primitive.NewObjectID(),
		OrganizationID: who.OrganizationID,
		ModelID:        modelID,
		Kind:           req.Kind,
		ScheduledFor:   req.ScheduledFor.UTC(),
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := p.SlotDB.InsertOne(ctx, slot); err != nil {
		config.ErrorStatus("failed to create slot", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusCreated, slot)
}

// DeleteSlotHandler removes a slot and unlinks it from its pipeline item
func (p Pipeline) DeleteSlotHandler(w http.ResponseWriter, r *http.Request) {
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

	slot, err := p.SlotDB.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get slot by ID", err)
		return
	}
	if err := p.SlotDB.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		dbError(w, "failed to delete slot", err)
		return
	}
	if slot.PipelineItemID != nil {
		field := slotFields[slot.Kind]
		_, err := p.DB.FindOneAndUpdate(ctx, bson.M{"_id": *slot.PipelineItemID, field: id}, bson.M{"$unset": bson.M{field: ""}})
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			api.Logger(ctx).With("error", err).Warnw("failed to unlink pipeline item", "slotId", id.Hex())
		}
	}
	config.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}
