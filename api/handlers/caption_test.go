package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/api/handlers"
	"github.com/linesmerrill/studio-api/api/testhelpers"
	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

func TestCaptionAnalytics(t *testing.T) {
	db, modelDB := mocks.NewCaptionDatabase(t), mocks.NewOFModelDatabase(t)
	h := handlers.Caption{DB: db, ModelDB: modelDB, Events: &events.Recorder{}}
	modelID := primitive.NewObjectID()
	modelDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.OFModel{ID: modelID}, nil)
	db.On("Find", mock.Anything, bson.M{"modelId": modelID, "organizationId": "org_1"}).Return([]models.Caption{
		{Text: "a", UsageCount: 4, TotalRevenue: 40, ContentTypes: []string{"ppv"}},
		{Text: "b", UsageCount: 1, TotalRevenue: 10, ContentTypes: []string{"ppv", "tease"}},
	}, nil)

	var analytics models.CaptionAnalytics
	code, _ := serve(t, h.CaptionAnalyticsHandler, request(t, http.MethodGet, "/analytics", testhelpers.Member,
		map[string]string{"id": modelID.Hex()}, nil), &analytics)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, analytics.TotalCaptions)
	assert.Equal(t, int64(5), analytics.TotalUsage)
	assert.Equal(t, 50.0, analytics.TotalRevenue)
	assert.Equal(t, 10.0, analytics.AverageRevenuePerUse)
	assert.Equal(t, 50.0, analytics.RevenueByContentType["ppv"])
	assert.Equal(t, "a", analytics.TopCaptions[0].Text)
}

func TestCaptionAnalytics_ModelNotVisible(t *testing.T) {
	db, modelDB := mocks.NewCaptionDatabase(t), mocks.NewOFModelDatabase(t)
	h := handlers.Caption{DB: db, ModelDB: modelDB, Events: &events.Recorder{}}
	modelDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	code, _ := serve(t, h.CaptionAnalyticsHandler, request(t, http.MethodGet, "/analytics", testhelpers.Member,
		map[string]string{"id": primitive.NewObjectID().Hex()}, nil), nil)

	assert.Equal(t, http.StatusNotFound, code)
}

func TestRecordCaptionUsage(t *testing.T) {
	db := mocks.NewCaptionDatabase(t)
	rec := &events.Recorder{}
	h := handlers.Caption{DB: db, Events: rec}
	caption := &models.Caption{ID: primitive.NewObjectID(), ModelID: primitive.NewObjectID(), UsageCount: 2, TotalRevenue: 20}
	db.On("FindOne", mock.Anything, bson.M{"_id": caption.ID, "organizationId": "org_1"}).Return(caption, nil)
	db.On("RecordUsage", mock.Anything, mock.MatchedBy(func(u models.CaptionUsage) bool {
		return u.CaptionID == caption.ID && u.ModelID == caption.ModelID && u.Revenue == 12.5 && u.UsedBy == "user_member"
	})).Return(&models.Caption{ID: caption.ID, UsageCount: 3, TotalRevenue: 32.5}, nil)

	var updated models.Caption
	code, _ := serve(t, h.RecordUsageHandler, request(t, http.MethodPost, "/use", testhelpers.Member,
		map[string]string{"id": caption.ID.Hex()}, models.RecordCaptionUsageRequest{Revenue: 12.5}), &updated)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), updated.UsageCount)
	assert.Equal(t, 32.5, updated.TotalRevenue)
	assert.Equal(t, []string{events.CaptionUsed}, rec.Subjects())
}

func TestRecordCaptionUsage_NegativeRevenue(t *testing.T) {
	h := handlers.Caption{DB: mocks.NewCaptionDatabase(t), Events: &events.Recorder{}}
	code, env := serve(t, h.RecordUsageHandler, request(t, http.MethodPost, "/use", testhelpers.Member,
		map[string]string{"id": primitive.NewObjectID().Hex()}, models.RecordCaptionUsageRequest{Revenue: -1}), nil)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid revenue: failed gte", env.Error)
}

func TestListCaptions_SortAndFilters(t *testing.T) {
	db, modelDB := mocks.NewCaptionDatabase(t), mocks.NewOFModelDatabase(t)
	h := handlers.Caption{DB: db, ModelDB: modelDB, Events: &events.Recorder{}}
	modelID := primitive.NewObjectID()
	modelDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.OFModel{ID: modelID}, nil)
	filter := bson.M{"modelId": modelID, "organizationId": "org_1", "contentTypes": "ppv"}
	db.On("CountDocuments", mock.Anything, filter).Return(int64(0), nil)
	db.On("Find", mock.Anything, filter, mock.Anything).Return(nil, nil)

	var captions []models.Caption
	code, env := serve(t, h.ListCaptionsHandler, request(t, http.MethodGet, "/captions?contentType=ppv&sort=revenue", testhelpers.Member,
		map[string]string{"id": modelID.Hex()}, nil), &captions)

	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, captions)
	assert.Empty(t, captions)
	assert.Equal(t, "[]", string(env.Data))
}
