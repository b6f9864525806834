package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/api/handlers"
	"github.com/linesmerrill/studio-api/api/testhelpers"
	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/models"
)

func TestJobHub_LatestValueWins(t *testing.T) {
	hub := handlers.NewJobHub()
	id := primitive.NewObjectID()
	updates, cancel := hub.Subscribe(id.Hex())

	hub.JobUpdated(models.Job{ID: id, Processed: 1})
	hub.JobUpdated(models.Job{ID: id, Processed: 2})
	hub.JobUpdated(models.Job{ID: primitive.NewObjectID(), Processed: 9})

	got := <-updates
	assert.Equal(t, 2, got.Processed)
	select {
	case extra := <-updates:
		t.Fatalf("unexpected update %+v", extra)
	default:
	}

	assert.Equal(t, 1, hub.Subscribers(id.Hex()))
	cancel()
	assert.Equal(t, 0, hub.Subscribers(id.Hex()))
}

type streamEvent struct {
	Event string     `json:"event"`
	Data  models.Job `json:"data"`
}

func startJobStream(t *testing.T, j handlers.Job) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/api/jobs/{id}/stream", func(w http.ResponseWriter, req *http.Request) {
		j.JobStreamHandler(w, testhelpers.AsCaller(req, testhelpers.Admin))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialJobStream(t *testing.T, srv *httptest.Server, id primitive.ObjectID) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/jobs/" + id.Hex() + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestJobStream_PushesUntilDone(t *testing.T) {
	db := mocks.NewJobDatabase(t)
	hub := handlers.NewJobHub()
	id := primitive.NewObjectID()
	started := time.Now().UTC()
	db.On("FindOne", mock.Anything, bson.M{"_id": id, "organizationId": "org_1"}).
		Return(&models.Job{ID: id, Status: models.JobRunning, Total: 2, UpdatedAt: started}, nil)
	srv := startJobStream(t, handlers.Job{DB: db, Hub: hub})

	conn := dialJobStream(t, srv, id)

	var first streamEvent
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "job_updated", first.Event)
	assert.Equal(t, models.JobRunning, first.Data.Status)

	// stale updates are skipped
	hub.JobUpdated(models.Job{ID: id, Status: models.JobRunning, Processed: 0, UpdatedAt: started.Add(-time.Second)})
	hub.JobUpdated(models.Job{ID: id, Status: models.JobCompleted, Total: 2, Processed: 2, UpdatedAt: started.Add(time.Second)})

	var last streamEvent
	require.NoError(t, conn.ReadJSON(&last))
	assert.Equal(t, models.JobCompleted, last.Data.Status)
	assert.Equal(t, 2, last.Data.Processed)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestJobStream_FinishedJobClosesImmediately(t *testing.T) {
	db := mocks.NewJobDatabase(t)
	id := primitive.NewObjectID()
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.Job{ID: id, Status: models.JobFailed}, nil)
	srv := startJobStream(t, handlers.Job{DB: db, Hub: handlers.NewJobHub()})

	conn := dialJobStream(t, srv, id)

	var only streamEvent
	require.NoError(t, conn.ReadJSON(&only))
	assert.Equal(t, models.JobFailed, only.Data.Status)
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestJobStream_UnknownJob(t *testing.T) {
	db := mocks.NewJobDatabase(t)
	hub := handlers.NewJobHub()
	id := primitive.NewObjectID()
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	srv := startJobStream(t, handlers.Job{DB: db, Hub: hub})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/jobs/" + id.Hex() + "/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, hub.Subscribers(id.Hex()))
}

func TestJobHandler(t *testing.T) {
	db := mocks.NewJobDatabase(t)
	id := primitive.NewObjectID()
	db.On("FindOne", mock.Anything, bson.M{"_id": id, "organizationId": "org_1"}).
		Return(&models.Job{ID: id, Kind: models.JobBulkDelete, Status: models.JobCompleted, Total: 3, Processed: 3}, nil)

	var job models.Job
	code, _ := serve(t, handlers.Job{DB: db}.JobHandler, request(t, http.MethodGet, "/api/jobs/x", testhelpers.Admin,
		map[string]string{"id": id.Hex()}, nil), &job)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.JobBulkDelete, job.Kind)
	assert.Equal(t, 3, job.Processed)
}
