package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/models"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = pingPeriod + 10*time.Second
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the stream is authenticated with the session token
	},
}

// JobHub fans job updates out to the websocket subscribers of each job
type JobHub struct {
	mutex sync.Mutex
	subs  map[string]map[chan models.Job]struct{}
}

// NewJobHub creates an empty hub
func NewJobHub() *JobHub {
	return &JobHub{subs: make(map[string]map[chan models.Job]struct{})}
}

// Subscribe registers for updates of jobID. The returned cancel func must be called once.
func (h *JobHub) Subscribe(jobID string) (<-chan models.Job, func()) {
	ch := make(chan models.Job, 1)
	h.mutex.Lock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = make(map[chan models.Job]struct{})
	}
	h.subs[jobID][ch] = struct{}{}
	h.mutex.Unlock()

	return ch, func() {
		h.mutex.Lock()
		delete(h.subs[jobID], ch)
		if len(h.subs[jobID]) == 0 {
			delete(h.subs, jobID)
		}
		h.mutex.Unlock()
	}
}

// Subscribers reports how many streams follow jobID
func (h *JobHub) Subscribers(jobID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.subs[jobID])
}

// JobUpdated delivers job to its subscribers without blocking. A slow subscriber only ever
// sees the latest state.
func (h *JobHub) JobUpdated(job models.Job) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for ch := range h.subs[job.ID.Hex()] {
		select {
		case <-ch:
		default:
		}
		ch <- job
	}
}

// Job serves background job status
type Job struct {
	DB  databases.JobDatabase
	Hub *JobHub
}

func (j Job) find(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	who, ok := caller(w, r)
	if !ok {
		return nil, false
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return nil, false
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	job, err := j.DB.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get job by ID", err)
		return nil, false
	}
	return job, true
}

// JobHandler returns the current state of a job
func (j Job) JobHandler(w http.ResponseWriter, r *http.Request) {
	job, ok := j.find(w, r)
	if !ok {
		return
	}
	config.WriteJSON(w, http.StatusOK, job)
}

// JobStreamHandler upgrades to a websocket and pushes every update of the job until it is done
func (j Job) JobStreamHandler(w http.ResponseWriter, r *http.Request) {
	// subscribe before the read so no transition slips between the read and the stream
	updates, unsubscribe := j.Hub.Subscribe(mux.Vars(r)["id"])
	defer unsubscribe()
	job, ok := j.find(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		api.Logger(r.Context()).With("error", err).Warnw("websocket upgrade error", "jobId", job.ID.Hex())
		return
	}
	defer conn.Close()
	log := api.Logger(r.Context()).With("jobId", job.ID.Hex())
	log.Debug("job stream connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	var last time.Time
	send := func(job models.Job) bool {
		if job.UpdatedAt.Before(last) {
			return true
		}
		last = job.UpdatedAt
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteJSON(map[string]interface{}{"event": "job_updated", "data": job})
		if err != nil {
			log.With("error", err).Debug("job stream write failed")
			return false
		}
		return true
	}

	if !send(*job) || job.Status.Done() {
		closeStream(conn)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case update := <-updates:
			if !send(update) {
				return
			}
			if update.Status.Done() {
				closeStream(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			log.Debug("job stream disconnected")
			return
		}
	}
}

func closeStream(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"),
		time.Now().Add(writeWait))
}
