package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/studio-api/api"
)

func TestTimeoutMiddleware_PassesThrough(t *testing.T) {
	h := api.TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "ok")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "yes", rr.Header().Get("X-Test"))
	assert.Equal(t, "ok", rr.Body.String())
}

func TestTimeoutMiddleware_TimesOut(t *testing.T) {
	h := api.TimeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		_, _ = io.WriteString(w, "too late")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotContains(t, rr.Body.String(), "too late")
}

func TestTimeoutMiddleware_UnsetTimeoutUsesDefault(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		h := api.TimeoutMiddleware(timeout)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, ok := r.Context().Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(api.DefaultRequestTimeout), deadline, 5*time.Second)
			_, _ = io.WriteString(w, "ok")
		}))
		for i := 0; i < 5; i++ {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rr.Code, "timeout %s", timeout)
			assert.Equal(t, "ok", rr.Body.String())
		}
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	var seen string
	h := api.RequestLogger(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = api.RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(api.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	m := api.NewMetrics()
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/of-models/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/of-models/123", nil))
	m.Toggle("like", "on")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `studio_http_requests_total{code="404",method="GET",route="/api/of-models/{id}"} 1`), body)
	assert.Contains(t, body, `studio_feed_toggles_total{kind="like",outcome="on"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *api.Metrics
	assert.NotPanics(t, func() {
		m.Toggle("like", "on")
		m.JobFinished("bulk_delete", "completed")
		m.InvitationRedeemed()
	})
}
