package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/api/testhelpers"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func withSessions(t *testing.T) {
	sessions, err := api.NewSessionVerifier("", testhelpers.SessionSecret)
	require.NoError(t, err)
	a.Auth = api.NewAuthenticator(context.Background(), nil, sessions, time.Minute)
	a.Router = a.New()
}

func TestUnknownRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	a.Router = a.New()
	executeRequest(httptest.NewRequest("GET", "/api/of-models", nil))

	response := executeRequest(httptest.NewRequest("GET", "/metrics", nil))

	checkResponseCode(t, http.StatusOK, response.Code)
	if !strings.Contains(response.Body.String(), `studio_http_requests_total{code="401",method="GET",route="/api/of-models"}`) {
		t.Errorf("Expected the request to be counted by route template. Got '%s'", response.Body.String())
	}
}

func TestApp_ModelsUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/of-models", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_ModelsInvalidToken(t *testing.T) {
	withSessions(t)
	req, _ := http.NewRequest("GET", "/api/of-models", nil)
	req.Header.Add("Authorization", "Bearer asdfasdf")
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)

	var m map[string]interface{}
	_ = json.Unmarshal(response.Body.Bytes(), &m)
	if m["error"] != "unauthorized" {
		t.Errorf("Expected the 'error' key of the reponse to be set to 'unauthorized'. Got '%v'", m["error"])
	}
}

func TestApp_AdminRouteForbiddenForMembers(t *testing.T) {
	withSessions(t)
	req, _ := http.NewRequest("GET", "/api/admin/models", nil)
	req.Header.Add("Authorization", "Bearer "+testhelpers.SessionToken(t, testhelpers.Member, time.Hour))
	response := executeRequest(req)

	checkResponseCode(t, http.StatusForbidden, response.Code)
}

func TestApp_ExpiredSession(t *testing.T) {
	withSessions(t)
	req, _ := http.NewRequest("GET", "/api/admin/models", nil)
	req.Header.Add("Authorization", "Bearer "+testhelpers.SessionToken(t, testhelpers.Admin, -time.Minute))
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_StreamRequiresAuth(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/jobs/5f1b2c3d4e5f6a7b8c9d0e1f/stream", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_ZeroConfigGetsDefaults(t *testing.T) {
	var zero App
	zero.Router = zero.New()

	require.Equal(t, 30*time.Second, zero.Config.RequestTimeout)
	require.Equal(t, time.Minute, zero.Config.SessionCacheTTL)

	req, _ := http.NewRequest("GET", "/api/of-models", nil)
	rr := httptest.NewRecorder()
	zero.Router.ServeHTTP(rr, req)
	checkResponseCode(t, http.StatusUnauthorized, rr.Code)
}
