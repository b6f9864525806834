package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/api/testhelpers"
	"github.com/linesmerrill/studio-api/models"
)

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Error      string             `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

// anonymous is the zero identity used for public routes
var anonymous api.Identity

// request builds a request from who with the given mux vars and optional json body
func request(t *testing.T, method, target string, who api.Identity, vars map[string]string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req = testhelpers.AsCaller(req, who)
	if vars != nil {
		req = testhelpers.WithVars(req, vars)
	}
	return req
}

// serve runs handler and decodes the envelope, unmarshalling data into out when given
func serve(t *testing.T, handler http.HandlerFunc, req *http.Request, out interface{}) (int, envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	handler(rr, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if out != nil && env.Success {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return rr.Code, env
}
