package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/studio-api/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "session-token")
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, p *models.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data, Pagination: p})
}

func TestListModelsSendsQueryAndDecodesPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/of-models", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "luna", q.Get("q"))
		assert.Equal(t, "ACTIVE", q.Get("status"))
		assert.Empty(t, q.Get("limit"))

		p := models.NewPagination(2, 12, 13)
		writeEnvelope(w, http.StatusOK, []models.OFModel{{Name: "Luna"}}, &p)
	})

	page, err := c.ListModels(context.Background(), ListOptions{Page: 2, Q: "luna", Status: "ACTIVE"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Luna", page.Items[0].Name)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasPrevPage)
	assert.False(t, page.Pagination.HasNextPage)
}

func TestEmptyListIsNotNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		p := models.NewPagination(1, 12, 0)
		writeEnvelope(w, http.StatusOK, nil, &p)
	})

	page, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.ErrorMessageResponse{Error: "like already in progress", Details: "busy"})
	})

	_, err := c.LikePost(context.Background(), "65f000000000000000000001", true)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "like already in progress", apiErr.Message)
	assert.Equal(t, "busy", apiErr.Details)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.Equal(t, "studio api: HTTP 409: like already in progress", err.Error())
}

func TestNonJSONErrorKeepsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.GetJob(context.Background(), "job")
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestToggleMethods(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		writeEnvelope(w, http.StatusOK, models.ToggleResult{Active: r.Method == http.MethodPost, Count: 1}, nil)
	})

	ctx := context.Background()
	res, err := c.BookmarkPost(ctx, "p1", true)
	require.NoError(t, err)
	assert.True(t, res.Active)
	res, err = c.BookmarkPost(ctx, "p1", false)
	require.NoError(t, err)
	assert.False(t, res.Active)
	_, err = c.LikeComment(ctx, "c1", false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/feed/posts/p1/bookmark",
		"DELETE /api/feed/posts/p1/bookmark",
		"DELETE /api/feed/comments/c1/like",
	}, seen)
}

func TestCreateTokenUsesBasicAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-1", user)
		assert.Equal(t, "s3cret", pass)
		writeEnvelope(w, http.StatusCreated, Token{Token: "abc", TokenType: "Bearer", ExpiresIn: 3600}, nil)
	})

	tok, err := c.CreateToken(context.Background(), "client-1", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.Token)
	assert.Equal(t, "session-token", c.Token)
}

func TestCreateInvitationSendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req models.CreateInvitationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.MaxUses)
		writeEnvelope(w, http.StatusCreated, models.InvitationView{
			Invitation: models.Invitation{Token: "tok", MaxUses: 3, IsActive: true},
			Status:     models.InvitationActive,
		}, nil)
	})

	view, err := c.CreateInvitation(context.Background(), models.CreateInvitationRequest{MaxUses: 3})
	require.NoError(t, err)
	assert.Equal(t, models.InvitationActive, view.Status)
	assert.Equal(t, "tok", view.Token)
}

func TestUploadMediaSendsMultipartPart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "clip.mp4", header.Filename)
		assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))
		assert.Equal(t, "frames", string(body))
		writeEnvelope(w, http.StatusCreated, models.Media{URL: "https://cdn/clip.mp4", ResourceType: "video"}, nil)
	})

	media, err := c.UploadMedia(context.Background(), "clip.mp4", "video/mp4", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, "video", media.ResourceType)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.HealthCheckResponse{Alive: true})
	})

	alive, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, alive)
}
