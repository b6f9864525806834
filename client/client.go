// Package client is a typed Go client for the studio api
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/linesmerrill/studio-api/models"
)

// DefaultTimeout bounds a single request when the caller does not supply an http.Client
const DefaultTimeout = 30 * time.Second

// Client talks to the studio api. Token is sent as a bearer token when set.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a client for baseURL authenticating with token
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
}

// APIError is returned for every non-2xx response
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("studio api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("studio api: HTTP %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an *APIError
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Page is one page of a list endpoint
type Page[T any] struct {
	Items      []T
	Pagination models.Pagination
}

// ListOptions are the query parameters shared by list endpoints. Zero values are omitted.
type ListOptions struct {
	Page    int
	Limit   int
	Q       string
	Status  string
	Sort    string
	ModelID string
	Kind    string
	From    time.Time
	To      time.Time
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	for key, val := range map[string]string{"q": o.Q, "status": o.Status, "sort": o.Sort, "modelId": o.ModelID, "kind": o.Kind} {
		if val != "" {
			v.Set(key, val)
		}
	}
	if !o.From.IsZero() {
		v.Set("from", o.From.UTC().Format(time.RFC3339))
	}
	if !o.To.IsZero() {
		v.Set("to", o.To.UTC().Format(time.RFC3339))
	}
	return v
}

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Error      string             `json:"error"`
	Details    string             `json:"details"`
	Pagination *models.Pagination `json:"pagination"`
}

type requestOption func(*http.Request)

func withBasicAuth(user, pass string) requestOption {
	return func(r *http.Request) {
		r.Header.Del("Authorization")
		r.SetBasicAuth(user, pass)
	}
}

func withContentType(ct string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Content-Type", ct)
	}
}

// do sends a request and decodes the envelope's data into out. body may be an io.Reader, which
// is sent as is, or any value, which is JSON encoded.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, opts ...requestOption) (*models.Pagination, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for _, opt := range opts {
		opt(req)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Error, Details: env.Details}
		if decodeErr != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
	}
	return env.Pagination, nil
}

func list[T any](ctx context.Context, c *Client, path string, opts ListOptions) (Page[T], error) {
	var page Page[T]
	p, err := c.do(ctx, http.MethodGet, path, opts.values(), nil, &page.Items)
	if err != nil {
		return page, err
	}
	if p != nil {
		page.Pagination = *p
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

func get[T any](ctx context.Context, c *Client, method, path string, body interface{}) (T, error) {
	var out T
	_, err := c.do(ctx, method, path, nil, body, &out)
	return out, err
}

func escape(segment string) string {
	return url.PathEscape(segment)
}

// Deleted is the body of delete endpoints
type Deleted struct {
	ID      string `json:"id"`
	Deleted int64  `json:"deleted,omitempty"`
}

// Token is an issued api client bearer token
type Token struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
}

// CreateToken exchanges api client credentials for a bearer token. The client's Token is left
// unchanged.
func (c *Client) CreateToken(ctx context.Context, clientID, secret string) (Token, error) {
	var t Token
	_, err := c.do(ctx, http.MethodPost, "/api/auth/token", nil, nil, &t, withBasicAuth(clientID, secret))
	return t, err
}

// RevokeToken revokes the client's current bearer token
func (c *Client) RevokeToken(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/auth/token", nil, nil, nil)
	return err
}

// Health reports whether the server answers /health
func (c *Client) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false, err
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	var body models.HealthCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Alive, nil
}
