package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
)

// APITokenStrategyKey holds the bearer tokens handed to api clients by CreateToken
const APITokenStrategyKey = auth.StrategyKey("studio.api-token")

// APITokenTTL is how long a token issued by CreateToken stays valid
const APITokenTTL = 24 * time.Hour

// Authenticator resolves the caller of every protected route. Session tokens are verified
// once and cached for the session cache ttl; api client tokens live in their own cache.
type Authenticator struct {
	Clients  databases.APIClientDatabase
	Sessions *SessionVerifier

	authenticator auth.Authenticator
	tokens        auth.Strategy
	basic         auth.Strategy
}

// NewAuthenticator sets up the go-guardian strategies
func NewAuthenticator(ctx context.Context, clients databases.APIClientDatabase, sessions *SessionVerifier, sessionTTL time.Duration) *Authenticator {
	a := &Authenticator{Clients: clients, Sessions: sessions}

	a.tokens = bearer.New(bearer.NoOpAuthenticate, store.NewFIFO(ctx, APITokenTTL))
	a.basic = basic.New(a.ValidateClient, store.NewFIFO(ctx, time.Minute))

	a.authenticator = auth.New()
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(a.verifySession, store.NewFIFO(ctx, sessionTTL)))
	a.authenticator.EnableStrategy(APITokenStrategyKey, a.tokens)
	return a
}

// Middleware rejects unauthenticated requests and stores the caller's Identity on the context
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// browsers cannot set headers on a websocket handshake
		if r.Header.Get("Authorization") == "" && websocket.IsWebSocketUpgrade(r) {
			if token := r.URL.Query().Get("access_token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		info, err := a.authenticator.Authenticate(r)
		if err != nil {
			Logger(r.Context()).Debugw("unauthorized", "url", r.URL.Path, "error", err)
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		id := IdentityFromInfo(info)
		if id.OrganizationID == "" {
			config.ErrorStatus("no active organization", http.StatusForbidden, w, errors.New("caller has no organization"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin allows only organization admins through. It must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || !id.IsAdmin() {
			config.ErrorStatus("admin access required", http.StatusForbidden, w, fmt.Errorf("role %q is not admin", id.Role))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) verifySession(_ context.Context, _ *http.Request, token string) (auth.Info, error) {
	if a.Sessions == nil {
		return nil, errors.New("session tokens are not configured")
	}
	claims, err := a.Sessions.Verify(token)
	if err != nil {
		return nil, err
	}
	return claims.Identity().Info(), nil
}

// CreateToken exchanges api client basic credentials for a bearer token
func (a *Authenticator) CreateToken(w http.ResponseWriter, r *http.Request) {
	info, err := a.basic.Authenticate(r.Context(), r)
	if err != nil {
		config.ErrorStatus("invalid client credentials", http.StatusUnauthorized, w, err)
		return
	}

	token := uuid.New().String()
	if err := auth.Append(a.tokens, token, info, r); err != nil {
		config.ErrorStatus("failed to issue token", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("issued api token", "clientId", info.UserName())

	config.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"token":     token,
		"tokenType": "Bearer",
		"expiresIn": int(APITokenTTL.Seconds()),
	})
}

// RevokeToken drops the bearer token used on the request
func (a *Authenticator) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if token == "" {
		config.ErrorStatus("missing bearer token", http.StatusBadRequest, w, errors.New("no Authorization header"))
		return
	}
	if err := auth.Revoke(a.tokens, token, r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

// ValidateClient checks api client credentials against the bcrypt hash on record
func (a *Authenticator) ValidateClient(ctx context.Context, _ *http.Request, clientID, secret string) (auth.Info, error) {
	ctx, cancel := WithQueryTimeout(ctx)
	defer cancel()

	client, err := a.Clients.FindOne(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, fmt.Errorf("no matching client found")
	}

	given := sha256.Sum256([]byte(clientID))
	stored := sha256.Sum256([]byte(client.ClientID))
	if subtle.ConstantTimeCompare(given[:], stored[:]) != 1 {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return Identity{
		UserID:         "client_" + client.ID.Hex(),
		Name:           client.ClientID,
		OrganizationID: client.OrganizationID,
		Role:           client.Role,
	}.Info(), nil
}
