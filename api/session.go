package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by a dashboard session token
type SessionClaims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	OrgID   string `json:"org_id"`
	OrgRole string `json:"org_role"`
	jwt.RegisteredClaims
}

// Identity maps the claims onto the request identity. Roles may arrive as "org:admin".
func (c SessionClaims) Identity() Identity {
	name := c.Name
	if name == "" {
		name = c.Email
	}
	return Identity{
		UserID:         c.Subject,
		Name:           name,
		OrganizationID: c.OrgID,
		Role:           strings.TrimPrefix(c.OrgRole, "org:"),
	}
}

// SessionVerifier validates session tokens issued by the identity provider
type SessionVerifier struct {
	key     interface{}
	methods []string
}

// NewSessionVerifier prefers an RS256 public key and falls back to an HS256 shared secret
func NewSessionVerifier(publicKeyPEM, secret string) (*SessionVerifier, error) {
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse session public key: %w", err)
		}
		return &SessionVerifier{key: key, methods: []string{jwt.SigningMethodRS256.Alg()}}, nil
	}
	if secret != "" {
		return &SessionVerifier{key: []byte(secret), methods: []string{jwt.SigningMethodHS256.Alg()}}, nil
	}
	return nil, errors.New("either SESSION_JWT_PUBLIC_KEY or SESSION_JWT_SECRET must be set")
}

// Verify parses and validates token. The subject and organization claims are required.
func (v *SessionVerifier) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("session token has no subject")
	}
	if claims.OrgID == "" {
		return nil, errors.New("session token has no active organization")
	}
	return claims, nil
}
