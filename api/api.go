package api

import (
	"context"
	"strings"

	"github.com/shaj13/go-guardian/auth"
)

// RoleAdmin is the organization role allowed on /api/admin routes
const RoleAdmin = "admin"

const (
	orgGroupPrefix  = "org:"
	roleGroupPrefix = "role:"
)

// Identity is the authenticated caller of a request
type Identity struct {
	UserID         string
	Name           string
	OrganizationID string
	Role           string
}

// IsAdmin reports whether the caller administers their organization
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Info converts the identity into the go-guardian user cached against a token.
// Organization and role travel as prefixed groups.
func (i Identity) Info() auth.Info {
	return auth.NewDefaultUser(i.Name, i.UserID, []string{
		orgGroupPrefix + i.OrganizationID,
		roleGroupPrefix + i.Role,
	}, nil)
}

// IdentityFromInfo reverses Identity.Info
func IdentityFromInfo(info auth.Info) Identity {
	id := Identity{UserID: info.ID(), Name: info.UserName()}
	for _, g := range info.Groups() {
		switch {
		case strings.HasPrefix(g, orgGroupPrefix):
			id.OrganizationID = strings.TrimPrefix(g, orgGroupPrefix)
		case strings.HasPrefix(g, roleGroupPrefix):
			id.Role = strings.TrimPrefix(g, roleGroupPrefix)
		}
	}
	return id
}

type identityKey struct{}

// WithIdentity stores the caller on ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored by the auth middleware
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
