package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationStatus is derived from an invitation's fields, it is never stored
type InvitationStatus string

// Invitation statuses
const (
	InvitationActive  InvitationStatus = "active"
	InvitationRevoked InvitationStatus = "revoked"
	InvitationExpired InvitationStatus = "expired"
	InvitationUsedUp  InvitationStatus = "used-up"
)

// Invitation is an onboarding link that lets a model fill in their own profile
type Invitation struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	Token          string             `json:"token" bson:"token" index:"unique"`
	Label          string             `json:"label,omitempty" bson:"label,omitempty"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	ExpiresAt      time.Time          `json:"expiresAt" bson:"expiresAt"`
	MaxUses        int                `json:"maxUses" bson:"maxUses"`
	UsedCount      int                `json:"usedCount" bson:"usedCount"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	CreatedBy      string             `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastUsedAt     *time.Time         `json:"lastUsedAt,omitempty" bson:"lastUsedAt,omitempty"`
}

// Status resolves the invitation's status at now. The checks run in priority order:
// revoked, then expired, then used-up.
func (i Invitation) Status(now time.Time) InvitationStatus {
	switch {
	case !i.IsActive:
		return InvitationRevoked
	case i.ExpiresAt.Before(now):
		return InvitationExpired
	case i.UsedCount >= i.MaxUses:
		return InvitationUsedUp
	default:
		return InvitationActive
	}
}

// InvitationView is an invitation as returned by the API, with its status and link
type InvitationView struct {
	Invitation
	Status InvitationStatus `json:"status"`
	Link   string           `json:"link"`
}

// NewInvitationView derives the view of inv at now
func NewInvitationView(inv Invitation, baseURL string, now time.Time) InvitationView {
	return InvitationView{
		Invitation: inv,
		Status:     inv.Status(now),
		Link:       baseURL + "/onboarding/" + inv.Token,
	}
}

// PublicInvitation is what an unauthenticated visitor sees for a token
type PublicInvitation struct {
	Label     string           `json:"label,omitempty"`
	Status    InvitationStatus `json:"status"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// --- Request DTOs ---

// CreateInvitationRequest is the request body for a new onboarding link
type CreateInvitationRequest struct {
	Label        string `json:"label" validate:"max=120" yaml:"label"`
	Email        string `json:"email" validate:"omitempty,email" yaml:"email"`
	ExpiresInHrs int    `json:"expiresInHours" validate:"omitempty,min=1,max=8760" yaml:"expiresInHours"`
	MaxUses      int    `json:"maxUses" validate:"omitempty,min=1,max=1000" yaml:"maxUses"`
}

// UpdateInvitationRequest patches an invitation (revoke/reactivate, extend, cap)
type UpdateInvitationRequest struct {
	Label     *string    `json:"label,omitempty" validate:"omitempty,max=120"`
	IsActive  *bool      `json:"isActive,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	MaxUses   *int       `json:"maxUses,omitempty" validate:"omitempty,min=1,max=1000"`
}

// RedeemInvitationRequest is the profile a model submits through an onboarding link
type RedeemInvitationRequest struct {
	Name            string      `json:"name" validate:"required,min=2,max=80"`
	DisplayName     string      `json:"displayName" validate:"omitempty,max=80"`
	Bio             string      `json:"bio" validate:"max=1000"`
	ProfileImageURL string      `json:"profileImageUrl" validate:"omitempty,url"`
	SocialLinks     SocialLinks `json:"socialLinks"`
}
