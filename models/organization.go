package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is an agency tenant. Its id is the identity provider's organization id.
type Organization struct {
	ID        string    `json:"id" bson:"_id" yaml:"id"`
	Name      string    `json:"name" bson:"name" yaml:"name"`
	Slug      string    `json:"slug" bson:"slug" yaml:"slug"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" yaml:"-"`
}

// Creator is a dashboard user who works on models for an organization
type Creator struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty" yaml:"-"`
	UserID         string             `json:"userId" bson:"userId" yaml:"userId"`
	OrganizationID string             `json:"organizationId" bson:"organizationId" yaml:"organizationId"`
	Name           string             `json:"name" bson:"name" yaml:"name"`
	Email          string             `json:"email" bson:"email" yaml:"email"`
	Role           string             `json:"role" bson:"role" yaml:"role"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" yaml:"-"`
}

// APIClient is a machine credential exchanged for a bearer token at /api/auth/token
type APIClient struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ClientID       string             `json:"clientId" bson:"clientId"`
	Name           string             `json:"name" bson:"name"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	SecretHash     string             `json:"-" bson:"secretHash"`
	Role           string             `json:"role" bson:"role"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// SchedulerLock guards a cron job across instances
type SchedulerLock struct {
	Name      string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	ExpiresAt time.Time `bson:"expiresAt"`
}
