package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModelStatus is the lifecycle tag of a model profile
type ModelStatus string

// Model profile statuses
const (
	ModelStatusActive   ModelStatus = "ACTIVE"
	ModelStatusInactive ModelStatus = "INACTIVE"
	ModelStatusPending  ModelStatus = "PENDING"
	ModelStatusArchived ModelStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known model statuses
func (s ModelStatus) Valid() bool {
	switch s {
	case ModelStatusActive, ModelStatusInactive, ModelStatusPending, ModelStatusArchived:
		return true
	}
	return false
}

// OFModel is a creator model profile managed by an agency organization
type OFModel struct {
	ID                    primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrganizationID        string              `json:"organizationId" bson:"organizationId"`
	Name                  string              `json:"name" bson:"name"`
	DisplayName           string              `json:"displayName" bson:"displayName"`
	Slug                  string              `json:"slug" bson:"slug"`
	Status                ModelStatus         `json:"status" bson:"status"`
	Bio                   string              `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfileImageURL       string              `json:"profileImageUrl,omitempty" bson:"profileImageUrl,omitempty"`
	SocialLinks           SocialLinks         `json:"socialLinks" bson:"socialLinks"`
	CreatorIDs            []string            `json:"creatorIds" bson:"creatorIds"`
	SharedOrganizationIDs []string            `json:"sharedOrganizationIds" bson:"sharedOrganizationIds"`
	Counts                ModelCounts         `json:"counts" bson:"counts"`
	InvitationID          *primitive.ObjectID `json:"invitationId,omitempty" bson:"invitationId,omitempty"`
	CreatedBy             string              `json:"createdBy" bson:"createdBy"`
	CreatedAt             time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// SocialLinks holds the public handles/urls of a model
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty" yaml:"instagram"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty" yaml:"twitter"`
	TikTok    string `json:"tiktok,omitempty" bson:"tiktok,omitempty" yaml:"tiktok"`
	OnlyFans  string `json:"onlyfans,omitempty" bson:"onlyfans,omitempty" yaml:"onlyfans"`
	Reddit    string `json:"reddit,omitempty" bson:"reddit,omitempty" yaml:"reddit"`
	Website   string `json:"website,omitempty" bson:"website,omitempty" yaml:"website"`
}

// ModelCounts are denormalized counters recomputed by the scheduler
type ModelCounts struct {
	Posts         int64 `json:"posts" bson:"posts"`
	Captions      int64 `json:"captions" bson:"captions"`
	PipelineItems int64 `json:"pipelineItems" bson:"pipelineItems"`
}

// --- Request DTOs ---

// CreateOFModelRequest is the request body for creating a model profile
type CreateOFModelRequest struct {
	Name            string      `json:"name" validate:"required,min=2,max=80" yaml:"name"`
	DisplayName     string      `json:"displayName" validate:"omitempty,max=80" yaml:"displayName"`
	Status          ModelStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE PENDING ARCHIVED" yaml:"status"`
	Bio             string      `json:"bio" validate:"max=1000" yaml:"bio"`
	ProfileImageURL string      `json:"profileImageUrl" validate:"omitempty,url" yaml:"profileImageUrl"`
	SocialLinks     SocialLinks `json:"socialLinks" yaml:"socialLinks"`
	CreatorIDs      []string    `json:"creatorIds" yaml:"creatorIds"`
}

// UpdateOFModelRequest is the request body for patching a model profile. Nil fields are left
// untouched.
type UpdateOFModelRequest struct {
	Name            *string      `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	DisplayName     *string      `json:"displayName,omitempty" validate:"omitempty,max=80"`
	Status          *ModelStatus `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE PENDING ARCHIVED"`
	Bio             *string      `json:"bio,omitempty" validate:"omitempty,max=1000"`
	ProfileImageURL *string      `json:"profileImageUrl,omitempty" validate:"omitempty,url"`
	SocialLinks     *SocialLinks `json:"socialLinks,omitempty"`
}

// BulkAssignRequest assigns models to creators
type BulkAssignRequest struct {
	ModelIDs   []string `json:"modelIds" validate:"required,min=1,max=500,dive,required"`
	CreatorIDs []string `json:"creatorIds" validate:"required,min=1,dive,required"`
	// Mode "add" merges with existing assignments, "replace" overwrites them
	Mode string `json:"mode" validate:"omitempty,oneof=add replace"`
}

// BulkShareRequest shares models with other organizations
type BulkShareRequest struct {
	ModelIDs        []string `json:"modelIds" validate:"required,min=1,max=500,dive,required"`
	OrganizationIDs []string `json:"organizationIds" validate:"required,min=1,dive,required"`
	Unshare         bool     `json:"unshare"`
}

// BulkIDsRequest carries a list of ids for bulk delete/revoke
type BulkIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,required"`
}
