package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PipelineStatus is a free-form tag on a content item. Any status may move to any other.
type PipelineStatus string

// Pipeline statuses, in the order the dashboard renders them
const (
	PipelineIdea      PipelineStatus = "idea"
	PipelineFilming   PipelineStatus = "filming"
	PipelineEditing   PipelineStatus = "editing"
	PipelineReview    PipelineStatus = "review"
	PipelineApproved  PipelineStatus = "approved"
	PipelineScheduled PipelineStatus = "scheduled"
	PipelinePosted    PipelineStatus = "posted"
	PipelineArchived  PipelineStatus = "archived"
)

// PipelineStatuses lists every status in display order
var PipelineStatuses = []PipelineStatus{
	PipelineIdea, PipelineFilming, PipelineEditing, PipelineReview,
	PipelineApproved, PipelineScheduled, PipelinePosted, PipelineArchived,
}

// Valid reports whether s is a known pipeline status
func (s PipelineStatus) Valid() bool {
	for _, known := range PipelineStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PipelineItem is a piece of content moving through production
type PipelineItem struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrganizationID string              `json:"organizationId" bson:"organizationId"`
	ModelID        primitive.ObjectID  `json:"modelId" bson:"modelId"`
	Title          string              `json:"title" bson:"title"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Status         PipelineStatus      `json:"status" bson:"status"`
	StorySlotID    *primitive.ObjectID `json:"storySlotId,omitempty" bson:"storySlotId,omitempty"`
	ReelSlotID     *primitive.ObjectID `json:"reelSlotId,omitempty" bson:"reelSlotId,omitempty"`
	FeedPostSlotID *primitive.ObjectID `json:"feedPostSlotId,omitempty" bson:"feedPostSlotId,omitempty"`
	DueAt          *time.Time          `json:"dueAt,omitempty" bson:"dueAt,omitempty"`
	PostedAt       *time.Time          `json:"postedAt,omitempty" bson:"postedAt,omitempty"`
	CreatedBy      string              `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// SlotKind is the placement a slot reserves
type SlotKind string

// Slot kinds
const (
	SlotStory    SlotKind = "story"
	SlotReel     SlotKind = "reel"
	SlotFeedPost SlotKind = "feed_post"
)

// Slot is a scheduled content placeholder that a pipeline item can fill
type Slot struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrganizationID string              `json:"organizationId" bson:"organizationId"`
	ModelID        primitive.ObjectID  `json:"modelId" bson:"modelId"`
	Kind           SlotKind            `json:"kind" bson:"kind"`
	ScheduledFor   time.Time           `json:"scheduledFor" bson:"scheduledFor"`
	PipelineItemID *primitive.ObjectID `json:"pipelineItemId,omitempty" bson:"pipelineItemId,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
}

// PipelineSummary counts items per status
type PipelineSummary struct {
	Total    int64                    `json:"total"`
	ByStatus map[PipelineStatus]int64 `json:"byStatus"`
}

// --- Request DTOs ---

// CreatePipelineItemRequest is the request body for a new pipeline item
type CreatePipelineItemRequest struct {
	ModelID        string         `json:"modelId" validate:"required,len=24,hexadecimal"`
	Title          string         `json:"title" validate:"required,min=1,max=200"`
	Notes          string         `json:"notes" validate:"max=4000"`
	Status         PipelineStatus `json:"status"`
	StorySlotID    string         `json:"storySlotId" validate:"omitempty,len=24,hexadecimal"`
	ReelSlotID     string         `json:"reelSlotId" validate:"omitempty,len=24,hexadecimal"`
	FeedPostSlotID string         `json:"feedPostSlotId" validate:"omitempty,len=24,hexadecimal"`
	DueAt          *time.Time     `json:"dueAt"`
}

// UpdatePipelineItemRequest patches a pipeline item. Slot ids accept "" to unlink.
type UpdatePipelineItemRequest struct {
	Title          *string         `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Notes          *string         `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Status         *PipelineStatus `json:"status,omitempty"`
	StorySlotID    *string         `json:"storySlotId,omitempty"`
	ReelSlotID     *string         `json:"reelSlotId,omitempty"`
	FeedPostSlotID *string         `json:"feedPostSlotId,omitempty"`
	DueAt          *time.Time      `json:"dueAt,omitempty"`
}

// CreateSlotRequest reserves a slot
type CreateSlotRequest struct {
	ModelID      string    `json:"modelId" validate:"required,len=24,hexadecimal"`
	Kind         SlotKind  `json:"kind" validate:"required,oneof=story reel feed_post"`
	ScheduledFor time.Time `json:"scheduledFor" validate:"required"`
}
