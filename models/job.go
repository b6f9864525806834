package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobKind names a bulk admin operation
type JobKind string

// Job kinds
const (
	JobBulkAssign JobKind = "bulk_assign"
	JobBulkShare  JobKind = "bulk_share"
	JobBulkDelete JobKind = "bulk_delete"
	JobBulkRevoke JobKind = "bulk_revoke"
)

// JobStatus is the state of a background job
type JobStatus string

// Job statuses
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Done reports whether the job reached a terminal status
func (s JobStatus) Done() bool {
	return s == JobCompleted || s == JobFailed
}

// Job tracks a bulk mutation that runs in the background
type Job struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	Kind           JobKind            `json:"kind" bson:"kind"`
	Status         JobStatus          `json:"status" bson:"status"`
	Total          int                `json:"total" bson:"total"`
	Processed      int                `json:"processed" bson:"processed"`
	Failed         int                `json:"failed" bson:"failed"`
	Errors         []string           `json:"errors" bson:"errors"`
	CreatedBy      string             `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
