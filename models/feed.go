package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a social feed post
type Post struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	AuthorID       string             `json:"authorId" bson:"authorId"`
	ModelID        string             `json:"modelId,omitempty" bson:"modelId,omitempty"`
	MediaURLs      []string           `json:"mediaUrls" bson:"mediaUrls"`
	Caption        string             `json:"caption" bson:"caption"`
	LikesCount     int64              `json:"likesCount" bson:"likesCount"`
	CommentsCount  int64              `json:"commentsCount" bson:"commentsCount"`
	BookmarksCount int64              `json:"bookmarksCount" bson:"bookmarksCount"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`

	// viewer state, filled per request
	Liked      bool `json:"liked" bson:"-"`
	Bookmarked bool `json:"bookmarked" bson:"-"`
}

// Comment is a comment on a post. ParentID points at a top-level comment for replies.
type Comment struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	PostID     primitive.ObjectID  `json:"postId" bson:"postId"`
	AuthorID   string              `json:"authorId" bson:"authorId"`
	Content    string              `json:"content" bson:"content"`
	LikesCount int64               `json:"likesCount" bson:"likesCount"`
	ParentID   *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`

	Liked   bool      `json:"liked" bson:"-"`
	Replies []Comment `json:"replies,omitempty" bson:"-"`
}

// Reaction is a (user, target) pair used for post likes, bookmarks and comment likes
type Reaction struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	TargetID  primitive.ObjectID `json:"targetId" bson:"targetId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// FeedProfile is the public header of /api/feed/profile/{userId}
type FeedProfile struct {
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Role           string   `json:"role,omitempty"`
	OrganizationID string   `json:"organizationId"`
	PostsCount     int64    `json:"postsCount"`
	LikesReceived  int64    `json:"likesReceived"`
	ModelIDs       []string `json:"modelIds"`
}

// ToggleResult is returned by like/bookmark endpoints
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// --- Request DTOs ---

// CreatePostRequest is the request body for creating a feed post
type CreatePostRequest struct {
	ModelID   string   `json:"modelId" validate:"omitempty,len=24,hexadecimal"`
	MediaURLs []string `json:"mediaUrls" validate:"required,min=1,max=10,dive,url"`
	Caption   string   `json:"caption" validate:"max=2200"`
}

// CreateCommentRequest is the request body for commenting on a post
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID string `json:"parentId" validate:"omitempty,len=24,hexadecimal"`
}
