package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/cache"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

// Feed serves the organization's social feed
type Feed struct {
	Posts        databases.PostDatabase
	Comments     databases.CommentDatabase
	Likes        databases.ReactionDatabase
	Bookmarks    databases.ReactionDatabase
	CommentLikes databases.ReactionDatabase
	Models       databases.OFModelDatabase
	Creators     databases.CreatorDatabase

	Guard    cache.Guard
	Profiles *cache.ProfileCache
	Events   events.Publisher
	Metrics  *api.Metrics
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// ListPostsHandler returns the organization feed, newest first
func (f Feed) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	f.writePostPage(w, r, who, bson.M{"organizationId": who.OrganizationID})
}

// ProfilePostsHandler returns the posts authored by userId
func (f Feed) ProfilePostsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	f.writePostPage(w, r, who, bson.M{"organizationId": who.OrganizationID, "authorId": mux.Vars(r)["userId"]})
}

func (f Feed) writePostPage(w http.ResponseWriter, r *http.Request, who api.Identity, filter bson.M) {
	page, limit := parsePagination(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	total, err := f.Posts.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count posts", http.StatusInternalServerError, w, err)
		return
	}
	posts, err := f.Posts.Find(ctx, filter, databases.PageOptions(page, limit, newestFirst))
	if err != nil {
		config.ErrorStatus("failed to get posts", http.StatusInternalServerError, w, err)
		return
	}
	if err := f.withViewerState(ctx, who, posts); err != nil {
		config.ErrorStatus("failed to get viewer state", http.StatusInternalServerError, w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	config.WritePage(w, posts, models.NewPagination(page, limit, total))
}

// withViewerState fills Liked and Bookmarked for the caller
func (f Feed) withViewerState(ctx context.Context, who api.Identity, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	liked, err := f.Likes.ActiveFor(ctx, who.UserID, ids)
	if err != nil {
		return err
	}
	bookmarked, err := f.Bookmarks.ActiveFor(ctx, who.UserID, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Liked = liked[posts[i].ID]
		posts[i].Bookmarked = bookmarked[posts[i].ID]
	}
	return nil
}

// PostHandler returns one post with the caller's like and bookmark state
func (f Feed) PostHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	post, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get post by ID", err)
		return
	}
	posts := []models.Post{*post}
	if err := f.withViewerState(ctx, who, posts); err != nil {
		config.ErrorStatus("failed to get viewer state", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusOK, posts[0])
}

// CreatePostHandler publishes a post to the organization feed
func (f Feed) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if req.ModelID != "" {
		modelID, _ := primitive.ObjectIDFromHex(req.ModelID)
		if _, err := f.Models.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": modelID}, visibleTo(who)}}); err != nil {
			dbError(w, "failed to get model for post", err)
			return
		}
	}

	post := models.Post{
		ID:             primitive.NewObjectID(),
		OrganizationID: who.OrganizationID,
		AuthorID:       who.UserID,
		ModelID:        req.ModelID,
		MediaURLs:      req.MediaURLs,
		Caption:        req.Caption,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.Posts.InsertOne(ctx, post); err != nil {
		config.ErrorStatus("failed to create post", http.StatusInternalServerError, w, err)
		return
	}
	f.invalidateProfile(who.OrganizationID, who.UserID)
	f.Events.Publish(ctx, events.Event{Subject: events.PostCreated, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: post})
	config.WriteJSON(w, http.StatusCreated, post)
}

// DeletePostHandler deletes a post with its comments and reactions. Only the author or an
// admin may delete.
func (f Feed) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	post, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get post by ID", err)
		return
	}
	if post.AuthorID != who.UserID && !who.IsAdmin() {
		config.ErrorStatus("only the author can delete this post", http.StatusForbidden, w, nil)
		return
	}
	if err := f.Posts.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		dbError(w, "failed to delete post", err)
		return
	}

	comments, err := f.Comments.Find(ctx, bson.M{"postId": id})
	if err == nil {
		commentIDs := make([]primitive.ObjectID, len(comments))
		for i, c := range comments {
			commentIDs[i] = c.ID
		}
		err = f.CommentLikes.DeleteByTarget(ctx, commentIDs)
	}
	if err == nil {
		_, err = f.Comments.DeleteMany(ctx, bson.M{"postId": id})
	}
	if err == nil {
		err = f.Likes.DeleteByTarget(ctx, []primitive.ObjectID{id})
	}
	if err == nil {
		err = f.Bookmarks.DeleteByTarget(ctx, []primitive.ObjectID{id})
	}
	if err != nil {
		// the post is gone, leftovers only skew nothing visible
		api.Logger(ctx).With("error", err).Warnw("failed to clean up after post delete", "postId", id.Hex())
	}

	f.invalidateProfile(post.OrganizationID, post.AuthorID)
	f.Events.Publish(ctx, events.Event{Subject: events.PostDeleted, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: map[string]string{"id": id.Hex()}})
	config.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// LikePostHandler likes a post. Repeating it is a no-op.
func (f Feed) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	f.togglePost(w, r, "like", f.Likes, "likesCount", true)
}

// UnlikePostHandler removes the caller's like
func (f Feed) UnlikePostHandler(w http.ResponseWriter, r *http.Request) {
	f.togglePost(w, r, "like", f.Likes, "likesCount", false)
}

// BookmarkPostHandler bookmarks a post for the caller
func (f Feed) BookmarkPostHandler(w http.ResponseWriter, r *http.Request) {
	f.togglePost(w, r, "bookmark", f.Bookmarks, "bookmarksCount", true)
}

// UnbookmarkPostHandler removes the caller's bookmark
func (f Feed) UnbookmarkPostHandler(w http.ResponseWriter, r *http.Request) {
	f.togglePost(w, r, "bookmark", f.Bookmarks, "bookmarksCount", false)
}

var toggleSubjects = map[string][2]string{
	"like":     {events.PostUnliked, events.PostLiked},
	"bookmark": {events.PostUnbookmarked, events.PostBookmarked},
}

// togglePost sets the caller's reaction on a post to on. The counter moves only when the
// reaction actually changed, so replays are idempotent.
func (f Feed) togglePost(w http.ResponseWriter, r *http.Request, kind string, reactions databases.ReactionDatabase, counter string, on bool) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	post, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": id}))
	if err != nil {
		dbError(w, "failed to get post by ID", err)
		return
	}

	release, ok := f.acquire(ctx, w, fmt.Sprintf("%s:%s:%s", kind, who.UserID, id.Hex()), kind)
	if !ok {
		return
	}
	defer release()

	var changed bool
	if on {
		changed, err = reactions.Add(ctx, who.UserID, id)
	} else {
		changed, err = reactions.Remove(ctx, who.UserID, id)
	}
	if err != nil {
		f.Metrics.Toggle(kind, "error")
		config.ErrorStatus("failed to update "+kind, http.StatusInternalServerError, w, err)
		return
	}

	count := postCounter(post, counter)
	if changed {
		delta := 1
		if !on {
			delta = -1
		}
		count, err = f.Posts.IncrementCounter(ctx, id, counter, delta)
		if err != nil {
			f.Metrics.Toggle(kind, "error")
			config.ErrorStatus("failed to update "+kind+" count", http.StatusInternalServerError, w, err)
			return
		}
		outcome := 0
		if on {
			outcome = 1
		}
		f.Events.Publish(ctx, events.Event{Subject: toggleSubjects[kind][outcome], OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: map[string]interface{}{"postId": id.Hex(), "count": count}})
		if kind == "like" {
			f.invalidateProfile(post.OrganizationID, post.AuthorID)
		}
	}
	f.Metrics.Toggle(kind, onOff(on))
	config.WriteJSON(w, http.StatusOK, models.ToggleResult{Active: on, Count: count})
}

// acquire takes the per-(user, target) processing key. A held key means the same toggle is
// already in flight and the request is rejected with 409.
func (f Feed) acquire(ctx context.Context, w http.ResponseWriter, key, kind string) (func(), bool) {
	if f.Guard == nil {
		return func() {}, true
	}
	acquired, err := f.Guard.Acquire(ctx, key, cache.DefaultGuardTTL)
	if err != nil {
		// a broken guard must not block the feed
		api.Logger(ctx).With("error", err).Warnw("processing guard unavailable", "key", key)
		return func() {}, true
	}
	if !acquired {
		f.Metrics.Toggle(kind, "conflict")
		config.ErrorStatus("request already in progress", http.StatusConflict, w, nil)
		return nil, false
	}
	return func() {
		if err := f.Guard.Release(context.WithoutCancel(ctx), key); err != nil {
			api.Logger(ctx).With("error", err).Warnw("failed to release processing key", "key", key)
		}
	}, true
}

func postCounter(post *models.Post, field string) int64 {
	switch field {
	case "likesCount":
		return post.LikesCount
	case "bookmarksCount":
		return post.BookmarksCount
	}
	return post.CommentsCount
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// BookmarksHandler returns the caller's bookmarked posts, most recently bookmarked first
func (f Feed) BookmarksHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	page, limit := parsePagination(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"userId": who.UserID}
	total, err := f.Bookmarks.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to count bookmarks", http.StatusInternalServerError, w, err)
		return
	}
	marks, err := f.Bookmarks.Find(ctx, filter, databases.PageOptions(page, limit, newestFirst))
	if err != nil {
		config.ErrorStatus("failed to get bookmarks", http.StatusInternalServerError, w, err)
		return
	}

	posts := []models.Post{}
	if len(marks) > 0 {
		ids := make([]primitive.ObjectID, len(marks))
		for i, m := range marks {
			ids[i] = m.TargetID
		}
		found, err := f.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "organizationId": who.OrganizationID})
		if err != nil {
			config.ErrorStatus("failed to get bookmarked posts", http.StatusInternalServerError, w, err)
			return
		}
		byID := make(map[primitive.ObjectID]models.Post, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				posts = append(posts, p)
			}
		}
		if err := f.withViewerState(ctx, who, posts); err != nil {
			config.ErrorStatus("failed to get viewer state", http.StatusInternalServerError, w, err)
			return
		}
	}
	config.WritePage(w, posts, models.NewPagination(page, limit, total))
}

// ListCommentsHandler returns a page of top-level comments, oldest first, each with its replies
func (f Feed) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	postID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	page, limit := parsePagination(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": postID})); err != nil {
		dbError(w, "failed to get post by ID", err)
		return
	}

	oldestFirst := bson.D{{Key: "createdAt", Value: 1}}
	topLevel := bson.M{"postId": postID, "parentId": bson.M{"$exists": false}}
	comments, err := f.Comments.Find(ctx, topLevel, databases.PageOptions(page, limit, oldestFirst))
	if err != nil {
		config.ErrorStatus("failed to get comments", http.StatusInternalServerError, w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	var replies []models.Comment
	if len(ids) > 0 {
		replies, err = f.Comments.Find(ctx, bson.M{"parentId": bson.M{"$in": ids}}, options.Find().SetSort(oldestFirst))
		if err != nil {
			config.ErrorStatus("failed to get replies", http.StatusInternalServerError, w, err)
			return
		}
	}
	for _, reply := range replies {
		ids = append(ids, reply.ID)
	}
	liked, err := f.CommentLikes.ActiveFor(ctx, who.UserID, ids)
	if err != nil {
		config.ErrorStatus("failed to get viewer state", http.StatusInternalServerError, w, err)
		return
	}

	byParent := map[primitive.ObjectID][]models.Comment{}
	for _, reply := range replies {
		reply.Liked = liked[reply.ID]
		byParent[*reply.ParentID] = append(byParent[*reply.ParentID], reply)
	}
	for i := range comments {
		comments[i].Liked = liked[comments[i].ID]
		comments[i].Replies = byParent[comments[i].ID]
	}

	total, err := f.Comments.CountDocuments(ctx, topLevel)
	if err != nil {
		config.ErrorStatus("failed to count comments", http.StatusInternalServerError, w, err)
		return
	}
	config.WritePage(w, comments, models.NewPagination(page, limit, total))
}

// CreateCommentHandler comments on a post. Replies must target a top-level comment.
func (f Feed) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	postID, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": postID})); err != nil {
		dbError(w, "failed to get post by ID", err)
		return
	}

	parentID, _ := optionalObjectID(req.ParentID)
	if parentID != nil {
		parent, err := f.Comments.FindOne(ctx, bson.M{"_id": *parentID, "postId": postID})
		if err != nil {
			dbError(w, "failed to get parent comment", err)
			return
		}
		if parent.ParentID != nil {
			config.ErrorStatus("replies can only target top-level comments", http.StatusBadRequest, w, nil)
			return
		}
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		AuthorID:  who.UserID,
		Content:   req.Content,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.Comments.InsertOne(ctx, comment); err != nil {
		config.ErrorStatus("failed to create comment", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := f.Posts.IncrementCounter(ctx, postID, "commentsCount", 1); err != nil {
		api.Logger(ctx).With("error", err).Warnw("failed to bump comment count", "postId", postID.Hex())
	}
	f.Events.Publish(ctx, events.Event{Subject: events.CommentCreated, OrganizationID: who.OrganizationID, ActorID: who.UserID, Data: comment})
	config.WriteJSON(w, http.StatusCreated, comment)
}

// DeleteCommentHandler deletes a comment and its replies
func (f Feed) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	comment, err := f.Comments.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		dbError(w, "failed to get comment by ID", err)
		return
	}
	if _, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": comment.PostID})); err != nil {
		dbError(w, "failed to get comment by ID", err)
		return
	}
	if comment.AuthorID != who.UserID && !who.IsAdmin() {
		config.ErrorStatus("only the author can delete this comment", http.StatusForbidden, w, nil)
		return
	}

	n, err := f.Comments.DeleteMany(ctx, bson.M{"$or": bson.A{bson.M{"_id": id}, bson.M{"parentId": id}}})
	if err != nil {
		config.ErrorStatus("failed to delete comment", http.StatusInternalServerError, w, err)
		return
	}
	if n > 0 {
		if _, err := f.Posts.IncrementCounter(ctx, comment.PostID, "commentsCount", -int(n)); err != nil {
			api.Logger(ctx).With("error", err).Warnw("failed to lower comment count", "postId", comment.PostID.Hex())
		}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"id": id.Hex(), "deleted": n})
}

// LikeCommentHandler likes a comment
func (f Feed) LikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	f.toggleComment(w, r, true)
}

// UnlikeCommentHandler removes the caller's like from a comment
func (f Feed) UnlikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	f.toggleComment(w, r, false)
}

func (f Feed) toggleComment(w http.ResponseWriter, r *http.Request, on bool) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := objectIDVar(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	comment, err := f.Comments.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		dbError(w, "failed to get comment by ID", err)
		return
	}
	if _, err := f.Posts.FindOne(ctx, ownedBy(who, bson.M{"_id": comment.PostID})); err != nil {
		dbError(w, "failed to get comment by ID", err)
		return
	}

	release, ok := f.acquire(ctx, w, fmt.Sprintf("comment-like:%s:%s", who.UserID, id.Hex()), "comment_like")
	if !ok {
		return
	}
	defer release()

	var changed bool
	if on {
		changed, err = f.CommentLikes.Add(ctx, who.UserID, id)
	} else {
		changed, err = f.CommentLikes.Remove(ctx, who.UserID, id)
	}
	if err != nil {
		config.ErrorStatus("failed to update comment like", http.StatusInternalServerError, w, err)
		return
	}
	count := comment.LikesCount
	if changed {
		delta := 1
		if !on {
			delta = -1
		}
		count, err = f.Comments.IncrementLikes(ctx, id, delta)
		if errors.Is(err, mongo.ErrNoDocuments) {
			count, err = 0, nil
		}
		if err != nil {
			config.ErrorStatus("failed to update comment like count", http.StatusInternalServerError, w, err)
			return
		}
	}
	f.Metrics.Toggle("comment_like", onOff(on))
	config.WriteJSON(w, http.StatusOK, models.ToggleResult{Active: on, Count: count})
}

// ProfileHandler returns the feed profile header for userId
func (f Feed) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	userID := mux.Vars(r)["userId"]
	if f.Profiles != nil {
		if p, ok := f.Profiles.Get(profileKey(who.OrganizationID, userID)); ok {
			p.UserID = userID
			config.WriteJSON(w, http.StatusOK, p)
			return
		}
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile := models.FeedProfile{UserID: userID, OrganizationID: who.OrganizationID, ModelIDs: []string{}}
	creator, err := f.Creators.FindOne(ctx, bson.M{"userId": userID, "organizationId": who.OrganizationID})
	switch {
	case err == nil:
		profile.Name, profile.Email, profile.Role = creator.Name, creator.Email, creator.Role
	case errors.Is(err, mongo.ErrNoDocuments) && userID == who.UserID:
		profile.Name, profile.Role = who.Name, who.Role
	default:
		dbError(w, "failed to get profile", err)
		return
	}

	authored := bson.M{"authorId": userID, "organizationId": who.OrganizationID}
	if profile.PostsCount, err = f.Posts.CountDocuments(ctx, authored); err != nil {
		config.ErrorStatus("failed to count posts", http.StatusInternalServerError, w, err)
		return
	}
	if profile.LikesReceived, err = f.Posts.SumLikes(ctx, authored); err != nil {
		config.ErrorStatus("failed to sum likes", http.StatusInternalServerError, w, err)
		return
	}
	assigned, err := f.Models.Find(ctx, bson.M{"organizationId": who.OrganizationID, "creatorIds": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		config.ErrorStatus("failed to get assigned models", http.StatusInternalServerError, w, err)
		return
	}
	for _, m := range assigned {
		profile.ModelIDs = append(profile.ModelIDs, m.ID.Hex())
	}

	if f.Profiles != nil {
		cached := profile
		cached.UserID = profileKey(who.OrganizationID, userID)
		f.Profiles.Add(cached)
	}
	config.WriteJSON(w, http.StatusOK, profile)
}

// profiles are cached per organization since the same user can belong to several
func profileKey(orgID, userID string) string {
	return orgID + "/" + userID
}

func (f Feed) invalidateProfile(orgID, userID string) {
	if f.Profiles == nil {
		return
	}
	f.Profiles.Invalidate(profileKey(orgID, userID))
}
