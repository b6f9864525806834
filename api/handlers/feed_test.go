package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/api/handlers"
	"github.com/linesmerrill/studio-api/api/testhelpers"
	"github.com/linesmerrill/studio-api/cache"
	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

type feedFixture struct {
	f            handlers.Feed
	posts        *mocks.PostDatabase
	comments     *mocks.CommentDatabase
	likes        *mocks.ReactionDatabase
	bookmarks    *mocks.ReactionDatabase
	commentLikes *mocks.ReactionDatabase
	models       *mocks.OFModelDatabase
	creators     *mocks.CreatorDatabase
	events       *events.Recorder
	guard        *cache.MemoryGuard
}

func newFeedFixture(t *testing.T) feedFixture {
	profiles, err := cache.NewProfileCache(16, time.Minute)
	require.NoError(t, err)
	fx := feedFixture{
		posts:        mocks.NewPostDatabase(t),
		comments:     mocks.NewCommentDatabase(t),
		likes:        mocks.NewReactionDatabase(t),
		bookmarks:    mocks.NewReactionDatabase(t),
		commentLikes: mocks.NewReactionDatabase(t),
		models:       mocks.NewOFModelDatabase(t),
		creators:     mocks.NewCreatorDatabase(t),
		events:       &events.Recorder{},
		guard:        cache.NewMemoryGuard(16),
	}
	fx.f = handlers.Feed{
		Posts:        fx.posts,
		Comments:     fx.comments,
		Likes:        fx.likes,
		Bookmarks:    fx.bookmarks,
		CommentLikes: fx.commentLikes,
		Models:       fx.models,
		Creators:     fx.creators,
		Guard:        fx.guard,
		Profiles:     profiles,
		Events:       fx.events,
	}
	return fx
}

func (fx feedFixture) expectPost(post *models.Post) {
	fx.posts.On("FindOne", mock.Anything, bson.M{"_id": post.ID, "organizationId": "org_1"}).Return(post, nil)
}

func samplePost(likes int64) *models.Post {
	return &models.Post{ID: primitive.NewObjectID(), OrganizationID: "org_1", AuthorID: "user_other", LikesCount: likes}
}

func TestLikePost_FirstLikeIncrements(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(2)
	fx.expectPost(post)
	fx.likes.On("Add", mock.Anything, "user_member", post.ID).Return(true, nil).Once()
	fx.posts.On("IncrementCounter", mock.Anything, post.ID, "likesCount", 1).Return(int64(3), nil).Once()

	var res models.ToggleResult
	code, _ := serve(t, fx.f.LikePostHandler, request(t, http.MethodPost, "/api/feed/posts/x/like", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, nil), &res)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.ToggleResult{Active: true, Count: 3}, res)
	assert.Equal(t, []string{events.PostLiked}, fx.events.Subjects())
}

func TestLikePost_ToggleTwiceRestoresCount(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(2)
	fx.expectPost(post)
	fx.likes.On("Add", mock.Anything, "user_member", post.ID).Return(true, nil).Once()
	fx.posts.On("IncrementCounter", mock.Anything, post.ID, "likesCount", 1).Return(int64(3), nil).Once()
	fx.likes.On("Remove", mock.Anything, "user_member", post.ID).Return(true, nil).Once()
	fx.posts.On("IncrementCounter", mock.Anything, post.ID, "likesCount", -1).Return(int64(2), nil).Once()
	vars := map[string]string{"id": post.ID.Hex()}

	var liked, unliked models.ToggleResult
	serve(t, fx.f.LikePostHandler, request(t, http.MethodPost, "/like", testhelpers.Member, vars, nil), &liked)
	code, _ := serve(t, fx.f.UnlikePostHandler, request(t, http.MethodDelete, "/like", testhelpers.Member, vars, nil), &unliked)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, liked.Active)
	assert.False(t, unliked.Active)
	assert.Equal(t, post.LikesCount, unliked.Count)
	assert.Equal(t, []string{events.PostLiked, events.PostUnliked}, fx.events.Subjects())
}

func TestLikePost_RepeatIsNoop(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(5)
	fx.expectPost(post)
	fx.likes.On("Add", mock.Anything, "user_member", post.ID).Return(false, nil).Once()

	var res models.ToggleResult
	code, _ := serve(t, fx.f.LikePostHandler, request(t, http.MethodPost, "/like", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, nil), &res)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.ToggleResult{Active: true, Count: 5}, res)
	fx.posts.AssertNotCalled(t, "IncrementCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, fx.events.Subjects())
}

func TestLikePost_InFlightDuplicateConflicts(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(0)
	fx.expectPost(post)
	held, err := fx.guard.Acquire(context.Background(), "like:user_member:"+post.ID.Hex(), cache.DefaultGuardTTL)
	require.NoError(t, err)
	require.True(t, held)

	code, env := serve(t, fx.f.LikePostHandler, request(t, http.MethodPost, "/like", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, nil), nil)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "request already in progress", env.Error)
	fx.likes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikePost_ReleasesGuard(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(0)
	fx.expectPost(post)
	fx.bookmarks.On("Add", mock.Anything, "user_member", post.ID).Return(false, nil).Once()

	serve(t, fx.f.BookmarkPostHandler, request(t, http.MethodPost, "/bookmark", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, nil), nil)

	ok, err := fx.guard.Acquire(context.Background(), "bookmark:user_member:"+post.ID.Hex(), cache.DefaultGuardTTL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLikePost_NotFound(t *testing.T) {
	fx := newFeedFixture(t)
	id := primitive.NewObjectID()
	fx.posts.On("FindOne", mock.Anything, bson.M{"_id": id, "organizationId": "org_1"}).Return(nil, mongo.ErrNoDocuments)

	code, env := serve(t, fx.f.LikePostHandler, request(t, http.MethodPost, "/like", testhelpers.Member,
		map[string]string{"id": id.Hex()}, nil), nil)

	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestLikePost_BadID(t *testing.T) {
	fx := newFeedFixture(t)
	code, _ := serve(t, fx.f.LikePostHandler, request(t, http.MethodPost, "/like", testhelpers.Member,
		map[string]string{"id": "nope"}, nil), nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListPosts_ViewerFlags(t *testing.T) {
	fx := newFeedFixture(t)
	p1, p2 := *samplePost(1), *samplePost(0)
	filter := bson.M{"organizationId": "org_1"}
	fx.posts.On("CountDocuments", mock.Anything, filter).Return(int64(14), nil)
	fx.posts.On("Find", mock.Anything, filter, mock.Anything).Return([]models.Post{p1, p2}, nil)
	ids := []primitive.ObjectID{p1.ID, p2.ID}
	fx.likes.On("ActiveFor", mock.Anything, "user_member", ids).Return(map[primitive.ObjectID]bool{p1.ID: true}, nil)
	fx.bookmarks.On("ActiveFor", mock.Anything, "user_member", ids).Return(map[primitive.ObjectID]bool{p2.ID: true}, nil)

	var posts []models.Post
	code, env := serve(t, fx.f.ListPostsHandler, request(t, http.MethodGet, "/api/feed/posts?page=2", testhelpers.Member, nil, nil), &posts)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, posts, 2)
	assert.True(t, posts[0].Liked)
	assert.False(t, posts[0].Bookmarked)
	assert.False(t, posts[1].Liked)
	assert.True(t, posts[1].Bookmarked)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 12, TotalItems: 14, TotalPages: 2, HasNextPage: false, HasPrevPage: true}, *env.Pagination)
}

func TestCreateComment_ReplyToReplyRejected(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(0)
	fx.expectPost(post)
	grandparent := primitive.NewObjectID()
	parent := &models.Comment{ID: primitive.NewObjectID(), PostID: post.ID, ParentID: &grandparent}
	fx.comments.On("FindOne", mock.Anything, bson.M{"_id": parent.ID, "postId": post.ID}).Return(parent, nil)

	code, env := serve(t, fx.f.CreateCommentHandler, request(t, http.MethodPost, "/comments", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, models.CreateCommentRequest{Content: "nice", ParentID: parent.ID.Hex()}), nil)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "replies can only target top-level comments", env.Error)
	fx.comments.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCreateComment_BumpsCount(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(0)
	fx.expectPost(post)
	fx.comments.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Comment) bool {
		return c.PostID == post.ID && c.AuthorID == "user_member" && c.ParentID == nil
	})).Return(&mocks.InsertOneResultHelper{}, nil)
	fx.posts.On("IncrementCounter", mock.Anything, post.ID, "commentsCount", 1).Return(int64(1), nil)

	var comment models.Comment
	code, _ := serve(t, fx.f.CreateCommentHandler, request(t, http.MethodPost, "/comments", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, models.CreateCommentRequest{Content: "first!"}), &comment)

	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "first!", comment.Content)
	assert.Equal(t, []string{events.CommentCreated}, fx.events.Subjects())
}

func TestCreateComment_EmptyContent(t *testing.T) {
	fx := newFeedFixture(t)
	code, env := serve(t, fx.f.CreateCommentHandler, request(t, http.MethodPost, "/comments", testhelpers.Member,
		map[string]string{"id": primitive.NewObjectID().Hex()}, models.CreateCommentRequest{}), nil)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid content: failed required", env.Error)
}

func TestDeletePost_OtherMemberForbidden(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(0)
	fx.expectPost(post)

	code, _ := serve(t, fx.f.DeletePostHandler, request(t, http.MethodDelete, "/posts", testhelpers.Member,
		map[string]string{"id": post.ID.Hex()}, nil), nil)

	assert.Equal(t, http.StatusForbidden, code)
	fx.posts.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestDeletePost_AdminCascades(t *testing.T) {
	fx := newFeedFixture(t)
	post := samplePost(0)
	fx.expectPost(post)
	comment := models.Comment{ID: primitive.NewObjectID(), PostID: post.ID}
	fx.posts.On("DeleteOne", mock.Anything, bson.M{"_id": post.ID}).Return(nil)
	fx.comments.On("Find", mock.Anything, bson.M{"postId": post.ID}).Return([]models.Comment{comment}, nil)
	fx.commentLikes.On("DeleteByTarget", mock.Anything, []primitive.ObjectID{comment.ID}).Return(nil)
	fx.comments.On("DeleteMany", mock.Anything, bson.M{"postId": post.ID}).Return(int64(1), nil)
	fx.likes.On("DeleteByTarget", mock.Anything, []primitive.ObjectID{post.ID}).Return(nil)
	fx.bookmarks.On("DeleteByTarget", mock.Anything, []primitive.ObjectID{post.ID}).Return(nil)

	code, _ := serve(t, fx.f.DeletePostHandler, request(t, http.MethodDelete, "/posts", testhelpers.Admin,
		map[string]string{"id": post.ID.Hex()}, nil), nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{events.PostDeleted}, fx.events.Subjects())
}

func TestProfile_CachedAfterFirstRead(t *testing.T) {
	fx := newFeedFixture(t)
	modelID := primitive.NewObjectID()
	authored := bson.M{"authorId": "user_other", "organizationId": "org_1"}
	fx.creators.On("FindOne", mock.Anything, bson.M{"userId": "user_other", "organizationId": "org_1"}).
		Return(&models.Creator{UserID: "user_other", Name: "Olive", Role: "member"}, nil).Once()
	fx.posts.On("CountDocuments", mock.Anything, authored).Return(int64(4), nil).Once()
	fx.posts.On("SumLikes", mock.Anything, authored).Return(int64(9), nil).Once()
	fx.models.On("Find", mock.Anything, bson.M{"organizationId": "org_1", "creatorIds": "user_other"}, mock.Anything).
		Return([]models.OFModel{{ID: modelID}}, nil).Once()
	vars := map[string]string{"userId": "user_other"}

	var first, second models.FeedProfile
	code, _ := serve(t, fx.f.ProfileHandler, request(t, http.MethodGet, "/profile", testhelpers.Member, vars, nil), &first)
	require.Equal(t, http.StatusOK, code)
	code, _ = serve(t, fx.f.ProfileHandler, request(t, http.MethodGet, "/profile", testhelpers.Member, vars, nil), &second)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "Olive", first.Name)
	assert.Equal(t, int64(4), first.PostsCount)
	assert.Equal(t, int64(9), first.LikesReceived)
	assert.Equal(t, []string{modelID.Hex()}, first.ModelIDs)
	assert.Equal(t, first, second)
}

func TestProfile_UnknownUser(t *testing.T) {
	fx := newFeedFixture(t)
	fx.creators.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	code, _ := serve(t, fx.f.ProfileHandler, request(t, http.MethodGet, "/profile", testhelpers.Member,
		map[string]string{"userId": "user_ghost"}, nil), nil)
	assert.Equal(t, http.StatusNotFound, code)
}
