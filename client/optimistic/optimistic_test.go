package optimistic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/studio-api/models"
)

type fakeAPI struct {
	mock.Mock
}

func (f *fakeAPI) LikePost(ctx context.Context, id string, on bool) (models.ToggleResult, error) {
	args := f.Called(ctx, id, on)
	return args.Get(0).(models.ToggleResult), args.Error(1)
}

func (f *fakeAPI) BookmarkPost(ctx context.Context, id string, on bool) (models.ToggleResult, error) {
	args := f.Called(ctx, id, on)
	return args.Get(0).(models.ToggleResult), args.Error(1)
}

func (f *fakeAPI) UpdatePipelineItem(ctx context.Context, id string, req models.UpdatePipelineItemRequest) (models.PipelineItem, error) {
	args := f.Called(ctx, id, req)
	return args.Get(0).(models.PipelineItem), args.Error(1)
}

var postID = primitive.NewObjectID()

func postStore(p models.Post) *Store[models.Post] {
	p.ID = postID
	s := NewStore[models.Post]()
	s.Load([]models.Post{p}, PostKey)
	return s
}

func TestStoreKeepsOrder(t *testing.T) {
	s := NewStore[string]()
	s.Set("b", "B")
	s.Set("a", "A")
	s.Set("c", "C")
	s.Set("a", "A2")
	assert.Equal(t, []string{"B", "A2", "C"}, s.List())

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"B", "C"}, s.List())
	assert.Equal(t, 2, s.Len())

	v, ok := s.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", v)
}

func TestToggleLikeTwiceRestoresCount(t *testing.T) {
	id := postID.Hex()
	api := &fakeAPI{}
	api.On("LikePost", mock.Anything, id, true).Return(models.ToggleResult{Active: true, Count: 8}, nil).Once()
	api.On("LikePost", mock.Anything, id, false).Return(models.ToggleResult{Active: false, Count: 7}, nil).Once()

	m := NewMutator(postStore(models.Post{LikesCount: 7}), nil)
	ctx := context.Background()

	require.NoError(t, ToggleLike(ctx, m, api, id))
	p, _ := m.Store.Get(id)
	assert.True(t, p.Liked)
	assert.Equal(t, int64(8), p.LikesCount)

	require.NoError(t, ToggleLike(ctx, m, api, id))
	p, _ = m.Store.Get(id)
	assert.False(t, p.Liked)
	assert.Equal(t, int64(7), p.LikesCount)
	api.AssertExpectations(t)
}

func TestToggleLikeConfirmsBeforeRelease(t *testing.T) {
	id := postID.Hex()
	unblock := make(chan struct{})
	api := &fakeAPI{}
	api.On("LikePost", mock.Anything, id, true).
		Run(func(mock.Arguments) { <-unblock }).
		Return(models.ToggleResult{Active: true, Count: 42}, nil).Once()

	m := NewMutator(postStore(models.Post{LikesCount: 7}), nil)
	done := make(chan error, 1)
	go func() { done <- ToggleLike(context.Background(), m, api, id) }()

	require.Eventually(t, func() bool { return m.Processing(id) }, time.Second, time.Millisecond)
	p, _ := m.Store.Get(id)
	assert.Equal(t, int64(8), p.LikesCount)

	close(unblock)
	// the server count is already stored by the time another toggle may start
	require.Eventually(t, func() bool { return !m.Processing(id) }, time.Second, time.Millisecond)
	p, _ = m.Store.Get(id)
	assert.True(t, p.Liked)
	assert.Equal(t, int64(42), p.LikesCount)
	require.NoError(t, <-done)
}

func TestFailedLikeRollsBack(t *testing.T) {
	id := postID.Hex()
	boom := errors.New("HTTP 500")
	api := &fakeAPI{}
	var seenDuringRequest models.Post
	var m *Mutator[models.Post]
	api.On("LikePost", mock.Anything, id, true).
		Run(func(mock.Arguments) { seenDuringRequest, _ = m.Store.Get(id) }).
		Return(models.ToggleResult{}, boom).Once()

	var toastID string
	var toastErr error
	m = NewMutator(postStore(models.Post{LikesCount: 3}), func(id string, err error) {
		toastID, toastErr = id, err
	})

	err := ToggleLike(context.Background(), m, api, id)
	assert.ErrorIs(t, err, boom)

	assert.True(t, seenDuringRequest.Liked)
	assert.Equal(t, int64(4), seenDuringRequest.LikesCount)

	p, _ := m.Store.Get(id)
	assert.False(t, p.Liked)
	assert.Equal(t, int64(3), p.LikesCount)
	assert.Equal(t, id, toastID)
	assert.ErrorIs(t, toastErr, boom)
	assert.False(t, m.Processing(id))
}

func TestConcurrentToggleIsRejected(t *testing.T) {
	id := postID.Hex()
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeAPI{}
	api.On("LikePost", mock.Anything, id, true).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(models.ToggleResult{Active: true, Count: 1}, nil).Once()

	m := NewMutator(postStore(models.Post{}), nil)
	done := make(chan error, 1)
	go func() { done <- ToggleLike(context.Background(), m, api, id) }()
	<-started

	assert.True(t, m.Processing(id))
	assert.ErrorIs(t, ToggleLike(context.Background(), m, api, id), ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	api.AssertNumberOfCalls(t, "LikePost", 1)
	assert.False(t, m.Processing(id))
}

func TestApplyUnknownID(t *testing.T) {
	m := NewMutator(NewStore[models.Post](), nil)
	err := m.Apply(context.Background(), "missing", func(p models.Post) models.Post { return p }, func(context.Context) error {
		t.Fatal("commit must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, m.Processing("missing"))
}

func TestUnbookmarkRemovesAfterDelay(t *testing.T) {
	id := postID.Hex()
	api := &fakeAPI{}
	api.On("BookmarkPost", mock.Anything, id, false).Return(models.ToggleResult{}, nil).Once()

	m := NewMutator(postStore(models.Post{Bookmarked: true, BookmarksCount: 2}), nil)
	m.RemoveDelay = 20 * time.Millisecond

	require.NoError(t, ToggleBookmark(context.Background(), m, api, id, true))
	p, ok := m.Store.Get(id)
	require.True(t, ok, "still listed during the exit delay")
	assert.False(t, p.Bookmarked)
	assert.Equal(t, int64(1), p.BookmarksCount)
	assert.ErrorIs(t, ToggleBookmark(context.Background(), m, api, id, true), ErrInFlight)

	m.Wait()
	_, ok = m.Store.Get(id)
	assert.False(t, ok)
	assert.False(t, m.Processing(id))
}

func TestFailedUnbookmarkStaysListed(t *testing.T) {
	id := postID.Hex()
	api := &fakeAPI{}
	api.On("BookmarkPost", mock.Anything, id, false).Return(models.ToggleResult{}, errors.New("offline")).Once()

	m := NewMutator(postStore(models.Post{Bookmarked: true, BookmarksCount: 1}), nil)
	m.RemoveDelay = time.Millisecond

	assert.Error(t, ToggleBookmark(context.Background(), m, api, id, true))
	m.Wait()
	p, ok := m.Store.Get(id)
	require.True(t, ok)
	assert.True(t, p.Bookmarked)
	assert.Equal(t, int64(1), p.BookmarksCount)
}

func TestBookmarkOnFeedIsNotRemoved(t *testing.T) {
	id := postID.Hex()
	api := &fakeAPI{}
	api.On("BookmarkPost", mock.Anything, id, false).Return(models.ToggleResult{}, nil).Once()

	m := NewMutator(postStore(models.Post{Bookmarked: true, BookmarksCount: 1}), nil)
	require.NoError(t, ToggleBookmark(context.Background(), m, api, id, false))
	m.Wait()
	p, ok := m.Store.Get(id)
	require.True(t, ok)
	assert.False(t, p.Bookmarked)
	assert.Zero(t, p.BookmarksCount)
}

func TestSetPipelineStatusAllowsAnyTransition(t *testing.T) {
	item := models.PipelineItem{ID: primitive.NewObjectID(), Title: "reel", Status: models.PipelinePosted}
	id := item.ID.Hex()
	store := NewStore[models.PipelineItem]()
	store.Load([]models.PipelineItem{item}, PipelineKey)

	saved := item
	saved.Status = models.PipelineIdea
	api := &fakeAPI{}
	api.On("UpdatePipelineItem", mock.Anything, id, mock.MatchedBy(func(req models.UpdatePipelineItemRequest) bool {
		return req.Status != nil && *req.Status == models.PipelineIdea
	})).Return(saved, nil).Once()

	m := NewMutator(store, nil)
	require.NoError(t, SetPipelineStatus(context.Background(), m, api, id, models.PipelineIdea))
	got, _ := store.Get(id)
	assert.Equal(t, models.PipelineIdea, got.Status)

	api.On("UpdatePipelineItem", mock.Anything, id, mock.Anything).Return(models.PipelineItem{}, errors.New("500")).Once()
	assert.Error(t, SetPipelineStatus(context.Background(), m, api, id, models.PipelineArchived))
	got, _ = store.Get(id)
	assert.Equal(t, models.PipelineIdea, got.Status)
}
