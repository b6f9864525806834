package optimistic

import (
	"context"

	"github.com/linesmerrill/studio-api/models"
)

// PostToggler is the part of the api client the feed toggles need
type PostToggler interface {
	LikePost(ctx context.Context, id string, on bool) (models.ToggleResult, error)
	BookmarkPost(ctx context.Context, id string, on bool) (models.ToggleResult, error)
}

// PipelineUpdater is the part of the api client SetPipelineStatus needs
type PipelineUpdater interface {
	UpdatePipelineItem(ctx context.Context, id string, req models.UpdatePipelineItemRequest) (models.PipelineItem, error)
}

// PostKey keys posts by their hex id
func PostKey(p models.Post) string { return p.ID.Hex() }

// PipelineKey keys pipeline items by their hex id
func PipelineKey(p models.PipelineItem) string { return p.ID.Hex() }

// ToggleLike flips the caller's like on a post and adjusts its count before the server answers.
// The server's count replaces the local one while the post is still in flight.
func ToggleLike(ctx context.Context, m *Mutator[models.Post], api PostToggler, id string) error {
	var on bool
	return m.Apply(ctx, id, func(p models.Post) models.Post {
		on = !p.Liked
		p.Liked = on
		p.LikesCount = step(p.LikesCount, on)
		return p
	}, func(ctx context.Context) error {
		confirmed, err := api.LikePost(ctx, id, on)
		if err != nil {
			return err
		}
		if p, ok := m.Store.Get(id); ok {
			p.Liked = confirmed.Active
			p.LikesCount = confirmed.Count
			m.Store.Set(id, p)
		}
		return nil
	})
}

// ToggleBookmark flips the caller's bookmark on a post. With dropOnRemove set, as on the
// bookmarks list, an unbookmarked post leaves the store after the remove delay.
func ToggleBookmark(ctx context.Context, m *Mutator[models.Post], api PostToggler, id string, dropOnRemove bool) error {
	current, ok := m.Store.Get(id)
	if !ok {
		return ErrNotFound
	}
	on := !current.Bookmarked
	mutate := func(p models.Post) models.Post {
		p.Bookmarked = on
		p.BookmarksCount = step(p.BookmarksCount, on)
		return p
	}
	commit := func(ctx context.Context) error {
		_, err := api.BookmarkPost(ctx, id, on)
		return err
	}
	if !on && dropOnRemove {
		return m.ApplyRemoval(ctx, id, mutate, commit)
	}
	return m.Apply(ctx, id, mutate, commit)
}

// SetPipelineStatus moves a pipeline item to status. Any status may follow any other.
func SetPipelineStatus(ctx context.Context, m *Mutator[models.PipelineItem], api PipelineUpdater, id string, status models.PipelineStatus) error {
	return m.Apply(ctx, id, func(item models.PipelineItem) models.PipelineItem {
		item.Status = status
		return item
	}, func(ctx context.Context) error {
		saved, err := api.UpdatePipelineItem(ctx, id, models.UpdatePipelineItemRequest{Status: &status})
		if err != nil {
			return err
		}
		m.Store.Set(id, saved)
		return nil
	})
}

func step(n int64, up bool) int64 {
	if up {
		return n + 1
	}
	if n > 0 {
		return n - 1
	}
	return 0
}
