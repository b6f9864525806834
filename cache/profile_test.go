package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/studio-api/models"
)

func TestProfileCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewProfileCache(8, time.Minute)
	require.NoError(t, err)
	c.clock = func() time.Time { return now }

	_, ok := c.Get("u1")
	assert.False(t, ok)

	c.Add(models.FeedProfile{UserID: "u1", PostsCount: 3})
	p, ok := c.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, int64(3), p.PostsCount)

	now = now.Add(time.Minute)
	_, ok = c.Get("u1")
	assert.False(t, ok, "entries expire after ttl")

	c.Add(models.FeedProfile{UserID: "u2"})
	c.Invalidate("u2")
	_, ok = c.Get("u2")
	assert.False(t, ok)
}

func TestNewProfileCache_InvalidSize(t *testing.T) {
	_, err := NewProfileCache(0, time.Minute)
	assert.Error(t, err)
}
