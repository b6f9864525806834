package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/linesmerrill/studio-api/models"
)

type profileEntry struct {
	profile models.FeedProfile
	expires time.Time
}

// ProfileCache memoizes feed profile headers, which need several count queries to build
type ProfileCache struct {
	entries *lru.Cache
	ttl     time.Duration
	clock   func() time.Time
}

// NewProfileCache keeps up to size profiles for ttl each
func NewProfileCache(size int, ttl time.Duration) (*ProfileCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ProfileCache{entries: entries, ttl: ttl, clock: time.Now}, nil
}

// Get returns the cached profile for userID unless it is missing or stale
func (c *ProfileCache) Get(userID string) (models.FeedProfile, bool) {
	v, ok := c.entries.Get(userID)
	if !ok {
		return models.FeedProfile{}, false
	}
	entry := v.(profileEntry)
	if !c.clock().Before(entry.expires) {
		c.entries.Remove(userID)
		return models.FeedProfile{}, false
	}
	return entry.profile, true
}

func (c *ProfileCache) Add(profile models.FeedProfile) {
	c.entries.Add(profile.UserID, profileEntry{profile: profile, expires: c.clock().Add(c.ttl)})
}

// Invalidate drops userID, called whenever their posts or likes change
func (c *ProfileCache) Invalidate(userID string) {
	c.entries.Remove(userID)
}
