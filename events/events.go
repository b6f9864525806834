// Package events publishes domain events so other services can react to studio changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects published by the api
const (
	ModelCreated          = "studio.model.created"
	ModelUpdated          = "studio.model.updated"
	ModelDeleted          = "studio.model.deleted"
	PostCreated           = "studio.post.created"
	PostDeleted           = "studio.post.deleted"
	PostLiked             = "studio.post.liked"
	PostUnliked           = "studio.post.unliked"
	PostBookmarked        = "studio.post.bookmarked"
	PostUnbookmarked      = "studio.post.unbookmarked"
	CommentCreated        = "studio.comment.created"
	CaptionUsed           = "studio.caption.used"
	PipelineStatusChanged = "studio.pipeline.status_changed"
	InvitationCreated     = "studio.invitation.created"
	InvitationRedeemed    = "studio.invitation.redeemed"
	InvitationRevoked     = "studio.invitation.revoked"
	JobUpdated            = "studio.job.updated"
)

// Subject builds a studio.<entity>.<action> subject
func Subject(entity, action string) string {
	return fmt.Sprintf("studio.%s.%s", entity, action)
}

// Event is the envelope every message is wrapped in
type Event struct {
	Subject        string      `json:"subject"`
	OrganizationID string      `json:"organizationId,omitempty"`
	ActorID        string      `json:"actorId,omitempty"`
	OccurredAt     time.Time   `json:"occurredAt"`
	Data           interface{} `json:"data"`
}

// Publisher sends events. Implementations never block the caller on delivery failures.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// New connects to NATS when url is set and falls back to a no-op publisher otherwise
func New(url string) (Publisher, error) {
	if url == "" {
		zap.S().Info("NATS_URL not set, events are disabled")
		return Nop{}, nil
	}
	return NewNATSPublisher(url)
}

// NATSPublisher publishes events as JSON on core NATS subjects
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher dials url
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("studio-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				zap.S().Warnw("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			zap.S().Infow("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		zap.S().With(zap.Error(err)).Errorw("failed to encode event", "subject", e.Subject)
		return
	}
	if err := p.conn.Publish(e.Subject, b); err != nil {
		zap.S().With(zap.Error(err)).Warnw("failed to publish event", "subject", e.Subject)
	}
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

func (Nop) Close() error { return nil }

// Recorder keeps published events in memory, used by tests
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Subjects lists the subjects published so far, in order
func (r *Recorder) Subjects() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Subject)
	}
	return out
}
