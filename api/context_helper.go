package api

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type requestIDKey struct{}

// WithRequestID stores the request id on ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id assigned by RequestLogger, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logger returns the global sugared logger annotated with the request id and caller
func Logger(ctx context.Context) *zap.SugaredLogger {
	l := zap.S()
	if id := RequestID(ctx); id != "" {
		l = l.With("requestId", id)
	}
	if who, ok := IdentityFrom(ctx); ok {
		l = l.With("userId", who.UserID, "organizationId", who.OrganizationID)
	}
	return l
}
