// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http lets services import only what they need.
package requestcontext

import (
	"context"

	"github.com/google/uuid"
)

type (
	actorIDKey   struct{}
	requestIDKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyActorID   = actorIDKey{}
	ContextKeyRequestID = requestIDKey{}
)

// ActorID retrieves the authenticated admin's ID from the context. Returns
// nil for unauthenticated (system-originated) requests.
func ActorID(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(ContextKeyActorID).(uuid.UUID); ok {
		return &id
	}
	return nil
}

// WithActorID injects the acting admin's ID into the context.
func WithActorID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyActorID, id)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
