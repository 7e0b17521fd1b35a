// Package session keeps the mapping from an opaque session id to the user who
// logged in. The id travels to the browser inside a signed cookie.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Lookup for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

const DefaultTTL = time.Hour

type Session struct {
	ID        string
	ActorID   uuid.UUID
	ExpiresAt time.Time
}

type Store interface {
	Create(ctx context.Context, actorID uuid.UUID) (Session, error)
	Lookup(ctx context.Context, sessionID string) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID string) error
}

func newSessionID() string { return uuid.NewString() }

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
