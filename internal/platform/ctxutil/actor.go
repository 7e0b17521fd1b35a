package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type actorDataKey struct{}

// ActorData is the authenticated caller resolved from the session cookie.
type ActorData struct {
	ActorID   uuid.UUID
	SessionID string
}

func WithActorData(ctx context.Context, ad *ActorData) context.Context {
	return context.WithValue(ctx, actorDataKey{}, ad)
}

func GetActorData(ctx context.Context) *ActorData {
	val := ctx.Value(actorDataKey{})
	if ad, ok := val.(*ActorData); ok {
		return ad
	}
	return nil
}
