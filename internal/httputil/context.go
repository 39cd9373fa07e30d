package httputil

import (
	"context"
	"net/http"

	models "drive/internal/domain/models/drive"
)

// Context key type to avoid collisions
type contextKey string

const actorKey contextKey = "actor"

// WithActor adds the authenticated actor to the request context
func WithActor(r *http.Request, actor models.Actor) *http.Request {
	ctx := context.WithValue(r.Context(), actorKey, actor)
	return r.WithContext(ctx)
}

// ActorFromContext retrieves the actor set by the auth middleware
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok && actor.ID != ""
}
