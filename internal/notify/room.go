package notify

import (
	"context"
	"strings"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
)

const rootRoomPrefix = "root:"

// RoomGate decides whether an actor may subscribe to a room
type RoomGate struct {
	authorizer services.ResourceAuthorizer
}

// NewRoomGate creates a gate backed by the item authorizer
func NewRoomGate(authorizer services.ResourceAuthorizer) *RoomGate {
	return &RoomGate{authorizer: authorizer}
}

// Authorize accepts folder:<id> and file:<id> rooms the actor can subscribe
// to, and only the actor's own root room
func (g *RoomGate) Authorize(ctx context.Context, actor models.Actor, room string) error {
	if ownerID, ok := strings.CutPrefix(room, rootRoomPrefix); ok {
		if ownerID == "" {
			return domain.NewValidationError("invalid room %q", room)
		}
		if ownerID != actor.ID && !actor.IsAdmin() {
			return &domain.AccessDeniedError{ActorID: actor.ID, ItemID: room, Required: string(models.AccessOwner)}
		}
		return nil
	}

	itemType, id, err := ParseRoom(room)
	if err != nil {
		return err
	}
	return g.authorizer.Authorize(ctx, actor, itemType, id, services.OpSubscribe)
}

// ParseRoom splits an item room into its type and id
func ParseRoom(room string) (models.ItemType, string, error) {
	kind, id, ok := strings.Cut(room, ":")
	if !ok || id == "" {
		return "", "", domain.NewValidationError("invalid room %q", room)
	}
	itemType, err := models.ParseItemType(kind)
	if err != nil {
		return "", "", &domain.ValidationError{Message: err.Error()}
	}
	return itemType, id, nil
}
