package drive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
)

type moveCoordinator struct {
	*core
}

// NewMoveCoordinator creates the move/rename coordinator
func NewMoveCoordinator(deps Deps) driveSvc.MoveCoordinator {
	return &moveCoordinator{core: newCore(deps)}
}

// Move relocates an item. The validation steps only read; the single update at
// the end is the only write. Validation and write are separate store round
// trips, so two concurrent moves can both pass the name probe.
func (s *moveCoordinator) Move(ctx context.Context, req *driveSvc.MoveRequest) (result *driveSvc.MoveResult, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("move", err, start) }(time.Now())

	if err := validateItemType(req.ItemType); err != nil {
		return nil, err
	}
	req.DestinationID = strings.TrimSpace(req.DestinationID)
	if req.DestinationID == "" {
		return nil, domain.NewValidationError("destinationFolderId is required")
	}

	// 1. destination
	var destination *models.Folder
	if req.DestinationID != models.RootDestination {
		destination, err = s.Folders.GetByID(ctx, req.DestinationID)
		if err != nil {
			return nil, err
		}
		if destination.IsTrashed() {
			return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: req.DestinationID}
		}
	}

	// 2. cycle
	if req.ItemType == models.ItemTypeFolder && destination != nil {
		// the walk answers whether the folder is an ancestor of destination
		if err := s.Authorizer.Authorize(ctx, req.Actor, models.ItemTypeFolder, req.ItemID, services.OpMove); err != nil {
			return nil, err
		}
		cycle, err := s.cycles.WouldCreateCycle(ctx, req.ItemID, destination.ID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, &domain.CycleError{FolderID: req.ItemID, DestinationID: destination.ID}
		}
	}

	// 3. moving item and access
	n, err := s.getLiveNode(ctx, req.ItemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, req.Actor, n.Type(), n.ID(), services.OpMove); err != nil {
		return nil, err
	}
	var destinationID *string
	if destination != nil {
		if destination.OwnerID != n.OwnerID() {
			return nil, domain.NewValidationError("cannot move an item into a folder with a different owner")
		}
		if err := s.Authorizer.Authorize(ctx, req.Actor, models.ItemTypeFolder, destination.ID, services.OpMoveInto); err != nil {
			return nil, err
		}
		destinationID = &destination.ID
	}

	// 4. name
	previousName := n.Name()
	previousParent := n.ParentID()
	scope := models.NameScope{
		OwnerID:   n.OwnerID(),
		ParentID:  destinationID,
		ItemType:  n.Type(),
		ExcludeID: n.ID(),
	}
	uniqueName, err := s.names.ResolveUniqueName(ctx, previousName, scope)
	if err != nil {
		return nil, fmt.Errorf("resolve name: %w", err)
	}

	// 5. write
	n.setParent(destinationID)
	n.setName(uniqueName)
	n.touch(s.Now())
	if err := s.saveNode(ctx, n); err != nil {
		return nil, fmt.Errorf("move %s: %w", n.Type(), err)
	}

	renamed := uniqueName != previousName

	// 6. activity
	message := fmt.Sprintf("moved %q to %s", previousName, describeScope(destination))
	if renamed {
		message += fmt.Sprintf(", renamed to %q", uniqueName)
	}
	s.record(ctx, req.Actor, n, models.ActionMove, message)

	// 7. notify the item, the scope it left and the scope it entered
	event := s.changeEvent(req.Actor, n)
	event.PreviousParentID = previousParent
	if renamed {
		event.PreviousName = previousName
	}
	s.publish(n, models.EventItemMoved, event)
	if !sameFolder(previousParent, destinationID) {
		s.Notifier.Publish(models.ScopeRoom(n.OwnerID(), previousParent), models.EventItemMoved, event)
	}

	s.Logger.Info("item moved",
		"item_type", n.Type(),
		"item_id", n.ID(),
		"destination_id", destinationID,
		"renamed", renamed,
	)

	result = &driveSvc.MoveResult{ItemResult: *n.result(), Renamed: renamed}
	if renamed {
		result.PreviousName = previousName
	}
	return result, nil
}

// Rename changes an item's name in place and rejects a live sibling collision
func (s *moveCoordinator) Rename(ctx context.Context, req *driveSvc.RenameRequest) (result *driveSvc.ItemResult, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("rename", err, start) }(time.Now())

	if err := validateItemType(req.ItemType); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateName(req.Name, maxNameLength(req.ItemType)); err != nil {
		return nil, err
	}

	n, err := s.getLiveNode(ctx, req.ItemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, req.Actor, n.Type(), n.ID(), services.OpRename); err != nil {
		return nil, err
	}

	previousName := n.Name()
	if previousName == req.Name {
		return n.result(), nil
	}
	if err := s.rejectDuplicate(ctx, n.scope(), req.Name); err != nil {
		return nil, err
	}

	n.setName(req.Name)
	n.touch(s.Now())
	if err := s.saveNode(ctx, n); err != nil {
		return nil, fmt.Errorf("rename %s: %w", n.Type(), err)
	}

	s.record(ctx, req.Actor, n, models.ActionRename, fmt.Sprintf("renamed %q to %q", previousName, req.Name))
	event := s.changeEvent(req.Actor, n)
	event.PreviousName = previousName
	s.publish(n, models.EventItemRenamed, event)

	return n.result(), nil
}

// SetStarred toggles the starred flag
func (s *moveCoordinator) SetStarred(ctx context.Context, actor models.Actor, itemType models.ItemType, id string, starred bool) (*driveSvc.ItemResult, error) {
	if err := validateItemType(itemType); err != nil {
		return nil, err
	}

	n, err := s.getLiveNode(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, n.Type(), n.ID(), services.OpStar); err != nil {
		return nil, err
	}

	n.setStarred(starred)
	n.touch(s.Now())
	if err := s.saveNode(ctx, n); err != nil {
		return nil, fmt.Errorf("star %s: %w", n.Type(), err)
	}

	verb := "starred"
	if !starred {
		verb = "unstarred"
	}
	s.record(ctx, actor, n, models.ActionStar, verb)
	s.publish(n, models.EventItemUpdated, s.changeEvent(actor, n))

	return n.result(), nil
}

func describeScope(folder *models.Folder) string {
	if folder == nil {
		return "root"
	}
	return fmt.Sprintf("%q", folder.Name)
}

func sameFolder(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
