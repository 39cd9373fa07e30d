package auth

import (
	"context"
	"fmt"
	"log/slog"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/domain/services"
	"drive/internal/policy"
)

// AccessAuthorizer implements ResourceAuthorizer with ownership plus grants.
// An owner holds AccessOwner on everything they own. Other users hold the
// strongest grant found on the item or on any ancestor folder. A public
// folder opens the policy's public operations to every authenticated actor,
// for the folder and everything below it.
type AccessAuthorizer struct {
	folderRepo driveRepo.FolderRepository
	fileRepo   driveRepo.FileRepository
	accessRepo driveRepo.AccessRepository
	policy     *policy.Registry
	logger     *slog.Logger
}

// NewAccessAuthorizer creates a new grant-aware authorizer
func NewAccessAuthorizer(
	folderRepo driveRepo.FolderRepository,
	fileRepo driveRepo.FileRepository,
	accessRepo driveRepo.AccessRepository,
	registry *policy.Registry,
	logger *slog.Logger,
) *AccessAuthorizer {
	return &AccessAuthorizer{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		accessRepo: accessRepo,
		policy:     registry,
		logger:     logger,
	}
}

var _ services.ResourceAuthorizer = (*AccessAuthorizer)(nil)

// Authorize checks the actor against the level the policy requires for op
func (a *AccessAuthorizer) Authorize(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID, op string) error {
	if actor.IsAdmin() {
		return nil
	}

	required := a.policy.Required(op)
	level, public, err := a.resolve(ctx, actor, itemType, itemID)
	if err != nil {
		return err
	}

	if level.Satisfies(required) {
		return nil
	}
	if public && a.policy.AllowsPublic(op) {
		return nil
	}

	return &domain.AccessDeniedError{
		ActorID:  actor.ID,
		ItemID:   itemID,
		Required: string(required),
	}
}

// EffectiveLevel returns the actor's level on an item
func (a *AccessAuthorizer) EffectiveLevel(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID string) (models.AccessLevel, error) {
	if actor.IsAdmin() {
		return models.AccessOwner, nil
	}
	level, _, err := a.resolve(ctx, actor, itemType, itemID)
	return level, err
}

// resolve loads the item, then walks its ancestors collecting grants and the
// public flag. The walk stops at the root, at a missing parent or after
// MaxTreeDepth hops.
func (a *AccessAuthorizer) resolve(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID string) (models.AccessLevel, bool, error) {
	var ownerID string
	var parentID *string
	public := false

	switch itemType {
	case models.ItemTypeFolder:
		folder, err := a.folderRepo.GetByID(ctx, itemID)
		if err != nil {
			return models.AccessNone, false, err
		}
		ownerID, parentID, public = folder.OwnerID, folder.ParentID, folder.IsPublic
	case models.ItemTypeFile:
		file, err := a.fileRepo.GetByID(ctx, itemID)
		if err != nil {
			return models.AccessNone, false, err
		}
		ownerID, parentID = file.OwnerID, file.FolderID
	default:
		return models.AccessNone, false, domain.NewValidationError("unknown item type %q", itemType)
	}

	if ownerID == actor.ID {
		return models.AccessOwner, true, nil
	}

	level, err := a.accessRepo.GetLevel(ctx, actor.ID, itemType, itemID)
	if err != nil {
		return models.AccessNone, false, fmt.Errorf("get grant: %w", err)
	}

	for hops := 0; parentID != nil; hops++ {
		if hops >= config.MaxTreeDepth {
			a.logger.Warn("ancestor walk exceeded max depth",
				"item_id", itemID,
				"max_depth", config.MaxTreeDepth,
			)
			break
		}

		grant, err := a.accessRepo.GetLevel(ctx, actor.ID, models.ItemTypeFolder, *parentID)
		if err != nil {
			return models.AccessNone, false, fmt.Errorf("get ancestor grant: %w", err)
		}
		if grant.Rank() > level.Rank() {
			level = grant
		}

		parent, err := a.folderRepo.GetByID(ctx, *parentID)
		if err != nil {
			if domain.IsNotFound(err) {
				break
			}
			return models.AccessNone, false, fmt.Errorf("get ancestor: %w", err)
		}
		public = public || parent.IsPublic
		parentID = parent.ParentID
	}

	return level, public, nil
}
