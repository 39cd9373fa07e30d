package drive

import (
	"context"
	"fmt"
	"strings"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
)

const maxActivityLimit = 200

type accessService struct {
	*core
	activity driveRepo.ActivityRepository
}

// NewAccessService creates the sharing and audit-trail service
func NewAccessService(deps Deps, activity driveRepo.ActivityRepository) driveSvc.AccessService {
	return &accessService{core: newCore(deps), activity: activity}
}

// Share grants level on an item to another user, replacing any previous grant
func (s *accessService) Share(ctx context.Context, req *driveSvc.ShareRequest) (*models.AccessControl, error) {
	if err := validateItemType(req.ItemType); err != nil {
		return nil, err
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	level, err := models.ParseAccessLevel(string(req.Level))
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	n, err := s.getLiveNode(ctx, req.ItemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, req.Actor, n.Type(), n.ID(), services.OpShare); err != nil {
		return nil, err
	}
	if req.UserID == n.OwnerID() {
		return nil, domain.NewValidationError("the owner already has full access")
	}

	grant := &models.AccessControl{
		UserID:    req.UserID,
		ItemType:  n.Type(),
		ItemID:    n.ID(),
		Level:     level,
		CreatedAt: s.Now(),
	}
	if err := s.Access.Grant(ctx, grant); err != nil {
		return nil, fmt.Errorf("grant access: %w", err)
	}

	s.Logger.Info("access granted",
		"item_type", n.Type(),
		"item_id", n.ID(),
		"user_id", req.UserID,
		"level", level,
	)

	return grant, nil
}

// Unshare removes a user's grant on an item
func (s *accessService) Unshare(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID, userID string) error {
	if err := validateItemType(itemType); err != nil {
		return err
	}
	n, err := s.getNode(ctx, itemType, itemID)
	if err != nil {
		return err
	}
	if err := s.Authorizer.Authorize(ctx, actor, n.Type(), n.ID(), services.OpShare); err != nil {
		return err
	}
	if err := s.Access.Revoke(ctx, userID, n.Type(), n.ID()); err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}
	return nil
}

// ListActivity returns the newest audit entries for an item
func (s *accessService) ListActivity(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID string, limit int) ([]models.Activity, error) {
	if err := validateItemType(itemType); err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, itemType, itemID, services.OpViewActivity); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = config.DefaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	entries, err := s.activity.ListByItem(ctx, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}
