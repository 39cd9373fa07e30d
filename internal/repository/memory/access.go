package memory

import (
	"context"

	"github.com/google/uuid"

	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
)

// AccessRepository is the in-memory AccessRepository
type AccessRepository struct {
	store *Store
}

// NewAccessRepository creates an access repository over store
func NewAccessRepository(store *Store) driveRepo.AccessRepository {
	return &AccessRepository{store: store}
}

func (r *AccessRepository) Grant(ctx context.Context, grant *models.AccessControl) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := grantKey{userID: grant.UserID, itemType: grant.ItemType, itemID: grant.ItemID}
	if existing, ok := s.grants[key]; ok {
		existing.Level = grant.Level
		grant.ID = existing.ID
		grant.CreatedAt = existing.CreatedAt
		return nil
	}
	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}
	grant.CreatedAt = s.stamp(grant.CreatedAt)
	g := *grant
	s.grants[key] = &g
	return nil
}

func (r *AccessRepository) Revoke(ctx context.Context, userID string, itemType models.ItemType, itemID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.grants, grantKey{userID: userID, itemType: itemType, itemID: itemID})
	return nil
}

func (r *AccessRepository) GetLevel(ctx context.Context, userID string, itemType models.ItemType, itemID string) (models.AccessLevel, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g, ok := s.grants[grantKey{userID: userID, itemType: itemType, itemID: itemID}]; ok {
		return g.Level, nil
	}
	return models.AccessNone, nil
}

func (r *AccessRepository) DeleteByItem(ctx context.Context, itemType models.ItemType, itemID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.grants {
		if key.itemType == itemType && key.itemID == itemID {
			delete(s.grants, key)
		}
	}
	return nil
}
