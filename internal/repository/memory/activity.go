package memory

import (
	"context"

	"github.com/google/uuid"

	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
)

// ActivityRepository is the in-memory ActivityRepository
type ActivityRepository struct {
	store *Store
}

// NewActivityRepository creates an activity repository over store
func NewActivityRepository(store *Store) driveRepo.ActivityRepository {
	return &ActivityRepository{store: store}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	activity.CreatedAt = s.stamp(activity.CreatedAt)
	a := *activity
	s.activity = append(s.activity, &a)
	return nil
}

// ListByItem returns the newest entries first
func (r *ActivityRepository) ListByItem(ctx context.Context, itemID string, limit int) ([]models.Activity, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Activity{}
	for i := len(s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if s.activity[i].ItemID == itemID {
			out = append(out, *s.activity[i])
		}
	}
	return out, nil
}
