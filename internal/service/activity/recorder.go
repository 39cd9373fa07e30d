// Package activity records the audit trail of tree mutations.
package activity

import (
	"context"
	"log/slog"
	"time"

	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/domain/services"
)

// Recorder writes activity entries synchronously and swallows failures
type Recorder struct {
	repo   driveRepo.ActivityRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates an activity recorder
func NewRecorder(repo driveRepo.ActivityRepository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

var _ services.ActivityLogger = (*Recorder)(nil)

// Record persists entry. A failed write is logged, never returned.
func (r *Recorder) Record(ctx context.Context, entry models.Activity) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	if err := r.repo.Create(ctx, &entry); err != nil {
		r.logger.Warn("failed to record activity",
			"item_id", entry.ItemID,
			"action", entry.Action,
			"error", err,
		)
	}
}
