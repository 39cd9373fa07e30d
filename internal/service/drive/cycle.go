package drive

import (
	"context"
	"fmt"
	"log/slog"

	"drive/internal/domain"
	driveRepo "drive/internal/domain/repositories/drive"
)

// CycleGuard rejects folder moves that would make a folder its own ancestor
type CycleGuard struct {
	folders  driveRepo.FolderRepository
	maxDepth int
	logger   *slog.Logger
}

// NewCycleGuard creates a guard that gives up after maxDepth hops
func NewCycleGuard(folders driveRepo.FolderRepository, maxDepth int, logger *slog.Logger) *CycleGuard {
	return &CycleGuard{folders: folders, maxDepth: maxDepth, logger: logger}
}

// WouldCreateCycle walks parent pointers up from destinationID. It reports true
// if movingID is met on the way, or if the walk exceeds maxDepth (corrupt data
// is treated as a cycle). A missing ancestor ends the walk.
func (g *CycleGuard) WouldCreateCycle(ctx context.Context, movingID, destinationID string) (bool, error) {
	current := destinationID
	for hops := 0; hops < g.maxDepth; hops++ {
		if current == movingID {
			return true, nil
		}

		folder, err := g.folders.GetByID(ctx, current)
		if err != nil {
			if domain.IsNotFound(err) {
				return false, nil
			}
			return false, fmt.Errorf("walk ancestors: %w", err)
		}
		if folder.ParentID == nil {
			return false, nil
		}
		current = *folder.ParentID
	}

	g.logger.Warn("ancestor walk exceeded max depth, refusing move",
		"folder_id", movingID,
		"destination_id", destinationID,
		"max_depth", g.maxDepth,
	)
	return true, nil
}
