package drive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/postgres"
)

// PostgresActivityRepository implements the ActivityRepository interface
type PostgresActivityRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(config *postgres.RepositoryConfig) driveRepo.ActivityRepository {
	return &PostgresActivityRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends an activity entry
func (r *PostgresActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (actor_id, item_id, item_type, action, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Activities)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		activity.ActorID,
		activity.ItemID,
		string(activity.ItemType),
		activity.Action,
		activity.Message,
		activity.CreatedAt,
	).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	return nil
}

// ListByItem returns the newest activity entries for an item
func (r *PostgresActivityRepository) ListByItem(ctx context.Context, itemID string, limit int) ([]models.Activity, error) {
	query := fmt.Sprintf(`
		SELECT id, actor_id, item_id, item_type, action, message, created_at
		FROM %s
		WHERE item_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.Activities)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var itemType string
		if err := rows.Scan(&a.ID, &a.ActorID, &a.ItemID, &itemType, &a.Action, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ItemType = models.ItemType(itemType)
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return activities, nil
}
