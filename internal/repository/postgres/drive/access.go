package drive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/postgres"
)

// PostgresAccessRepository implements the AccessRepository interface
type PostgresAccessRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(config *postgres.RepositoryConfig) driveRepo.AccessRepository {
	return &PostgresAccessRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Grant upserts a user's level on an item
func (r *PostgresAccessRepository) Grant(ctx context.Context, grant *models.AccessControl) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, item_type, item_id, level, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_type, item_id)
		DO UPDATE SET level = EXCLUDED.level
		RETURNING id, created_at
	`, r.tables.AccessControls)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		grant.UserID,
		string(grant.ItemType),
		grant.ItemID,
		string(grant.Level),
		grant.CreatedAt,
	).Scan(&grant.ID, &grant.CreatedAt)
	if err != nil {
		return fmt.Errorf("grant access: %w", err)
	}

	return nil
}

// Revoke removes a user's grant on an item. Missing grants are not an error.
func (r *PostgresAccessRepository) Revoke(ctx context.Context, userID string, itemType models.ItemType, itemID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND item_type = $2 AND item_id = $3
	`, r.tables.AccessControls)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, string(itemType), itemID); err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}

	return nil
}

// GetLevel returns the user's direct grant on an item
func (r *PostgresAccessRepository) GetLevel(ctx context.Context, userID string, itemType models.ItemType, itemID string) (models.AccessLevel, error) {
	query := fmt.Sprintf(`
		SELECT level FROM %s
		WHERE user_id = $1 AND item_type = $2 AND item_id = $3
	`, r.tables.AccessControls)

	executor := postgres.GetExecutor(ctx, r.pool)
	var level string
	err := executor.QueryRow(ctx, query, userID, string(itemType), itemID).Scan(&level)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return models.AccessNone, nil
		}
		return models.AccessNone, fmt.Errorf("get access level: %w", err)
	}

	return models.AccessLevel(level), nil
}

// DeleteByItem drops all grants on an item
func (r *PostgresAccessRepository) DeleteByItem(ctx context.Context, itemType models.ItemType, itemID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE item_type = $1 AND item_id = $2
	`, r.tables.AccessControls)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, string(itemType), itemID); err != nil {
		return fmt.Errorf("delete access grants: %w", err)
	}

	return nil
}
