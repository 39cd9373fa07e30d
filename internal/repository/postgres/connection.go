package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"drive/internal/domain/repositories"
)

const (
	maxConns = 25
	minConns = 5
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders        string
	Files          string
	FileVersions   string
	Activities     string
	AccessControls string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:        fmt.Sprintf("%sfolders", prefix),
		Files:          fmt.Sprintf("%sfiles", prefix),
		FileVersions:   fmt.Sprintf("%sfile_versions", prefix),
		Activities:     fmt.Sprintf("%sactivities", prefix),
		AccessControls: fmt.Sprintf("%saccess_controls", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Port 6543 is the conventional PgBouncer transaction-pooler port, which does not
// support prepared statements. There the pool switches to QueryExecModeCacheDescribe
// unless the connection string already chose a mode via default_query_exec_mode.
// JSONB metadata needs the extended protocol, so SimpleProtocol is not used.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = minConns

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// This lets repositories participate in TransactionManager.ExecTx transparently.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
