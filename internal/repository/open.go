// Package repository selects the tree store backend at startup.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"drive/internal/config"
	"drive/internal/domain/repositories"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/memory"
	"drive/internal/repository/postgres"
	postgresDrive "drive/internal/repository/postgres/drive"
)

// Stores is the set of repositories one process runs against
type Stores struct {
	Folders   driveRepo.FolderRepository
	Files     driveRepo.FileRepository
	Versions  driveRepo.FileVersionRepository
	Activity  driveRepo.ActivityRepository
	Access    driveRepo.AccessRepository
	TxManager repositories.TransactionManager
	Backend   string

	close func()
}

// Close releases the backend's connections
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to Postgres when cfg.DatabaseURL is set, applying the schema
// when migrate is true. Without a database URL it returns an in-memory store.
func Open(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (*Stores, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory tree store")
		repos := memory.NewRepositories()
		return &Stores{
			Folders:   repos.Folders,
			Files:     repos.Files,
			Versions:  repos.Versions,
			Activity:  repos.Activity,
			Access:    repos.Access,
			TxManager: memory.NewTransactionManager(),
			Backend:   "memory",
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if migrate {
		if err := postgres.ApplySchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("schema applied", "table_prefix", cfg.TablePrefix)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	logger.Info("database connected", "table_prefix", cfg.TablePrefix)

	return &Stores{
		Folders:   postgresDrive.NewFolderRepository(repoConfig),
		Files:     postgresDrive.NewFileRepository(repoConfig),
		Versions:  postgresDrive.NewFileVersionRepository(repoConfig),
		Activity:  postgresDrive.NewActivityRepository(repoConfig),
		Access:    postgresDrive.NewAccessRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, logger),
		Backend:   "postgres",
		close:     pool.Close,
	}, nil
}

// Migrate applies the schema and exits; it requires a database URL
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to migrate")
	}
	stores, err := Open(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	stores.Close()
	return nil
}
