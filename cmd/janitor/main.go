package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"drive/internal/config"
	models "drive/internal/domain/models/drive"
	"drive/internal/jobs"
	"drive/internal/policy"
	"drive/internal/repository"
	"drive/internal/service/activity"
	serviceAuth "drive/internal/service/auth"
	serviceDrive "drive/internal/service/drive"
	"drive/internal/storage/blob"
)

// janitorActor is the identity maintenance commands act as
var janitorActor = models.Actor{ID: "janitor", Role: models.RoleAdmin}

var lockPath string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "janitor",
		Short: "Drive maintenance commands",
		Long: `Run drive maintenance against the configured database and blob store.

Examples:
  # Purge items trashed longer than the retention period
  janitor purge

  # Permanently delete everything in one user's trash
  janitor empty-trash --owner 3f2c...

  # Create or update the database schema
  janitor migrate`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&lockPath, "lock-file", filepath.Join(os.TempDir(), "drive-janitor.lock"),
		"lock held while a command runs; concurrent runs on this host fail fast")

	rootCmd.AddCommand(newPurgeCmd())
	rootCmd.AddCommand(newEmptyTrashCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newPurgeCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete items past the trash retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), olderThan, func(ctx context.Context, env *janitorEnv) error {
				scheduler := jobs.NewPurgeScheduler(env.services.Trash, time.Hour, nil, env.logger)
				report, err := scheduler.RunOnce(ctx, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d folders, %d files (cutoff %s, %d blob failures)\n",
					report.FoldersPurged, report.FilesPurged, report.Cutoff.Format(time.RFC3339), report.BlobFailures)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "override the retention period (e.g. 720h)")
	return cmd
}

func newEmptyTrashCmd() *cobra.Command {
	var owner, itemType string
	cmd := &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently delete every trashed item of one owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []models.ItemType
			if itemType != "" {
				t, err := models.ParseItemType(itemType)
				if err != nil {
					return err
				}
				types = append(types, t)
			}
			return withServices(cmd.Context(), 0, func(ctx context.Context, env *janitorEnv) error {
				count, err := env.services.Trash.EmptyTrash(ctx, janitorActor, owner, types...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d items from the trash of %s\n", count, owner)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner whose trash is emptied (required)")
	cmd.Flags().StringVar(&itemType, "type", "", "restrict to folder or file")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, closer, err := config.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()
			return repository.Migrate(cmd.Context(), cfg, logger)
		},
	}
}

type janitorEnv struct {
	services *serviceDrive.Services
	logger   *slog.Logger
}

// withServices builds the drive services over the configured stores and
// runs fn with a context cancelled on SIGINT/SIGTERM
func withServices(parent context.Context, retention time.Duration, fn func(context.Context, *janitorEnv) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("another janitor run holds %s", lockPath)
	}
	defer lock.Unlock()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if retention > 0 {
		cfg.TrashRetention = retention
	}

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	stores, err := repository.Open(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	blobs, err := blob.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create blob store: %w", err)
	}
	registry, err := policy.NewRegistry()
	if err != nil {
		return err
	}

	services := serviceDrive.SetupServices(serviceDrive.Deps{
		Folders:    stores.Folders,
		Files:      stores.Files,
		Versions:   stores.Versions,
		Access:     stores.Access,
		TxManager:  stores.TxManager,
		Authorizer: serviceAuth.NewAccessAuthorizer(stores.Folders, stores.Files, stores.Access, registry, logger),
		Blobs:      blobs,
		Activity:   activity.NewRecorder(stores.Activity, logger),
		Logger:     logger,
		Retention:  cfg.TrashRetention,
	}, stores.Activity)

	return fn(ctx, &janitorEnv{services: services, logger: logger})
}
