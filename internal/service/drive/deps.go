package drive

import (
	"context"
	"log/slog"
	"time"

	"drive/internal/config"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/repositories"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/domain/services"
	"drive/internal/metrics"
)

// Deps are the collaborators shared by every drive service
type Deps struct {
	Folders    driveRepo.FolderRepository
	Files      driveRepo.FileRepository
	Versions   driveRepo.FileVersionRepository
	Access     driveRepo.AccessRepository
	TxManager  repositories.TransactionManager
	Authorizer services.ResourceAuthorizer
	Blobs      services.BlobStore
	Activity   services.ActivityLogger // optional
	Notifier   services.Notifier       // optional
	Metrics    *metrics.Metrics        // optional
	Logger     *slog.Logger

	// Retention is how long trashed items survive before Purge removes them
	Retention time.Duration

	// Now is the clock; defaults to time.Now
	Now func() time.Time
}

// core carries the dependencies plus the resolver and guard built from them
type core struct {
	Deps
	names  *NameResolver
	cycles *CycleGuard
}

func newCore(d Deps) *core {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Retention <= 0 {
		d.Retention = config.DefaultTrashRetentionDays * 24 * time.Hour
	}
	if d.Activity == nil {
		d.Activity = discardActivity{}
	}
	if d.Notifier == nil {
		d.Notifier = discardNotifier{}
	}
	return &core{
		Deps:   d,
		names:  NewNameResolver(d.Folders, d.Files),
		cycles: NewCycleGuard(d.Folders, config.MaxTreeDepth, d.Logger),
	}
}

type discardActivity struct{}

func (discardActivity) Record(context.Context, models.Activity) {}

type discardNotifier struct{}

func (discardNotifier) Publish(string, string, any) {}
