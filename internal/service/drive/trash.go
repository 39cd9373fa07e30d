package drive

import (
	"context"
	"fmt"
	"slices"
	"time"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
)

// systemActor attributes scheduled purges in the activity log
var systemActor = models.Actor{ID: "system", Role: models.RoleAdmin}

type trashService struct {
	*core
}

// NewTrashService creates the trash lifecycle service
func NewTrashService(deps Deps) driveSvc.TrashService {
	return &trashService{core: newCore(deps)}
}

// SoftDelete moves an item to the trash. Trashing an already trashed item
// refreshes its deletion timestamp, restarting the retention clock.
// Descendants are left as they are.
func (s *trashService) SoftDelete(ctx context.Context, actor models.Actor, itemType models.ItemType, id string) (result *driveSvc.ItemResult, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("soft_delete", err, start) }(time.Now())

	n, err := s.getNode(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, n.Type(), n.ID(), services.OpTrash); err != nil {
		return nil, err
	}

	now := s.Now()
	if err := s.setNodeDeletedAt(ctx, n, &now); err != nil {
		return nil, fmt.Errorf("trash %s: %w", n.Type(), err)
	}
	n.setDeletedAt(&now)

	s.record(ctx, actor, n, models.ActionTrash, fmt.Sprintf("moved %q to trash", n.Name()))
	s.publish(n, models.EventItemTrashed, s.changeEvent(actor, n))

	return n.result(), nil
}

// Restore brings a trashed item back to its original location. If a live
// sibling took its name in the meantime, the restored item gets "stem (n)ext".
func (s *trashService) Restore(ctx context.Context, actor models.Actor, itemType models.ItemType, id string) (result *driveSvc.ItemResult, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("restore", err, start) }(time.Now())

	n, err := s.getNode(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, n.Type(), n.ID(), services.OpRestore); err != nil {
		return nil, err
	}
	if !n.Trashed() {
		return n.result(), nil
	}

	previousName := n.Name()
	err = s.TxManager.ExecTx(ctx, func(ctx context.Context) error {
		name, err := s.names.ResolveUniqueName(ctx, previousName, n.scope())
		if err != nil {
			return fmt.Errorf("resolve name: %w", err)
		}
		if name != previousName {
			n.setName(name)
			n.touch(s.Now())
			if err := s.saveNode(ctx, n); err != nil {
				return err
			}
		}
		return s.setNodeDeletedAt(ctx, n, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", n.Type(), err)
	}
	n.setDeletedAt(nil)

	message := fmt.Sprintf("restored %q from trash", previousName)
	event := s.changeEvent(actor, n)
	if n.Name() != previousName {
		message += fmt.Sprintf(" as %q", n.Name())
		event.PreviousName = previousName
	}
	s.record(ctx, actor, n, models.ActionRestore, message)
	s.publish(n, models.EventItemRestored, event)

	return n.result(), nil
}

// PermanentDelete removes a trashed item. Only the item itself is removed:
// children of a folder keep pointing at the missing parent.
func (s *trashService) PermanentDelete(ctx context.Context, actor models.Actor, itemType models.ItemType, id string) (result *driveSvc.ItemResult, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("permanent_delete", err, start) }(time.Now())

	n, err := s.getNode(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, n.Type(), n.ID(), services.OpPermanentDelete); err != nil {
		return nil, err
	}
	if !n.Trashed() {
		return nil, domain.NewValidationError("%s %s must be in the trash before it can be deleted permanently", n.Type(), n.ID())
	}

	removed, _, err := s.destroy(ctx, n)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, &domain.NotFoundError{ItemType: string(n.Type()), ID: n.ID()}
	}

	s.record(ctx, actor, n, models.ActionPermanentDelete, fmt.Sprintf("permanently deleted %q", n.Name()))
	s.publish(n, models.EventItemDeleted, s.changeEvent(actor, n))

	return n.result(), nil
}

// EmptyTrash permanently deletes every trashed item of ownerID regardless of
// age. With itemTypes set, only those kinds are removed.
func (s *trashService) EmptyTrash(ctx context.Context, actor models.Actor, ownerID string, itemTypes ...models.ItemType) (count int, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("empty_trash", err, start) }(time.Now())

	if ownerID == "" {
		ownerID = actor.ID
	}
	if ownerID != actor.ID && !actor.IsAdmin() {
		return 0, &domain.AccessDeniedError{ActorID: actor.ID, ItemID: "trash:" + ownerID, Required: string(models.AccessOwner)}
	}
	wants := func(t models.ItemType) bool {
		return len(itemTypes) == 0 || slices.Contains(itemTypes, t)
	}

	var nodes []node
	if wants(models.ItemTypeFolder) {
		folders, err := s.Folders.ListTrashed(ctx, ownerID)
		if err != nil {
			return 0, fmt.Errorf("list trashed folders: %w", err)
		}
		for i := range folders {
			nodes = append(nodes, node{folder: &folders[i]})
		}
	}
	if wants(models.ItemTypeFile) {
		files, err := s.Files.ListTrashed(ctx, ownerID)
		if err != nil {
			return 0, fmt.Errorf("list trashed files: %w", err)
		}
		for i := range files {
			nodes = append(nodes, node{file: &files[i]})
		}
	}

	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		removed, _, err := s.destroy(ctx, n)
		if err != nil {
			return count, err
		}
		if !removed {
			continue
		}
		count++
		s.record(ctx, actor, n, models.ActionEmptyTrash, fmt.Sprintf("permanently deleted %q while emptying trash", n.Name()))
		s.publish(n, models.EventItemDeleted, s.changeEvent(actor, n))
	}

	s.Notifier.Publish(models.ScopeRoom(ownerID, nil), models.EventTrashEmptied, models.ChangeEvent{
		ActorID: actor.ID,
		Count:   count,
		At:      s.Now(),
	})
	s.Logger.Info("trash emptied", "owner_id", ownerID, "count", count)

	return count, nil
}

// ListTrash lists the actor's own trashed items
func (s *trashService) ListTrash(ctx context.Context, actor models.Actor) (*driveSvc.TrashContents, error) {
	folders, err := s.Folders.ListTrashed(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list trashed folders: %w", err)
	}
	files, err := s.Files.ListTrashed(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list trashed files: %w", err)
	}
	return &driveSvc.TrashContents{Folders: folders, Files: files}, nil
}

// Purge removes every item, across all owners, trashed at or before
// now minus the retention period. It does not cascade to descendants and
// takes no lock: overlapping runs are safe because row deletion is idempotent.
func (s *trashService) Purge(ctx context.Context, now time.Time) (*driveSvc.PurgeReport, error) {
	report := &driveSvc.PurgeReport{Cutoff: now.Add(-s.Retention)}

	folders, err := s.Folders.ListTrashedBefore(ctx, report.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expired folders: %w", err)
	}
	files, err := s.Files.ListTrashedBefore(ctx, report.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expired files: %w", err)
	}

	for i := range folders {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		n := node{folder: &folders[i]}
		removed, _, err := s.destroy(ctx, n)
		if err != nil {
			return report, err
		}
		if removed {
			report.FoldersPurged++
			s.record(ctx, systemActor, n, models.ActionPurge, fmt.Sprintf("purged %q after retention", n.Name()))
		}
	}

	for i := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		n := node{file: &files[i]}
		removed, failures, err := s.destroy(ctx, n)
		if err != nil {
			return report, err
		}
		report.BlobFailures += failures
		if removed {
			report.FilesPurged++
			s.record(ctx, systemActor, n, models.ActionPurge, fmt.Sprintf("purged %q after retention", n.Name()))
		}
	}

	s.Logger.Info("purge complete",
		"cutoff", report.Cutoff,
		"folders", report.FoldersPurged,
		"files", report.FilesPurged,
		"blob_failures", report.BlobFailures,
	)

	return report, nil
}

// destroy deletes an item's rows in one transaction, then releases its blobs.
// Blob failures are logged and counted, never returned. removed is false when
// the row was already gone.
func (c *core) destroy(ctx context.Context, n node) (removed bool, blobFailures int, err error) {
	var refs []string

	err = c.TxManager.ExecTx(ctx, func(ctx context.Context) error {
		var deleteErr error
		if n.file != nil {
			versions, err := c.Versions.DeleteByFile(ctx, n.ID())
			if err != nil {
				return fmt.Errorf("delete versions: %w", err)
			}
			refs = append(refs, n.file.BlobRef)
			for _, v := range versions {
				refs = append(refs, v.BlobRef)
			}
			removed, deleteErr = c.Files.Delete(ctx, n.ID())
		} else {
			removed, deleteErr = c.Folders.Delete(ctx, n.ID())
		}
		if deleteErr != nil {
			return deleteErr
		}
		if err := c.Access.DeleteByItem(ctx, n.Type(), n.ID()); err != nil {
			return fmt.Errorf("delete grants: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("delete %s %s: %w", n.Type(), n.ID(), err)
	}
	if !removed {
		return false, 0, nil
	}
	c.Metrics.RecordPurged(string(n.Type()), 1)

	// restoreVersion makes the file and a version share a ref
	slices.Sort(refs)
	for _, ref := range slices.Compact(refs) {
		if ref == "" {
			continue
		}
		if err := c.Blobs.Delete(ctx, ref); err != nil {
			blobFailures++
			c.Metrics.RecordBlobDeleteFailure()
			c.Logger.Warn("failed to delete blob, leaving it behind",
				"item_id", n.ID(),
				"ref", ref,
				"error", &domain.StorageError{Op: "delete", Ref: ref, Err: err},
			)
		}
	}

	return true, blobFailures, nil
}
