package drive

import (
	"context"
	"fmt"
	"time"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
)

// node is a folder or a file, addressed uniformly for tree operations
type node struct {
	folder *models.Folder
	file   *models.File
}

func (n node) Type() models.ItemType {
	if n.folder != nil {
		return models.ItemTypeFolder
	}
	return models.ItemTypeFile
}

func (n node) ID() string {
	if n.folder != nil {
		return n.folder.ID
	}
	return n.file.ID
}

func (n node) Name() string {
	if n.folder != nil {
		return n.folder.Name
	}
	return n.file.Name
}

func (n node) OwnerID() string {
	if n.folder != nil {
		return n.folder.OwnerID
	}
	return n.file.OwnerID
}

// ParentID is the containing folder; nil means the owner's root
func (n node) ParentID() *string {
	if n.folder != nil {
		return n.folder.ParentID
	}
	return n.file.FolderID
}

func (n node) Trashed() bool {
	if n.folder != nil {
		return n.folder.IsTrashed()
	}
	return n.file.IsTrashed()
}

func (n node) setName(name string) {
	if n.folder != nil {
		n.folder.Name = name
		return
	}
	n.file.Name = name
}

func (n node) setParent(parentID *string) {
	if n.folder != nil {
		n.folder.ParentID = parentID
		return
	}
	n.file.FolderID = parentID
}

func (n node) setStarred(starred bool) {
	if n.folder != nil {
		n.folder.IsStarred = starred
		return
	}
	n.file.IsStarred = starred
}

func (n node) touch(at time.Time) {
	if n.folder != nil {
		n.folder.UpdatedAt = at
		return
	}
	n.file.UpdatedAt = at
}

func (n node) setDeletedAt(at *time.Time) {
	if n.folder != nil {
		n.folder.DeletedAt = at
		return
	}
	n.file.DeletedAt = at
}

// scope is the sibling set the node's name lives in, excluding itself
func (n node) scope() models.NameScope {
	return models.NameScope{
		OwnerID:   n.OwnerID(),
		ParentID:  n.ParentID(),
		ItemType:  n.Type(),
		ExcludeID: n.ID(),
	}
}

func (n node) result() *driveSvc.ItemResult {
	return &driveSvc.ItemResult{Type: n.Type(), Folder: n.folder, File: n.file}
}

// getNode loads an item in any lifecycle state
func (c *core) getNode(ctx context.Context, itemType models.ItemType, id string) (node, error) {
	switch itemType {
	case models.ItemTypeFolder:
		folder, err := c.Folders.GetByID(ctx, id)
		if err != nil {
			return node{}, err
		}
		return node{folder: folder}, nil
	case models.ItemTypeFile:
		file, err := c.Files.GetByID(ctx, id)
		if err != nil {
			return node{}, err
		}
		return node{file: file}, nil
	default:
		return node{}, domain.NewValidationError("unknown item type %q", itemType)
	}
}

// getLiveNode loads an item and treats a trashed one as missing
func (c *core) getLiveNode(ctx context.Context, itemType models.ItemType, id string) (node, error) {
	n, err := c.getNode(ctx, itemType, id)
	if err != nil {
		return node{}, err
	}
	if n.Trashed() {
		return node{}, &domain.NotFoundError{ItemType: string(itemType), ID: id}
	}
	return n, nil
}

func (c *core) saveNode(ctx context.Context, n node) error {
	if n.folder != nil {
		return c.Folders.Update(ctx, n.folder)
	}
	return c.Files.Update(ctx, n.file)
}

func (c *core) setNodeDeletedAt(ctx context.Context, n node, at *time.Time) error {
	if n.folder != nil {
		return c.Folders.SetDeletedAt(ctx, n.ID(), at)
	}
	return c.Files.SetDeletedAt(ctx, n.ID(), at)
}

func (c *core) findSibling(ctx context.Context, scope models.NameScope, name string) (string, error) {
	if scope.ItemType == models.ItemTypeFolder {
		return c.Folders.FindSibling(ctx, scope, name)
	}
	return c.Files.FindSibling(ctx, scope, name)
}

// rejectDuplicate returns DuplicateNameError when a live sibling in scope
// already has name
func (c *core) rejectDuplicate(ctx context.Context, scope models.NameScope, name string) error {
	existing, err := c.findSibling(ctx, scope, name)
	if err != nil {
		return fmt.Errorf("check sibling names: %w", err)
	}
	if existing != "" {
		return &domain.DuplicateNameError{
			Name:       name,
			ItemType:   string(scope.ItemType),
			ExistingID: existing,
		}
	}
	return nil
}

// resolveParent turns a folder reference ("root", "" or nil for root) into a
// live parent folder the actor may perform op in. The returned owner is the
// owner of the scope: the folder's owner, or the actor for their own root.
func (c *core) resolveParent(ctx context.Context, actor models.Actor, ref *string, op string) (*models.Folder, string, error) {
	if isRootRef(ref) {
		return nil, actor.ID, nil
	}

	parent, err := c.Folders.GetByID(ctx, *ref)
	if err != nil {
		return nil, "", err
	}
	if parent.IsTrashed() {
		return nil, "", &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: *ref}
	}
	if err := c.Authorizer.Authorize(ctx, actor, models.ItemTypeFolder, parent.ID, op); err != nil {
		return nil, "", err
	}
	return parent, parent.OwnerID, nil
}

func isRootRef(ref *string) bool {
	return ref == nil || *ref == "" || *ref == models.RootDestination
}

func (c *core) record(ctx context.Context, actor models.Actor, n node, action, message string) {
	c.Activity.Record(ctx, models.Activity{
		ActorID:  actor.ID,
		ItemID:   n.ID(),
		ItemType: n.Type(),
		Action:   action,
		Message:  message,
	})
}

// publish announces a change to the item's own room and to the room of the
// scope containing it
func (c *core) publish(n node, event string, payload models.ChangeEvent) {
	c.Notifier.Publish(models.ItemRoom(n.Type(), n.ID()), event, payload)
	c.Notifier.Publish(models.ScopeRoom(n.OwnerID(), n.ParentID()), event, payload)
}

func (c *core) changeEvent(actor models.Actor, n node) models.ChangeEvent {
	return models.ChangeEvent{
		ItemType: n.Type(),
		ItemID:   n.ID(),
		Name:     n.Name(),
		ParentID: n.ParentID(),
		ActorID:  actor.ID,
		At:       c.Now(),
	}
}
