package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
)

// FolderRepository is the in-memory FolderRepository
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a folder repository over store
func NewFolderRepository(store *Store) driveRepo.FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	folder.CreatedAt = s.stamp(folder.CreatedAt)
	folder.UpdatedAt = s.stamp(folder.UpdatedAt)
	if folder.Tags == nil {
		folder.Tags = []string{}
	}
	s.folders[folder.ID] = cloneFolder(folder)
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: id}
	}
	return cloneFolder(f), nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.folders[folder.ID]
	if !ok {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: folder.ID}
	}
	updated := cloneFolder(folder)
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	updated.DeletedAt = existing.DeletedAt
	updated.UpdatedAt = s.stamp(folder.UpdatedAt)
	s.folders[folder.ID] = updated
	return nil
}

func (r *FolderRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: id}
	}
	f.DeletedAt = cloneTime(deletedAt)
	f.UpdatedAt = s.now()
	return nil
}

func (r *FolderRepository) Delete(ctx context.Context, id string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return false, nil
	}
	delete(s.folders, id)
	return true, nil
}

func (r *FolderRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	return r.filter(func(f *models.Folder) bool {
		if f.IsTrashed() || !sameParent(f.ParentID, parentID) {
			return false
		}
		return parentID != nil || f.OwnerID == ownerID
	}, byName), nil
}

func (r *FolderRepository) ListTrashed(ctx context.Context, ownerID string) ([]models.Folder, error) {
	return r.filter(func(f *models.Folder) bool {
		return f.IsTrashed() && f.OwnerID == ownerID
	}, byDeletedDesc), nil
}

func (r *FolderRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.Folder, error) {
	return r.filter(func(f *models.Folder) bool {
		return f.IsTrashed() && !f.DeletedAt.After(cutoff)
	}, byDeletedAsc), nil
}

func (r *FolderRepository) FindSibling(ctx context.Context, scope models.NameScope, name string) (string, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, f := range s.folders {
		if id == scope.ExcludeID || f.IsTrashed() || f.Name != name {
			continue
		}
		if f.OwnerID == scope.OwnerID && sameParent(f.ParentID, scope.ParentID) {
			return id, nil
		}
	}
	return "", nil
}

func (r *FolderRepository) filter(keep func(*models.Folder) bool, order int) []models.Folder {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Folder{}
	for _, f := range s.folders {
		if keep(f) {
			out = append(out, *cloneFolder(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return less(order, out[i].Name, out[j].Name, out[i].DeletedAt, out[j].DeletedAt)
	})
	return out
}
