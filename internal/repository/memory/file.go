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

// FileRepository is the in-memory FileRepository
type FileRepository struct {
	store *Store
}

// NewFileRepository creates a file repository over store
func NewFileRepository(store *Store) driveRepo.FileRepository {
	return &FileRepository{store: store}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	file.CreatedAt = s.stamp(file.CreatedAt)
	file.UpdatedAt = s.stamp(file.UpdatedAt)
	s.files[file.ID] = cloneFile(file)
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: id}
	}
	return cloneFile(f), nil
}

func (r *FileRepository) Update(ctx context.Context, file *models.File) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.files[file.ID]
	if !ok {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: file.ID}
	}
	updated := cloneFile(file)
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	updated.DeletedAt = existing.DeletedAt
	updated.UpdatedAt = s.stamp(file.UpdatedAt)
	s.files[file.ID] = updated
	return nil
}

func (r *FileRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: id}
	}
	f.DeletedAt = cloneTime(deletedAt)
	f.UpdatedAt = s.now()
	return nil
}

// Delete removes the file and its versions
func (r *FileRepository) Delete(ctx context.Context, id string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return false, nil
	}
	delete(s.files, id)
	delete(s.versions, id)
	return true, nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.File, error) {
	return r.filter(func(f *models.File) bool {
		if f.IsTrashed() || !sameParent(f.FolderID, folderID) {
			return false
		}
		return folderID != nil || f.OwnerID == ownerID
	}, byName), nil
}

func (r *FileRepository) ListTrashed(ctx context.Context, ownerID string) ([]models.File, error) {
	return r.filter(func(f *models.File) bool {
		return f.IsTrashed() && f.OwnerID == ownerID
	}, byDeletedDesc), nil
}

func (r *FileRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.File, error) {
	return r.filter(func(f *models.File) bool {
		return f.IsTrashed() && !f.DeletedAt.After(cutoff)
	}, byDeletedAsc), nil
}

func (r *FileRepository) FindSibling(ctx context.Context, scope models.NameScope, name string) (string, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, f := range s.files {
		if id == scope.ExcludeID || f.IsTrashed() || f.Name != name {
			continue
		}
		if f.OwnerID == scope.OwnerID && sameParent(f.FolderID, scope.ParentID) {
			return id, nil
		}
	}
	return "", nil
}

func (r *FileRepository) filter(keep func(*models.File) bool, order int) []models.File {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.File{}
	for _, f := range s.files {
		if keep(f) {
			out = append(out, *cloneFile(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return less(order, out[i].Name, out[j].Name, out[i].DeletedAt, out[j].DeletedAt)
	})
	return out
}
