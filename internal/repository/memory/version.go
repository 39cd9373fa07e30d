package memory

import (
	"context"

	"github.com/google/uuid"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
)

// FileVersionRepository is the in-memory FileVersionRepository
type FileVersionRepository struct {
	store *Store
}

// NewFileVersionRepository creates a version repository over store
func NewFileVersionRepository(store *Store) driveRepo.FileVersionRepository {
	return &FileVersionRepository{store: store}
}

func (r *FileVersionRepository) Create(ctx context.Context, version *models.FileVersion) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[version.FileID]; !ok {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: version.FileID}
	}
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	version.CreatedAt = s.stamp(version.CreatedAt)
	v := *version
	s.versions[version.FileID] = append(s.versions[version.FileID], &v)
	return nil
}

func (r *FileVersionRepository) GetByID(ctx context.Context, id string) (*models.FileVersion, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, versions := range s.versions {
		for _, v := range versions {
			if v.ID == id {
				c := *v
				return &c, nil
			}
		}
	}
	return nil, &domain.NotFoundError{ItemType: "version", ID: id}
}

// ListByFile returns versions newest first
func (r *FileVersionRepository) ListByFile(ctx context.Context, fileID string) ([]models.FileVersion, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := s.versions[fileID]
	out := make([]models.FileVersion, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		out = append(out, *versions[i])
	}
	return out, nil
}

func (r *FileVersionRepository) DeleteByFile(ctx context.Context, fileID string) ([]models.FileVersion, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.versions[fileID]
	out := make([]models.FileVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, *v)
	}
	delete(s.versions, fileID)
	return out, nil
}
