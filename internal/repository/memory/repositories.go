package memory

import (
	driveRepo "drive/internal/domain/repositories/drive"
)

// Repositories bundles every repository backed by one Store
type Repositories struct {
	Store    *Store
	Folders  driveRepo.FolderRepository
	Files    driveRepo.FileRepository
	Versions driveRepo.FileVersionRepository
	Activity driveRepo.ActivityRepository
	Access   driveRepo.AccessRepository
}

// NewRepositories creates a fresh store and its repositories
func NewRepositories() *Repositories {
	store := NewStore()
	return &Repositories{
		Store:    store,
		Folders:  NewFolderRepository(store),
		Files:    NewFileRepository(store),
		Versions: NewFileVersionRepository(store),
		Activity: NewActivityRepository(store),
		Access:   NewAccessRepository(store),
	}
}
