// Package memory provides map-backed repositories used when no database is
// configured and as the fixture store in service tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	models "drive/internal/domain/models/drive"
	"drive/internal/domain/repositories"
)

// Store holds every table behind one lock. Repositories created from the same
// Store see each other's writes.
type Store struct {
	mu sync.RWMutex

	folders  map[string]*models.Folder
	files    map[string]*models.File
	versions map[string][]*models.FileVersion // by file ID, oldest first
	activity []*models.Activity
	grants   map[grantKey]*models.AccessControl

	now func() time.Time
}

type grantKey struct {
	userID   string
	itemType models.ItemType
	itemID   string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		folders:  make(map[string]*models.Folder),
		files:    make(map[string]*models.File),
		versions: make(map[string][]*models.FileVersion),
		grants:   make(map[grantKey]*models.AccessControl),
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source for rows created without one
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// TransactionManager runs fn directly. The map store has no rollback.
type TransactionManager struct{}

// NewTransactionManager returns a pass-through transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return TransactionManager{}
}

// ExecTx executes fn
func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func cloneFolder(f *models.Folder) *models.Folder {
	c := *f
	c.ParentID = cloneString(f.ParentID)
	c.DeletedAt = cloneTime(f.DeletedAt)
	c.Tags = slices.Clone(f.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.Metadata = maps.Clone(f.Metadata)
	return &c
}

func cloneFile(f *models.File) *models.File {
	c := *f
	c.FolderID = cloneString(f.FolderID)
	c.DeletedAt = cloneTime(f.DeletedAt)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
