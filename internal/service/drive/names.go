package drive

import (
	"context"
	"fmt"
	"strings"

	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
)

// NameResolver finds a collision-free name within a sibling scope
type NameResolver struct {
	folders driveRepo.FolderRepository
	files   driveRepo.FileRepository
}

// NewNameResolver creates a name resolver over the tree store
func NewNameResolver(folders driveRepo.FolderRepository, files driveRepo.FileRepository) *NameResolver {
	return &NameResolver{folders: folders, files: files}
}

// ResolveUniqueName returns base if no live sibling in scope uses it, otherwise
// the first free "stem (n)ext" for n = 1, 2, ...
func (r *NameResolver) ResolveUniqueName(ctx context.Context, base string, scope models.NameScope) (string, error) {
	stem, ext := SplitName(base)

	candidate := base
	for n := 1; ; n++ {
		taken, err := r.exists(ctx, scope, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
}

func (r *NameResolver) exists(ctx context.Context, scope models.NameScope, name string) (bool, error) {
	var id string
	var err error
	if scope.ItemType == models.ItemTypeFolder {
		id, err = r.folders.FindSibling(ctx, scope, name)
	} else {
		id, err = r.files.FindSibling(ctx, scope, name)
	}
	if err != nil {
		return false, fmt.Errorf("probe name %q: %w", name, err)
	}
	return id != "", nil
}

// SplitName splits at the last dot. A leading dot (".env") or no dot means
// there is no extension.
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
