package drive

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "drive/internal/domain/models/drive"
)

func TestCycleGuard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	guard := NewCycleGuard(e.repos.Folders, 10000, slog.New(slog.NewTextHandler(io.Discard, nil)))

	a := e.mkdir(t, owner, "A", nil)
	b := e.mkdir(t, owner, "B", a)
	c := e.mkdir(t, owner, "C", b)
	other := e.mkdir(t, owner, "Other", nil)

	tests := []struct {
		name        string
		moving      string
		destination string
		want        bool
	}{
		{"into itself", a.ID, a.ID, true},
		{"into child", a.ID, b.ID, true},
		{"into grandchild", a.ID, c.ID, true},
		{"into sibling tree", a.ID, other.ID, false},
		{"child into parent", c.ID, a.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.WouldCreateCycle(ctx, tt.moving, tt.destination)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCycleGuard_DepthLimitFailsSafe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// a two-folder loop written directly to the store, bypassing the guard
	x := e.mkdir(t, owner, "X", nil)
	y := e.mkdir(t, owner, "Y", x)
	x.ParentID = &y.ID
	require.NoError(t, e.repos.Folders.Update(ctx, x))

	guard := NewCycleGuard(e.repos.Folders, 50, slog.New(slog.NewTextHandler(io.Discard, nil)))
	z := e.mkdir(t, owner, "Z", nil)

	got, err := guard.WouldCreateCycle(ctx, z.ID, x.ID)
	require.NoError(t, err)
	assert.True(t, got, "a corrupt loop must be treated as a cycle")
}

func TestCycleGuard_OrphanEndsWalk(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	guard := NewCycleGuard(e.repos.Folders, 10000, slog.New(slog.NewTextHandler(io.Discard, nil)))

	parent := e.mkdir(t, owner, "Parent", nil)
	child := e.mkdir(t, owner, "Child", parent)
	mover := e.mkdir(t, owner, "Mover", nil)
	_, err := e.repos.Folders.Delete(ctx, parent.ID)
	require.NoError(t, err)

	got, err := guard.WouldCreateCycle(ctx, mover.ID, child.ID)
	require.NoError(t, err)
	assert.False(t, got)
}

// assertAcyclic checks every live folder reaches the root in a bounded number of hops
func assertAcyclic(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()

	for _, f := range mustListAll(t, e) {
		hops := 0
		current := f.ParentID
		for current != nil {
			hops++
			require.Less(t, hops, 10000, "folder %s does not reach the root", f.ID)
			parent, err := e.repos.Folders.GetByID(ctx, *current)
			require.NoError(t, err)
			current = parent.ParentID
		}
	}
}

func mustListAll(t *testing.T, e *env) []models.Folder {
	t.Helper()
	ctx := context.Background()
	var out []models.Folder
	queue := []*string{nil}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]
		children, err := e.repos.Folders.ListChildren(ctx, owner.ID, parentID)
		require.NoError(t, err)
		for i := range children {
			out = append(out, children[i])
			queue = append(queue, &children[i].ID)
		}
	}
	return out
}
