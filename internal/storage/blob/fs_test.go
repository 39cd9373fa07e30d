package blob

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFSStore_PutExistsDelete(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	store := NewFSStore(fs, discardLogger())

	ref, err := store.Put(ctx, "u1/abc/report.pdf", strings.NewReader("0123456789"), 10, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "u1/abc/report.pdf", ref)

	data, err := util.ReadFile(fs, ref)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	ok, err := store.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, ref))
	ok, err = store.Exists(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestFSStore_ShortWriteIsRemoved(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(discardLogger())

	_, err := store.Put(ctx, "u1/x/a.txt", strings.NewReader("abc"), 10, "text/plain")
	require.Error(t, err)

	ok, err := store.Exists(ctx, "u1/x/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCleanRef(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.txt", want: "a/b.txt"},
		{in: "/a/b.txt", want: "a/b.txt"},
		{in: "../../etc/passwd", want: "etc/passwd"},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanRef(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, &config.Config{BlobBackend: BackendMemory}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &FSStore{}, store)

	store, err = New(ctx, &config.Config{BlobBackend: BackendLocal, BlobLocalDir: t.TempDir()}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &FSStore{}, store)

	_, err = New(ctx, &config.Config{BlobBackend: BackendS3}, discardLogger())
	assert.Error(t, err)

	_, err = New(ctx, &config.Config{BlobBackend: "tape"}, discardLogger())
	assert.Error(t, err)
}

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), discardLogger())
	require.NoError(t, err)

	ref, err := store.Put(ctx, "owner/id/notes.txt", strings.NewReader("hi"), 2, "text/plain")
	require.NoError(t, err)

	ok, err := store.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
}
