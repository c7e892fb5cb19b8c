package filestore

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Read(ctx, "blogs/a.md")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, m.Write(ctx, "blogs/a.md", "one", "add"))
	f, err := m.Read(ctx, "/blogs/a.md")
	require.NoError(t, err)
	assert.Equal(t, "one", f.Content)
	assert.Equal(t, "blogs/a.md", f.Path)
	assert.NotEmpty(t, f.Hash)

	require.NoError(t, m.Write(ctx, "blogs/a.md", "one", "again"))
	again, err := m.Read(ctx, "blogs/a.md")
	require.NoError(t, err)
	assert.Equal(t, f.Hash, again.Hash, "identical content keeps the hash")

	require.NoError(t, m.Write(ctx, "blogs/a.md", "two", "edit"))
	edited, err := m.Read(ctx, "blogs/a.md")
	require.NoError(t, err)
	assert.NotEqual(t, f.Hash, edited.Hash)
}

func TestMemoryStore_WriteIfMatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.WriteIfMatch(ctx, "users/a.md", "v1", "create", ""))
	err := m.WriteIfMatch(ctx, "users/a.md", "v1b", "create again", "")
	require.ErrorIs(t, err, common.ErrorConflict)

	f, err := m.Read(ctx, "users/a.md")
	require.NoError(t, err)

	require.NoError(t, m.WriteIfMatch(ctx, "users/a.md", "v2", "update", f.Hash))
	err = m.WriteIfMatch(ctx, "users/a.md", "v3", "stale update", f.Hash)
	require.ErrorIs(t, err, common.ErrorConflict)

	err = m.WriteIfMatch(ctx, "users/missing.md", "x", "update", "deadbeef")
	require.ErrorIs(t, err, common.ErrorConflict)
}

func TestMemoryStore_Remove(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.ErrorIs(t, m.Remove(ctx, "blogs/a.md", "delete"), common.ErrorNotFound)

	require.NoError(t, m.Write(ctx, "blogs/a.md", "x", "add"))
	require.NoError(t, m.Remove(ctx, "blogs/a.md", "delete"))

	_, err := m.Read(ctx, "blogs/a.md")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	for _, p := range []string{"blogs/b.md", "blogs/a.md", "blogs/img/x.png", "users/u.md", "README.md"} {
		require.NoError(t, m.Write(ctx, p, "x", "seed"))
	}

	entries, err := m.List(ctx, "blogs")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "a.md", Path: "blogs/a.md", Kind: KindFile},
		{Name: "b.md", Path: "blogs/b.md", Kind: KindFile},
		{Name: "img", Path: "blogs/img", Kind: KindDir},
	}, entries)

	root, err := m.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, root, 3)

	empty, err := m.List(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemoryStore()
	_, err := m.Read(ctx, "a.md")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Write(ctx, "a.md", "x", "m"), context.Canceled)
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(context.Background(), Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(context.Background(), Options{Backend: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), Options{Backend: BackendGitHub})
	assert.Error(t, err, "owner and repo are required")
}
