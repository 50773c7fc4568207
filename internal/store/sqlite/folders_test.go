package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/openclaw/bookmark-server/internal/errors"
)

func TestGetFolder_Counts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	parent := createTestFolder(t, s, "Parent", nil)
	createTestFolder(t, s, "Child", &parent.ID)
	createTestBookmark(t, s, "one", &parent.ID, nil, time.Now().UTC())
	createTestBookmark(t, s, "two", &parent.ID, nil, time.Now().UTC())

	got, err := s.GetFolder(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.BookmarkCount)
	assert.Equal(t, 1, got.SubfolderCount)
}

func TestGetFolder_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetFolder(context.Background(), "fld-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListFolders_OrderedByName(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	createTestFolder(t, s, "Zebra", nil)
	createTestFolder(t, s, "Alpha", nil)
	createTestFolder(t, s, "Mango", nil)

	folders, err := s.ListFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 3)
	assert.Equal(t, "Alpha", folders[0].Name)
	assert.Equal(t, "Mango", folders[1].Name)
	assert.Equal(t, "Zebra", folders[2].Name)
}

func TestListFolders_EmptyIsNotNil(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	folders, err := s.ListFolders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, folders)
	assert.Empty(t, folders)
}

func TestFolderParents(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	root := createTestFolder(t, s, "Root", nil)
	child := createTestFolder(t, s, "Child", &root.ID)

	parents, err := s.FolderParents(context.Background())
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Nil(t, parents[root.ID])
	require.NotNil(t, parents[child.ID])
	assert.Equal(t, root.ID, *parents[child.ID])
}

func TestUpdateFolder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	root := createTestFolder(t, s, "Root", nil)
	f := createTestFolder(t, s, "Old", nil)

	f.Name = "New"
	f.Description = "moved"
	f.ParentID = &root.ID
	f.Touch()
	require.NoError(t, s.UpdateFolder(ctx, f))

	got, err := s.GetFolder(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "moved", got.Description)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
}

func TestUpdateFolder_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	f := createTestFolder(t, s, "Temp", nil)
	require.NoError(t, s.DeleteFolder(context.Background(), f.ID, nil))

	err := s.UpdateFolder(context.Background(), f)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteFolder_PromotesDirectBookmarks(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	parent := createTestFolder(t, s, "Parent", nil)
	child := createTestFolder(t, s, "Child", &parent.ID)
	b := createTestBookmark(t, s, "promoted", &child.ID, nil, time.Now().UTC())

	require.NoError(t, s.DeleteFolder(ctx, child.ID, child.ParentID))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FolderID)
	assert.Equal(t, parent.ID, *got.FolderID)
}

func TestDeleteFolder_RootDetachesBookmarks(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	root := createTestFolder(t, s, "Root", nil)
	b := createTestBookmark(t, s, "detached", &root.ID, nil, time.Now().UTC())

	require.NoError(t, s.DeleteFolder(ctx, root.ID, nil))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FolderID)
}

func TestDeleteFolder_CascadesSubfolders(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	root := createTestFolder(t, s, "Root", nil)
	child := createTestFolder(t, s, "Child", &root.ID)
	grandchild := createTestFolder(t, s, "Grandchild", &child.ID)
	// Bookmarks in cascaded subfolders survive unfiled: the promotion only
	// covers the deleted folder's direct bookmarks, the rest fall back to
	// no folder through the SET NULL rule.
	b := createTestBookmark(t, s, "survivor", &grandchild.ID, nil, time.Now().UTC())

	require.NoError(t, s.DeleteFolder(ctx, root.ID, nil))

	_, err := s.GetFolder(ctx, child.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = s.GetFolder(ctx, grandchild.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FolderID)
}

func TestDeleteFolder_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.DeleteFolder(context.Background(), "fld-missing", nil)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
