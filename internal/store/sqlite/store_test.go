package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/id"
)

// setupTestStore creates a store backed by a fresh temp database.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(dbPath, logger)
	require.NoError(t, err)

	return s, func() { _ = s.Close() }
}

// createTestFolder inserts a folder and returns it with counts populated.
func createTestFolder(t *testing.T, s *Store, name string, parentID *string) *domain.Folder {
	t.Helper()

	now := time.Now().UTC()
	f := &domain.Folder{
		ID:        id.MustGenerate("fld"),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateFolder(context.Background(), f))
	return f
}

// createTestBookmark inserts a bookmark with tags at the given creation time.
func createTestBookmark(t *testing.T, s *Store, title string, folderID *string, tags []string, createdAt time.Time) *domain.Bookmark {
	t.Helper()

	b := &domain.Bookmark{
		ID:        id.MustGenerate("bmk"),
		Title:     title,
		URL:       "https://example.com/" + title,
		FolderID:  folderID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, s.CreateBookmark(context.Background(), b, tags))
	return b
}

func TestOpen_CreatesSchema(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	for _, table := range []string{"folders", "tags", "bookmarks", "bookmark_tags"} {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(dbPath, logger)
	require.NoError(t, err)

	f := createTestFolder(t, s, "Keep", nil)
	require.NoError(t, s.Close())

	// Schema exec is idempotent; data survives a reopen.
	s, err = Open(dbPath, logger)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetFolder(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Name)
}

func TestTimeRoundTrip(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	created := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	b := createTestBookmark(t, s, "pi-day", nil, nil, created)

	got, err := s.GetBookmark(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Nil(t, got.LastVisited)
}
