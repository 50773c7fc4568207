package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/bookmark-server/internal/store"

	domainerrors "github.com/openclaw/bookmark-server/internal/errors"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestCreateBookmark_DuplicateTagNamesCollapse(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	b := createTestBookmark(t, s, "dup", nil, []string{"a", "b", "a"}, time.Now().UTC())

	got, err := s.GetBookmark(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	tags, err := s.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestGetBookmark_TagOrderFollowsInsertion(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	b := createTestBookmark(t, s, "ordered", nil, []string{"news", "tech"}, time.Now().UTC())

	got, err := s.GetBookmark(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"news", "tech"}, got.Tags)
	require.Len(t, got.TagColors, 2)
}

func TestGetBookmark_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetBookmark(context.Background(), "bmk-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListBookmarks_NewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	base := time.Now().UTC()
	createTestBookmark(t, s, "oldest", nil, nil, base.Add(-2*time.Hour))
	createTestBookmark(t, s, "newest", nil, nil, base)
	createTestBookmark(t, s, "middle", nil, nil, base.Add(-time.Hour))

	bookmarks, err := s.ListBookmarks(context.Background(), store.BookmarkFilter{})
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)
	assert.Equal(t, "newest", bookmarks[0].Title)
	assert.Equal(t, "middle", bookmarks[1].Title)
	assert.Equal(t, "oldest", bookmarks[2].Title)
}

func TestListBookmarks_FolderFilter(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	f := createTestFolder(t, s, "Work", nil)
	createTestBookmark(t, s, "in-folder", &f.ID, nil, time.Now().UTC())
	createTestBookmark(t, s, "unfiled", nil, nil, time.Now().UTC())

	bookmarks, err := s.ListBookmarks(context.Background(), store.BookmarkFilter{FolderID: &f.ID})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "in-folder", bookmarks[0].Title)
}

func TestListBookmarks_FavoriteFilter(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := createTestBookmark(t, s, "starred", nil, nil, time.Now().UTC())
	createTestBookmark(t, s, "plain", nil, nil, time.Now().UTC())

	b.IsFavorite = true
	require.NoError(t, s.UpdateBookmark(ctx, b, nil, false))

	bookmarks, err := s.ListBookmarks(ctx, store.BookmarkFilter{IsFavorite: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "starred", bookmarks[0].Title)

	bookmarks, err = s.ListBookmarks(ctx, store.BookmarkFilter{IsFavorite: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "plain", bookmarks[0].Title)
}

func TestListBookmarks_SearchCaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	createTestBookmark(t, s, "Golang Weekly", nil, nil, time.Now().UTC())
	createTestBookmark(t, s, "rust digest", nil, nil, time.Now().UTC())

	bookmarks, err := s.ListBookmarks(ctx, store.BookmarkFilter{Search: "golang"})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "Golang Weekly", bookmarks[0].Title)

	// Matches against the URL as well.
	bookmarks, err = s.ListBookmarks(ctx, store.BookmarkFilter{Search: "example.com/rust"})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "rust digest", bookmarks[0].Title)

	bookmarks, err = s.ListBookmarks(ctx, store.BookmarkFilter{Search: "haskell"})
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestListBookmarks_TagAnyMatch(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	createTestBookmark(t, s, "has-a", nil, []string{"a"}, time.Now().UTC())
	createTestBookmark(t, s, "has-b", nil, []string{"b"}, time.Now().UTC())
	createTestBookmark(t, s, "untagged", nil, nil, time.Now().UTC())

	bookmarks, err := s.ListBookmarks(context.Background(), store.BookmarkFilter{TagNames: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, bookmarks, 2)
}

func TestListBookmarks_TagFilterKeepsFullTagList(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	createTestBookmark(t, s, "both", nil, []string{"a", "b"}, time.Now().UTC())

	bookmarks, err := s.ListBookmarks(context.Background(), store.BookmarkFilter{TagNames: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	// The filter matched on "a" but the row carries the full tag list.
	assert.Equal(t, []string{"a", "b"}, bookmarks[0].Tags)
}

func TestListBookmarks_FiltersCompose(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	f := createTestFolder(t, s, "Work", nil)
	match := createTestBookmark(t, s, "golang post", &f.ID, []string{"go"}, time.Now().UTC())
	createTestBookmark(t, s, "golang other", nil, []string{"go"}, time.Now().UTC())
	createTestBookmark(t, s, "misc", &f.ID, []string{"go"}, time.Now().UTC())

	bookmarks, err := s.ListBookmarks(ctx, store.BookmarkFilter{
		FolderID: &f.ID,
		Search:   "golang",
		TagNames: []string{"go"},
	})
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, match.ID, bookmarks[0].ID)
}

func TestUpdateBookmark_ReplaceTags(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := createTestBookmark(t, s, "b", nil, []string{"old"}, time.Now().UTC())

	require.NoError(t, s.UpdateBookmark(ctx, b, []string{"new", "fresh"}, true))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "fresh"}, got.Tags)
}

func TestUpdateBookmark_EmptyReplaceClearsTags(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := createTestBookmark(t, s, "b", nil, []string{"news", "tech"}, time.Now().UTC())

	require.NoError(t, s.UpdateBookmark(ctx, b, nil, true))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.NotNil(t, got.Tags)
}

func TestUpdateBookmark_NoReplaceLeavesTags(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := createTestBookmark(t, s, "b", nil, []string{"keep"}, time.Now().UTC())

	b.Title = "renamed"
	require.NoError(t, s.UpdateBookmark(ctx, b, nil, false))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, []string{"keep"}, got.Tags)
}

func TestUpdateBookmark_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	b := createTestBookmark(t, s, "gone", nil, nil, time.Now().UTC())
	require.NoError(t, s.DeleteBookmark(context.Background(), b.ID))

	err := s.UpdateBookmark(context.Background(), b, nil, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRecordVisit(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := createTestBookmark(t, s, "visited", nil, nil, time.Now().UTC())

	require.NoError(t, s.RecordVisit(ctx, b.ID))
	require.NoError(t, s.RecordVisit(ctx, b.ID))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VisitCount)
	require.NotNil(t, got.LastVisited)
	assert.WithinDuration(t, time.Now().UTC(), *got.LastVisited, time.Minute)
}

func TestRecordVisit_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.RecordVisit(context.Background(), "bmk-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteBookmark_CascadesAssociations(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	b := createTestBookmark(t, s, "doomed", nil, []string{"orphan"}, time.Now().UTC())

	require.NoError(t, s.DeleteBookmark(ctx, b.ID))

	_, err := s.GetBookmark(ctx, b.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The tag survives with a zero count.
	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 0, tags[0].BookmarkCount)
}
