package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/errors"
)

func TestCreateTag_DefaultColor(t *testing.T) {
	_, _, tags := setupServices(t)

	tag, err := tags.CreateTag(context.Background(), CreateTagRequest{Name: "golang"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTagColor, tag.Color)
	assert.Equal(t, 0, tag.BookmarkCount)
}

func TestCreateTag_Duplicate(t *testing.T) {
	_, _, tags := setupServices(t)
	ctx := context.Background()

	_, err := tags.CreateTag(ctx, CreateTagRequest{Name: "dup"})
	require.NoError(t, err)

	_, err = tags.CreateTag(ctx, CreateTagRequest{Name: "dup"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConflict)
	assert.EqualError(t, err, "Tag with this name already exists")
}

func TestCreateTag_EmptyName(t *testing.T) {
	_, _, tags := setupServices(t)

	_, err := tags.CreateTag(context.Background(), CreateTagRequest{})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestPopularTags_DefaultLimit(t *testing.T) {
	_, bookmarks, tags := setupServices(t)
	ctx := context.Background()

	_, err := bookmarks.CreateBookmark(ctx, CreateBookmarkRequest{
		Title: "b",
		URL:   "https://example.com",
		Tags:  []string{"a", "b", "c"},
	})
	require.NoError(t, err)

	// Zero and negative limits fall back to the default.
	got, err := tags.PopularTags(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = tags.PopularTags(ctx, -3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = tags.PopularTags(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetTag_IncludesBookmarks(t *testing.T) {
	_, bookmarks, tags := setupServices(t)
	ctx := context.Background()

	_, err := bookmarks.CreateBookmark(ctx, CreateBookmarkRequest{
		Title: "tagged",
		URL:   "https://example.com",
		Tags:  []string{"mine"},
	})
	require.NoError(t, err)
	_, err = bookmarks.CreateBookmark(ctx, CreateBookmarkRequest{
		Title: "other",
		URL:   "https://example.org",
	})
	require.NoError(t, err)

	all, err := tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	tag, carrying, err := tags.GetTag(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", tag.Name)
	assert.Equal(t, 1, tag.BookmarkCount)
	require.Len(t, carrying, 1)
	assert.Equal(t, "tagged", carrying[0].Title)
}

func TestGetTag_NotFound(t *testing.T) {
	_, _, tags := setupServices(t)

	_, _, err := tags.GetTag(context.Background(), "tag-missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.EqualError(t, err, "Tag not found")
}

func TestUpdateTag_RenameVisibleOnBookmarks(t *testing.T) {
	_, bookmarks, tags := setupServices(t)
	ctx := context.Background()

	b, err := bookmarks.CreateBookmark(ctx, CreateBookmarkRequest{
		Title: "b",
		URL:   "https://example.com",
		Tags:  []string{"before"},
	})
	require.NoError(t, err)

	all, err := tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = tags.UpdateTag(ctx, all[0].ID, UpdateTagRequest{Name: strPtr("after")})
	require.NoError(t, err)

	got, err := bookmarks.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, got.Tags)
}

func TestUpdateTag_RenameConflict(t *testing.T) {
	_, _, tags := setupServices(t)
	ctx := context.Background()

	_, err := tags.CreateTag(ctx, CreateTagRequest{Name: "taken"})
	require.NoError(t, err)
	mine, err := tags.CreateTag(ctx, CreateTagRequest{Name: "mine"})
	require.NoError(t, err)

	_, err = tags.UpdateTag(ctx, mine.ID, UpdateTagRequest{Name: strPtr("taken")})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestDeleteTag_BookmarksSurvive(t *testing.T) {
	_, bookmarks, tags := setupServices(t)
	ctx := context.Background()

	b, err := bookmarks.CreateBookmark(ctx, CreateBookmarkRequest{
		Title: "b",
		URL:   "https://example.com",
		Tags:  []string{"doomed"},
	})
	require.NoError(t, err)

	all, err := tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, tags.DeleteTag(ctx, all[0].ID))

	got, err := bookmarks.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}
