package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/tags", map[string]any{"name": "golang"})
	require.Equal(t, http.StatusCreated, resp.Code)

	tag := decode[TagResponse](t, resp.Body.Bytes())
	assert.Equal(t, "golang", tag.Name)
	assert.Equal(t, "#3b82f6", tag.Color)
}

func TestCreateTag_DuplicateConflict(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/tags", map[string]any{"name": "dup"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Post("/api/tags", map[string]any{"name": "dup"})
	require.Equal(t, http.StatusConflict, resp.Code)

	body := decode[map[string]any](t, resp.Body.Bytes())
	assert.Equal(t, "Tag with this name already exists", body["error"])
}

func TestListTags_WithCounts(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/bookmarks", map[string]any{
		"title": "b",
		"url":   "https://example.com",
		"tags":  []string{"zeta", "alpha"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Get("/api/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[[]TagResponse](t, resp.Body.Bytes())
	require.Len(t, tags, 2)
	assert.Equal(t, "alpha", tags[0].Name)
	assert.Equal(t, "zeta", tags[1].Name)
	assert.Equal(t, 1, tags[0].BookmarkCount)
}

func TestPopularTags_LimitFallback(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/bookmarks", map[string]any{
		"title": "b",
		"url":   "https://example.com",
		"tags":  []string{"a", "b"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Non-numeric limit falls back to the default.
	resp = api.Get("/api/tags/popular?limit=abc")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[[]TagResponse](t, resp.Body.Bytes())
	assert.Len(t, tags, 2)

	resp = api.Get("/api/tags/popular?limit=1")
	require.Equal(t, http.StatusOK, resp.Code)
	tags = decode[[]TagResponse](t, resp.Body.Bytes())
	assert.Len(t, tags, 1)
}

func TestPopularTags_ExcludesUnused(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/tags", map[string]any{"name": "unused"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Get("/api/tags/popular")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[[]TagResponse](t, resp.Body.Bytes())
	assert.Empty(t, tags)
}

func TestGetTag_WithBookmarks(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/bookmarks", map[string]any{
		"title": "carrying",
		"url":   "https://example.com",
		"tags":  []string{"mine"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Get("/api/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[[]TagResponse](t, resp.Body.Bytes())
	require.Len(t, tags, 1)

	resp = api.Get("/api/tags/" + tags[0].ID)
	require.Equal(t, http.StatusOK, resp.Code)
	detail := decode[TagDetailResponse](t, resp.Body.Bytes())
	assert.Equal(t, "mine", detail.Name)
	require.Len(t, detail.Bookmarks, 1)
	assert.Equal(t, "carrying", detail.Bookmarks[0].Title)
}

func TestUpdateTag(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/tags", map[string]any{"name": "before"})
	require.Equal(t, http.StatusCreated, resp.Code)
	tag := decode[TagResponse](t, resp.Body.Bytes())

	resp = api.Put("/api/tags/"+tag.ID, map[string]any{
		"name":  "after",
		"color": "#ff0000",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := decode[TagResponse](t, resp.Body.Bytes())
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, "#ff0000", updated.Color)
}

func TestDeleteTag(t *testing.T) {
	api := setupTestServer(t)

	resp := api.Post("/api/tags", map[string]any{"name": "doomed"})
	require.Equal(t, http.StatusCreated, resp.Code)
	tag := decode[TagResponse](t, resp.Body.Bytes())

	resp = api.Delete("/api/tags/" + tag.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	msg := decode[MessageResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Tag deleted", msg.Message)

	resp = api.Get("/api/tags/" + tag.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
