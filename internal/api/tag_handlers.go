package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Description: "Returns all tags with usage counts, ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPopularTags",
		Method:      http.MethodGet,
		Path:        "/api/tags/popular",
		Summary:     "Get popular tags",
		Description: "Returns the most-used tags, ordered by usage count descending",
		Tags:        []string{"Tags"},
	}, s.handleGetPopularTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag and every bookmark carrying it",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/tags",
		Summary:       "Create tag",
		Description:   "Creates a new tag with an optional color",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPut,
		Path:        "/api/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames or recolors a tag, preserving associations",
		Tags:        []string{"Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and its associations, leaving bookmarks intact",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID            string    `json:"id" doc:"Tag ID"`
	Name          string    `json:"name" doc:"Tag name"`
	Color         string    `json:"color" doc:"Display color"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	BookmarkCount int       `json:"bookmark_count" doc:"Number of bookmarks with this tag"`
}

func tagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:            t.ID,
		Name:          t.Name,
		Color:         t.Color,
		CreatedAt:     t.CreatedAt,
		BookmarkCount: t.BookmarkCount,
	}
}

func tagResponses(tags []*domain.Tag) []TagResponse {
	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = tagResponse(t)
	}
	return resp
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body []TagResponse
}

// GetPopularTagsInput contains the optional result limit. The limit is a
// raw string so non-numeric values can fall back to the default.
type GetPopularTagsInput struct {
	Limit string `query:"limit" doc:"Maximum number of tags to return (default 10)"`
}

// GetTagInput contains parameters for fetching a tag.
type GetTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// TagDetailResponse is a tag plus every bookmark carrying it.
type TagDetailResponse struct {
	TagResponse
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"Bookmarks carrying this tag"`
}

// TagDetailOutput wraps a tag with its bookmarks for Huma.
type TagDetailOutput struct {
	Body TagDetailResponse
}

// TagOutput wraps a single tag for Huma.
type TagOutput struct {
	Body TagResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name,omitempty" doc:"Tag name, unique"`
	Color string `json:"color,omitempty" doc:"Display color, defaults to #3b82f6"`
}

// CreateTagInput wraps the create request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" doc:"Tag name"`
	Color *string `json:"color,omitempty" doc:"Display color"`
}

// UpdateTagInput wraps the update request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body UpdateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{Body: tagResponses(tags)}, nil
}

func (s *Server) handleGetPopularTags(ctx context.Context, input *GetPopularTagsInput) (*ListTagsOutput, error) {
	// Non-numeric or non-positive limits fall back to the service default.
	limit, err := strconv.Atoi(input.Limit)
	if err != nil {
		limit = 0
	}

	tags, err := s.tags.PopularTags(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{Body: tagResponses(tags)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagDetailOutput, error) {
	t, bookmarks, err := s.tags.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagDetailOutput{
		Body: TagDetailResponse{
			TagResponse: tagResponse(t),
			Bookmarks:   bookmarkResponses(bookmarks),
		},
	}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.tags.CreateTag(ctx, service.CreateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	t, err := s.tags.UpdateTag(ctx, input.ID, service.UpdateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*MessageOutput, error) {
	if err := s.tags.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}
