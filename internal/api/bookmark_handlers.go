package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/service"
	"github.com/openclaw/bookmark-server/internal/store"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns bookmarks matching the given filters, newest first",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookmark",
		Method:      http.MethodGet,
		Path:        "/api/bookmarks/{id}",
		Summary:     "Get bookmark",
		Description: "Returns a bookmark by ID",
		Tags:        []string{"Bookmarks"},
	}, s.handleGetBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBookmark",
		Method:        http.MethodPost,
		Path:          "/api/bookmarks",
		Summary:       "Create bookmark",
		Description:   "Creates a new bookmark with optional tags",
		Tags:          []string{"Bookmarks"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookmark",
		Method:      http.MethodPut,
		Path:        "/api/bookmarks/{id}",
		Summary:     "Update bookmark",
		Description: "Partially updates a bookmark; a tags field replaces the tag set",
		Tags:        []string{"Bookmarks"},
	}, s.handleUpdateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "visitBookmark",
		Method:      http.MethodPost,
		Path:        "/api/bookmarks/{id}/visit",
		Summary:     "Record visit",
		Description: "Increments the bookmark's visit count and stamps last_visited",
		Tags:        []string{"Bookmarks"},
	}, s.handleVisitBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/bookmarks/{id}",
		Summary:     "Delete bookmark",
		Description: "Deletes a bookmark and its tag associations",
		Tags:        []string{"Bookmarks"},
	}, s.handleDeleteBookmark)
}

// === DTOs ===

// BookmarkResponse contains bookmark data in API responses. Tags and
// TagColors are parallel lists in association insertion order.
type BookmarkResponse struct {
	ID          string     `json:"id" doc:"Bookmark ID"`
	Title       string     `json:"title" doc:"Bookmark title"`
	URL         string     `json:"url" doc:"Bookmark URL"`
	Description string     `json:"description,omitempty" doc:"Optional description"`
	FolderID    *string    `json:"folder_id" doc:"Containing folder ID, null when unfiled"`
	FaviconURL  string     `json:"favicon_url,omitempty" doc:"Favicon URL"`
	IsFavorite  bool       `json:"is_favorite" doc:"Favorite flag"`
	VisitCount  int        `json:"visit_count" doc:"Number of recorded visits"`
	LastVisited *time.Time `json:"last_visited" doc:"Last visit time, null when never visited"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time  `json:"updated_at" doc:"Last update time"`
	Tags        []string   `json:"tags" doc:"Tag names in association order"`
	TagColors   []string   `json:"tag_colors" doc:"Tag colors parallel to tags"`
}

func bookmarkResponse(b *domain.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:          b.ID,
		Title:       b.Title,
		URL:         b.URL,
		Description: b.Description,
		FolderID:    b.FolderID,
		FaviconURL:  b.FaviconURL,
		IsFavorite:  b.IsFavorite,
		VisitCount:  b.VisitCount,
		LastVisited: b.LastVisited,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Tags:        b.Tags,
		TagColors:   b.TagColors,
	}
}

func bookmarkResponses(bookmarks []*domain.Bookmark) []BookmarkResponse {
	resp := make([]BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		resp[i] = bookmarkResponse(b)
	}
	return resp
}

// ListBookmarksInput contains the filter query parameters. All filters are
// optional and compose with AND.
type ListBookmarksInput struct {
	FolderID   string `query:"folder_id" doc:"Exact folder match"`
	IsFavorite string `query:"is_favorite" doc:"Favorite flag, true or false"`
	Search     string `query:"search" doc:"Case-insensitive substring over title, description, and URL"`
	Tags       string `query:"tags" doc:"Comma-separated tag names, any-match"`
}

// ListBookmarksOutput wraps the bookmark list for Huma.
type ListBookmarksOutput struct {
	Body []BookmarkResponse
}

// BookmarkOutput wraps a single bookmark for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// GetBookmarkInput contains parameters for fetching a bookmark.
type GetBookmarkInput struct {
	ID string `path:"id" doc:"Bookmark ID"`
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	Title       string   `json:"title,omitempty" doc:"Bookmark title"`
	URL         string   `json:"url,omitempty" doc:"Bookmark URL"`
	Description string   `json:"description,omitempty" doc:"Optional description"`
	FolderID    *string  `json:"folder_id,omitempty" doc:"Containing folder ID"`
	FaviconURL  string   `json:"favicon_url,omitempty" doc:"Favicon URL"`
	Tags        []string `json:"tags,omitempty" doc:"Tag names, created on first use"`
}

// CreateBookmarkInput wraps the create request for Huma.
type CreateBookmarkInput struct {
	Body CreateBookmarkRequest
}

// UpdateBookmarkRequest is the request body for a partial bookmark update.
// Absent fields are unchanged; a present tags field replaces the tag set.
type UpdateBookmarkRequest struct {
	Title       *string   `json:"title,omitempty" doc:"Bookmark title"`
	URL         *string   `json:"url,omitempty" doc:"Bookmark URL"`
	Description *string   `json:"description,omitempty" doc:"Description"`
	FolderID    *string   `json:"folder_id,omitempty" doc:"Containing folder ID"`
	FaviconURL  *string   `json:"favicon_url,omitempty" doc:"Favicon URL"`
	IsFavorite  *bool     `json:"is_favorite,omitempty" doc:"Favorite flag"`
	Tags        *[]string `json:"tags,omitempty" doc:"Replacement tag set; empty clears all tags"`
}

// UpdateBookmarkInput wraps the update request for Huma.
type UpdateBookmarkInput struct {
	ID   string `path:"id" doc:"Bookmark ID"`
	Body UpdateBookmarkRequest
}

// VisitBookmarkInput contains parameters for recording a visit.
type VisitBookmarkInput struct {
	ID string `path:"id" doc:"Bookmark ID"`
}

// DeleteBookmarkInput contains parameters for deleting a bookmark.
type DeleteBookmarkInput struct {
	ID string `path:"id" doc:"Bookmark ID"`
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*ListBookmarksOutput, error) {
	var filter store.BookmarkFilter

	if input.FolderID != "" {
		folderID := input.FolderID
		filter.FolderID = &folderID
	}
	if input.IsFavorite != "" {
		fav := input.IsFavorite == "true" || input.IsFavorite == "1"
		filter.IsFavorite = &fav
	}
	filter.Search = input.Search
	filter.TagNames = splitTagNames(input.Tags)

	bookmarks, err := s.bookmarks.ListBookmarks(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListBookmarksOutput{Body: bookmarkResponses(bookmarks)}, nil
}

// splitTagNames parses a comma-separated tag list, dropping empty entries.
func splitTagNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (s *Server) handleGetBookmark(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	b, err := s.bookmarks.GetBookmark(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: bookmarkResponse(b)}, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	b, err := s.bookmarks.CreateBookmark(ctx, service.CreateBookmarkRequest{
		Title:       input.Body.Title,
		URL:         input.Body.URL,
		Description: input.Body.Description,
		FolderID:    input.Body.FolderID,
		FaviconURL:  input.Body.FaviconURL,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: bookmarkResponse(b)}, nil
}

func (s *Server) handleUpdateBookmark(ctx context.Context, input *UpdateBookmarkInput) (*BookmarkOutput, error) {
	b, err := s.bookmarks.UpdateBookmark(ctx, input.ID, service.UpdateBookmarkRequest{
		Title:       input.Body.Title,
		URL:         input.Body.URL,
		Description: input.Body.Description,
		FolderID:    input.Body.FolderID,
		FaviconURL:  input.Body.FaviconURL,
		IsFavorite:  input.Body.IsFavorite,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: bookmarkResponse(b)}, nil
}

func (s *Server) handleVisitBookmark(ctx context.Context, input *VisitBookmarkInput) (*BookmarkOutput, error) {
	b, err := s.bookmarks.RecordVisit(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: bookmarkResponse(b)}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *DeleteBookmarkInput) (*MessageOutput, error) {
	if err := s.bookmarks.DeleteBookmark(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Bookmark deleted"}}, nil
}
