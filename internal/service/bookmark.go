package service

import (
	"context"
	"log/slog"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/errors"
	"github.com/openclaw/bookmark-server/internal/id"
	"github.com/openclaw/bookmark-server/internal/store"
	"github.com/openclaw/bookmark-server/internal/validation"
)

// BookmarkService manages bookmarks: CRUD, filtered queries, tag wiring,
// and visit tracking.
type BookmarkService struct {
	store    store.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store store.Store, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:    store,
		validate: validation.New(),
		logger:   logger,
	}
}

// CreateBookmarkRequest carries the fields for creating a bookmark.
type CreateBookmarkRequest struct {
	Title       string `validate:"max=500"`
	URL         string `validate:"max=2048"`
	Description string `validate:"max=2000"`
	FolderID    *string
	FaviconURL  string `validate:"max=2048"`
	Tags        []string
}

// UpdateBookmarkRequest carries a partial bookmark update. Nil fields are
// left unchanged. Tags nil means untouched; a non-nil empty slice clears
// every tag association.
type UpdateBookmarkRequest struct {
	Title       *string `validate:"omitempty,max=500"`
	URL         *string `validate:"omitempty,max=2048"`
	Description *string `validate:"omitempty,max=2000"`
	FolderID    *string
	FaviconURL  *string `validate:"omitempty,max=2048"`
	IsFavorite  *bool
	Tags        *[]string
}

// ListBookmarks returns bookmarks matching the filter, newest first, each
// with its full tag lists.
func (s *BookmarkService) ListBookmarks(ctx context.Context, filter store.BookmarkFilter) ([]*domain.Bookmark, error) {
	return s.store.ListBookmarks(ctx, filter)
}

// GetBookmark returns a single bookmark with its tag lists.
func (s *BookmarkService) GetBookmark(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFound("Bookmark not found")
		}
		return nil, err
	}
	return b, nil
}

// CreateBookmark validates and stores a bookmark with its tag
// associations. Validation runs before anything is written, so a rejected
// request creates no tags. Tag names resolve get-or-create; duplicates in
// the request collapse to a single association.
func (s *BookmarkService) CreateBookmark(ctx context.Context, req CreateBookmarkRequest) (*domain.Bookmark, error) {
	if req.Title == "" || req.URL == "" {
		return nil, errors.Validation("Title and URL are required")
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	if req.FolderID != nil {
		if _, err := s.store.GetFolder(ctx, *req.FolderID); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return nil, errors.NotFound("Folder not found")
			}
			return nil, err
		}
	}

	bookmarkID, err := id.Generate("bmk")
	if err != nil {
		return nil, err
	}

	b := &domain.Bookmark{
		ID:          bookmarkID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		FolderID:    req.FolderID,
		FaviconURL:  req.FaviconURL,
	}
	b.Touch()
	b.CreatedAt = b.UpdatedAt

	if err := s.store.CreateBookmark(ctx, b, req.Tags); err != nil {
		return nil, err
	}

	s.logger.Info("bookmark created",
		"bookmark_id", b.ID,
		"url", b.URL,
		"tags", len(req.Tags),
	)

	return s.store.GetBookmark(ctx, b.ID)
}

// UpdateBookmark applies a partial update. Absent fields keep their stored
// values; when Tags is present the association set is replaced wholesale.
func (s *BookmarkService) UpdateBookmark(ctx context.Context, bookmarkID string, req UpdateBookmarkRequest) (*domain.Bookmark, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFound("Bookmark not found")
		}
		return nil, err
	}

	if req.FolderID != nil {
		if _, err := s.store.GetFolder(ctx, *req.FolderID); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return nil, errors.NotFound("Folder not found")
			}
			return nil, err
		}
		b.FolderID = req.FolderID
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.Validation("Title and URL are required")
		}
		b.Title = *req.Title
	}
	if req.URL != nil {
		if *req.URL == "" {
			return nil, errors.Validation("Title and URL are required")
		}
		b.URL = *req.URL
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.FaviconURL != nil {
		b.FaviconURL = *req.FaviconURL
	}
	if req.IsFavorite != nil {
		b.IsFavorite = *req.IsFavorite
	}
	b.Touch()

	var tagNames []string
	replaceTags := req.Tags != nil
	if replaceTags {
		tagNames = *req.Tags
	}

	if err := s.store.UpdateBookmark(ctx, b, tagNames, replaceTags); err != nil {
		return nil, err
	}

	return s.store.GetBookmark(ctx, bookmarkID)
}

// RecordVisit bumps the visit counter and last-visited stamp, returning
// the refreshed bookmark.
func (s *BookmarkService) RecordVisit(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	if err := s.store.RecordVisit(ctx, bookmarkID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFound("Bookmark not found")
		}
		return nil, err
	}
	return s.store.GetBookmark(ctx, bookmarkID)
}

// DeleteBookmark removes a bookmark and its tag associations. The tags
// themselves stay, even when the count drops to zero.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NotFound("Bookmark not found")
		}
		return err
	}

	s.logger.Info("bookmark deleted", "bookmark_id", bookmarkID)
	return nil
}
