package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/errors"
	"github.com/openclaw/bookmark-server/internal/id"
	"github.com/openclaw/bookmark-server/internal/store"
	"github.com/openclaw/bookmark-server/internal/validation"
)

// DefaultPopularLimit is the popular-tags result cap used when the caller
// gives no usable limit.
const DefaultPopularLimit = 10

// TagService manages the flat tag namespace and its usage aggregation.
type TagService struct {
	store    store.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:    store,
		validate: validation.New(),
		logger:   logger,
	}
}

// CreateTagRequest carries the fields for creating a tag explicitly.
type CreateTagRequest struct {
	Name  string `validate:"max=50"`
	Color string `validate:"omitempty,max=20"`
}

// UpdateTagRequest carries a partial tag update; nil fields are unchanged.
type UpdateTagRequest struct {
	Name  *string `validate:"omitempty,min=1,max=50"`
	Color *string `validate:"omitempty,max=20"`
}

// ListTags returns all tags with usage counts, ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// PopularTags returns the most-used tags, capped at limit. Non-positive
// limits fall back to DefaultPopularLimit. Unused tags never appear.
func (s *TagService) PopularTags(ctx context.Context, limit int) ([]*domain.Tag, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	return s.store.PopularTags(ctx, limit)
}

// GetTag returns a tag together with every bookmark carrying it.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, []*domain.Bookmark, error) {
	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, errors.NotFound("Tag not found")
		}
		return nil, nil, err
	}

	bookmarks, err := s.store.ListBookmarks(ctx, store.BookmarkFilter{TagID: tagID})
	if err != nil {
		return nil, nil, err
	}

	return t, bookmarks, nil
}

// CreateTag creates a tag with an explicit color. Names are unique across
// the namespace.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if req.Name == "" {
		return nil, errors.Validation("Name is required")
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultTagColor
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, err
	}

	t := &domain.Tag{
		ID:    tagID,
		Name:  req.Name,
		Color: color,
	}
	t.CreatedAt = time.Now().UTC()

	if err := s.store.CreateTag(ctx, t); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, errors.Conflict("Tag with this name already exists")
		}
		return nil, err
	}

	s.logger.Info("tag created", "tag_id", t.ID, "name", t.Name)

	return s.store.GetTag(ctx, t.ID)
}

// UpdateTag renames or recolors a tag. Associations are untouched, so a
// rename shows up immediately on every bookmark carrying the tag.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFound("Tag not found")
		}
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Color != nil {
		t.Color = *req.Color
	}

	if err := s.store.UpdateTag(ctx, t); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, errors.Conflict("Tag with this name already exists")
		}
		return nil, err
	}

	return s.store.GetTag(ctx, tagID)
}

// DeleteTag removes a tag from every bookmark and from the namespace. The
// bookmarks themselves survive.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NotFound("Tag not found")
		}
		return err
	}

	s.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}
