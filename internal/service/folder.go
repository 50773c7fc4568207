// Package service contains the business logic for folders, bookmarks, and
// tags, layered between the HTTP handlers and the store.
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

// FolderService manages the folder hierarchy: creation, reparenting with
// cycle prevention, deletion with orphan promotion, and the nested tree view.
type FolderService struct {
	store    store.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(store store.Store, logger *slog.Logger) *FolderService {
	return &FolderService{
		store:    store,
		validate: validation.New(),
		logger:   logger,
	}
}

// CreateFolderRequest carries the fields for creating a folder.
type CreateFolderRequest struct {
	Name        string `validate:"max=100"`
	Description string `validate:"max=500"`
	ParentID    *string
}

// UpdateFolderRequest carries a folder update. Name and Description are
// partial (nil leaves them unchanged); ParentID is always applied — nil
// moves the folder to the root, matching the update endpoint's contract.
type UpdateFolderRequest struct {
	Name        *string `validate:"omitempty,max=100"`
	Description *string `validate:"omitempty,max=500"`
	ParentID    *string
}

// CreateFolder creates a folder. A given parent must reference an existing
// folder; depth and fan-out are unrestricted.
func (s *FolderService) CreateFolder(ctx context.Context, req CreateFolderRequest) (*domain.Folder, error) {
	if req.Name == "" {
		return nil, errors.Validation("Name is required")
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.store.GetFolder(ctx, *req.ParentID); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return nil, errors.NotFound("Parent folder not found")
			}
			return nil, err
		}
	}

	folderID, err := id.Generate("fld")
	if err != nil {
		return nil, err
	}

	f := &domain.Folder{
		ID:          folderID,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	f.Touch()
	f.CreatedAt = f.UpdatedAt

	if err := s.store.CreateFolder(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "folder_id", f.ID, "name", f.Name)

	return s.store.GetFolder(ctx, f.ID)
}

// GetFolder returns a folder with its counts and the bookmarks directly
// inside it, tag-annotated.
func (s *FolderService) GetFolder(ctx context.Context, folderID string) (*domain.Folder, []*domain.Bookmark, error) {
	f, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, errors.NotFound("Folder not found")
		}
		return nil, nil, err
	}

	bookmarks, err := s.store.ListBookmarks(ctx, store.BookmarkFilter{FolderID: &folderID})
	if err != nil {
		return nil, nil, err
	}

	return f, bookmarks, nil
}

// ListFolders returns all folders with bookmark and subfolder counts,
// ordered by name.
func (s *FolderService) ListFolders(ctx context.Context) ([]*domain.Folder, error) {
	return s.store.ListFolders(ctx)
}

// UpdateFolder renames, re-describes, or reparents a folder. Reparenting
// walks the new parent's ancestor chain first: if the folder itself is
// found, the move would create a cycle and nothing changes.
func (s *FolderService) UpdateFolder(ctx context.Context, folderID string, req UpdateFolderRequest) (*domain.Folder, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	f, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFound("Folder not found")
		}
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.store.GetFolder(ctx, *req.ParentID); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return nil, errors.NotFound("Parent folder not found")
			}
			return nil, err
		}

		parents, err := s.store.FolderParents(ctx)
		if err != nil {
			return nil, err
		}
		if domain.WouldCreateCycle(parents, folderID, *req.ParentID) {
			return nil, errors.InvalidOperation("Cannot move folder into its own descendant")
		}
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	f.ParentID = req.ParentID
	f.Touch()

	if err := s.store.UpdateFolder(ctx, f); err != nil {
		return nil, err
	}

	return s.store.GetFolder(ctx, folderID)
}

// DeleteFolder removes a folder. Its direct bookmarks are promoted to the
// folder's own parent (or detached when it has none); subfolders — and
// nothing else — go with it through the cascade.
func (s *FolderService) DeleteFolder(ctx context.Context, folderID string) error {
	f, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NotFound("Folder not found")
		}
		return err
	}

	if err := s.store.DeleteFolder(ctx, folderID, f.ParentID); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"folder_id", folderID,
		"promoted_to", f.ParentID,
	)
	return nil
}

// FolderTree returns the nested folder forest: roots are folders without a
// parent, children are ordered alphabetically, and every node carries its
// direct bookmark count. The tree is assembled from a single folder scan,
// so it terminates regardless of depth; cycles cannot exist because they
// are rejected at write time.
func (s *FolderService) FolderTree(ctx context.Context) ([]*domain.FolderNode, error) {
	folders, err := s.store.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildFolderTree(folders), nil
}
