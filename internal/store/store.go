// Package store defines the persistence interface for the bookmark server.
// Services depend on this interface; the concrete implementation lives in
// store/sqlite. Keeping the boundary explicit lets tests inject a store
// opened on a throwaway database.
package store

import (
	"context"

	"github.com/openclaw/bookmark-server/internal/domain"
)

// BookmarkFilter narrows ListBookmarks results. Zero-valued fields are
// ignored; set fields compose with logical AND. TagNames is any-match:
// a bookmark qualifies when it carries at least one of the named tags.
type BookmarkFilter struct {
	FolderID   *string  // exact folder match
	IsFavorite *bool    // exact favorite flag match
	Search     string   // case-insensitive substring over title, description, url
	TagNames   []string // any-match against associated tag names
	TagID      string   // exact tag id match (tag detail view)
}

// Store is the persistence boundary for folders, tags, and bookmarks.
// Every multi-table write (bookmark + associations, folder delete +
// bookmark promotion) happens in a single transaction inside the
// implementation: a failure partway leaves no partial state.
type Store interface {
	// Folders. GetFolder and ListFolders populate the denormalized
	// bookmark and subfolder counts; ListFolders orders by name.
	CreateFolder(ctx context.Context, f *domain.Folder) error
	GetFolder(ctx context.Context, id string) (*domain.Folder, error)
	ListFolders(ctx context.Context) ([]*domain.Folder, error)
	// FolderParents returns the id-indexed parent mapping used for the
	// iterative ancestor walk. Root folders map to nil.
	FolderParents(ctx context.Context) (map[string]*string, error)
	UpdateFolder(ctx context.Context, f *domain.Folder) error
	// DeleteFolder reassigns the folder's direct bookmarks to promoteTo
	// (nil detaches them) and removes the row; the schema's cascade rule
	// deletes all transitive subfolders.
	DeleteFolder(ctx context.Context, id string, promoteTo *string) error

	// Bookmarks. Reads return rows annotated with the full ordered tag
	// name/color lists. tagNames on writes are get-or-create.
	CreateBookmark(ctx context.Context, b *domain.Bookmark, tagNames []string) error
	GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error)
	// ListBookmarks returns filtered bookmarks ordered by creation time,
	// most recent first.
	ListBookmarks(ctx context.Context, filter BookmarkFilter) ([]*domain.Bookmark, error)
	// UpdateBookmark saves the row; when replaceTags is true the
	// association set is replaced with tagNames (empty set clears it).
	UpdateBookmark(ctx context.Context, b *domain.Bookmark, tagNames []string, replaceTags bool) error
	DeleteBookmark(ctx context.Context, id string) error
	// RecordVisit atomically increments visit_count and stamps last_visited.
	RecordVisit(ctx context.Context, id string) error

	// Tags. GetTag, ListTags, and PopularTags populate usage counts;
	// ListTags orders by name, PopularTags by count descending with
	// zero-usage tags excluded.
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	PopularTags(ctx context.Context, limit int) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error

	Close() error
}
