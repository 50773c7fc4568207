package domain

import "time"

// DefaultTagColor is applied when a tag is created without an explicit color.
const DefaultTagColor = "#3b82f6"

// Tag labels bookmarks through the bookmark_tags junction. Names are
// unique and case-sensitive as stored; tags referenced during bookmark
// saves are created lazily (get-or-create), never duplicated.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`

	// BookmarkCount is the number of distinct bookmarks carrying this
	// tag, populated by aggregation queries.
	BookmarkCount int `json:"bookmark_count"`
}

// BookmarkTag is the pure many-to-many junction between bookmarks and
// tags. Rows are removed automatically when either endpoint is deleted.
type BookmarkTag struct {
	BookmarkID string `json:"bookmark_id"`
	TagID      string `json:"tag_id"`
}
