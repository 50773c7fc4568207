package domain

import "time"

// Bookmark is a saved link. FolderID is nil for bookmarks outside any
// folder and is set to nil by the store when the containing folder is
// deleted. VisitCount is monotonically non-decreasing.
type Bookmark struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	FolderID    *string    `json:"folder_id"`
	FaviconURL  string     `json:"favicon_url,omitempty"`
	IsFavorite  bool       `json:"is_favorite"`
	VisitCount  int        `json:"visit_count"`
	LastVisited *time.Time `json:"last_visited"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Tags and TagColors are parallel slices ordered by association
	// insertion, populated on reads for display.
	Tags      []string `json:"tags"`
	TagColors []string `json:"tag_colors"`
}

// Touch updates the UpdatedAt timestamp.
func (b *Bookmark) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// DedupeTagNames collapses duplicate tag names while preserving first
// occurrence order, so ["a","b","a"] yields ["a","b"].
func DedupeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
