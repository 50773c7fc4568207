package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/openclaw/bookmark-server/internal/domain"
	domainerrors "github.com/openclaw/bookmark-server/internal/errors"
	"github.com/openclaw/bookmark-server/internal/store"
)

// bookmarkColumns is the ordered list of columns selected in bookmark
// queries. Must match the scan order in scanBookmark.
const bookmarkColumns = `
	b.id, b.title, b.url, b.description, b.folder_id, b.favicon_url,
	b.is_favorite, b.visit_count, b.last_visited, b.created_at, b.updated_at`

// scanBookmark scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Bookmark. Tag lists are attached separately by attachTags.
func scanBookmark(scanner interface{ Scan(dest ...any) error }) (*domain.Bookmark, error) {
	var b domain.Bookmark

	var (
		description sql.NullString
		folderID    sql.NullString
		faviconURL  sql.NullString
		lastVisited sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.URL,
		&description,
		&folderID,
		&faviconURL,
		&b.IsFavorite,
		&b.VisitCount,
		&lastVisited,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		b.Description = description.String
	}
	if folderID.Valid {
		b.FolderID = &folderID.String
	}
	if faviconURL.Valid {
		b.FaviconURL = faviconURL.String
	}

	b.LastVisited, err = parseNullableTime(lastVisited)
	if err != nil {
		return nil, err
	}
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	b.Tags = []string{}
	b.TagColors = []string{}

	return &b, nil
}

// CreateBookmark inserts a bookmark and its tag associations in a single
// transaction. Tag names are resolved get-or-create; duplicates in
// tagNames collapse to one association each.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark, tagNames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookmarks (id, title, url, description, folder_id, favicon_url,
			is_favorite, visit_count, last_visited, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.Title,
		b.URL,
		nullString(b.Description),
		nullableString(b.FolderID),
		nullString(b.FaviconURL),
		b.IsFavorite,
		b.VisitCount,
		nullTimeString(b.LastVisited),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}

	if err := insertBookmarkTagsTx(ctx, tx, b.ID, tagNames); err != nil {
		return err
	}

	return tx.Commit()
}

// insertBookmarkTagsTx links a bookmark to the named tags inside tx,
// creating missing tags along the way.
func insertBookmarkTagsTx(ctx context.Context, tx *sql.Tx, bookmarkID string, tagNames []string) error {
	for _, name := range domain.DedupeTagNames(tagNames) {
		tagID, err := findOrCreateTagTx(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id)
			VALUES (?, ?)`,
			bookmarkID, tagID,
		)
		if err != nil {
			return fmt.Errorf("insert bookmark_tag: %w", err)
		}
	}
	return nil
}

// GetBookmark retrieves a bookmark by ID with its full tag lists.
// Returns errors.ErrNotFound if the bookmark does not exist.
func (s *Store) GetBookmark(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks b WHERE b.id = ?`, bookmarkID)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, []*domain.Bookmark{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookmarks returns bookmarks matching the filter, ordered by creation
// time descending. Filter categories compose with AND; the tag name set is
// any-match. Every returned row carries its full tag name/color lists, not
// just the tags that matched the filter.
func (s *Store) ListBookmarks(ctx context.Context, filter store.BookmarkFilter) ([]*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks b WHERE 1=1`
	var args []any

	if filter.FolderID != nil {
		query += ` AND b.folder_id = ?`
		args = append(args, *filter.FolderID)
	}

	if filter.IsFavorite != nil {
		query += ` AND b.is_favorite = ?`
		args = append(args, *filter.IsFavorite)
	}

	if filter.Search != "" {
		query += ` AND (b.title LIKE ? OR b.description LIKE ? OR b.url LIKE ?)`
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}

	if len(filter.TagNames) > 0 {
		placeholders := strings.Repeat("?,", len(filter.TagNames))
		placeholders = placeholders[:len(placeholders)-1]
		query += ` AND EXISTS (
			SELECT 1 FROM bookmark_tags bt
			INNER JOIN tags t ON t.id = bt.tag_id
			WHERE bt.bookmark_id = b.id AND t.name IN (` + placeholders + `))`
		for _, name := range filter.TagNames {
			args = append(args, name)
		}
	}

	if filter.TagID != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM bookmark_tags bt
			WHERE bt.bookmark_id = b.id AND bt.tag_id = ?)`
		args = append(args, filter.TagID)
	}

	query += ` ORDER BY b.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if bookmarks == nil {
		bookmarks = []*domain.Bookmark{}
	}

	if err := s.attachTags(ctx, bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// attachTags populates the ordered tag name/color lists for a batch of
// bookmarks with one junction query. Association insertion order is
// preserved via the junction rowid.
func (s *Store) attachTags(ctx context.Context, bookmarks []*domain.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Bookmark, len(bookmarks))
	placeholders := make([]string, 0, len(bookmarks))
	args := make([]any, 0, len(bookmarks))
	for _, b := range bookmarks {
		byID[b.ID] = b
		placeholders = append(placeholders, "?")
		args = append(args, b.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bt.bookmark_id, t.name, t.color
		FROM bookmark_tags bt
		INNER JOIN tags t ON t.id = bt.tag_id
		WHERE bt.bookmark_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY bt.rowid ASC`, args...)
	if err != nil {
		return fmt.Errorf("query bookmark tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookmarkID, name, color string
		if err := rows.Scan(&bookmarkID, &name, &color); err != nil {
			return fmt.Errorf("scan bookmark tag: %w", err)
		}
		b := byID[bookmarkID]
		b.Tags = append(b.Tags, name)
		b.TagColors = append(b.TagColors, color)
	}
	return rows.Err()
}

// UpdateBookmark saves the bookmark row and, when replaceTags is set,
// swaps the association set for tagNames — all in one transaction. An
// empty tagNames with replaceTags clears every association.
// Returns errors.ErrNotFound if the bookmark does not exist.
func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark, tagNames []string, replaceTags bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookmarks
		SET title = ?, url = ?, description = ?, folder_id = ?, favicon_url = ?,
			is_favorite = ?, updated_at = ?
		WHERE id = ?`,
		b.Title,
		b.URL,
		nullString(b.Description),
		nullableString(b.FolderID),
		nullString(b.FaviconURL),
		b.IsFavorite,
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.ErrNotFound
	}

	if replaceTags {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM bookmark_tags WHERE bookmark_id = ?`, b.ID); err != nil {
			return fmt.Errorf("delete bookmark_tags: %w", err)
		}
		if err := insertBookmarkTagsTx(ctx, tx, b.ID, tagNames); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteBookmark removes a bookmark; the junction cascade drops its
// associations. Returns errors.ErrNotFound if the bookmark does not exist.
func (s *Store) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, bookmarkID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// RecordVisit increments visit_count by one and stamps last_visited in a
// single statement. Returns errors.ErrNotFound if the bookmark does not exist.
func (s *Store) RecordVisit(ctx context.Context, bookmarkID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks
		SET visit_count = visit_count + 1, last_visited = ?
		WHERE id = ?`,
		formatTime(time.Now().UTC()),
		bookmarkID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
