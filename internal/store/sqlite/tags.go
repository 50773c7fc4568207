package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/openclaw/bookmark-server/internal/domain"
	domainerrors "github.com/openclaw/bookmark-server/internal/errors"
	"github.com/openclaw/bookmark-server/internal/id"
)

// tagColumns is the ordered list of columns selected in tag queries,
// including the denormalized usage count. Must match the scan order in scanTag.
const tagColumns = `
	t.id, t.name, t.color, t.created_at,
	(SELECT COUNT(*) FROM bookmark_tags bt WHERE bt.tag_id = t.id) AS bookmark_count`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var createdAt string

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Color,
		&createdAt,
		&t.BookmarkCount,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateTag inserts a new tag.
// Returns errors.ErrConflict on duplicate name.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.Color,
		formatTime(t.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domainerrors.ErrConflict
	}
	return err
}

// GetTag retrieves a tag by ID with its usage count.
// Returns errors.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.id = ?`, tagID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags with usage counts, ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags t ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTags(rows)
}

// PopularTags returns up to limit tags that are attached to at least one
// bookmark, ordered by usage count descending. Ties keep tag insertion
// order so the ranking is stable across calls.
func (s *Store) PopularTags(ctx context.Context, limit int) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at,
			COUNT(bt.bookmark_id) AS bookmark_count
		FROM tags t
		INNER JOIN bookmark_tags bt ON bt.tag_id = t.id
		GROUP BY t.id
		ORDER BY bookmark_count DESC, t.created_at ASC, t.rowid ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTags(rows)
}

func collectTags(rows *sql.Rows) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// UpdateTag saves name and color of an existing tag. Associations are
// untouched. Returns errors.ErrConflict if the new name is taken and
// errors.ErrNotFound if the tag does not exist.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color = ? WHERE id = ?`,
		t.Name, t.Color, t.ID)
	if isUniqueViolation(err) {
		return domainerrors.ErrConflict
	}
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

// DeleteTag removes a tag; the junction cascade drops its associations
// without touching the bookmarks themselves.
// Returns errors.ErrNotFound if the tag does not exist.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID)
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

// findOrCreateTagTx resolves a tag name to its ID inside tx, creating the
// tag with the default color when absent. Get-or-create: an existing name
// is never duplicated.
func findOrCreateTagTx(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var tagID string
	err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID)
	if err == nil {
		return tagID, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("lookup tag %q: %w", name, err)
	}

	tagID, err = id.Generate("tag")
	if err != nil {
		return "", fmt.Errorf("generate tag id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		tagID,
		name,
		domain.DefaultTagColor,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return "", fmt.Errorf("insert tag %q: %w", name, err)
	}
	return tagID, nil
}
