package sqlite

import (
	"context"
	"database/sql"

	"github.com/openclaw/bookmark-server/internal/domain"
	domainerrors "github.com/openclaw/bookmark-server/internal/errors"
)

// folderColumns is the ordered list of columns selected in folder queries,
// including the denormalized counts. Must match the scan order in scanFolder.
const folderColumns = `
	f.id, f.name, f.description, f.parent_id, f.created_at, f.updated_at,
	(SELECT COUNT(*) FROM bookmarks b WHERE b.folder_id = f.id) AS bookmark_count,
	(SELECT COUNT(*) FROM folders c WHERE c.parent_id = f.id) AS subfolder_count`

// scanFolder scans a sql.Row (or sql.Rows via its Scan method) into a domain.Folder.
func scanFolder(scanner interface{ Scan(dest ...any) error }) (*domain.Folder, error) {
	var f domain.Folder

	var (
		description sql.NullString
		parentID    sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&f.ID,
		&f.Name,
		&description,
		&parentID,
		&createdAt,
		&updatedAt,
		&f.BookmarkCount,
		&f.SubfolderCount,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		f.Description = description.String
	}
	if parentID.Valid {
		f.ParentID = &parentID.String
	}

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// CreateFolder inserts a new folder row.
func (s *Store) CreateFolder(ctx context.Context, f *domain.Folder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, description, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.Name,
		nullString(f.Description),
		nullableString(f.ParentID),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	return err
}

// GetFolder retrieves a folder by ID with its bookmark and subfolder counts.
// Returns errors.ErrNotFound if the folder does not exist.
func (s *Store) GetFolder(ctx context.Context, id string) (*domain.Folder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+folderColumns+` FROM folders f WHERE f.id = ?`, id)

	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFolders returns all folders with counts, ordered by name.
func (s *Store) ListFolders(ctx context.Context) ([]*domain.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+folderColumns+` FROM folders f ORDER BY f.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*domain.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if folders == nil {
		folders = []*domain.Folder{}
	}
	return folders, nil
}

// FolderParents returns the id-indexed parent mapping for the ancestor walk.
func (s *Store) FolderParents(ctx context.Context) (map[string]*string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, parent_id FROM folders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := make(map[string]*string)
	for rows.Next() {
		var id string
		var parentID sql.NullString
		if err := rows.Scan(&id, &parentID); err != nil {
			return nil, err
		}
		if parentID.Valid {
			parents[id] = &parentID.String
		} else {
			parents[id] = nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parents, nil
}

// UpdateFolder saves name, description, and parent of an existing folder.
// Returns errors.ErrNotFound if the folder does not exist.
func (s *Store) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE folders
		SET name = ?, description = ?, parent_id = ?, updated_at = ?
		WHERE id = ?`,
		f.Name,
		nullString(f.Description),
		nullableString(f.ParentID),
		formatTime(f.UpdatedAt),
		f.ID,
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

// DeleteFolder reassigns the folder's direct bookmarks to promoteTo and
// removes the folder row in a single transaction. The parent_id cascade
// deletes all transitive subfolders; their bookmarks fall back to no
// folder through the SET NULL rule on bookmarks.folder_id.
func (s *Store) DeleteFolder(ctx context.Context, id string, promoteTo *string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookmarks SET folder_id = ? WHERE folder_id = ?`,
		nullableString(promoteTo), id,
	); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
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

	return tx.Commit()
}
