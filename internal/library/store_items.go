package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveItem upserts an item keyed by its Path.
func (s *Store) SaveItem(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, upsertItemSQL, upsertItemArgs(item)...)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// ReplaceItem re-keys an item from oldPath to item.Path in one transaction.
// Used when a file is organized into the library and must be tracked under
// its destination path.
func (s *Store) ReplaceItem(ctx context.Context, oldPath string, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if oldPath != "" && oldPath != item.Path {
		if _, err := tx.ExecContext(ctx, `DELETE FROM library_items WHERE path = ?`, oldPath); err != nil {
			return fmt.Errorf("remove old item: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, upsertItemSQL, upsertItemArgs(item)...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// GetItem fetches an item by path. Returns nil when no item matches.
func (s *Store) GetItem(ctx context.Context, path string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM library_items WHERE path = ?`, path)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems returns items filtered by status set, or all items when no status
// is provided, ordered by path.
func (s *Store) ListItems(ctx context.Context, statuses ...ItemStatus) ([]*Item, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM library_items`
	orderClause := ` ORDER BY path`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems returns the number of items per status.
func (s *Store) CountItems(ctx context.Context) (map[ItemStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM library_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer rows.Close()

	counts := make(map[ItemStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[ItemStatus(status)] = count
	}
	return counts, rows.Err()
}

const upsertItemSQL = `INSERT INTO library_items (
        path, item_type, status, source_path, destination_path,
        tmdb_id, title, year, poster_path, overview, season, episode,
        quality, source_tag, codec, library_id, reason, updated_at
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(path) DO UPDATE SET
        item_type = excluded.item_type,
        status = excluded.status,
        source_path = excluded.source_path,
        destination_path = excluded.destination_path,
        tmdb_id = excluded.tmdb_id,
        title = excluded.title,
        year = excluded.year,
        poster_path = excluded.poster_path,
        overview = excluded.overview,
        season = excluded.season,
        episode = excluded.episode,
        quality = excluded.quality,
        source_tag = excluded.source_tag,
        codec = excluded.codec,
        library_id = excluded.library_id,
        reason = excluded.reason,
        updated_at = excluded.updated_at`

func upsertItemArgs(item *Item) []any {
	return []any{
		item.Path,
		item.Type,
		item.Status,
		item.SourcePath,
		nullableString(item.DestinationPath),
		nullableInt64(item.Identification.TMDBID),
		nullableString(item.Identification.Title),
		nullableInt(item.Identification.Year),
		nullableString(item.Identification.PosterPath),
		nullableString(item.Identification.Overview),
		nullableInt(item.Identification.Season),
		nullableInt(item.Identification.Episode),
		nullableString(item.Quality),
		nullableString(item.Source),
		nullableString(item.Codec),
		nullableString(item.LibraryID),
		nullableString(item.Reason),
		item.UpdatedAt.Format(time.RFC3339Nano),
	}
}
