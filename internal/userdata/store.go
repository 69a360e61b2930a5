package userdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/studyhub/internal/db"
)

// Store persists visitor data in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// ToggleBookmark removes the bookmark if present and adds it otherwise. It
// reports whether the resource is bookmarked afterwards.
func (s *Store) ToggleBookmark(ctx context.Context, visitor, resourceID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE visitor_id = ? AND resource_id = ?", visitor, resourceID)
	if err != nil {
		return false, fmt.Errorf("deleting bookmark: %w", err)
	}
	removed, _ := res.RowsAffected()

	added := removed == 0
	if added {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bookmarks (visitor_id, resource_id, created_at) VALUES (?, ?, ?)",
			visitor, resourceID, time.Now().UTC())
		if err != nil {
			return false, fmt.Errorf("inserting bookmark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing bookmark: %w", err)
	}
	return added, nil
}

// IsBookmarked reports whether the visitor bookmarked the resource.
func (s *Store) IsBookmarked(ctx context.Context, visitor, resourceID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookmarks WHERE visitor_id = ? AND resource_id = ?",
		visitor, resourceID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying bookmark: %w", err)
	}
	return n > 0, nil
}

// Bookmarks returns the visitor's bookmarked resource ids, oldest first.
func (s *Store) Bookmarks(ctx context.Context, visitor string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT resource_id FROM bookmarks WHERE visitor_id = ? ORDER BY created_at, rowid", visitor)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// BookmarkSet returns the visitor's bookmarks as a set.
func (s *Store) BookmarkSet(ctx context.Context, visitor string) (map[string]bool, error) {
	ids, err := s.Bookmarks(ctx, visitor)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// RecordDownload appends a download to the visitor's history.
func (s *Store) RecordDownload(ctx context.Context, visitor, resourceID string) (Download, error) {
	d := Download{
		ID:           uuid.New().String(),
		VisitorID:    visitor,
		ResourceID:   resourceID,
		DownloadedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO downloads (id, visitor_id, resource_id, downloaded_at) VALUES (?, ?, ?, ?)",
		d.ID, d.VisitorID, d.ResourceID, d.DownloadedAt)
	if err != nil {
		return Download{}, fmt.Errorf("inserting download: %w", err)
	}
	return d, nil
}

// Downloads returns the visitor's download history, oldest first.
func (s *Store) Downloads(ctx context.Context, visitor string) ([]Download, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, visitor_id, resource_id, downloaded_at
		FROM downloads WHERE visitor_id = ?
		ORDER BY downloaded_at, rowid`, visitor)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close()

	result := []Download{}
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.ID, &d.VisitorID, &d.ResourceID, &d.DownloadedAt); err != nil {
			return nil, fmt.Errorf("scanning download: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// DownloadCount returns how many downloads of the resource were recorded
// across all visitors.
func (s *Store) DownloadCount(ctx context.Context, resourceID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM downloads WHERE resource_id = ?", resourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting downloads: %w", err)
	}
	return n, nil
}

// Theme returns the visitor's theme, DefaultTheme if none was set.
func (s *Store) Theme(ctx context.Context, visitor string) (Theme, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM preferences WHERE visitor_id = ? AND key = ?", visitor, prefTheme).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultTheme, nil
	}
	if err != nil {
		return "", fmt.Errorf("querying theme: %w", err)
	}
	if t := Theme(v); t.Valid() {
		return t, nil
	}
	return DefaultTheme, nil
}

// SetTheme stores the visitor's theme.
func (s *Store) SetTheme(ctx context.Context, visitor string, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		visitor, prefTheme, string(t), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upserting theme: %w", err)
	}
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context, visitor string) (Theme, error) {
	cur, err := s.Theme(ctx, visitor)
	if err != nil {
		return "", err
	}
	next := cur.Toggle()
	if err := s.SetTheme(ctx, visitor, next); err != nil {
		return "", err
	}
	return next, nil
}
