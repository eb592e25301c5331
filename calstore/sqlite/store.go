// Package sqlite provides a SQLite-backed visage.CalibrationStore, so user
// anchor adjustments survive across runs.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/phanxgames/visage"
)

const schema = `
CREATE TABLE IF NOT EXISTS calibration (
  avatar_id  TEXT NOT NULL,
  region     TEXT NOT NULL,
  dx         REAL NOT NULL DEFAULT 0,
  dy         REAL NOT NULL DEFAULT 0,
  dw         REAL NOT NULL DEFAULT 0,
  dh         REAL NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (avatar_id, region)
);`

// Store persists calibration deltas in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the calibration database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("calibration store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create calibration table: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the stored adjustments for an avatar, keyed by region name.
// An avatar with no rows returns a nil map, which the engine treats as
// all-zero adjustments.
func (s *Store) Get(avatarID string) (map[string]visage.Adjust, error) {
	rows, err := s.sqlDB.Query(
		`SELECT region, dx, dy, dw, dh FROM calibration WHERE avatar_id = ?`,
		avatarID,
	)
	if err != nil {
		return nil, fmt.Errorf("query calibration for %q: %w", avatarID, err)
	}
	defer rows.Close()

	var out map[string]visage.Adjust
	for rows.Next() {
		var region string
		var a visage.Adjust
		if err := rows.Scan(&region, &a.DX, &a.DY, &a.DW, &a.DH); err != nil {
			return nil, fmt.Errorf("scan calibration row: %w", err)
		}
		if out == nil {
			out = make(map[string]visage.Adjust)
		}
		out[region] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calibration rows: %w", err)
	}
	return out, nil
}

// Set upserts the adjustments for an avatar. Regions absent from the map
// are left untouched.
func (s *Store) Set(avatarID string, adjustments map[string]visage.Adjust) error {
	now := time.Now().UTC().UnixMilli()
	for region, a := range adjustments {
		_, err := s.sqlDB.Exec(
			`INSERT INTO calibration (avatar_id, region, dx, dy, dw, dh, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (avatar_id, region) DO UPDATE SET
			   dx = excluded.dx, dy = excluded.dy,
			   dw = excluded.dw, dh = excluded.dh,
			   updated_at = excluded.updated_at`,
			avatarID, region, a.DX, a.DY, a.DW, a.DH, now,
		)
		if err != nil {
			return fmt.Errorf("upsert calibration for %q/%s: %w", avatarID, region, err)
		}
	}
	return nil
}
