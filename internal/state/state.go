package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    path        TEXT PRIMARY KEY,
    open_count  INTEGER NOT NULL DEFAULT 0,
    last_opened INTEGER NOT NULL DEFAULT 0
);
`

// Store wraps a SQLite database of opened project paths. Session names are
// deliberately not stored; tmux owns those.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	limit int
}

// DefaultPath returns $XDG_STATE_HOME/tctrl/state.db.
func DefaultPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "tctrl", "state.db"), nil
}

// Open creates or opens the state database at the default path.
func Open(limit int) (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path, limit)
}

// OpenAt creates or opens the database at path, keeping at most limit
// projects (0 means no limit).
func OpenAt(path string, limit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for safe concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now, limit: limit}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record marks path as opened now and trims the oldest entries past the limit.
func (s *Store) Record(path string) error {
	_, err := s.db.Exec(`
		INSERT INTO projects (path, open_count, last_opened)
		VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			open_count = open_count + 1,
			last_opened = excluded.last_opened
	`, path, s.now().UnixNano())
	if err != nil {
		return err
	}

	if s.limit > 0 {
		_, err = s.db.Exec(`
			DELETE FROM projects WHERE path NOT IN (
				SELECT path FROM projects ORDER BY last_opened DESC LIMIT ?
			)
		`, s.limit)
	}
	return err
}

// Recent returns recorded paths, most recently opened first.
func (s *Store) Recent() ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM projects ORDER BY last_opened DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		result = append(result, path)
	}
	return result, rows.Err()
}

// SortByRecent returns paths with recently opened ones first, in recency
// order, followed by the rest in their original order.
func SortByRecent(paths, recent []string) []string {
	rank := make(map[string]int, len(recent))
	for i, p := range recent {
		rank[p] = i
	}

	var seen, rest []string
	seenIdx := map[string]bool{}
	for _, p := range paths {
		if _, ok := rank[p]; ok {
			if !seenIdx[p] {
				seen = append(seen, p)
				seenIdx[p] = true
			}
			continue
		}
		rest = append(rest, p)
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return rank[seen[i]] < rank[seen[j]]
	})
	return append(seen, rest...)
}
