package facts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned for operations on unknown fact ids.
var ErrNotFound = errors.New("fact not found")

const schema = `
CREATE TABLE IF NOT EXISTS facts (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLiteStore persists facts in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the fact database
// at path. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fact database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize fact schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, id, text string) (Fact, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO facts (id, text, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, status = excluded.status, updated_at = excluded.updated_at`,
		id, text, string(StatusSaved), now, now)
	if err != nil {
		return Fact{}, fmt.Errorf("failed to save fact %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Discard(ctx context.Context, id string) (Fact, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE facts SET status = ?, updated_at = ? WHERE id = ?`,
		string(StatusDiscarded), now, id)
	if err != nil {
		return Fact{}, fmt.Errorf("failed to discard fact %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Fact{}, err
	}
	if affected == 0 {
		return Fact{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Fact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, status, created_at, updated_at FROM facts WHERE id = ?`, id)
	var f Fact
	var status string
	if err := row.Scan(&f.ID, &f.Text, &status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Fact{}, ErrNotFound
		}
		return Fact{}, fmt.Errorf("failed to load fact %s: %w", id, err)
	}
	f.Status = Status(status)
	return f, nil
}

func (s *SQLiteStore) ListSaved(ctx context.Context) ([]Fact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, status, created_at, updated_at FROM facts WHERE status = ? ORDER BY updated_at DESC`,
		string(StatusSaved))
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	var out []Fact
	for rows.Next() {
		var f Fact
		var status string
		if err := rows.Scan(&f.ID, &f.Text, &status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Status = Status(status)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
