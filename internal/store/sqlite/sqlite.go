// Package sqlite implements store.Store on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS dreams (
	dream_id      TEXT PRIMARY KEY,
	owner_id      TEXT,
	content       TEXT NOT NULL,
	result        TEXT NOT NULL,
	share_token   TEXT NOT NULL UNIQUE,
	creation_time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dreams_owner ON dreams(owner_id);
`

// Open opens (or creates) the SQLite database at path with WAL enabled and
// bootstraps the schema. path may be ":memory:" for tests.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = path + "?_journal=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return db, nil
}

// New opens path and returns a SQLite-backed store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Dreams() store.Dreams           { return &dreams{db: s.db} }
func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                   { return s.db.Close() }

type dreams struct{ db *sql.DB }

func (d *dreams) Insert(ctx context.Context, ownerID *string, content string, result json.RawMessage) (*model.StoredDream, error) {
	rec := &model.StoredDream{
		DreamID:      uuid.New().String(),
		OwnerID:      ownerID,
		Content:      content,
		Result:       result,
		ShareToken:   uuid.New().String(),
		CreationTime: time.Now().UTC().Truncate(time.Second),
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO dreams (dream_id, owner_id, content, result, share_token, creation_time)
		VALUES (?,?,?,?,?,?)
	`, rec.DreamID, ownerID, content, string(result), rec.ShareToken, rec.CreationTime.Unix())
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *dreams) GetByID(ctx context.Context, dreamID string) (*model.StoredDream, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT dream_id, owner_id, content, result, share_token, creation_time
		FROM dreams WHERE dream_id = ?
	`, dreamID)
	return scanDream(row)
}

func (d *dreams) ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredDream, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT dream_id, owner_id, content, result, share_token, creation_time
		FROM dreams WHERE owner_id = ? ORDER BY creation_time DESC, dream_id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.StoredDream
	for rows.Next() {
		rec, err := scanDream(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *dreams) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM dreams WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanDream(row rowScanner) (*model.StoredDream, error) {
	var rec model.StoredDream
	var result string
	var created int64
	err := row.Scan(&rec.DreamID, &rec.OwnerID, &rec.Content, &result, &rec.ShareToken, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Result = json.RawMessage(result)
	rec.CreationTime = time.Unix(created, 0).UTC()
	return &rec, nil
}
