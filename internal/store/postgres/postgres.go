// Package postgres implements store.Store on PostgreSQL via the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS dreams (
	dream_id      UUID PRIMARY KEY,
	owner_id      TEXT,
	content       TEXT NOT NULL,
	result        JSONB NOT NULL,
	share_token   UUID NOT NULL UNIQUE,
	creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_dreams_owner ON dreams(owner_id);
`

// Open opens a PostgreSQL connection, verifies connectivity and bootstraps the
// schema.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens dsn and returns a Postgres-backed store.
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Dreams() store.Dreams           { return &dreams{db: s.db} }
func (s *pgStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *pgStore) Close() error                   { return s.db.Close() }

type dreams struct{ db *sql.DB }

func (d *dreams) Insert(ctx context.Context, ownerID *string, content string, result json.RawMessage) (*model.StoredDream, error) {
	rec := &model.StoredDream{
		DreamID:    uuid.New().String(),
		OwnerID:    ownerID,
		Content:    content,
		Result:     result,
		ShareToken: uuid.New().String(),
	}
	var created time.Time
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO dreams (dream_id, owner_id, content, result, share_token)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING creation_time
	`, rec.DreamID, ownerID, content, string(result), rec.ShareToken)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	rec.CreationTime = created.UTC()
	return rec, nil
}

func (d *dreams) GetByID(ctx context.Context, dreamID string) (*model.StoredDream, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT dream_id, owner_id, content, result, share_token, creation_time
		FROM dreams WHERE dream_id = $1
	`, dreamID)
	return scanDream(row)
}

func (d *dreams) ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredDream, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT dream_id, owner_id, content, result, share_token, creation_time
		FROM dreams WHERE owner_id = $1 ORDER BY creation_time DESC, dream_id
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
	res, err := d.db.ExecContext(ctx, `DELETE FROM dreams WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanDream(row rowScanner) (*model.StoredDream, error) {
	var rec model.StoredDream
	var result []byte
	var created time.Time
	err := row.Scan(&rec.DreamID, &rec.OwnerID, &rec.Content, &result, &rec.ShareToken, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Result = json.RawMessage(result)
	rec.CreationTime = created.UTC()
	return &rec, nil
}
