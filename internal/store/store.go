package store

import (
	"context"
	"encoding/json"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Dreams() Dreams
	Ping(ctx context.Context) error
	Close() error
}

// Dreams is the stored-dream adapter. Records are immutable once inserted: a
// follow-up analysis round creates a new record rather than mutating the
// provisional one, so no update operation exists.
type Dreams interface {
	// Insert persists one analysis result and returns the stored record with its
	// generated id and share token. ownerID is nil for anonymous submissions.
	Insert(ctx context.Context, ownerID *string, content string, result json.RawMessage) (*model.StoredDream, error)
	// GetByID fetches a record or model.ErrNotFound.
	GetByID(ctx context.Context, dreamID string) (*model.StoredDream, error)
	// ListByOwner returns an owner's records, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredDream, error)
	// DeleteByOwner removes all records owned by ownerID and reports how many
	// were deleted. Used as the account-deletion cascade; callers treat failures
	// as best-effort.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
