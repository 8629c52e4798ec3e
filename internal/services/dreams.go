package services

import (
	"context"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

// DreamService serves stored-dream reads and the account-deletion cascade.
type DreamService struct {
	store store.Store
}

func NewDreamService(st store.Store) *DreamService {
	return &DreamService{store: st}
}

// Get fetches a stored dream when the caller may read it: either the caller owns
// the record or presents its share token. Share tokens never expire. Denials are
// reported as ErrNotFound so record existence is not leaked.
func (s *DreamService) Get(ctx context.Context, dreamID, callerID, shareToken string) (*model.StoredDream, error) {
	rec, err := s.store.Dreams().GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	if shareToken != "" && shareToken == rec.ShareToken {
		return rec, nil
	}
	if callerID != "" && rec.OwnerID != nil && *rec.OwnerID == callerID {
		return rec, nil
	}
	return nil, model.ErrNotFound
}

// GetForOperator bypasses the owner and share-token checks. Used by dreamctl,
// which already has direct database access.
func (s *DreamService) GetForOperator(ctx context.Context, dreamID string) (*model.StoredDream, error) {
	return s.store.Dreams().GetByID(ctx, dreamID)
}

// ListByOwner returns the caller's stored dreams, newest first.
func (s *DreamService) ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredDream, error) {
	return s.store.Dreams().ListByOwner(ctx, ownerID)
}

// PurgeOwner deletes all records owned by ownerID. Account deletion calls this
// best-effort: a failure here must not block the deletion itself.
func (s *DreamService) PurgeOwner(ctx context.Context, ownerID string) (int64, error) {
	return s.store.Dreams().DeleteByOwner(ctx, ownerID)
}
