// Package storetest holds a compliance suite shared by all store backends.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

// Run exercises the Dreams contract against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	owner := "u-" + uuid.New().String()
	result := json.RawMessage(`{"isDiagnosable":true,"keywords":["猫"]}`)

	// Insert with owner
	rec, err := s.Dreams().Insert(ctx, &owner, "猫に追いかけられる夢", result)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.DreamID == "" || rec.ShareToken == "" {
		t.Fatalf("Insert: missing id/token: %+v", rec)
	}
	if rec.CreationTime.IsZero() {
		t.Fatal("Insert: zero creation time")
	}

	// Anonymous insert
	anon, err := s.Dreams().Insert(ctx, nil, "空を飛ぶ夢", result)
	if err != nil {
		t.Fatalf("Insert anonymous: %v", err)
	}
	if anon.OwnerID != nil {
		t.Fatalf("anonymous record has owner: %+v", anon)
	}

	// GetByID round-trips content and result
	got, err := s.Dreams().GetByID(ctx, rec.DreamID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Content != rec.Content || got.ShareToken != rec.ShareToken {
		t.Fatalf("GetByID mismatch: got=%+v want=%+v", got, rec)
	}
	var round struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal(got.Result, &round); err != nil || len(round.Keywords) != 1 {
		t.Fatalf("result payload did not round-trip: %s err=%v", got.Result, err)
	}
	if got.OwnerID == nil || *got.OwnerID != owner {
		t.Fatalf("owner did not round-trip: %+v", got)
	}

	// Unknown id
	if _, err := s.Dreams().GetByID(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID unknown: err=%v want ErrNotFound", err)
	}

	// ListByOwner sees only the owner's records
	if _, err := s.Dreams().Insert(ctx, &owner, "second dream", result); err != nil {
		t.Fatalf("Insert second: %v", err)
	}
	lst, err := s.Dreams().ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(lst) != 2 {
		t.Fatalf("ListByOwner: n=%d want 2", len(lst))
	}

	// DeleteByOwner cascades; anonymous record survives
	n, err := s.Dreams().DeleteByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}
	if n != 2 {
		t.Fatalf("DeleteByOwner: n=%d want 2", n)
	}
	if _, err := s.Dreams().GetByID(ctx, rec.DreamID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("deleted record still readable: err=%v", err)
	}
	if _, err := s.Dreams().GetByID(ctx, anon.DreamID); err != nil {
		t.Fatalf("anonymous record lost in cascade: %v", err)
	}
}
