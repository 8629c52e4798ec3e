package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store/sqlite"
)

func TestDreamServiceAccessControl(t *testing.T) {
	st, err := sqlite.New(filepath.Join(t.TempDir(), "dreams.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc := NewDreamService(st)
	ctx := context.Background()

	owner := "u-1"
	rec, err := st.Dreams().Insert(ctx, &owner, "猫の夢", []byte(`{"isDiagnosable":true}`))
	if err != nil {
		t.Fatal(err)
	}

	// Owner reads without a token.
	if _, err := svc.Get(ctx, rec.DreamID, "u-1", ""); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	// Share token grants unauthenticated access.
	if _, err := svc.Get(ctx, rec.DreamID, "", rec.ShareToken); err != nil {
		t.Fatalf("share token read: %v", err)
	}
	// Wrong token, wrong user, or no credentials: not found.
	for _, c := range []struct{ caller, token string }{
		{"", ""},
		{"u-2", ""},
		{"", "bogus-token"},
	} {
		if _, err := svc.Get(ctx, rec.DreamID, c.caller, c.token); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("caller=%q token=%q err=%v want ErrNotFound", c.caller, c.token, err)
		}
	}

	// Purge cascades.
	n, err := svc.PurgeOwner(ctx, owner)
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	if _, err := svc.Get(ctx, rec.DreamID, "u-1", ""); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("record survived purge: %v", err)
	}
}
