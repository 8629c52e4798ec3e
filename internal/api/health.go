package api

import (
	"net/http"

	respond "github.com/karake-shoya/dream-analysis-app-sub000/internal/api/respond"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// CheckHealth GET /api/health — liveness plus a store ping.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
