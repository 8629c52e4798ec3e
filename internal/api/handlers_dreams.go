package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	respond "github.com/karake-shoya/dream-analysis-app-sub000/internal/api/respond"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/services"
)

type DreamHandler struct {
	svc *services.DreamService
}

func NewDreamHandler(svc *services.DreamService) *DreamHandler {
	return &DreamHandler{svc: svc}
}

// GetDream GET /api/dreams/{dreamId}?share=<token>
func (h *DreamHandler) GetDream(w http.ResponseWriter, r *http.Request) {
	dreamID := mux.Vars(r)["dreamId"]
	rec, err := h.svc.Get(r.Context(), dreamID,
		r.Header.Get(userIDHeader), r.URL.Query().Get("share"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "dream not found")
			return
		}
		respond.WriteInternalError(w, "failed to load dream")
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// ListDreams GET /api/dreams — the caller's own records, for the dashboard and
// calendar views.
func (h *DreamHandler) ListDreams(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(userIDHeader)
	if callerID == "" {
		respond.WriteError(w, http.StatusUnauthorized, "sign in to list dreams")
		return
	}
	out, err := h.svc.ListByOwner(r.Context(), callerID)
	if err != nil {
		respond.WriteInternalError(w, "failed to list dreams")
		return
	}
	if out == nil {
		out = []*model.StoredDream{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"dreams": out, "count": len(out)})
}

// PurgeDreams DELETE /api/dreams — account-deletion cascade. Best-effort: the
// account layer calls this and proceeds regardless of the outcome, so failures
// are logged and reported but carry no retry semantics.
func (h *DreamHandler) PurgeDreams(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(userIDHeader)
	if callerID == "" {
		respond.WriteError(w, http.StatusUnauthorized, "sign in to delete dreams")
		return
	}
	n, err := h.svc.PurgeOwner(r.Context(), callerID)
	if err != nil {
		log.Error().Err(err).Str("owner", callerID).Msg("dream purge failed")
		respond.WriteInternalError(w, "failed to delete dreams")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": n})
}
