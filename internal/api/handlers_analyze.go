package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	respond "github.com/karake-shoya/dream-analysis-app-sub000/internal/api/respond"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/services"
)

// userIDHeader carries the authenticated user id, set by the session layer in
// front of this service. Absent for anonymous callers.
const userIDHeader = "X-User-Id"

type AnalyzeHandler struct {
	svc *services.AnalysisService
}

func NewAnalyzeHandler(svc *services.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dream string `json:"dream"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}

	resp, err := h.svc.Analyze(r.Context(), model.AnalyzeRequest{
		DreamText:    req.Dream,
		CallerID:     r.Header.Get(userIDHeader),
		CallerOrigin: callerOrigin(r),
	})
	if err != nil {
		writeAnalyzeError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}

// writeAnalyzeError maps the orchestrator error taxonomy onto HTTP statuses.
// Messages stay short and non-technical; the rejection branch surfaces the
// model's reason verbatim so the user can refine the input.
func writeAnalyzeError(w http.ResponseWriter, err error) {
	var rl *model.RateLimitedError
	var rej *model.RejectionError
	switch {
	case errors.Is(err, model.ErrEmptyInput):
		respond.WriteBadRequest(w, "夢の内容を入力してください")
	case errors.Is(err, model.ErrInputTooLong):
		respond.WriteBadRequest(w, "夢の内容が長すぎます。2000文字以内で入力してください")
	case errors.As(err, &rej):
		respond.WriteBadRequest(w, rej.Reason)
	case errors.As(err, &rl):
		respond.WriteRateLimited(w, rl.RetryAfterSeconds, "リクエストが多すぎます。しばらく待ってからお試しください")
	case errors.Is(err, model.ErrModelUnavailable):
		respond.WriteError(w, http.StatusServiceUnavailable, "解析サービスが一時的に利用できません。もう一度お試しください")
	default:
		// ErrServerMisconfigured, ErrMalformedResponse and anything unexpected.
		respond.WriteInternalError(w, "サーバーエラーが発生しました")
	}
}

// callerOrigin identifies anonymous callers by network origin: the first
// X-Forwarded-For hop when present (the service runs behind a proxy in
// production), otherwise the remote address host.
func callerOrigin(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
