package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/config"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/genmodel"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/model"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/normalize"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/prompt"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/ratelimit"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

// genericRejectionReason is shown when the model rejects the input without giving
// its own reason.
const genericRejectionReason = "入力内容から夢の内容を読み取れませんでした。見た夢の出来事をもう少し詳しく書いてください。"

// AnalysisService orchestrates one dream-analysis round: preconditions, rate
// limiting, model call, normalization, branching and persistence. The service
// holds no per-call state; follow-up continuity lives entirely in the client.
type AnalysisService struct {
	cfg     *config.Config
	limiter *ratelimit.Limiter
	gen     genmodel.Generator
	store   store.Store
	log     zerolog.Logger
}

func NewAnalysisService(cfg *config.Config, limiter *ratelimit.Limiter, gen genmodel.Generator, st store.Store, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{cfg: cfg, limiter: limiter, gen: gen, store: st, log: log}
}

// Analyze runs one analysis round.
//
// Error taxonomy: ErrEmptyInput, ErrInputTooLong, *RateLimitedError,
// ErrServerMisconfigured, ErrModelUnavailable, ErrMalformedResponse,
// *RejectionError. Storage failure is not an error: the response is returned with
// nil id/share token and the failure is logged for operators.
func (s *AnalysisService) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	if strings.TrimSpace(req.DreamText) == "" {
		return nil, model.ErrEmptyInput
	}
	if utf8.RuneCountInString(req.DreamText) > s.cfg.MaxDreamChars {
		return nil, model.ErrInputTooLong
	}

	key, limit := s.quotaFor(req)
	window := time.Duration(s.cfg.QuotaWindowMins) * time.Minute
	if d := s.limiter.Consume(key, limit, window); !d.Allowed {
		return nil, &model.RateLimitedError{RetryAfterSeconds: d.RetryAfterSeconds}
	}

	if s.gen == nil {
		return nil, model.ErrServerMisconfigured
	}

	modelCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.ModelTimeoutSec)*time.Second)
	defer cancel()
	raw, err := s.gen.Generate(modelCtx, prompt.Build(req.DreamText))
	if err != nil {
		s.log.Warn().Err(err).Msg("model call failed")
		return nil, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}

	outcome, err := normalize.Normalize(raw)
	if err != nil {
		s.log.Error().Err(err).Msg("model broke its output contract")
		return nil, err
	}

	switch outcome.Kind {
	case normalize.KindRejection:
		reason := outcome.Result.ErrorReason
		if reason == "" {
			reason = genericRejectionReason
		}
		return nil, &model.RejectionError{Reason: reason}
	default:
		// Both the full diagnosis and the diagnosable-but-thin branch persist:
		// the provisional record gives the user a share link even if the
		// follow-up round is abandoned.
		resp := &model.AnalyzeResponse{AnalysisResult: outcome.Result}
		rec := s.persist(ctx, req, outcome.Result)
		if rec != nil {
			resp.DreamID = &rec.DreamID
			resp.ShareToken = &rec.ShareToken
		}
		return resp, nil
	}
}

// persist inserts the result and degrades to nil on store failure. Returning the
// expensive-to-compute analysis wins over guaranteeing storage.
func (s *AnalysisService) persist(ctx context.Context, req model.AnalyzeRequest, res model.AnalysisResult) *model.StoredDream {
	payload, err := json.Marshal(res)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode analysis result")
		return nil
	}

	var owner *string
	if req.CallerID != "" {
		owner = &req.CallerID
	}
	rec, err := s.store.Dreams().Insert(ctx, owner, req.DreamText, payload)
	if err != nil {
		s.log.Error().Err(err).
			Str("caller_origin", req.CallerOrigin).
			Bool("authenticated", owner != nil).
			Msg("failed to persist analysis result")
		return nil
	}
	return rec
}

// quotaFor selects the limiter key and quota: the generous per-user quota when a
// caller identity is present, the strict per-origin quota otherwise.
func (s *AnalysisService) quotaFor(req model.AnalyzeRequest) (string, int) {
	if req.CallerID != "" {
		return "user:" + req.CallerID, s.cfg.AuthQuota
	}
	return "origin:" + req.CallerOrigin, s.cfg.AnonQuota
}
