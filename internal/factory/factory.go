// Package factory constructs service dependencies from configuration.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/config"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/genmodel"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store/postgres"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store/sqlite"
)

// NewStore builds the store backend selected by DB_DRIVER.
func NewStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("opening sqlite store")
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		log.Info().Msg("opening postgres store")
		return postgres.New(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

// NewGenerator builds the Gemini generator, or nil when no API key is configured.
// A nil generator makes the orchestrator fail analyze calls with
// ErrServerMisconfigured while the rest of the service stays usable.
func NewGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (genmodel.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set; analyze endpoint will reject requests")
		return nil, nil
	}
	gen, err := genmodel.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SafetyThreshold)
	if err != nil {
		return nil, fmt.Errorf("create gemini generator: %w", err)
	}
	log.Info().Str("model", cfg.GeminiModel).Msg("gemini generator ready")
	return gen, nil
}
