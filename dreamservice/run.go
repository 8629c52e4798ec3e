// Package dreamservice wires configuration, storage, the generative model and the
// HTTP API into a runnable service.
package dreamservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/api"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/config"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/factory"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/platform/logger"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/ratelimit"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/services"
)

// Run starts the dream analysis HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("dream-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := factory.NewStore(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	gen, err := factory.NewGenerator(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Generator unavailable")
		return err
	}

	analysis := services.NewAnalysisService(cfg, ratelimit.New(), gen, st, log)
	dreams := services.NewDreamService(st)
	router := api.NewRouter(analysis, dreams, st)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// The model call dominates request latency; leave the write timeout
		// comfortably above the model timeout.
		WriteTimeout: time.Duration(cfg.ModelTimeoutSec+15) * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}
