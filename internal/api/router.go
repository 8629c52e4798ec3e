package api

import (
	"github.com/gorilla/mux"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/api/recovery"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/services"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/store"
)

// NewRouter wires all HTTP routes to handlers.
func NewRouter(analysis *services.AnalysisService, dreams *services.DreamService, st store.Store) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	analyzeHandler := NewAnalyzeHandler(analysis)
	dreamHandler := NewDreamHandler(dreams)
	healthHandler := NewHealthHandler(st)

	router.HandleFunc("/api/analyze", analyzeHandler.Analyze).Methods("POST")

	router.HandleFunc("/api/dreams", dreamHandler.ListDreams).Methods("GET")
	router.HandleFunc("/api/dreams", dreamHandler.PurgeDreams).Methods("DELETE")
	router.HandleFunc("/api/dreams/{dreamId}", dreamHandler.GetDream).Methods("GET")

	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	return router
}
