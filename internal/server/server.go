// Package server wires the HTTP API over the platform components. It is
// glue: request decoding, response envelopes, and route registration only;
// all behavior lives in the pkg packages.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/platform"
)

// Server exposes the platform via HTTP.
type Server struct {
	platform *platform.Platform
	logger   *slog.Logger
}

// New creates a Server over the given platform.
func New(p *platform.Platform) *Server {
	return &Server{platform: p, logger: slog.Default()}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.platform.Health.HealthHandler(s.platform.Ping))
	mux.HandleFunc("GET /healthz", s.platform.Health.LivenessHandler())
	mux.HandleFunc("GET /readyz", s.platform.Health.ReadinessHandler())

	mux.HandleFunc("GET /api/assets", s.listAssets)
	mux.HandleFunc("GET /api/assets/nearby", s.nearbyAssets)
	mux.HandleFunc("GET /api/assets/{id}", s.getAsset)
	mux.HandleFunc("POST /api/assets/{id}/update", s.updateAsset)
	mux.HandleFunc("GET /api/assets/{id}/sensors", s.assetSensors)

	mux.HandleFunc("GET /api/dashboard/kpis", s.dashboardKPIs)
	mux.HandleFunc("GET /api/dashboard/alerts", s.activeAlerts)

	mux.HandleFunc("POST /api/sensors/data", s.ingestSensorData)
	mux.HandleFunc("GET /api/sensors/active", s.activeSensors)
	mux.HandleFunc("GET /api/sensors/{id}/stream", s.sensorStream)

	mux.HandleFunc("GET /api/search/assets", s.searchAssets)
	mux.HandleFunc("GET /api/search/suggestions", s.searchSuggestions)

	mux.HandleFunc("POST /api/sessions", s.createSession)
	mux.HandleFunc("GET /api/sessions/active", s.listActiveSessions)
	mux.HandleFunc("GET /api/sessions/metrics", s.sessionMetrics)
	mux.HandleFunc("GET /api/sessions/{id}", s.getSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.deleteSession)

	mux.HandleFunc("GET /api/monitor/commands", s.recentCommands)
	mux.HandleFunc("DELETE /api/monitor/commands", s.clearCommands)
	mux.HandleFunc("GET /api/monitor/stats", s.commandStats)

	return withCORS(mux)
}

// withCORS applies the permissive CORS policy the dashboard frontend needs.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"success": false, "error": message})
}
