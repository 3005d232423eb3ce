// Package httpadapter serves the weather lookup API alongside health,
// readiness and Prometheus endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WeatherLookup resolves the latest weather for a destination city.
type WeatherLookup interface {
	WeatherForCity(ctx context.Context, city string) (domain.WeatherResult, bool)
}

// Server exposes the weather API plus /healthz, /readyz and /metrics.
type Server struct {
	httpServer    *http.Server
	weather       WeatherLookup
	lookupTimeout time.Duration
	logger        *slog.Logger
}

// NewServer creates the HTTP server. Each weather request is bounded by
// lookupTimeout.
func NewServer(addr string, weather WeatherLookup, lookupTimeout time.Duration, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: lookupTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		weather:       weather,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}

	mux.HandleFunc("GET /v1/weather", s.handleWeather)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleWeather answers GET /v1/weather?city=NAME with 200 and the result,
// 204 when nothing usable was found, or 400 for a blank city.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city query parameter is required"})
		return
	}

	ctx := r.Context()
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	res, ok := s.weather.WeatherForCity(ctx, city)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}
