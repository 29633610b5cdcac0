package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"shorty/internal/repository"
	"shorty/internal/service"

	"go.uber.org/zap"
)

// Server bundles the HTTP handlers.
type Server struct {
	shortenHandler  *ShortenHandler
	redirectHandler *RedirectHandler
	linksHandler    *LinksHandler
	healthHandler   *HealthHandler
	log             *zap.Logger
}

// NewServer creates the HTTP server. defaultOwnerID attributes anonymous
// submissions to the seeded system account.
func NewServer(
	storage repository.Storage,
	shortener *service.Shortener,
	log *zap.Logger,
	baseURL string,
	defaultOwnerID int64,
) *Server {
	return &Server{
		shortenHandler:  NewShortenHandler(shortener, log, baseURL, defaultOwnerID),
		redirectHandler: NewRedirectHandler(shortener, log),
		linksHandler:    NewLinksHandler(shortener, log, baseURL),
		healthHandler:   NewHealthHandler(storage, log),
		log:             log,
	}
}

// SetupRoutes configures the routes.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// health checks
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)

	// API endpoints
	mux.HandleFunc("/api/shorten", s.shortenHandler.CreateMapping)
	mux.HandleFunc("/api/links", s.linksHandler.ListMappings)

	// redirect endpoint, must come last: it owns the rest of the path space
	mux.HandleFunc("/", s.redirectHandler.HandleRedirect)

	return mux
}

// isSystemPath reports whether a path belongs to a non-redirect endpoint.
func isSystemPath(path string) bool {
	systemPaths := []string{
		"/api/",
		"/health",
		"/ready",
	}

	for _, systemPath := range systemPaths {
		if strings.HasPrefix(path, systemPath) {
			return true
		}
	}

	return false
}

// apiMessage is the flash-style message attached to responses. Category is
// "info" or "danger", matching what the UI renders.
type apiMessage struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, log *zap.Logger, status int, category, message string) {
	writeJSON(w, log, status, apiMessage{Message: message, Category: category})
}
