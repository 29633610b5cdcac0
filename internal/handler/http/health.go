package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shorty/internal/repository"

	"go.uber.org/zap"
)

// HealthHandler serves the health check endpoints.
type HealthHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(storage repository.Storage, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// a miss is the expected outcome; anything else means storage trouble
	dbStatus := "healthy"
	_, err := h.storage.FindByShortCode(ctx, "health-check-non-existent")
	if err != nil && !errors.Is(err, repository.ErrCodeNotFound) {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, h.log, statusCode, HealthResponse{
		Status:         status,
		Timestamp:      time.Now(),
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]string{"status": "ready"})
}
