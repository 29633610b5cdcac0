package http

import (
	"errors"
	"net/http"
	"strings"

	"shorty/internal/repository"
	"shorty/internal/service"

	"go.uber.org/zap"
)

// RedirectHandler resolves short codes into redirects.
type RedirectHandler struct {
	shortener *service.Shortener
	log       *zap.Logger
}

// NewRedirectHandler creates the redirect handler.
func NewRedirectHandler(shortener *service.Shortener, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		shortener: shortener,
		log:       log,
	}
}

// HandleRedirect handles GET /{code}. The click is durably recorded before
// the redirect is issued.
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/")
	if code == "" || isSystemPath(r.URL.Path) || strings.Contains(code, "/") {
		http.NotFound(w, r)
		return
	}

	longURL, err := h.shortener.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.log.Debug("short code not found", zap.String("short_code", code))
			writeMessage(w, h.log, http.StatusNotFound, "danger",
				"No long URL found for the code: "+code)
			return
		}
		h.log.Error("failed to resolve short code", zap.String("short_code", code), zap.Error(err))
		writeMessage(w, h.log, http.StatusInternalServerError, "danger", "Internal server error")
		return
	}

	h.log.Info("successful redirect",
		zap.String("short_code", code),
		zap.String("long_url", longURL))

	http.Redirect(w, r, longURL, http.StatusFound)
}
