package http

import (
	"net/http"
	"strings"
	"time"

	"shorty/internal/service"

	"go.uber.org/zap"
)

// LinksHandler serves the dashboard listing.
type LinksHandler struct {
	shortener *service.Shortener
	log       *zap.Logger
	baseURL   string
}

// NewLinksHandler creates the listing handler.
func NewLinksHandler(shortener *service.Shortener, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		shortener: shortener,
		log:       log,
		baseURL:   baseURL,
	}
}

// MappingInfo is one row of the dashboard listing.
type MappingInfo struct {
	ID         int64     `json:"id"`
	ShortCode  string    `json:"short_code"`
	ShortURL   string    `json:"short_url"`
	LongURL    string    `json:"long_url"`
	Title      string    `json:"title,omitempty"`
	ClickCount int64     `json:"click_count"`
	Active     bool      `json:"active"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListMappingsResponse is the dashboard payload: all mappings ordered by
// click count descending plus the total.
type ListMappingsResponse struct {
	Links []MappingInfo `json:"links"`
	Total int64         `json:"total"`
}

// ListMappings handles GET /api/links.
func (h *LinksHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mappings, total, err := h.shortener.ListMappings(r.Context())
	if err != nil {
		h.log.Error("failed to list mappings", zap.Error(err))
		writeMessage(w, h.log, http.StatusInternalServerError, "danger", "Internal server error")
		return
	}

	base := strings.TrimSuffix(h.baseURL, "/")
	links := make([]MappingInfo, 0, len(mappings))
	for _, m := range mappings {
		links = append(links, MappingInfo{
			ID:         m.ID,
			ShortCode:  m.ShortCode,
			ShortURL:   base + "/" + m.ShortCode,
			LongURL:    m.LongURL,
			Title:      m.Title(),
			ClickCount: m.ClickCount,
			Active:     m.IsActive,
			Archived:   m.Archived,
			CreatedAt:  m.CreatedAt,
		})
	}

	writeJSON(w, h.log, http.StatusOK, ListMappingsResponse{
		Links: links,
		Total: total,
	})
}
