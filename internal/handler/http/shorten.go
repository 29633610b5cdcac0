package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shorty/internal/probe"
	"shorty/internal/repository"
	"shorty/internal/service"
	"shorty/internal/shortid"
	"shorty/internal/urlx"

	"go.uber.org/zap"
)

// ShortenHandler serves the creation endpoint.
type ShortenHandler struct {
	shortener      *service.Shortener
	log            *zap.Logger
	baseURL        string
	defaultOwnerID int64
}

// NewShortenHandler creates the creation handler.
func NewShortenHandler(shortener *service.Shortener, log *zap.Logger, baseURL string, defaultOwnerID int64) *ShortenHandler {
	return &ShortenHandler{
		shortener:      shortener,
		log:            log,
		baseURL:        baseURL,
		defaultOwnerID: defaultOwnerID,
	}
}

// CreateMappingRequest is the JSON body variant of a submission. The form
// variant carries the same data as `url` plus a `fetch-url` marker field.
type CreateMappingRequest struct {
	URL   string `json:"url"`
	Fetch bool   `json:"fetch"`
}

// CreateMappingResponse is the creation payload: everything the original
// confirmation page displayed.
type CreateMappingResponse struct {
	apiMessage
	ID                 int64                  `json:"id"`
	LongURL            string                 `json:"long_url"`
	ShortCode          string                 `json:"short_code"`
	ShortURL           string                 `json:"short_url"`
	ContentHash        string                 `json:"content_hash"`
	HeaderSnapshotHash string                 `json:"header_snapshot_hash"`
	GlobalID           string                 `json:"global_id"`
	ClickCount         int64                  `json:"click_count"`
	Active             bool                   `json:"active"`
	Headers            shortid.HeaderSnapshot `json:"headers"`
	Title              string                 `json:"title,omitempty"`
	URL                *urlx.Components       `json:"url"`
}

// CreateMapping handles POST /api/shorten.
func (h *ShortenHandler) CreateMapping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rawURL, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}

	headers := captureHeaders(r)

	result, err := h.shortener.Shorten(r.Context(), h.defaultOwnerID, rawURL, headers)
	if err != nil {
		h.writeShortenError(w, rawURL, err)
		return
	}

	m := result.Mapping
	h.log.Info("created short link",
		zap.Int64("id", m.ID),
		zap.String("short_code", m.ShortCode),
		zap.String("long_url", m.LongURL))

	writeJSON(w, h.log, http.StatusCreated, CreateMappingResponse{
		apiMessage:         apiMessage{Message: fmt.Sprintf("Success. Created URL: %d", m.ID), Category: "info"},
		ID:                 m.ID,
		LongURL:            m.LongURL,
		ShortCode:          m.ShortCode,
		ShortURL:           strings.TrimSuffix(h.baseURL, "/") + "/" + m.ShortCode,
		ContentHash:        m.ContentHash,
		HeaderSnapshotHash: m.HeaderSnapshotHash,
		GlobalID:           m.GlobalID,
		ClickCount:         m.ClickCount,
		Active:             m.IsActive,
		Headers:            headers,
		Title:              m.Title(),
		URL:                result.Components,
	})
}

// parseSubmission accepts either the classic form post (`url` field plus the
// `fetch-url` marker) or the JSON equivalent.
func (h *ShortenHandler) parseSubmission(w http.ResponseWriter, r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			writeMessage(w, h.log, http.StatusBadRequest, "danger", "Invalid form submission")
			return "", false
		}
		if _, fetch := r.PostForm["fetch-url"]; !fetch {
			writeMessage(w, h.log, http.StatusBadRequest, "info", "Nothing to do: no fetch intent")
			return "", false
		}
		rawURL := r.PostFormValue("url")
		if rawURL == "" {
			writeMessage(w, h.log, http.StatusBadRequest, "danger", "URL is required")
			return "", false
		}
		return rawURL, true
	}

	var req CreateMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create request", zap.Error(err))
		writeMessage(w, h.log, http.StatusBadRequest, "danger", "Invalid request format")
		return "", false
	}
	if !req.Fetch {
		writeMessage(w, h.log, http.StatusBadRequest, "info", "Nothing to do: no fetch intent")
		return "", false
	}
	if req.URL == "" {
		writeMessage(w, h.log, http.StatusBadRequest, "danger", "URL is required")
		return "", false
	}
	return req.URL, true
}

// writeShortenError converts the creation error taxonomy into flash-style
// messages; internals never leak past a short human-readable summary.
func (h *ShortenHandler) writeShortenError(w http.ResponseWriter, rawURL string, err error) {
	var probeErr *probe.Error

	switch {
	case errors.Is(err, urlx.ErrMalformedURL):
		h.log.Debug("malformed url submitted", zap.String("url", rawURL), zap.Error(err))
		writeMessage(w, h.log, http.StatusBadRequest, "danger", "The submitted URL is malformed")

	case errors.As(err, &probeErr):
		h.log.Debug("probe failed", zap.String("url", rawURL), zap.Error(err))
		switch probeErr.Kind {
		case probe.KindDead:
			writeMessage(w, h.log, http.StatusBadGateway, "danger",
				"HTTP call returned error: "+strconv.Itoa(probeErr.StatusCode))
		case probe.KindTimedOut:
			writeMessage(w, h.log, http.StatusGatewayTimeout, "danger",
				"The URL did not respond in time")
		default:
			writeMessage(w, h.log, http.StatusBadGateway, "danger",
				"The URL could not be reached")
		}

	case errors.Is(err, repository.ErrDuplicateMapping):
		h.log.Warn("mapping collision surfaced to user", zap.String("url", rawURL))
		writeMessage(w, h.log, http.StatusConflict, "danger",
			"A database error occurred, please resubmit")

	default:
		h.log.Error("failed to create mapping", zap.String("url", rawURL), zap.Error(err))
		writeMessage(w, h.log, http.StatusInternalServerError, "danger", "Internal server error")
	}
}

// captureHeaders snapshots the audited request headers.
func captureHeaders(r *http.Request) shortid.HeaderSnapshot {
	contentLength := r.Header.Get("Content-Length")
	if contentLength == "" && r.ContentLength >= 0 {
		contentLength = strconv.FormatInt(r.ContentLength, 10)
	}

	return shortid.HeaderSnapshot{
		ContentType:    r.Header.Get("Content-Type"),
		ContentLength:  contentLength,
		Host:           r.Host,
		AcceptEncoding: r.Header.Get("Accept-Encoding"),
		Accept:         r.Header.Get("Accept"),
	}
}
