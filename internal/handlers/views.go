package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jeremyjsx/portfolio/internal/views"
)

type ViewsHandler struct {
	svc    *views.Service
	logger *slog.Logger
}

func NewViewsHandler(svc *views.Service, logger *slog.Logger) *ViewsHandler {
	return &ViewsHandler{
		svc:    svc,
		logger: logger,
	}
}

type IncrementViewsRequest struct {
	PostID string `json:"postId"`
}

type viewsResponse struct {
	PostID string `json:"postId"`
	Views  int64  `json:"views"`
}

// Get returns the stored count without recording a view.
func (h *ViewsHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sync(w, r, r.PathValue("postId"), false)
	}
}

// Increment records one view. Each request is one page visit, so each
// gets its own counter.
func (h *ViewsHandler) Increment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IncrementViewsRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}
		h.sync(w, r, req.PostID, true)
	}
}

func (h *ViewsHandler) sync(w http.ResponseWriter, r *http.Request, postID string, increment bool) {
	snap := views.NewCounter(h.svc, postID, increment, h.logger).Sync(r.Context())
	if snap.State == views.Failed {
		if errors.Is(snap.Err, views.ErrInvalidPostID) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", map[string]string{"postId": "required"})
			return
		}
		writeError(w, http.StatusBadGateway, "VIEWS_UNAVAILABLE", "view count unavailable", nil)
		return
	}
	writeJSON(w, http.StatusOK, viewsResponse{PostID: snap.PostID, Views: snap.Views})
}
