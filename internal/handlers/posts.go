package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jeremyjsx/portfolio/internal/images"
	"github.com/jeremyjsx/portfolio/internal/posts"
)

const previewRunes = 180

type PostsHandler struct {
	svc    *posts.Service
	images *images.Resolver
	logger *slog.Logger
}

func NewPostsHandler(svc *posts.Service, resolver *images.Resolver, logger *slog.Logger) *PostsHandler {
	return &PostsHandler{
		svc:    svc,
		images: resolver,
		logger: logger,
	}
}

type authorResponse struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type postSummary struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Excerpt        string          `json:"excerpt"`
	Image          string          `json:"image"`
	Tags           []posts.Tag     `json:"tags"`
	Views          int64           `json:"views"`
	ReadingMinutes int             `json:"reading_minutes"`
	Author         *authorResponse `json:"author,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type blockResponse struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Level    int    `json:"level,omitempty"`
	Ordered  bool   `json:"ordered,omitempty"`
	Language string `json:"language,omitempty"`
	Image    string `json:"image,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

type postDetail struct {
	postSummary
	Body []blockResponse `json:"body"`
}

type filtersResponse struct {
	Search string   `json:"q"`
	Tags   []string `json:"tags"`
	Sort   string   `json:"sort"`
	View   string   `json:"view"`
}

type listResponse struct {
	Posts      []postSummary   `json:"data"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
	Empty      bool            `json:"empty"`
	Filtered   bool            `json:"filtered"`
	Filters    filtersResponse `json:"filters"`
}

func (h *PostsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := posts.ParseBrowseState(r.URL.Query())
		if err != nil {
			var pe *posts.InvalidParamError
			if errors.As(err, &pe) {
				writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid query parameter", map[string]string{pe.Param: "invalid"})
				return
			}
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}

		perPage := 0
		if raw := r.URL.Query().Get("per_page"); raw != "" {
			if perPage, err = strconv.Atoi(raw); err != nil {
				writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid query parameter", map[string]string{"per_page": "invalid"})
				return
			}
		}

		result, err := h.svc.ListPosts(state, perPage)
		if err != nil {
			h.writeServiceError(w, err, "list posts failed")
			return
		}

		resp := listResponse{
			Posts:      make([]postSummary, 0, len(result.Posts)),
			Total:      result.Total,
			Page:       result.Page,
			PerPage:    result.PerPage,
			TotalPages: result.TotalPages,
			Empty:      result.Total == 0,
			Filtered:   result.State.Filtered(),
			Filters: filtersResponse{
				Search: result.State.Search,
				Tags:   nonNil(result.State.Tags),
				Sort:   string(result.State.Sort),
				View:   string(result.State.View),
			},
		}
		for _, p := range result.Posts {
			resp.Posts = append(resp.Posts, h.summary(p))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PostsHandler) GetBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		if slug == "" {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "slug is required", nil)
			return
		}

		post, err := h.svc.GetPostBySlug(slug)
		if err != nil {
			h.writeServiceError(w, err, "get post failed", "slug", slug)
			return
		}

		detail := postDetail{postSummary: h.summary(post), Body: make([]blockResponse, 0, len(post.Body))}
		for _, b := range post.Body {
			detail.Body = append(detail.Body, h.block(b))
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func (h *PostsHandler) Tags() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		tags, err := h.svc.Tags()
		if err != nil {
			h.writeServiceError(w, err, "list tags failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": tags})
	}
}

// Refresh reloads content from the platform. On failure the previous
// content keeps being served.
func (h *PostsHandler) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Load(r.Context()); err != nil {
			h.logger.Error("content refresh failed", "error", err)
			writeError(w, http.StatusBadGateway, "CONTENT_UNAVAILABLE", "content platform unavailable", nil)
			return
		}
		snap, _ := h.svc.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"posts":     len(snap.Posts),
			"tags":      len(snap.Tags),
			"loaded_at": snap.LoadedAt,
		})
	}
}

func (h *PostsHandler) writeServiceError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, posts.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "post not found", nil)
	case errors.Is(err, posts.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "CONTENT_UNAVAILABLE", "content is not available yet, retry shortly", nil)
	default:
		h.logger.Error(msg, append(args, "error", err)...)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}

func (h *PostsHandler) summary(p *posts.Post) postSummary {
	s := postSummary{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Preview(previewRunes),
		Image:          h.images.URLOrFallback(p.MainImage, p.ID),
		Tags:           nonNil(h.svc.DisplayTags(p)),
		Views:          p.Views,
		ReadingMinutes: p.ReadingMinutes(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Author != nil {
		s.Author = &authorResponse{Name: p.Author.Name, Image: h.images.URL(p.Author.Image)}
	}
	return s
}

func (h *PostsHandler) block(b posts.Block) blockResponse {
	switch b := b.(type) {
	case posts.Paragraph:
		return blockResponse{Type: "paragraph", Text: b.Text}
	case posts.Heading:
		return blockResponse{Type: "heading", Text: b.Text, Level: b.Level}
	case posts.Quote:
		return blockResponse{Type: "quote", Text: b.Text}
	case posts.ListItem:
		return blockResponse{Type: "list_item", Text: b.Text, Ordered: b.Ordered}
	case posts.Code:
		return blockResponse{Type: "code", Text: b.Text, Language: b.Language}
	case posts.Image:
		return blockResponse{Type: "image", Image: h.images.URL(b.Ref), Alt: b.Alt}
	}
	return blockResponse{Type: "unknown"}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
