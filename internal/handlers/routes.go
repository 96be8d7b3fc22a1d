package handlers

import (
	"net/http"

	"github.com/jeremyjsx/portfolio/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	Posts  *PostsHandler
	Views  *ViewsHandler
	Health *HealthDeps
	APIKey string
}

func (rt Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", Health(rt.Health))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /posts", rt.Posts.List())
	mux.HandleFunc("GET /posts/{slug}", rt.Posts.GetBySlug())
	mux.HandleFunc("GET /tags", rt.Posts.Tags())
	mux.Handle("POST /admin/refresh", middleware.APIKey(rt.APIKey)(rt.Posts.Refresh()))

	mux.HandleFunc("GET /views/{postId}", rt.Views.Get())
	mux.HandleFunc("POST /views", rt.Views.Increment())
}
