package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/jeremyjsx/portfolio/internal/posts"
	"github.com/jeremyjsx/portfolio/internal/storage"
)

type HealthDeps struct {
	DB      *sql.DB
	Storage storage.Storage
	Events  interface{ Healthy() bool }
	Content *posts.Service
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports unhealthy when the view store or content is missing and
// degraded when only optional dependencies are down.
func Health(deps *HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"
		degrade := func() {
			if status == "healthy" {
				status = "degraded"
			}
		}

		if deps.DB == nil {
			checks["db"] = "skipped"
		} else if err := deps.DB.PingContext(ctx); err != nil {
			checks["db"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["db"] = "ok"
		}

		if deps.Content == nil {
			checks["content"] = "skipped"
		} else if _, err := deps.Content.Snapshot(); err != nil {
			checks["content"] = "not_loaded"
			status = "unhealthy"
		} else {
			checks["content"] = "ok"
		}

		if deps.Storage == nil {
			checks["s3"] = "skipped"
		} else if _, err := deps.Storage.Exists(ctx, "__health__"); err != nil {
			checks["s3"] = "unhealthy"
			degrade()
		} else {
			checks["s3"] = "ok"
		}

		if deps.Events == nil {
			checks["rabbitmq"] = "skipped"
		} else if !deps.Events.Healthy() {
			checks["rabbitmq"] = "unhealthy"
			degrade()
		} else {
			checks["rabbitmq"] = "ok"
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{Status: status, Checks: checks})
	}
}
