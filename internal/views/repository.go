package views

import "context"

// Repository persists per-post view counts. Increment is not idempotent.
type Repository interface {
	Get(ctx context.Context, postID string) (int64, error)
	Increment(ctx context.Context, postID string) (int64, error)
	Counts(ctx context.Context, postIDs []string) (map[string]int64, error)
}
