package views

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS post_views (
    post_id    TEXT PRIMARY KEY,
    views      BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var _ Repository = (*postgresRepository)(nil)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// EnsureSchema creates the post_views table when it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *postgresRepository) Get(ctx context.Context, postID string) (int64, error) {
	var views int64
	err := r.db.QueryRowContext(ctx, `SELECT views FROM post_views WHERE post_id = $1`, postID).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return views, nil
}

func (r *postgresRepository) Increment(ctx context.Context, postID string) (int64, error) {
	var views int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO post_views (post_id, views) VALUES ($1, 1)
		ON CONFLICT (post_id) DO UPDATE
		SET views = post_views.views + 1, updated_at = now()
		RETURNING views`, postID).Scan(&views)
	if err != nil {
		return 0, err
	}
	return views, nil
}

func (r *postgresRepository) Counts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT post_id, views FROM post_views WHERE post_id = ANY($1)`, pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			views int64
		)
		if err := rows.Scan(&id, &views); err != nil {
			return nil, err
		}
		counts[id] = views
	}
	return counts, rows.Err()
}
