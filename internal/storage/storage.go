package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

// Storage is the static asset bucket.
type Storage interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}
