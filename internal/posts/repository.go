package posts

import "context"

// Repository is the content platform holding posts, tags and authors.
type Repository interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	ListTags(ctx context.Context) ([]Tag, error)
	GetAuthorByName(ctx context.Context, name string) (*Author, error)
}

// ViewSource supplies stored view counts keyed by post ID.
type ViewSource interface {
	Counts(ctx context.Context, postIDs []string) (map[string]int64, error)
}
