package posts

import "errors"

var (
	ErrNotFound       = errors.New("post not found")
	ErrNotLoaded      = errors.New("posts not loaded")
	ErrAmbiguousAlias = errors.New("tag alias claimed twice")
)
