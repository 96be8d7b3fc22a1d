package events

import "context"

type Publisher interface {
	PublishPostViewed(ctx context.Context, e PostViewed) error
}
