package events

import "context"

type NoopPublisher struct{}

func (NoopPublisher) PublishPostViewed(context.Context, PostViewed) error {
	return nil
}

var _ Publisher = (*NoopPublisher)(nil)
