package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jeremyjsx/portfolio/internal/events"
	"github.com/jeremyjsx/portfolio/internal/metrics"
)

const maxPostIDLen = 128

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

func (s *Service) Get(ctx context.Context, postID string) (int64, error) {
	if err := validatePostID(postID); err != nil {
		return 0, err
	}
	views, err := s.repo.Get(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("get views: %w", err)
	}
	return views, nil
}

// Increment adds one view and returns the new count. A failed event
// publish is logged and does not fail the increment.
func (s *Service) Increment(ctx context.Context, postID string) (int64, error) {
	if err := validatePostID(postID); err != nil {
		return 0, err
	}
	views, err := s.repo.Increment(ctx, postID)
	if err != nil {
		metrics.ViewIncrements.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("increment views: %w", err)
	}
	metrics.ViewIncrements.WithLabelValues("ok").Inc()

	if err := s.publisher.PublishPostViewed(ctx, events.NewPostViewed(postID, views)); err != nil {
		s.logger.Warn("publish post viewed failed", "post_id", postID, "error", err)
	}
	return views, nil
}

func (s *Service) Counts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return s.repo.Counts(ctx, postIDs)
}

func validatePostID(postID string) error {
	if strings.TrimSpace(postID) == "" || len(postID) > maxPostIDLen {
		return ErrInvalidPostID
	}
	return nil
}
