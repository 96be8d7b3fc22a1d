package views

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

type State int

const (
	Idle State = iota
	Counted
	Failed
)

func (s State) String() string {
	switch s {
	case Counted:
		return "counted"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Store is the part of the view store a Counter needs.
type Store interface {
	Get(ctx context.Context, postID string) (int64, error)
	Increment(ctx context.Context, postID string) (int64, error)
}

type Snapshot struct {
	PostID string `json:"postId"`
	Views  int64  `json:"views"`
	State  State  `json:"-"`
	Err    error  `json:"-"`
}

// Counter tracks the view count for one displayed instance of a post.
// A Counter built with increment set issues at most one increment for
// its whole lifetime, no matter how often or how concurrently Sync runs.
// Create one Counter per page visit; never share one between posts.
type Counter struct {
	store     Store
	postID    string
	increment bool
	logger    *slog.Logger

	incremented atomic.Bool

	mu    sync.Mutex
	state State
	views int64
	err   error
}

func NewCounter(store Store, postID string, increment bool, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Counter{store: store, postID: postID, increment: increment, logger: logger}
}

// Sync fetches the current count and, on the first call of an
// incrementing Counter, records one view. The displayed count only
// changes after the store call succeeds. Failed is terminal: later
// calls return the failure without touching the store.
func (c *Counter) Sync(ctx context.Context) Snapshot {
	if snap := c.Snapshot(); snap.State == Failed {
		return snap
	}
	if c.increment && c.incremented.CompareAndSwap(false, true) {
		views, err := c.store.Increment(ctx, c.postID)
		if err != nil {
			c.logger.Error("increment views failed", "post_id", c.postID, "error", err)
			return c.fail(err)
		}
		return c.count(views)
	}

	views, err := c.store.Get(ctx, c.postID)
	if err != nil {
		c.logger.Error("get views failed", "post_id", c.postID, "error", err)
		return c.fail(err)
	}
	return c.count(views)
}

func (c *Counter) count(views int64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Failed {
		return c.snapshotLocked()
	}
	// A read that resolves after the increment must not lower the count.
	if views > c.views || c.state != Counted {
		c.views = views
	}
	c.state, c.err = Counted, nil
	return c.snapshotLocked()
}

func (c *Counter) fail(err error) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state, c.err = Failed, err
	return c.snapshotLocked()
}

func (c *Counter) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Counter) snapshotLocked() Snapshot {
	return Snapshot{PostID: c.postID, Views: c.views, State: c.state, Err: c.err}
}

// Incremented reports whether this Counter has dispatched its increment.
func (c *Counter) Incremented() bool {
	return c.incremented.Load()
}
