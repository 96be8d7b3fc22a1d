package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jeremyjsx/portfolio/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 9
	maxPageSize     = 100
)

type Options struct {
	Aliases       *AliasTable
	DefaultAuthor string
	FeaturedTags  []string
	PageSize      int
	Views         ViewSource
	Logger        *slog.Logger
}

type Service struct {
	repo     Repository
	opts     Options
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	if opts.Aliases == nil {
		opts.Aliases = MustAliasTable(DefaultAliases)
	}
	if opts.PageSize < 1 || opts.PageSize > maxPageSize {
		opts.PageSize = defaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, opts: opts, logger: logger, now: time.Now}
}

func (s *Service) Aliases() *AliasTable { return s.opts.Aliases }

// Load fetches posts, tags and the default author concurrently and
// replaces the current snapshot once all of them have resolved. On error
// the previous snapshot stays in place.
func (s *Service) Load(ctx context.Context) error {
	var (
		posts  []*Post
		tags   []Tag
		author *Author
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.repo.ListPublished(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.repo.ListTags(gctx)
		return err
	})
	if name := s.opts.DefaultAuthor; name != "" {
		g.Go(func() error {
			a, err := s.repo.GetAuthorByName(gctx, name)
			if errors.Is(err, ErrNotFound) {
				s.logger.Warn("default author not found", "name", name)
				author = &Author{Name: name}
				return nil
			}
			author = a
			return err
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordContentLoad(0, err)
		return fmt.Errorf("load content: %w", err)
	}

	visible := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if p == nil || !p.Visible() {
			continue
		}
		if p.Author == nil && author != nil {
			p.Author = author
		}
		visible = append(visible, p)
	}
	s.applyViews(ctx, visible)

	snap := newSnapshot(visible, tags, author, s.now())
	s.snapshot.Store(snap)
	metrics.RecordContentLoad(len(visible), nil)
	s.logger.Info("content loaded", "posts", len(visible), "tags", len(tags))
	return nil
}

func (s *Service) applyViews(ctx context.Context, posts []*Post) {
	if s.opts.Views == nil || len(posts) == 0 {
		return
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.opts.Views.Counts(ctx, ids)
	if err != nil {
		s.logger.Warn("view counts unavailable, using content counts", "error", err)
		return
	}
	for _, p := range posts {
		if n, ok := counts[p.ID]; ok {
			p.Views = n
		}
	}
}

func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

type ListResult struct {
	Posts      []*Post
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	State      BrowseState
}

// ListPosts runs the query for state and returns the requested page.
// The page in the returned state is clamped to the result.
func (s *Service) ListPosts(state BrowseState, perPage int) (*ListResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if perPage < 1 || perPage > maxPageSize {
		perPage = s.opts.PageSize
	}

	matched := Query(snap.Posts, state.Criteria(), s.opts.Aliases)
	totalPages := TotalPages(len(matched), perPage)
	state.SetPage(state.Page, totalPages)

	return &ListResult{
		Posts:      Paginate(matched, perPage, state.Page),
		Total:      len(matched),
		Page:       state.Page,
		PerPage:    perPage,
		TotalPages: totalPages,
		State:      state,
	}, nil
}

func (s *Service) GetPostBySlug(slug string) (*Post, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	p, ok := snap.BySlug(slug)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Tags returns tag chips with synonym counts merged. Colors missing on
// the posts are taken from the tag definitions.
func (s *Service) Tags() ([]TagCount, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	counts := CountTags(snap.Posts, s.opts.Aliases)
	for i := range counts {
		if counts[i].Color == "" {
			counts[i].Color = snap.TagColor(counts[i].Name)
		}
	}
	return counts, nil
}

func (s *Service) DisplayTags(p *Post) []Tag {
	return DisplayTags(p, s.opts.FeaturedTags)
}
