package posts

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type mockRepo struct {
	listPublished   func(ctx context.Context) ([]*Post, error)
	listTags        func(ctx context.Context) ([]Tag, error)
	getAuthorByName func(ctx context.Context, name string) (*Author, error)
}

func (m *mockRepo) ListPublished(ctx context.Context) ([]*Post, error) {
	if m.listPublished != nil {
		return m.listPublished(ctx)
	}
	return nil, nil
}

func (m *mockRepo) ListTags(ctx context.Context) ([]Tag, error) {
	if m.listTags != nil {
		return m.listTags(ctx)
	}
	return nil, nil
}

func (m *mockRepo) GetAuthorByName(ctx context.Context, name string) (*Author, error) {
	if m.getAuthorByName != nil {
		return m.getAuthorByName(ctx, name)
	}
	return nil, ErrNotFound
}

type mockViews struct {
	counts func(ctx context.Context, ids []string) (map[string]int64, error)
}

func (m *mockViews) Counts(ctx context.Context, ids []string) (map[string]int64, error) {
	return m.counts(ctx, ids)
}

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return t0.AddDate(0, 0, n) }

func ref(name string) TagRef { return ReferenceTag{ID: "tag-" + name, Name: name} }

func published(id, title string, created time.Time, views int64, tags ...string) *Post {
	p := &Post{ID: id, Title: title, Slug: id, Status: Published, CreatedAt: created, Views: views}
	for _, tag := range tags {
		p.Tags = append(p.Tags, ref(tag))
	}
	return p
}

func loadedService(t *testing.T, posts ...*Post) *Service {
	t.Helper()
	repo := &mockRepo{listPublished: func(context.Context) ([]*Post, error) { return posts, nil }}
	svc := NewService(repo, Options{Logger: slog.Default()})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc
}

func TestService_Load(t *testing.T) {
	t.Run("filters drafts and substitutes default author", func(t *testing.T) {
		ctx := context.Background()
		withAuthor := published("a", "A", day(1), 0)
		withAuthor.Author = &Author{Name: "Guest"}
		repo := &mockRepo{
			listPublished: func(context.Context) ([]*Post, error) {
				return []*Post{
					withAuthor,
					published("b", "B", day(2), 0),
					{ID: "c", Title: "Draft", Slug: "c", Status: Draft},
					{ID: "d", Title: "No slug", Status: Published},
				}, nil
			},
			listTags: func(context.Context) ([]Tag, error) {
				return []Tag{{ID: "t1", Name: "Go", Color: "#00ADD8"}}, nil
			},
			getAuthorByName: func(_ context.Context, name string) (*Author, error) {
				if name != "Jane" {
					t.Errorf("GetAuthorByName name=%q", name)
				}
				return &Author{Name: "Jane", Image: "image-abc-10x10-png"}, nil
			},
		}
		svc := NewService(repo, Options{DefaultAuthor: "Jane"})
		if err := svc.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}
		snap, err := svc.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if len(snap.Posts) != 2 {
			t.Fatalf("got %d posts, want 2", len(snap.Posts))
		}
		if snap.Posts[0].Author.Name != "Guest" {
			t.Errorf("existing author replaced: %+v", snap.Posts[0].Author)
		}
		if snap.Posts[1].Author == nil || snap.Posts[1].Author.Name != "Jane" {
			t.Errorf("default author not substituted: %+v", snap.Posts[1].Author)
		}
		if len(snap.Tags) != 1 || snap.TagColor("Go") != "#00ADD8" {
			t.Errorf("tags %+v", snap.Tags)
		}
	})

	t.Run("missing default author falls back to name only", func(t *testing.T) {
		repo := &mockRepo{listPublished: func(context.Context) ([]*Post, error) {
			return []*Post{published("a", "A", day(1), 0)}, nil
		}}
		svc := NewService(repo, Options{DefaultAuthor: "Jane"})
		if err := svc.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		p, err := svc.GetPostBySlug("a")
		if err != nil {
			t.Fatalf("GetPostBySlug: %v", err)
		}
		if p.Author == nil || p.Author.Name != "Jane" || p.Author.Image != "" {
			t.Errorf("author %+v", p.Author)
		}
	})

	t.Run("posts fetch fails keeps previous snapshot", func(t *testing.T) {
		fail := false
		repo := &mockRepo{listPublished: func(context.Context) ([]*Post, error) {
			if fail {
				return nil, errors.New("cms down")
			}
			return []*Post{published("a", "A", day(1), 0)}, nil
		}}
		svc := NewService(repo, Options{})
		if err := svc.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		fail = true
		if err := svc.Load(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if _, err := svc.GetPostBySlug("a"); err != nil {
			t.Errorf("previous snapshot lost: %v", err)
		}
	})

	t.Run("tags fetch fails", func(t *testing.T) {
		repo := &mockRepo{listTags: func(context.Context) ([]Tag, error) { return nil, errors.New("boom") }}
		svc := NewService(repo, Options{})
		err := svc.Load(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if _, err := svc.Snapshot(); !errors.Is(err, ErrNotLoaded) {
			t.Errorf("got err %v", err)
		}
	})

	t.Run("overlays stored view counts", func(t *testing.T) {
		repo := &mockRepo{listPublished: func(context.Context) ([]*Post, error) {
			return []*Post{published("a", "A", day(1), 3), published("b", "B", day(2), 4)}, nil
		}}
		views := &mockViews{counts: func(_ context.Context, ids []string) (map[string]int64, error) {
			if len(ids) != 2 {
				t.Errorf("Counts ids=%v", ids)
			}
			return map[string]int64{"a": 40}, nil
		}}
		svc := NewService(repo, Options{Views: views})
		if err := svc.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		a, _ := svc.GetPostBySlug("a")
		b, _ := svc.GetPostBySlug("b")
		if a.Views != 40 || b.Views != 4 {
			t.Errorf("views a=%d b=%d", a.Views, b.Views)
		}
	})

	t.Run("view counts failure is not fatal", func(t *testing.T) {
		repo := &mockRepo{listPublished: func(context.Context) ([]*Post, error) {
			return []*Post{published("a", "A", day(1), 3)}, nil
		}}
		views := &mockViews{counts: func(context.Context, []string) (map[string]int64, error) {
			return nil, errors.New("db down")
		}}
		svc := NewService(repo, Options{Views: views})
		if err := svc.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		a, _ := svc.GetPostBySlug("a")
		if a.Views != 3 {
			t.Errorf("views = %d", a.Views)
		}
	})
}

func TestService_NotLoaded(t *testing.T) {
	svc := NewService(&mockRepo{}, Options{})
	if _, err := svc.ListPosts(NewBrowseState(), 9); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ListPosts err %v", err)
	}
	if _, err := svc.GetPostBySlug("a"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("GetPostBySlug err %v", err)
	}
	if _, err := svc.Tags(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Tags err %v", err)
	}
}

func TestService_ListPosts(t *testing.T) {
	var posts []*Post
	for i := range 20 {
		posts = append(posts, published(string(rune('a'+i)), "Post", day(i), 0))
	}
	svc := loadedService(t, posts...)

	t.Run("first page latest", func(t *testing.T) {
		result, err := svc.ListPosts(NewBrowseState(), 9)
		if err != nil {
			t.Fatalf("ListPosts: %v", err)
		}
		if result.Total != 20 || result.TotalPages != 3 || result.Page != 1 || len(result.Posts) != 9 {
			t.Errorf("got total=%d pages=%d page=%d len=%d", result.Total, result.TotalPages, result.Page, len(result.Posts))
		}
		if result.Posts[0].ID != "t" {
			t.Errorf("first post %q, want newest", result.Posts[0].ID)
		}
	})

	t.Run("page clamped", func(t *testing.T) {
		state := NewBrowseState()
		state.Page = 50
		result, err := svc.ListPosts(state, 9)
		if err != nil {
			t.Fatalf("ListPosts: %v", err)
		}
		if result.Page != 3 || result.State.Page != 3 || len(result.Posts) != 2 {
			t.Errorf("got page=%d len=%d", result.Page, len(result.Posts))
		}
	})

	t.Run("per page normalized", func(t *testing.T) {
		result, err := svc.ListPosts(NewBrowseState(), 0)
		if err != nil {
			t.Fatalf("ListPosts: %v", err)
		}
		if result.PerPage != defaultPageSize {
			t.Errorf("PerPage = %d", result.PerPage)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		state := NewBrowseState()
		state.SetSearch("nothing matches this")
		result, err := svc.ListPosts(state, 9)
		if err != nil {
			t.Fatalf("ListPosts: %v", err)
		}
		if result.Total != 0 || result.TotalPages != 1 || result.Page != 1 || len(result.Posts) != 0 {
			t.Errorf("got %+v", result)
		}
	})
}

func TestService_GetPostBySlug_NotFound(t *testing.T) {
	svc := loadedService(t, published("a", "A", day(1), 0))
	if _, err := svc.GetPostBySlug("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v", err)
	}
}

func TestService_Tags(t *testing.T) {
	repo := &mockRepo{
		listPublished: func(context.Context) ([]*Post, error) {
			return []*Post{
				published("a", "A", day(1), 0, "n8n", "React"),
				published("b", "B", day(2), 0, "Automation"),
			}, nil
		},
		listTags: func(context.Context) ([]Tag, error) {
			return []Tag{{Name: "Automation", Color: "#ff6d5a"}}, nil
		},
	}
	svc := NewService(repo, Options{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tags, err := svc.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %+v", tags)
	}
	if tags[0].Name != "Automation" || tags[0].Count != 2 || tags[0].Color != "#ff6d5a" {
		t.Errorf("got %+v", tags[0])
	}
	if tags[1].Name != "React" || tags[1].Count != 1 {
		t.Errorf("got %+v", tags[1])
	}
}
