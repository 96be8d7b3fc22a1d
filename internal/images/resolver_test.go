package images

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
)

type mockStorage struct {
	list   func(ctx context.Context, prefix string) ([]string, error)
	exists func(ctx context.Context, key string) (bool, error)
}

func (m *mockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	if m.list != nil {
		return m.list(ctx, prefix)
	}
	return nil, nil
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.exists != nil {
		return m.exists(ctx, key)
	}
	return false, nil
}

func (m *mockStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestResolver_URL(t *testing.T) {
	r := NewResolver("proj", "production")
	tests := []struct {
		ref, want string
	}{
		{"image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg", "https://cdn.sanity.io/images/proj/production/Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000.jpg"},
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"/images/local.png", "/images/local.png"},
		{"", ""},
		{"file-abc-pdf", ""},
		{"image-", ""},
		{"image-abc-", ""},
	}
	for _, tt := range tests {
		if got := r.URL(tt.ref); got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}

	if got := NewResolver("", "production").URL("image-abc-1x1-png"); got != "" {
		t.Errorf("no project: got %q", got)
	}
}

func TestResolver_Fallback(t *testing.T) {
	r := NewResolver("proj", "production")
	first := r.Fallback("post-1")
	for range 10 {
		if got := r.Fallback("post-1"); got != first {
			t.Fatalf("Fallback not deterministic: %q then %q", first, got)
		}
	}
	if !slices.Contains(DefaultFallbacks, first) {
		t.Errorf("Fallback %q not in pool", first)
	}

	seen := map[string]bool{}
	for _, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		seen[r.Fallback(key)] = true
	}
	if len(seen) < 2 {
		t.Errorf("all keys mapped to one image: %v", seen)
	}
}

func TestResolver_URLOrFallback(t *testing.T) {
	r := NewResolver("proj", "production")
	if got := r.URLOrFallback("image-abc-1x1-png", "k"); got != "https://cdn.sanity.io/images/proj/production/abc-1x1.png" {
		t.Errorf("got %q", got)
	}
	if got := r.URLOrFallback("", "k"); got != r.Fallback("k") {
		t.Errorf("got %q", got)
	}
}

func TestResolver_LoadFallbacks(t *testing.T) {
	t.Run("replaces pool with sorted images", func(t *testing.T) {
		st := &mockStorage{list: func(_ context.Context, prefix string) ([]string, error) {
			if prefix != "fallbacks/" {
				t.Errorf("prefix %q", prefix)
			}
			return []string{"fallbacks/b.png", "fallbacks/readme.txt", "fallbacks/a.JPG"}, nil
		}}
		r := NewResolver("proj", "production")
		if err := r.LoadFallbacks(context.Background(), st, "fallbacks/", slog.Default()); err != nil {
			t.Fatalf("LoadFallbacks: %v", err)
		}
		want := []string{"https://cdn.example.com/fallbacks/a.JPG", "https://cdn.example.com/fallbacks/b.png"}
		if !slices.Equal(r.fallback, want) {
			t.Errorf("pool = %v", r.fallback)
		}
	})

	t.Run("empty listing keeps defaults", func(t *testing.T) {
		r := NewResolver("proj", "production")
		if err := r.LoadFallbacks(context.Background(), &mockStorage{}, "fallbacks/", slog.Default()); err != nil {
			t.Fatalf("LoadFallbacks: %v", err)
		}
		if !slices.Equal(r.fallback, DefaultFallbacks) {
			t.Errorf("pool = %v", r.fallback)
		}
	})

	t.Run("list error", func(t *testing.T) {
		st := &mockStorage{list: func(context.Context, string) ([]string, error) { return nil, errors.New("denied") }}
		r := NewResolver("proj", "production")
		if err := r.LoadFallbacks(context.Background(), st, "fallbacks/", slog.Default()); err == nil {
			t.Error("expected error")
		}
	})
}
