// Package images turns content image references into URLs and picks
// stand-in images for posts that have none.
package images

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/jeremyjsx/portfolio/internal/storage"
)

const cdnHost = "https://cdn.sanity.io/images"

// DefaultFallbacks is used until a pool has been loaded from storage.
var DefaultFallbacks = []string{
	"/images/blog/fallback-1.jpg",
	"/images/blog/fallback-2.jpg",
	"/images/blog/fallback-3.jpg",
	"/images/blog/fallback-4.jpg",
}

var imageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif"}

type Resolver struct {
	projectID string
	dataset   string

	mu       sync.RWMutex
	fallback []string
}

func NewResolver(projectID, dataset string) *Resolver {
	return &Resolver{
		projectID: projectID,
		dataset:   dataset,
		fallback:  slices.Clone(DefaultFallbacks),
	}
}

// URL resolves an asset reference of the form image-<id>-<w>x<h>-<ext>
// to its CDN URL. Absolute URLs and site paths pass through; anything
// else resolves to "".
func (r *Resolver) URL(ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "/"):
		return ref
	}

	rest, ok := strings.CutPrefix(ref, "image-")
	if !ok || r.projectID == "" {
		return ""
	}
	i := strings.LastIndexByte(rest, '-')
	if i <= 0 || i == len(rest)-1 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/%s.%s", cdnHost, r.projectID, r.dataset, rest[:i], rest[i+1:])
}

// Fallback deterministically picks one pool image for key, so the same
// post always gets the same stand-in.
func (r *Resolver) Fallback(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.fallback) == 0 {
		return ""
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return r.fallback[h.Sum32()%uint32(len(r.fallback))]
}

// URLOrFallback resolves ref, falling back to a pool image for key.
func (r *Resolver) URLOrFallback(ref, key string) string {
	if u := r.URL(ref); u != "" {
		return u
	}
	return r.Fallback(key)
}

// SetFallbacks replaces the pool. An empty list keeps the current pool.
func (r *Resolver) SetFallbacks(urls []string) {
	if len(urls) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = slices.Clone(urls)
}

// LoadFallbacks replaces the pool with the images stored under prefix.
// Keys are sorted so every instance picks the same image for a post.
func (r *Resolver) LoadFallbacks(ctx context.Context, st storage.Storage, prefix string, logger *slog.Logger) error {
	keys, err := st.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list fallback images: %w", err)
	}
	slices.Sort(keys)

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		if slices.Contains(imageExts, strings.ToLower(path.Ext(key))) {
			urls = append(urls, st.PublicURL(key))
		}
	}
	if len(urls) == 0 {
		logger.Warn("no fallback images in storage, keeping defaults", "prefix", prefix)
		return nil
	}
	r.SetFallbacks(urls)
	logger.Info("fallback images loaded", "count", len(urls))
	return nil
}
