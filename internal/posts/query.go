package posts

import (
	"slices"
	"strings"
)

type SortMode string

const (
	SortLatest  SortMode = "latest"
	SortOldest  SortMode = "oldest"
	SortPopular SortMode = "popular"
)

func (m SortMode) Valid() bool {
	switch m {
	case SortLatest, SortOldest, SortPopular:
		return true
	}
	return false
}

type Criteria struct {
	Search string
	Tags   []string
	Sort   SortMode
}

// Query filters posts by search text and selected tags, then sorts them.
// Every selected tag must match (AND). The input slice is not modified.
func Query(posts []*Post, c Criteria, aliases *AliasTable) []*Post {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	matchers := make([]matcher, 0, len(c.Tags))
	for _, tag := range c.Tags {
		matchers = append(matchers, aliases.matcher(tag))
	}

	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if matchesText(p, search) && matchesTags(p, matchers, aliases) {
			out = append(out, p)
		}
	}

	sortPosts(out, c.Sort)
	return out
}

func matchesText(p *Post, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Excerpt), search)
}

func matchesTags(p *Post, matchers []matcher, aliases *AliasTable) bool {
	if len(matchers) == 0 {
		return true
	}
	tags := p.ResolvedTags()
	if len(tags) == 0 {
		return false
	}
	for _, m := range matchers {
		found := false
		for _, tag := range tags {
			if m.matches(aliases, tag.Name) || m.matches(aliases, tag.Slug) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortPosts(posts []*Post, mode SortMode) {
	switch mode {
	case SortOldest:
		slices.SortStableFunc(posts, func(a, b *Post) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortPopular:
		slices.SortStableFunc(posts, func(a, b *Post) int {
			switch {
			case a.Views > b.Views:
				return -1
			case a.Views < b.Views:
				return 1
			}
			return 0
		})
	default:
		slices.SortStableFunc(posts, func(a, b *Post) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}
