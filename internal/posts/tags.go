package posts

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// DefaultAliases groups the spellings authors have used for the same
// filter bucket.
var DefaultAliases = map[string][]string{
	"Automation": {"n8n", "n8n automation", "workflow", "workflows", "zapier"},
	"React":      {"reactjs", "react.js"},
	"Next.js":    {"nextjs", "next"},
	"JavaScript": {"js", "javascript es6"},
	"TypeScript": {"ts"},
	"AI":         {"artificial intelligence", "machine learning", "ml", "llm"},
	"Go":         {"golang"},
	"DevOps":     {"ci/cd", "docker", "kubernetes"},
}

// AliasTable maps tag spellings to canonical names. Lookups are
// case-insensitive and every canonical name is an alias of itself.
type AliasTable struct {
	canonical map[string]string   // lower(alias) -> canonical
	related   map[string][]string // canonical -> canonical + aliases
}

// NewAliasTable builds a table from canonical -> aliases. A spelling
// claimed by two canonical names is rejected.
func NewAliasTable(aliases map[string][]string) (*AliasTable, error) {
	t := &AliasTable{
		canonical: make(map[string]string),
		related:   make(map[string][]string, len(aliases)),
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		group := []string{name}
		for _, alias := range aliases[name] {
			if alias = strings.TrimSpace(alias); alias != "" {
				group = append(group, alias)
			}
		}
		for _, spelling := range group {
			key := strings.ToLower(spelling)
			if owner, ok := t.canonical[key]; ok && owner != name {
				return nil, fmt.Errorf("%w: %q claimed by %q and %q", ErrAmbiguousAlias, spelling, owner, name)
			}
			t.canonical[key] = name
		}
		t.related[name] = group
	}
	return t, nil
}

// MustAliasTable is NewAliasTable for static tables.
func MustAliasTable(aliases map[string][]string) *AliasTable {
	t, err := NewAliasTable(aliases)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalize returns the canonical name for tag, or tag unchanged when no
// group claims it.
func (t *AliasTable) Normalize(tag string) string {
	if t == nil {
		return tag
	}
	if name, ok := t.canonical[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return name
	}
	return tag
}

// RelatedTags returns the canonical name followed by its aliases.
func (t *AliasTable) RelatedTags(canonical string) []string {
	if t != nil {
		if group, ok := t.related[canonical]; ok {
			return slices.Clone(group)
		}
	}
	return []string{canonical}
}

// matcher reports whether a tag value belongs to the group of one
// selected tag. The selection is normalized first so an alias selects
// its whole group.
type matcher map[string]struct{}

func (t *AliasTable) matcher(selected string) matcher {
	group := t.RelatedTags(t.Normalize(selected))
	m := make(matcher, len(group))
	for _, s := range group {
		m[strings.ToLower(s)] = struct{}{}
	}
	return m
}

func (m matcher) matches(t *AliasTable, value string) bool {
	if value == "" {
		return false
	}
	_, ok := m[strings.ToLower(t.Normalize(value))]
	return ok
}

type TagCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

// CountTags counts posts per canonical tag. Synonyms on the same post
// count once. Ordered by count, then name.
func CountTags(posts []*Post, aliases *AliasTable) []TagCount {
	counts := make(map[string]*TagCount)
	for _, p := range posts {
		seen := make(map[string]struct{})
		for _, tag := range p.ResolvedTags() {
			name := aliases.Normalize(tag.Name)
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			c, ok := counts[name]
			if !ok {
				c = &TagCount{Name: name}
				counts[name] = c
			}
			if tag.Name == name {
				c.Slug, c.Color = firstNonEmpty(c.Slug, tag.Slug), firstNonEmpty(c.Color, tag.Color)
			}
			c.Count++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// DisplayTags deduplicates the post's tags by name and moves tags named
// in priority to the front, in priority order.
func DisplayTags(p *Post, priority []string) []Tag {
	seen := make(map[string]struct{})
	tags := make([]Tag, 0, len(p.Tags))
	for _, tag := range p.ResolvedTags() {
		if _, dup := seen[tag.Name]; dup {
			continue
		}
		seen[tag.Name] = struct{}{}
		tags = append(tags, tag)
	}
	if len(priority) == 0 {
		return tags
	}

	rank := func(name string) int {
		for i, p := range priority {
			if strings.EqualFold(p, name) {
				return i
			}
		}
		return len(priority)
	}
	slices.SortStableFunc(tags, func(a, b Tag) int {
		return rank(a.Name) - rank(b.Name)
	})
	return tags
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
