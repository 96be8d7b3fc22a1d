package posts

import "time"

// Snapshot is one load of the content platform. It is never modified
// after it has been published by Service.Load.
type Snapshot struct {
	Posts         []*Post
	Tags          []Tag
	DefaultAuthor *Author
	LoadedAt      time.Time

	bySlug map[string]*Post
}

func newSnapshot(posts []*Post, tags []Tag, author *Author, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Posts:         posts,
		Tags:          tags,
		DefaultAuthor: author,
		LoadedAt:      loadedAt,
		bySlug:        make(map[string]*Post, len(posts)),
	}
	for _, p := range posts {
		if _, dup := s.bySlug[p.Slug]; !dup {
			s.bySlug[p.Slug] = p
		}
	}
	return s
}

func (s *Snapshot) BySlug(slug string) (*Post, bool) {
	p, ok := s.bySlug[slug]
	return p, ok
}

// TagColor returns the color of the tag definition with the given name.
func (s *Snapshot) TagColor(name string) string {
	for _, t := range s.Tags {
		if t.Name == name {
			return t.Color
		}
	}
	return ""
}
