package posts

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Status string

const (
	Draft     Status = "draft"
	Published Status = "published"
)

type Author struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Tag is the flattened form of a TagRef. Slug and Color may be empty.
type Tag struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Color string `json:"color,omitempty"`
}

// TagRef is either an InlineTag or a ReferenceTag.
type TagRef interface {
	Resolve() Tag
	isTagRef()
}

// InlineTag is a label embedded directly in a post document.
type InlineTag struct {
	Label string
	Color string
}

func (t InlineTag) Resolve() Tag { return Tag{Name: t.Label, Color: t.Color} }
func (InlineTag) isTagRef()      {}

// ReferenceTag points at a tag document in the content platform.
type ReferenceTag struct {
	ID    string
	Name  string
	Slug  string
	Color string
}

func (t ReferenceTag) Resolve() Tag {
	return Tag{ID: t.ID, Name: t.Name, Slug: t.Slug, Color: t.Color}
}
func (ReferenceTag) isTagRef() {}

type Post struct {
	ID        string
	Title     string
	Slug      string
	Excerpt   string
	Body      []Block
	Tags      []TagRef
	Views     int64
	Status    Status
	Author    *Author
	MainImage string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Visible reports whether the post may be listed on the site.
func (p *Post) Visible() bool {
	return p.Status == Published && p.Slug != ""
}

// ResolvedTags returns the post's tags in document order, dropping tags
// without a name.
func (p *Post) ResolvedTags() []Tag {
	out := make([]Tag, 0, len(p.Tags))
	for _, ref := range p.Tags {
		if ref == nil {
			continue
		}
		if tag := ref.Resolve(); tag.Name != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Preview is the excerpt, or the start of the body text when there is
// no excerpt, cut at maxRunes on a word boundary.
func (p *Post) Preview(maxRunes int) string {
	text := strings.TrimSpace(p.Excerpt)
	if text == "" {
		text = strings.Join(strings.Fields(ExtractText(p.Body)), " ")
	}
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	cut := string([]rune(text)[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

const wordsPerMinute = 200

// ReadingMinutes estimates reading time from the body text, never less
// than one minute.
func (p *Post) ReadingMinutes() int {
	words := len(strings.Fields(ExtractText(p.Body)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
