package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	postsQuery = `*[_type == "post" && defined(slug.current) && !(_id in path("drafts.**"))] | order(_createdAt desc) {
  _id, _createdAt, _updatedAt, title, "slug": slug.current, excerpt, body, views,
  "mainImage": mainImage.asset._ref,
  "tags": tags[]{ _type, label, color, _type == "reference" => @->{ _id, _type, name, "slug": slug.current, color } },
  "author": author->{ name, "image": image.asset._ref }
}`
	tagsQuery   = `*[_type == "tag"] | order(name asc) { _id, name, "slug": slug.current, color }`
	authorQuery = `*[_type == "author" && name == $name][0] { name, "image": image.asset._ref }`
)

type CMSConfig struct {
	BaseURL    string
	APIVersion string
	Dataset    string
	Token      string
	HTTPClient *http.Client
}

var _ Repository = (*cmsRepository)(nil)

type cmsRepository struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewCMSRepository reads content through the platform's HTTP query API.
func NewCMSRepository(cfg CMSConfig) Repository {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	version := strings.TrimPrefix(cfg.APIVersion, "v")
	return &cmsRepository{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/v" + version + "/data/query/" + url.PathEscape(cfg.Dataset),
		token:    cfg.Token,
		client:   client,
	}
}

func (r *cmsRepository) ListPublished(ctx context.Context) ([]*Post, error) {
	var docs []cmsPost
	if err := r.query(ctx, postsQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]*Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toPost())
	}
	return out, nil
}

func (r *cmsRepository) ListTags(ctx context.Context) ([]Tag, error) {
	var docs []cmsTag
	if err := r.query(ctx, tagsQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make([]Tag, 0, len(docs))
	for _, d := range docs {
		if d.Name == "" {
			continue
		}
		out = append(out, Tag{ID: d.ID, Name: d.Name, Slug: d.Slug, Color: d.Color})
	}
	return out, nil
}

func (r *cmsRepository) GetAuthorByName(ctx context.Context, name string) (*Author, error) {
	var doc *cmsAuthor
	if err := r.query(ctx, authorQuery, map[string]string{"name": name}, &doc); err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return &Author{Name: doc.Name, Image: doc.Image}, nil
}

func (r *cmsRepository) query(ctx context.Context, groq string, params map[string]string, out any) error {
	q := url.Values{"query": {groq}}
	for k, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		q.Set("$"+k, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("content query: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

type cmsTag struct {
	ID    string `json:"_id"`
	Type  string `json:"_type"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Color string `json:"color"`
}

func (t cmsTag) toRef() TagRef {
	if t.Label != "" && t.Name == "" {
		return InlineTag{Label: t.Label, Color: t.Color}
	}
	return ReferenceTag{ID: t.ID, Name: t.Name, Slug: t.Slug, Color: t.Color}
}

type cmsAuthor struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type cmsPost struct {
	ID        string            `json:"_id"`
	CreatedAt time.Time         `json:"_createdAt"`
	UpdatedAt time.Time         `json:"_updatedAt"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Excerpt   string            `json:"excerpt"`
	Body      []json.RawMessage `json:"body"`
	Views     *int64            `json:"views"`
	MainImage string            `json:"mainImage"`
	Tags      []*cmsTag         `json:"tags"`
	Author    *cmsAuthor        `json:"author"`
}

func (d cmsPost) toPost() *Post {
	p := &Post{
		ID:        d.ID,
		Title:     d.Title,
		Slug:      d.Slug,
		Excerpt:   d.Excerpt,
		MainImage: d.MainImage,
		Status:    Published,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if strings.HasPrefix(d.ID, "drafts.") {
		p.Status = Draft
	}
	if d.Views != nil && *d.Views > 0 {
		p.Views = *d.Views
	}
	if d.Author != nil && d.Author.Name != "" {
		p.Author = &Author{Name: d.Author.Name, Image: d.Author.Image}
	}
	for _, t := range d.Tags {
		if t != nil {
			p.Tags = append(p.Tags, t.toRef())
		}
	}
	for _, raw := range d.Body {
		if b, ok := decodeBlock(raw); ok {
			p.Body = append(p.Body, b)
		}
	}
	return p
}

type cmsBlock struct {
	Type     string `json:"_type"`
	Style    string `json:"style"`
	ListItem string `json:"listItem"`
	Children []struct {
		Text string `json:"text"`
	} `json:"children"`
	Asset *struct {
		Ref string `json:"_ref"`
	} `json:"asset"`
	Alt      string `json:"alt"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// decodeBlock turns one portable-text node into a Block. Unknown node
// types are dropped.
func decodeBlock(raw json.RawMessage) (Block, bool) {
	var b cmsBlock
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}

	switch b.Type {
	case "block":
		var sb strings.Builder
		for _, c := range b.Children {
			sb.WriteString(c.Text)
		}
		text := sb.String()
		switch {
		case b.ListItem != "":
			return ListItem{Text: text, Ordered: b.ListItem == "number"}, true
		case b.Style == "blockquote":
			return Quote{Text: text}, true
		case len(b.Style) == 2 && b.Style[0] == 'h' && b.Style[1] >= '1' && b.Style[1] <= '6':
			return Heading{Text: text, Level: int(b.Style[1] - '0')}, true
		}
		return Paragraph{Text: text}, true
	case "image":
		if b.Asset == nil || b.Asset.Ref == "" {
			return nil, false
		}
		return Image{Ref: b.Asset.Ref, Alt: b.Alt}, true
	case "code":
		return Code{Language: b.Language, Text: b.Code}, true
	}
	return nil, false
}
