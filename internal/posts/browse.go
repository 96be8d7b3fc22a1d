package posts

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// BrowseState is the reader's current search, tag, sort and page
// selection. Any change to what is selected sends the reader back to
// page 1.
type BrowseState struct {
	Search string
	Tags   []string
	Sort   SortMode
	View   ViewMode
	Page   int
}

func NewBrowseState() BrowseState {
	return BrowseState{Sort: SortLatest, View: ViewGrid, Page: 1}
}

func (s *BrowseState) SetSearch(q string) {
	s.Search = q
	s.Page = 1
}

// ToggleTag selects tag, or deselects it when already selected.
func (s *BrowseState) ToggleTag(tag string) {
	if i := slices.Index(s.Tags, tag); i >= 0 {
		s.Tags = slices.Delete(slices.Clone(s.Tags), i, i+1)
	} else {
		s.Tags = append(slices.Clone(s.Tags), tag)
	}
	s.Page = 1
}

func (s *BrowseState) SetTags(tags []string) {
	s.Tags = slices.Clone(tags)
	s.Page = 1
}

func (s *BrowseState) SetSort(mode SortMode) {
	if !mode.Valid() {
		mode = SortLatest
	}
	s.Sort = mode
	s.Page = 1
}

// SetView changes the layout only; the page is kept.
func (s *BrowseState) SetView(mode ViewMode) {
	if mode != ViewList {
		mode = ViewGrid
	}
	s.View = mode
}

func (s *BrowseState) SetPage(page, totalPages int) {
	s.Page = ClampPage(page, totalPages)
}

// Clear drops search, tags and sort. The view mode is kept.
func (s *BrowseState) Clear() {
	view := s.View
	*s = NewBrowseState()
	s.View = view
}

func (s BrowseState) Criteria() Criteria {
	return Criteria{Search: s.Search, Tags: s.Tags, Sort: s.Sort}
}

// Filtered reports whether any search or tag filter is active.
func (s BrowseState) Filtered() bool {
	return strings.TrimSpace(s.Search) != "" || len(s.Tags) > 0
}

// ParseBrowseState reads q, tags (comma separated or repeated), sort,
// view and page. An unknown sort is rejected; an unknown view falls
// back to grid.
func ParseBrowseState(v url.Values) (BrowseState, error) {
	s := NewBrowseState()
	s.Search = v.Get("q")

	for _, raw := range v["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(s.Tags, tag) {
				s.Tags = append(s.Tags, tag)
			}
		}
	}

	if sort := SortMode(v.Get("sort")); sort != "" {
		if !sort.Valid() {
			return s, &InvalidParamError{Param: "sort", Value: string(sort)}
		}
		s.Sort = sort
	}
	s.SetView(ViewMode(v.Get("view")))

	if raw := v.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return s, &InvalidParamError{Param: "page", Value: raw}
		}
		s.Page = max(page, 1)
	}
	return s, nil
}

type InvalidParamError struct {
	Param string
	Value string
}

func (e *InvalidParamError) Error() string {
	return "invalid " + e.Param + ": " + strconv.Quote(e.Value)
}
