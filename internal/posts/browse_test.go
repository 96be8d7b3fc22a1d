package posts

import (
	"errors"
	"net/url"
	"slices"
	"testing"
)

func TestBrowseState_ChangesResetPage(t *testing.T) {
	changes := map[string]func(*BrowseState){
		"search":  func(s *BrowseState) { s.SetSearch("go") },
		"toggle":  func(s *BrowseState) { s.ToggleTag("React") },
		"tags":    func(s *BrowseState) { s.SetTags([]string{"Go"}) },
		"sort":    func(s *BrowseState) { s.SetSort(SortPopular) },
		"clear":   func(s *BrowseState) { s.Clear() },
		"invalid": func(s *BrowseState) { s.SetSort("random") },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := NewBrowseState()
			s.Page = 4
			change(&s)
			if s.Page != 1 {
				t.Errorf("Page = %d, want 1", s.Page)
			}
		})
	}
}

func TestBrowseState_SetViewKeepsPage(t *testing.T) {
	s := NewBrowseState()
	s.Page = 3
	s.SetView(ViewList)
	if s.View != ViewList || s.Page != 3 {
		t.Errorf("got view=%q page=%d", s.View, s.Page)
	}
	s.SetView("carousel")
	if s.View != ViewGrid {
		t.Errorf("unknown view kept: %q", s.View)
	}
}

func TestBrowseState_ToggleTag(t *testing.T) {
	s := NewBrowseState()
	s.ToggleTag("React")
	s.ToggleTag("Go")
	if !slices.Equal(s.Tags, []string{"React", "Go"}) {
		t.Fatalf("Tags = %v", s.Tags)
	}
	before := s.Tags
	s.ToggleTag("React")
	if !slices.Equal(s.Tags, []string{"Go"}) {
		t.Errorf("Tags = %v", s.Tags)
	}
	if !slices.Equal(before, []string{"React", "Go"}) {
		t.Errorf("previous slice modified: %v", before)
	}
}

func TestBrowseState_Clear(t *testing.T) {
	s := NewBrowseState()
	s.SetSearch("x")
	s.SetTags([]string{"Go"})
	s.SetSort(SortOldest)
	s.SetView(ViewList)
	if !s.Filtered() {
		t.Error("expected Filtered")
	}
	s.Clear()
	if s.Filtered() || s.Sort != SortLatest || s.View != ViewList {
		t.Errorf("got %+v", s)
	}
}

func TestBrowseState_SetPage(t *testing.T) {
	s := NewBrowseState()
	s.SetPage(5, 2)
	if s.Page != 2 {
		t.Errorf("Page = %d", s.Page)
	}
}

func TestParseBrowseState(t *testing.T) {
	v := url.Values{
		"q":    {"react"},
		"tags": {"React, Automation", "Go", "React"},
		"sort": {"popular"},
		"view": {"list"},
		"page": {"2"},
	}
	s, err := ParseBrowseState(v)
	if err != nil {
		t.Fatalf("ParseBrowseState: %v", err)
	}
	if s.Search != "react" || s.Sort != SortPopular || s.View != ViewList || s.Page != 2 {
		t.Errorf("got %+v", s)
	}
	if !slices.Equal(s.Tags, []string{"React", "Automation", "Go"}) {
		t.Errorf("Tags = %v", s.Tags)
	}

	s, err = ParseBrowseState(url.Values{"page": {"-3"}})
	if err != nil || s.Page != 1 || s.Sort != SortLatest || s.View != ViewGrid {
		t.Errorf("defaults: got %+v, err %v", s, err)
	}
}

func TestParseBrowseState_Invalid(t *testing.T) {
	for _, v := range []url.Values{{"sort": {"random"}}, {"page": {"two"}}} {
		_, err := ParseBrowseState(v)
		var pe *InvalidParamError
		if !errors.As(err, &pe) {
			t.Errorf("%v: got err %v", v, err)
		}
	}
}
