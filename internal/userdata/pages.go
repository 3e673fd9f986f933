package userdata

import (
	"strconv"

	"github.com/metafates/gache"
)

// PageState is the remembered pagination position for one category.
type PageState struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

// pageStore persists pagination positions keyed by category type id, so a
// user returning to a category lands on the page they left.
var pageStore = gache.New[map[string]*PageState](
	&gache.Options{
		Path:       PagesPath(),
		FileSystem: &gacheFs{},
	},
)

func pageStates() (map[string]*PageState, error) {
	cached, expired, err := pageStore.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*PageState), nil
	}
	return cached, nil
}

func pageKey(typeID int) string {
	return strconv.Itoa(typeID)
}

// CurrentPage returns the remembered page for a category, defaulting to 1.
func CurrentPage(typeID int) int {
	states, err := pageStates()
	if err != nil {
		return 1
	}
	if s, ok := states[pageKey(typeID)]; ok && s.Page >= 1 {
		return s.Page
	}
	return 1
}

// TotalPages returns the remembered page count for a category, defaulting to 1.
func TotalPages(typeID int) int {
	states, err := pageStates()
	if err != nil {
		return 1
	}
	if s, ok := states[pageKey(typeID)]; ok && s.TotalPages >= 1 {
		return s.TotalPages
	}
	return 1
}

// SetCurrentPage remembers the page the user is on for a category.
func SetCurrentPage(typeID, page int) error {
	if page < 1 {
		page = 1
	}
	states, err := pageStates()
	if err != nil {
		return err
	}
	s, ok := states[pageKey(typeID)]
	if !ok {
		s = &PageState{TotalPages: 1}
		states[pageKey(typeID)] = s
	}
	s.Page = page
	return pageStore.Set(states)
}

// PageTracker is the write side handed to the listing client: it records the
// declared total page count per category on every successful fetch.
type PageTracker struct{}

// SetTotalPages implements client.PageStore.
func (PageTracker) SetTotalPages(typeID, pages int) {
	if pages < 1 {
		pages = 1
	}
	states, err := pageStates()
	if err != nil {
		return
	}
	s, ok := states[pageKey(typeID)]
	if !ok {
		s = &PageState{Page: 1}
		states[pageKey(typeID)] = s
	}
	s.TotalPages = pages
	_ = pageStore.Set(states)
}
