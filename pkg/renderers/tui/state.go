package tui

import "github.com/goliatone/go-pagebuilder/pkg/model"

// Change records one field write made during a session.
type Change struct {
	Path   string      `json:"path"`
	Field  string      `json:"field"`
	Before model.Value `json:"before"`
	After  model.Value `json:"after"`
}

// State holds the working copy of the page being edited and the changes
// applied to it. The caller's page is never mutated.
type State struct {
	page    []*model.Component
	changes []Change
}

// NewState clones page into a fresh working copy.
func NewState(page []*model.Component) *State {
	working := make([]*model.Component, len(page))
	for i, c := range page {
		working[i] = c.Clone()
	}
	return &State{page: working}
}

// Page returns the working copy.
func (s *State) Page() []*model.Component {
	if s == nil {
		return nil
	}
	return s.page
}

// Changes lists the writes applied so far, in the order they were made.
func (s *State) Changes() []Change {
	if s == nil {
		return nil
	}
	return append([]Change(nil), s.changes...)
}

// Changed reports whether any field differs from the original page.
func (s *State) Changed() bool {
	return s != nil && len(s.changes) > 0
}

func (s *State) record(path, field string, before, after model.Value) {
	if before.Equal(after) {
		return
	}
	s.changes = append(s.changes, Change{Path: path, Field: field, Before: before, After: after})
}
