// Package selection tracks the set of selected element ids. It is
// independent of the history store: selection is UI state, not document
// state, and is never undoable.
package selection

import (
	"sort"

	"github.com/chazu/slate/pkg/board"
)

// Selection is a set of element ids, always kept a subset of the ids in the
// current document by Prune. The zero value is not usable; construct with New.
type Selection struct {
	ids map[board.ID]struct{}
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{ids: make(map[board.ID]struct{})}
}

// SelectOne applies a single-element click. Without additive the selection
// becomes exactly {id}. With additive the membership of id is toggled:
// removed if present, added if absent.
func (s *Selection) SelectOne(id board.ID, additive bool) {
	if !additive {
		s.ids = map[board.ID]struct{}{id: {}}
		return
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectMarquee applies a marquee result. Without additive the selection
// becomes exactly ids. With additive it becomes the union of the current
// selection and ids (a pure union, unlike the single-select toggle).
func (s *Selection) SelectMarquee(ids []board.ID, additive bool) {
	if !additive {
		s.ids = make(map[board.ID]struct{}, len(ids))
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Target applies a context-menu invocation: a target that is not already
// selected replaces the selection with just that target. An already selected
// target leaves the selection alone.
func (s *Selection) Target(id board.ID) {
	if _, ok := s.ids[id]; !ok {
		s.ids = map[board.ID]struct{}{id: {}}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[board.ID]struct{})
}

// Has reports membership.
func (s *Selection) Has(id board.ID) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in a stable (sorted) order.
func (s *Selection) IDs() []board.ID {
	out := make([]board.ID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Prune drops every id that is not present in doc. Called after each
// committed mutation so the selection never holds dangling ids.
func (s *Selection) Prune(doc board.Document) {
	for id := range s.ids {
		if !doc.Has(id) {
			delete(s.ids, id)
		}
	}
}
