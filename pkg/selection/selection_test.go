package selection

import (
	"testing"

	"github.com/chazu/slate/pkg/board"
)

func TestSelectOneReplaces(t *testing.T) {
	s := New()
	s.SelectOne("a", false)
	s.SelectOne("b", false)
	if s.Len() != 1 || !s.Has("b") {
		t.Errorf("non-additive select should replace, got %v", s.IDs())
	}
}

// Toggle law: additive select of the same id twice returns the selection to
// its prior state.
func TestSelectOneAdditiveToggles(t *testing.T) {
	s := New()
	s.SelectOne("a", false)

	s.SelectOne("b", true)
	if s.Len() != 2 || !s.Has("b") {
		t.Fatalf("additive select should add, got %v", s.IDs())
	}
	s.SelectOne("b", true)
	if s.Len() != 1 || s.Has("b") {
		t.Errorf("second additive select should remove, got %v", s.IDs())
	}
	if !s.Has("a") {
		t.Error("toggle removed an unrelated id")
	}
}

func TestMarqueeUnionNotToggle(t *testing.T) {
	s := New()
	s.SelectMarquee([]board.ID{"a", "b"}, false)

	// Additive marquee over an already-selected id must keep it (pure
	// union, no toggle).
	s.SelectMarquee([]board.ID{"b", "c"}, true)
	for _, id := range []board.ID{"a", "b", "c"} {
		if !s.Has(id) {
			t.Errorf("union selection missing %s: %v", id, s.IDs())
		}
	}
}

func TestMarqueeReplaces(t *testing.T) {
	s := New()
	s.SelectMarquee([]board.ID{"a", "b"}, false)
	s.SelectMarquee([]board.ID{"c"}, false)
	if s.Len() != 1 || !s.Has("c") {
		t.Errorf("non-additive marquee should replace, got %v", s.IDs())
	}
}

func TestTarget(t *testing.T) {
	s := New()
	s.SelectMarquee([]board.ID{"a", "b"}, false)

	// Targeting a member leaves the multi-selection intact.
	s.Target("a")
	if s.Len() != 2 {
		t.Errorf("targeting a selected id should not change selection, got %v", s.IDs())
	}

	// Targeting a non-member replaces the selection.
	s.Target("c")
	if s.Len() != 1 || !s.Has("c") {
		t.Errorf("targeting an unselected id should replace, got %v", s.IDs())
	}
}

func TestPrune(t *testing.T) {
	s := New()
	s.SelectMarquee([]board.ID{"a", "b", "c"}, false)

	doc := board.Document{
		{ID: "a", Kind: board.KindNote, Data: board.NoteData{}},
	}
	s.Prune(doc)
	if s.Len() != 1 || !s.Has("a") {
		t.Errorf("prune should keep only ids present in the document, got %v", s.IDs())
	}
}

func TestIDsStableOrder(t *testing.T) {
	s := New()
	s.SelectMarquee([]board.ID{"c", "a", "b"}, false)
	ids := s.IDs()
	want := []board.ID{"a", "b", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}
}
