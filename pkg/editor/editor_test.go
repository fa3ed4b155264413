package editor

import (
	"testing"

	"github.com/chazu/slate/pkg/board"
)

func TestCreateAssignsIdentityAndZ(t *testing.T) {
	e := New(nil)
	a := e.Create(board.NewNote("a", "#ffd966", board.Vec2{}, 120, 80))
	b := e.Create(board.NewNote("b", "#ffd966", board.Vec2{}, 120, 80))

	if a.ID.IsZero() || b.ID.IsZero() {
		t.Fatal("created elements must carry ids")
	}
	if a.ID == b.ID {
		t.Fatal("ids must be unique")
	}
	if b.Z <= a.Z {
		t.Errorf("second creation z = %g, want > %g", b.Z, a.Z)
	}
	if len(e.Document()) != 2 {
		t.Errorf("document has %d elements, want 2", len(e.Document()))
	}
}

func TestZNeverReusedAfterDelete(t *testing.T) {
	e := New(nil)
	a := e.Create(board.NewNote("a", "", board.Vec2{}, 10, 10))
	b := e.Create(board.NewNote("b", "", board.Vec2{}, 10, 10))
	e.Delete(b.ID)

	c := e.Create(board.NewNote("c", "", board.Vec2{}, 10, 10))
	if c.Z <= b.Z {
		t.Errorf("z %g reused after deletion of z %g", c.Z, b.Z)
	}
	_ = a
}

func TestUpdateCommitVsMerge(t *testing.T) {
	e := New(nil)
	n := e.Create(board.NewNote("v1", "", board.Vec2{}, 10, 10))

	n.Data = board.NoteData{Text: "v2"}
	if err := e.Update(n.ID, n, false); err != nil {
		t.Fatalf("merge update: %v", err)
	}
	got, _ := e.Document().Get(n.ID)
	if got.Data.(board.NoteData).Text != "v2" {
		t.Error("merge update not visible")
	}

	// The merge folded into the creation entry: one undo skips straight to
	// the empty document.
	n.Data = board.NoteData{Text: "v3"}
	if err := e.Update(n.ID, n, true); err != nil {
		t.Fatalf("commit update: %v", err)
	}
	e.Undo()
	got, _ = e.Document().Get(n.ID)
	if got.Data.(board.NoteData).Text != "v2" {
		t.Errorf("undo after committed update should restore merged text, got %q",
			got.Data.(board.NoteData).Text)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	e := New(nil)
	if err := e.Update("ghost", board.NewNote("x", "", board.Vec2{}, 1, 1), true); err == nil {
		t.Error("updating a missing element should fail")
	}
}

func TestUpdateRenormalizesArrow(t *testing.T) {
	e := New(nil)
	a := e.Create(board.NewArrow(board.Vec2{X: 0, Y: 0}, board.Vec2{X: 10, Y: 0}, ""))

	// Move an endpoint through a plain replacement; derived fields must
	// follow even though the caller left them stale.
	a.Data = board.ArrowData{Start: board.Vec2{X: 0, Y: 0}, End: board.Vec2{X: 0, Y: 20}}
	if err := e.Update(a.ID, a, true); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := e.Document().Get(a.ID)
	if got.W != 20 {
		t.Errorf("arrow width = %g, want 20 after endpoint change", got.W)
	}
	if got.Pos != (board.Vec2{X: 0, Y: 10}) {
		t.Errorf("arrow position = %v, want midpoint (0, 10)", got.Pos)
	}
}

func TestDeletePrunesSelectionAndIsUndoable(t *testing.T) {
	e := New(nil)
	a := e.Create(board.NewNote("a", "", board.Vec2{}, 10, 10))
	b := e.Create(board.NewNote("b", "", board.Vec2{}, 10, 10))
	e.Selection().SelectMarquee([]board.ID{a.ID, b.ID}, false)

	e.Delete(a.ID)

	if e.Selection().Has(a.ID) {
		t.Error("selection still holds deleted id")
	}
	if !e.Selection().Has(b.ID) {
		t.Error("selection lost a surviving id")
	}
	if !e.CanUndo() {
		t.Fatal("delete must be undoable")
	}
	e.Undo()
	if !e.Document().Has(a.ID) {
		t.Error("undo did not restore the deleted element")
	}
}

func TestReorderCollapsesToSharedZ(t *testing.T) {
	e := New(board.Document{
		{ID: "a", Kind: board.KindNote, Z: 1, Data: board.NoteData{}},
		{ID: "b", Kind: board.KindNote, Z: 3, Data: board.NoteData{}},
		{ID: "c", Kind: board.KindNote, Z: 5, Data: board.NoteData{}},
	})

	e.Reorder([]board.ID{"a", "b"}, ToFront)

	doc := e.Document()
	a, _ := doc.Get("a")
	b, _ := doc.Get("b")
	c, _ := doc.Get("c")
	if a.Z != 6 || b.Z != 6 {
		t.Errorf("to-front z: a=%g b=%g, want both 6", a.Z, b.Z)
	}
	if c.Z != 5 {
		t.Errorf("untouched element z = %g, want 5", c.Z)
	}
}

func TestReorderToBack(t *testing.T) {
	e := New(board.Document{
		{ID: "a", Kind: board.KindNote, Z: 2, Data: board.NoteData{}},
		{ID: "b", Kind: board.KindNote, Z: 7, Data: board.NoteData{}},
	})
	e.Reorder([]board.ID{"b"}, ToBack)
	b, _ := e.Document().Get("b")
	if b.Z != 1 {
		t.Errorf("to-back z = %g, want minZ-1 = 1", b.Z)
	}
	a, _ := e.Document().Get("a")
	if a.Z != 2 {
		t.Errorf("untouched z = %g, want 2", a.Z)
	}
}

// Full lifecycle: create above existing content, bring to front, undo, redo.
func TestReorderUndoRedoScenario(t *testing.T) {
	e := New(board.Document{
		{ID: "A", Kind: board.KindNote, Z: 0, Data: board.NoteData{Text: "A"}},
	})

	b := e.Create(board.NewNote("B", "", board.Vec2{}, 10, 10))
	if b.Z != 1 {
		t.Fatalf("created z = %g, want 1", b.Z)
	}

	e.Reorder([]board.ID{"A"}, ToFront)
	a, _ := e.Document().Get("A")
	if a.Z != 2 {
		t.Fatalf("after to-front A.z = %g, want 2", a.Z)
	}

	e.Undo()
	a, _ = e.Document().Get("A")
	if a.Z != 0 {
		t.Errorf("after undo A.z = %g, want 0", a.Z)
	}

	e.Redo()
	a, _ = e.Document().Get("A")
	if a.Z != 2 {
		t.Errorf("after redo A.z = %g, want 2", a.Z)
	}
}

func TestUndoRedoBoundariesInert(t *testing.T) {
	e := New(nil)
	if e.Undo() {
		t.Error("undo on fresh editor should be inert")
	}
	if e.Redo() {
		t.Error("redo on fresh editor should be inert")
	}
	e.Create(board.NewNote("a", "", board.Vec2{}, 10, 10))
	e.Undo()
	if e.Undo() {
		t.Error("undo past entry zero should be inert")
	}
}
