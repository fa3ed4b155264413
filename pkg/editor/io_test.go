package editor

import (
	"testing"

	"github.com/chazu/slate/pkg/board"
)

func TestExportImportPreservesAttributes(t *testing.T) {
	e := New(nil)
	n := e.Create(board.NewNote("hello", "#ffd966", board.Vec2{X: 5, Y: 6}, 120, 80))
	a := e.Create(board.NewArrow(board.Vec2{X: 0, Y: 0}, board.Vec2{X: 40, Y: 30}, "#333333"))
	e.Reorder([]board.ID{n.ID}, ToFront)

	data, err := e.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	e2 := New(nil)
	if err := e2.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	before := e.Document()
	after := e2.Document()
	if len(after) != len(before) {
		t.Fatalf("imported %d elements, want %d", len(after), len(before))
	}
	for _, want := range before {
		got, ok := after.Get(want.ID)
		if !ok {
			t.Fatalf("import lost element %s", want.ID)
		}
		if got.Z != want.Z {
			t.Errorf("element %s z = %g, want %g preserved exactly", want.ID, got.Z, want.Z)
		}
		if got.Kind != want.Kind || got.Pos != want.Pos {
			t.Errorf("element %s attributes changed in round trip", want.ID)
		}
	}
	_ = a
}

func TestImportReplacesDocumentInOneCommit(t *testing.T) {
	e := New(nil)
	old := e.Create(board.NewNote("old", "", board.Vec2{}, 10, 10))

	data, err := board.EncodeJSON(board.Document{
		{ID: "x", Kind: board.KindNote, Z: 3, Data: board.NoteData{Text: "x"}},
		{ID: "y", Kind: board.KindNote, Z: 4, Data: board.NoteData{Text: "y"}},
	})
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if err := e.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	doc := e.Document()
	if len(doc) != 2 || doc.Has(old.ID) {
		t.Errorf("import should fully replace the document, got %v", doc.IDs())
	}

	// One undo restores the pre-import document.
	e.Undo()
	if !e.Document().Has(old.ID) {
		t.Error("single undo should restore the pre-import document")
	}
}

func TestImportAdvancesZCounter(t *testing.T) {
	e := New(nil)
	data, err := board.EncodeJSON(board.Document{
		{ID: "x", Kind: board.KindNote, Z: 7.5, Data: board.NoteData{}},
	})
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if err := e.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	created := e.Create(board.NewNote("new", "", board.Vec2{}, 10, 10))
	if created.Z <= 7.5 {
		t.Errorf("created z = %g, want above imported maximum 7.5", created.Z)
	}
}

func TestImportRejectsMalformedWithoutMutation(t *testing.T) {
	e := New(nil)
	keep := e.Create(board.NewNote("keep", "", board.Vec2{}, 10, 10))

	cases := [][]byte{
		[]byte(`{"not":"a sequence"}`),
		[]byte(`[{"kind":"note"}]`), // record lacking an identifier
		[]byte(`[{"id":"a","kind":"note"},{"id":"a","kind":"note"}]`), // duplicate ids
	}
	for _, input := range cases {
		if err := e.ImportJSON(input); err == nil {
			t.Errorf("input %s should be rejected", input)
		}
	}

	doc := e.Document()
	if len(doc) != 1 || !doc.Has(keep.ID) {
		t.Error("rejected import mutated the document")
	}
}
