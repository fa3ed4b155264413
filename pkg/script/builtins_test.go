package script

import (
	"testing"

	"github.com/chazu/slate/pkg/board"
	"github.com/chazu/slate/pkg/editor"
)

func run(t *testing.T, ed *editor.Editor, source string) *Outcome {
	t.Helper()
	out, evalErrs, err := NewEngine().Run(source, ed)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return out
}

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource(`(note "x" :at (vec2 1 2))`)
	want := `(note "x" "__kw_at" (vec2 1 2))`
	if got != want {
		t.Errorf("preprocess = %q, want %q", got, want)
	}
}

func TestPreprocessKebabCase(t *testing.T) {
	got := preprocessSource(`(to-front a)`)
	if got != `(to_front a)` {
		t.Errorf("preprocess = %q", got)
	}
	// Hyphen between digits stays subtraction.
	got = preprocessSource(`(- 5 3)`)
	if got != `(- 5 3)` {
		t.Errorf("preprocess altered subtraction: %q", got)
	}
}

func TestPreprocessLeavesStringsAlone(t *testing.T) {
	src := `(note "keep :this and-this as-is")`
	got := preprocessSource(src)
	if got != src {
		t.Errorf("preprocess touched a string literal: %q", got)
	}
}

func TestPreprocessComments(t *testing.T) {
	got := preprocessSource("; a comment with :kw and kebab-case\n(vec2 1 2)")
	want := "// a comment with :kw and kebab-case\n(vec2 1 2)"
	if got != want {
		t.Errorf("preprocess = %q, want %q", got, want)
	}
}

func TestNoteBuiltinCreates(t *testing.T) {
	ed := editor.New(nil)
	out := run(t, ed, `(note "hello" :at (vec2 10 20) :size (vec2 200 120) :color "#ffd966")`)

	if len(out.Created) != 1 {
		t.Fatalf("created %d elements, want 1", len(out.Created))
	}
	el, ok := ed.Document().Get(board.ID(out.Created[0]))
	if !ok {
		t.Fatal("created element missing from document")
	}
	if el.Kind != board.KindNote {
		t.Errorf("kind = %v, want note", el.Kind)
	}
	if el.Pos != (board.Vec2{X: 10, Y: 20}) || el.W != 200 || el.H != 120 {
		t.Errorf("geometry = %v %gx%g", el.Pos, el.W, el.H)
	}
	data := el.Data.(board.NoteData)
	if data.Text != "hello" || data.Color != "#ffd966" {
		t.Errorf("data = %+v", data)
	}
}

func TestArrowBuiltinDerivesGeometry(t *testing.T) {
	ed := editor.New(nil)
	out := run(t, ed, `(arrow :from (vec2 0 0) :to (vec2 30 40))`)

	el, _ := ed.Document().Get(board.ID(out.Created[0]))
	if el.Kind != board.KindArrow {
		t.Fatalf("kind = %v, want arrow", el.Kind)
	}
	if el.W != 50 {
		t.Errorf("arrow length = %g, want 50", el.W)
	}
	if el.Pos != (board.Vec2{X: 15, Y: 20}) {
		t.Errorf("arrow midpoint = %v, want (15, 20)", el.Pos)
	}
}

func TestMoveBuiltinTranslates(t *testing.T) {
	ed := editor.New(nil)
	run(t, ed, `
(def n (note "x" :at (vec2 10 10)))
(move n (vec2 40 -5))
`)
	doc := ed.Document()
	if len(doc) != 1 {
		t.Fatalf("document has %d elements", len(doc))
	}
	if doc[0].Pos != (board.Vec2{X: 50, Y: 5}) {
		t.Errorf("position = %v, want (50, 5)", doc[0].Pos)
	}
}

func TestMoveExistingElementByID(t *testing.T) {
	ed := editor.New(board.Document{
		{ID: "n1", Kind: board.KindNote, Pos: board.Vec2{X: 1, Y: 1}, Data: board.NoteData{}},
	})
	run(t, ed, `(move "n1" (vec2 9 9))`)
	el, _ := ed.Document().Get("n1")
	if el.Pos != (board.Vec2{X: 10, Y: 10}) {
		t.Errorf("position = %v, want (10, 10)", el.Pos)
	}
}

func TestSelectAndReorderBuiltins(t *testing.T) {
	ed := editor.New(board.Document{
		{ID: "a", Kind: board.KindNote, Z: 1, Data: board.NoteData{}},
		{ID: "b", Kind: board.KindNote, Z: 2, Data: board.NoteData{}},
	})
	run(t, ed, `
(select "a")
(to-front "a")
`)
	if !ed.Selection().Has("a") || ed.Selection().Len() != 1 {
		t.Error("selection should hold exactly a")
	}
	a, _ := ed.Document().Get("a")
	if a.Z != 3 {
		t.Errorf("a.z = %g, want 3 after to-front", a.Z)
	}
}

func TestDeleteBuiltin(t *testing.T) {
	ed := editor.New(nil)
	run(t, ed, `
(def n (note "doomed"))
(delete n)
`)
	if len(ed.Document()) != 0 {
		t.Errorf("document has %d elements after delete", len(ed.Document()))
	}
	// The delete is a separate committed step, so one undo revives the note.
	ed.Undo()
	if len(ed.Document()) != 1 {
		t.Error("undo should restore the deleted element")
	}
}

func TestUndoRedoBuiltins(t *testing.T) {
	ed := editor.New(nil)
	out := run(t, ed, `
(note "a")
(note "b")
(undo)
`)
	if len(out.Created) != 2 {
		t.Fatalf("created %d, want 2", len(out.Created))
	}
	if len(ed.Document()) != 1 {
		t.Errorf("document has %d elements after scripted undo, want 1", len(ed.Document()))
	}
}

func TestStaleReferenceSkipped(t *testing.T) {
	ed := editor.New(nil)
	out := run(t, ed, `(move "no-such-id" (vec2 1 1))`)
	if out.Applied != 0 {
		t.Errorf("applied = %d, want 0 for a stale reference", out.Applied)
	}
}

func TestDrawingBuiltin(t *testing.T) {
	ed := editor.New(nil)
	out := run(t, ed, `(drawing :at (vec2 5 5) :size (vec2 400 300))`)
	el, _ := ed.Document().Get(board.ID(out.Created[0]))
	if el.Kind != board.KindDrawing {
		t.Fatalf("kind = %v, want drawing", el.Kind)
	}
	if !el.Data.(board.DrawingData).Bitmap.Empty() {
		t.Error("fresh drawing should carry no payload")
	}
}

func TestBuiltinArgumentErrors(t *testing.T) {
	cases := []string{
		`(vec2 1)`,
		`(vec2 "a" "b")`,
		`(note 42)`,
		`(move "id")`,
		`(select 42)`,
	}
	for _, src := range cases {
		ed := editor.New(nil)
		out, evalErrs, err := NewEngine().Run(src, ed)
		if err != nil {
			t.Fatalf("%s: fatal error: %v", src, err)
		}
		if out != nil || len(evalErrs) == 0 {
			t.Errorf("%s: expected eval errors, got outcome %+v", src, out)
		}
	}
}
