// Package editor is the document state engine: element creation, update,
// deletion and reordering over a history store, gesture-scoped drag logic
// with multi-selection delta propagation, viewport mapping, and the
// import/export boundary. All methods are called from a single sequential
// event stream; the editor takes no locks.
package editor

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/chazu/slate/pkg/board"
	"github.com/chazu/slate/pkg/history"
	"github.com/chazu/slate/pkg/selection"
)

// Editor owns one document, its history, its selection, and the live
// counters for z-order generation. Counters are fields, not globals, so
// independent editors (and tests) never interfere.
type Editor struct {
	hist *history.Store[board.Document]
	sel  *selection.Selection
	view Viewport

	// zseq is the z-order high watermark. It only grows, and is never
	// reused even after deletions, so a fresh element always stacks above
	// everything that ever existed.
	zseq float64

	gest *gesture
}

// New creates an editor seeded with the initial document as history entry
// zero.
func New(initial board.Document) *Editor {
	e := &Editor{
		hist: history.New(initial, board.Document.Clone),
		sel:  selection.New(),
		view: NewViewport(),
	}
	if len(initial) > 0 {
		e.zseq = initial.MaxZ()
	}
	return e
}

// Document returns a copy of the current document.
func (e *Editor) Document() board.Document { return e.hist.Current() }

// Selection returns the live selection model.
func (e *Editor) Selection() *selection.Selection { return e.sel }

// Viewport returns the live pan/zoom state.
func (e *Editor) Viewport() *Viewport { return &e.view }

// CanUndo reports whether an older document version exists.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether a newer document version exists.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Undo steps the document one version back. Inert at the oldest version.
func (e *Editor) Undo() bool {
	if !e.hist.Undo() {
		return false
	}
	e.sel.Prune(e.hist.Current())
	return true
}

// Redo steps the document one version forward. Inert at the newest version.
func (e *Editor) Redo() bool {
	if !e.hist.Redo() {
		return false
	}
	e.sel.Prune(e.hist.Current())
	return true
}

// nextZ advances the z counter and returns a value strictly greater than
// every z ever assigned or imported.
func (e *Editor) nextZ() float64 {
	e.zseq = math.Floor(e.zseq) + 1
	return e.zseq
}

// bumpZ raises the watermark after reorder or import introduces larger z
// values.
func (e *Editor) bumpZ(z float64) {
	if z > e.zseq {
		e.zseq = z
	}
}

func (e *Editor) commit(doc board.Document) {
	e.hist.Commit(doc)
	e.sel.Prune(doc)
}

// Create assigns el a fresh unique id and a z-order strictly above every
// existing element, appends it to the document, and commits. The stored
// element is returned.
func (e *Editor) Create(el board.Element) board.Element {
	el = el.Normalized()
	el.ID = board.ID(uuid.NewString())
	el.Z = e.nextZ()

	doc := e.hist.Current()
	doc = append(doc, el)
	e.commit(doc)
	return el.Clone()
}

// Update replaces the element with the given id. With commit true the
// replacement becomes a new undoable entry; with commit false it merges into
// the current entry (in-gesture live update). A committed update arriving
// while a gesture is open finalizes that gesture, so the gesture's live
// frames and this final state land as one entry.
func (e *Editor) Update(id board.ID, el board.Element, commit bool) error {
	doc := e.hist.Current()
	i := doc.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("update: no element %s", id)
	}
	el = el.Normalized()
	el.ID = id
	doc[i] = el
	e.bumpZ(el.Z)
	if !commit {
		e.hist.Merge(doc)
		return nil
	}
	if e.gest != nil {
		e.hist.Merge(doc)
		e.EndGesture()
		return nil
	}
	e.commit(doc)
	return nil
}

// Delete removes every element whose id is in ids, commits, and prunes the
// selection. Unknown ids are ignored.
func (e *Editor) Delete(ids ...board.ID) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[board.ID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	doc := e.hist.Current()
	kept := doc[:0]
	for _, el := range doc {
		if !drop[el.ID] {
			kept = append(kept, el)
		}
	}
	e.commit(kept)
}

// DeleteSelection removes every selected element.
func (e *Editor) DeleteSelection() {
	e.Delete(e.sel.IDs()...)
}

// Direction selects the reorder target.
type Direction int

const (
	ToFront Direction = iota
	ToBack
)

// Reorder collapses all given elements onto a single new z value: strictly
// above the document maximum for ToFront, strictly below the minimum for
// ToBack. They move as one unit; every other element keeps its z.
func (e *Editor) Reorder(ids []board.ID, dir Direction) {
	if len(ids) == 0 {
		return
	}
	move := make(map[board.ID]bool, len(ids))
	for _, id := range ids {
		move[id] = true
	}
	doc := e.hist.Current()
	var z float64
	if dir == ToFront {
		z = doc.MaxZ() + 1
	} else {
		z = doc.MinZ() - 1
	}
	changed := false
	for i := range doc {
		if move[doc[i].ID] {
			doc[i].Z = z
			changed = true
		}
	}
	if !changed {
		return
	}
	e.bumpZ(z)
	e.commit(doc)
}

// ReorderSelection applies Reorder to the current selection.
func (e *Editor) ReorderSelection(dir Direction) {
	e.Reorder(e.sel.IDs(), dir)
}
