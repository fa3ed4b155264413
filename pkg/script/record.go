package script

import (
	"github.com/chazu/slate/pkg/board"
	"github.com/chazu/slate/pkg/editor"
)

// elemRef names an element for a recorded operation. Elements created by the
// same script have no real id until the recording is applied, so they are
// referred to by creation index; existing elements are named by id directly.
type elemRef struct {
	placeholder int // creation index; -1 when id is set
	id          board.ID
}

// recording is the private op log a script builds during evaluation.
type recording struct {
	ops      []op
	creation int
}

func (r *recording) record(o op) {
	r.ops = append(r.ops, o)
}

// recordCreate appends a creation op and returns the placeholder reference
// for the element-to-be.
func (r *recording) recordCreate(el board.Element) elemRef {
	ref := elemRef{placeholder: r.creation}
	r.creation++
	r.ops = append(r.ops, opCreate{el: el})
	return ref
}

// apply replays the recording against the editor on the calling goroutine.
// Operations naming elements that do not exist (stale ids, or placeholders
// whose creation was undone) are skipped rather than aborting the rest.
func (r *recording) apply(ed *editor.Editor) *Outcome {
	a := &applier{ed: ed, out: &Outcome{}}
	for _, o := range r.ops {
		o.apply(a)
	}
	return a.out
}

type applier struct {
	ed      *editor.Editor
	created []board.ID
	out     *Outcome
}

func (a *applier) resolve(ref elemRef) (board.ID, bool) {
	if ref.id != "" {
		return ref.id, a.ed.Document().Has(ref.id)
	}
	if ref.placeholder < 0 || ref.placeholder >= len(a.created) {
		return "", false
	}
	id := a.created[ref.placeholder]
	return id, a.ed.Document().Has(id)
}

func (a *applier) resolveAll(refs []elemRef) []board.ID {
	ids := make([]board.ID, 0, len(refs))
	for _, ref := range refs {
		if id, ok := a.resolve(ref); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

type op interface {
	apply(a *applier)
}

type opCreate struct {
	el board.Element
}

func (o opCreate) apply(a *applier) {
	el := a.ed.Create(o.el)
	a.created = append(a.created, el.ID)
	a.out.Created = append(a.out.Created, string(el.ID))
	a.out.Applied++
}

type opMove struct {
	ref   elemRef
	delta board.Vec2
}

func (o opMove) apply(a *applier) {
	id, ok := a.resolve(o.ref)
	if !ok {
		return
	}
	el, ok := a.ed.Document().Get(id)
	if !ok {
		return
	}
	if err := a.ed.Update(id, el.Translated(o.delta), true); err != nil {
		return
	}
	a.out.Applied++
}

type opSelect struct {
	refs     []elemRef
	additive bool
}

func (o opSelect) apply(a *applier) {
	a.ed.Selection().SelectMarquee(a.resolveAll(o.refs), o.additive)
	a.out.Applied++
}

type opReorder struct {
	refs []elemRef
	dir  editor.Direction
}

func (o opReorder) apply(a *applier) {
	ids := a.resolveAll(o.refs)
	if len(ids) == 0 {
		return
	}
	a.ed.Reorder(ids, o.dir)
	a.out.Applied++
}

type opDelete struct {
	refs []elemRef
}

func (o opDelete) apply(a *applier) {
	ids := a.resolveAll(o.refs)
	if len(ids) == 0 {
		return
	}
	a.ed.Delete(ids...)
	a.out.Applied++
}

type opUndo struct{}

func (opUndo) apply(a *applier) {
	if a.ed.Undo() {
		a.out.Applied++
	}
}

type opRedo struct{}

func (opRedo) apply(a *applier) {
	if a.ed.Redo() {
		a.out.Applied++
	}
}
