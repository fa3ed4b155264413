package editor

import (
	"fmt"

	"github.com/chazu/slate/pkg/board"
)

// gesture tracks one continuous edit (drag, rotate, or resize) between its
// first live update and its commit. base is the committed document the
// gesture started from; the end of the gesture commits exactly one step on
// top of it regardless of how many live updates happened in between.
type gesture struct {
	base board.Document
	drag *dragInfo
}

// dragInfo is set for drags. peers are the co-selected elements that receive
// the dragged element's position delta.
type dragInfo struct {
	id    board.ID
	peers []board.ID
}

// BeginDrag opens a drag gesture on id. If id is part of an active
// multi-selection, the other selected elements become peers and will follow
// the drag; dragging an element outside the selection, or a lone selection,
// moves only that element.
func (e *Editor) BeginDrag(id board.ID) error {
	doc := e.hist.Current()
	if !doc.Has(id) {
		return fmt.Errorf("drag: no element %s", id)
	}
	info := &dragInfo{id: id}
	if e.sel.Len() > 1 && e.sel.Has(id) {
		for _, sid := range e.sel.IDs() {
			if sid != id {
				info.peers = append(info.peers, sid)
			}
		}
	}
	e.gest = &gesture{base: doc.Clone(), drag: info}
	return nil
}

// DragTo applies one pointer-move. resolved is the dragged element's fully
// resolved new state, which may also carry rotation or resize changes; peers
// receive only the position delta. The update merges into the current
// history entry, so every frame is visible but the whole gesture stays one
// undoable step.
func (e *Editor) DragTo(resolved board.Element) error {
	if e.gest == nil || e.gest.drag == nil {
		return fmt.Errorf("drag: no active drag gesture")
	}
	doc := e.hist.Current()
	i := doc.IndexOf(e.gest.drag.id)
	if i < 0 {
		return fmt.Errorf("drag: element %s vanished mid-gesture", e.gest.drag.id)
	}
	cur := doc[i]
	resolved = resolved.Normalized()
	resolved.ID = cur.ID
	resolved.Z = cur.Z
	delta := resolved.Pos.Sub(cur.Pos)
	doc[i] = resolved

	for _, pid := range e.gest.drag.peers {
		j := doc.IndexOf(pid)
		if j < 0 {
			continue
		}
		doc[j] = doc[j].Translated(delta)
	}
	e.hist.Merge(doc)
	return nil
}

// UpdateLive applies one frame of a rotate or resize gesture on a single
// element, opening a gesture if none is active. Like DragTo it merges.
func (e *Editor) UpdateLive(id board.ID, el board.Element) error {
	if e.gest == nil {
		e.gest = &gesture{base: e.hist.Current()}
	}
	return e.Update(id, el, false)
}

// EndGesture commits the gesture's final state as exactly one new history
// entry on top of the state the gesture began from. A gesture that saw no
// live updates commits the unchanged document, which is a legal no-op entry.
func (e *Editor) EndGesture() {
	if e.gest == nil {
		return
	}
	final := e.hist.Current()
	// The merges above overwrote the gesture's starting entry; put it back
	// so one undo lands exactly on the pre-gesture document.
	e.hist.Merge(e.gest.base)
	e.commit(final)
	e.gest = nil
}

// EndDrag closes a drag gesture.
func (e *Editor) EndDrag() { e.EndGesture() }

// CancelGesture abandons the gesture and restores the document the gesture
// started from, with no new history entry.
func (e *Editor) CancelGesture() {
	if e.gest == nil {
		return
	}
	e.hist.Merge(e.gest.base)
	e.gest = nil
}
