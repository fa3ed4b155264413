// Package history provides a generic versioned-state container with undo and
// redo stacks. The store has no knowledge of what it holds; callers decide
// whether each mutation becomes a new undoable entry (Commit) or folds into
// the current one (Merge). Entries are value snapshots: the store clones on
// the way in and on the way out, so no entry ever aliases caller state.
package history

// Store holds a linear sequence of snapshots and a cursor into it.
// Entries before the cursor are reachable by Undo, entries after it by Redo.
// The zero value is not usable; construct with New.
type Store[T any] struct {
	entries []T
	cursor  int
	clone   func(T) T
}

// New creates a Store seeded with the initial state as entry zero.
// Entry zero is the oldest reachable state; Undo never steps before it.
// clone must produce a deep copy with no shared mutable state.
func New[T any](initial T, clone func(T) T) *Store[T] {
	return &Store[T]{
		entries: []T{clone(initial)},
		cursor:  0,
		clone:   clone,
	}
}

// Commit pushes state as the new current entry, truncating any redo entries.
// After Commit the previous current entry is the one reachable by Undo.
func (s *Store[T]) Commit(state T) {
	s.entries = append(s.entries[:s.cursor+1], s.clone(state))
	s.cursor++
}

// Merge replaces the current entry in place without creating an undo step.
// Used for continuous gesture feedback: every intermediate state is visible,
// but only the gesture's final Commit is undoable as one step.
func (s *Store[T]) Merge(state T) {
	s.entries[s.cursor] = s.clone(state)
}

// Undo moves the cursor one entry back and reports whether it moved.
// At the oldest entry it is a no-op, never an error.
func (s *Store[T]) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	return true
}

// Redo moves the cursor one entry forward and reports whether it moved.
// At the newest entry it is a no-op, never an error.
func (s *Store[T]) Redo() bool {
	if s.cursor >= len(s.entries)-1 {
		return false
	}
	s.cursor++
	return true
}

// Current returns a copy of the entry under the cursor.
func (s *Store[T]) Current() T {
	return s.clone(s.entries[s.cursor])
}

// CanUndo reports whether an older entry exists.
func (s *Store[T]) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a newer entry exists.
func (s *Store[T]) CanRedo() bool { return s.cursor < len(s.entries)-1 }

// Len returns the total number of entries, including ones only reachable by Redo.
func (s *Store[T]) Len() int { return len(s.entries) }
