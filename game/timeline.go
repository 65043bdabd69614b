package game

// Timeline is a cursor-addressed, append-only sequence of history entries.
// Entry 0 is the initial entry and survives Reset. Committing while the cursor
// is behind the last entry discards everything after the cursor first.
type Timeline[T any] struct {
	entries []T
	cursor  int
}

// NewTimeline returns a timeline holding only initial.
func NewTimeline[T any](initial T) *Timeline[T] {
	return &Timeline[T]{entries: []T{initial}}
}

// Commit drops any entries after the cursor, appends v and moves the cursor
// onto it.
func (t *Timeline[T]) Commit(v T) {
	t.entries = append(t.entries[:t.cursor+1], v)
	t.cursor = len(t.entries) - 1
}

// Undo moves the cursor back one entry. It is a no-op on the initial entry.
func (t *Timeline[T]) Undo() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// Redo moves the cursor forward one entry. It is a no-op on the last entry.
func (t *Timeline[T]) Redo() {
	if t.cursor < len(t.entries)-1 {
		t.cursor++
	}
}

// Reset truncates the timeline back to its initial entry.
func (t *Timeline[T]) Reset() {
	var zero T
	for i := 1; i < len(t.entries); i++ {
		t.entries[i] = zero
	}
	t.entries = t.entries[:1]
	t.cursor = 0
}

// Current returns the entry at the cursor.
func (t *Timeline[T]) Current() T {
	return t.entries[t.cursor]
}

// Previous returns the entry before the cursor, or false at the initial entry.
func (t *Timeline[T]) Previous() (T, bool) {
	if t.cursor == 0 {
		var zero T
		return zero, false
	}
	return t.entries[t.cursor-1], true
}

// Cursor returns the index of the current entry.
func (t *Timeline[T]) Cursor() int {
	return t.cursor
}

// Len returns the number of stored entries, including any redoable ones.
func (t *Timeline[T]) Len() int {
	return len(t.entries)
}

// CanUndo reports whether Undo would move the cursor.
func (t *Timeline[T]) CanUndo() bool {
	return t.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (t *Timeline[T]) CanRedo() bool {
	return t.cursor < len(t.entries)-1
}

// Upto returns a copy of the entries from the initial one through the cursor.
func (t *Timeline[T]) Upto() []T {
	out := make([]T, t.cursor+1)
	copy(out, t.entries[:t.cursor+1])
	return out
}
