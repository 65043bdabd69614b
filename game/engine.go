// Package game implements the board-game rule engine: Go with capture, suicide
// and simple ko, a five-in-a-row variant, and an undoable snapshot history.
//
// The engine is synchronous and does no locking. Callers that reach it from
// several goroutines must serialize their calls.
package game

// Engine composes a ruleset with a snapshot timeline. It is the only type
// front ends and opponent adapters need.
type Engine struct {
	rules    Ruleset
	timeline *Timeline[Snapshot]
}

// New returns an engine for a size×size board using the rules selected by
// kind. It panics if size is not positive.
func New(size int, kind Kind) *Engine {
	return &Engine{
		rules:    NewRuleset(kind),
		timeline: NewTimeline(InitialSnapshot(size)),
	}
}

// Place plays a stone for the side to move. A refused move returns an
// *IllegalMoveError and leaves the history unchanged.
func (e *Engine) Place(x, y int) error {
	return e.Play(At(x, y))
}

// Pass passes the turn.
func (e *Engine) Pass() error {
	return e.Play(PassMove())
}

// Play evaluates m against the current snapshot and commits the result.
func (e *Engine) Play(m Move) error {
	next, err := e.rules.Evaluate(e.timeline.Current(), m)
	if err != nil {
		return err
	}
	e.timeline.Commit(next)
	return nil
}

// Check reports whether m would be accepted, without playing it.
func (e *Engine) Check(m Move) error {
	_, err := e.rules.Evaluate(e.timeline.Current(), m)
	return err
}

// Undo steps back one move. It does nothing at the start of the game.
func (e *Engine) Undo() {
	e.timeline.Undo()
}

// Redo steps forward one undone move. It does nothing when there is none.
func (e *Engine) Redo() {
	e.timeline.Redo()
}

// Reset returns to the empty board and forgets all moves.
func (e *Engine) Reset() {
	e.timeline.Reset()
}

// Current returns the snapshot at the history cursor.
func (e *Engine) Current() Snapshot {
	return e.timeline.Current()
}

// Previous returns the snapshot before the current one, if any.
func (e *Engine) Previous() (Snapshot, bool) {
	return e.timeline.Previous()
}

// CurrentPlayer returns the side to move.
func (e *Engine) CurrentPlayer() Color {
	return e.Current().ToMove()
}

// CurrentBoard returns a copy of the current board.
func (e *Engine) CurrentBoard() Grid {
	return e.Current().Grid()
}

// LastMove returns the move that produced the current position.
func (e *Engine) LastMove() (Move, bool) {
	return e.Current().LastMove()
}

// Winner reports the winning side under rulesets that have one.
func (e *Engine) Winner() (Color, bool) {
	return e.rules.Winner(e.Current())
}

// IsWin reports whether the current position is won.
func (e *Engine) IsWin() bool {
	_, won := e.Winner()
	return won
}

// Moves returns the moves played from the initial position up to the cursor.
func (e *Engine) Moves() []Move {
	snaps := e.timeline.Upto()
	moves := make([]Move, 0, len(snaps)-1)
	for _, s := range snaps[1:] {
		m, _ := s.LastMove()
		moves = append(moves, m)
	}
	return moves
}

// MoveNumber returns how many moves lead to the current position.
func (e *Engine) MoveNumber() int {
	return e.timeline.Cursor()
}

// CanUndo reports whether Undo would change the position.
func (e *Engine) CanUndo() bool {
	return e.timeline.CanUndo()
}

// CanRedo reports whether Redo would change the position.
func (e *Engine) CanRedo() bool {
	return e.timeline.CanRedo()
}

// Size returns the board side length.
func (e *Engine) Size() int {
	return e.Current().Size()
}

// Kind returns the ruleset in use.
func (e *Engine) Kind() Kind {
	return e.rules.Kind()
}
