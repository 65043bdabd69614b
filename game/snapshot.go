package game

// Snapshot is one immutable point in game history.
type Snapshot struct {
	grid     Grid
	toMove   Color
	lastMove Move
	hasLast  bool
	aux      aux
}

// aux holds ruleset-specific state. Only the Go rules use it.
type aux struct {
	// koPoint is the cell koColor may not replay into on its next move.
	koPoint Point
	koColor Color
	hasKo   bool
	// prisoners[c] counts the stones of color c removed from the board so far.
	prisoners [3]int
}

// InitialSnapshot returns the empty-board starting position: Black to move,
// no last move, no ko.
func InitialSnapshot(size int) Snapshot {
	return Snapshot{grid: NewGrid(size), toMove: Black}
}

// Grid returns a copy of the board.
func (s Snapshot) Grid() Grid {
	return s.grid.Clone()
}

// Size returns the board side length.
func (s Snapshot) Size() int {
	return s.grid.Size()
}

// At returns the cell at (x, y) without copying the board.
func (s Snapshot) At(x, y int) Cell {
	return s.grid.At(x, y)
}

// ToMove returns the side whose turn it is.
func (s Snapshot) ToMove() Color {
	return s.toMove
}

// LastMove returns the move that produced this snapshot, or false for the
// initial position.
func (s Snapshot) LastMove() (Move, bool) {
	return s.lastMove, s.hasLast
}

// KoPoint returns the point the side to move is forbidden to play on, if any.
func (s Snapshot) KoPoint() (Point, bool) {
	return s.aux.koPoint, s.aux.hasKo
}

// Prisoners returns how many stones of color c have been captured so far.
func (s Snapshot) Prisoners(c Color) int {
	return s.aux.prisoners[c]
}

// Equal reports whether two snapshots hold the same grid, side to move, last
// move and auxiliary state.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.toMove == o.toMove &&
		s.hasLast == o.hasLast &&
		s.lastMove == o.lastMove &&
		s.aux == o.aux &&
		s.grid.Equal(o.grid)
}
