package game

// Cell is the content of one board intersection.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

// Color is one of the two sides. Its numeric value matches the Cell a stone of
// that color occupies (1=black, 2=white).
type Color uint8

const (
	Black Color = Color(CellBlack)
	White Color = Color(CellWhite)
)

// Cell returns the cell value of a stone of this color.
func (c Color) Cell() Cell {
	return Cell(c)
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// ColorOf returns the color of the stone in a cell, or false for an empty cell.
func ColorOf(c Cell) (Color, bool) {
	switch c {
	case CellBlack:
		return Black, true
	case CellWhite:
		return White, true
	default:
		return 0, false
	}
}
