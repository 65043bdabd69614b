package game

// WinLength is the run of identical stones that wins five-in-a-row.
const WinLength = 5

// fiveInRow places stones without captures; the first side to align
// WinLength stones wins.
type fiveInRow struct{}

func (fiveInRow) sealed() {}

func (fiveInRow) Kind() Kind {
	return FiveInRowRules
}

func (r fiveInRow) Evaluate(s Snapshot, m Move) (Snapshot, error) {
	if m.Pass {
		if _, over := r.Winner(s); over {
			return Snapshot{}, illegal(m, ErrGameAlreadyOver)
		}
		return advance(s, s.grid.Clone(), m), nil
	}
	if !s.grid.InBounds(m.X, m.Y) {
		return Snapshot{}, illegal(m, ErrOutOfBounds)
	}
	if s.grid.At(m.X, m.Y) != CellEmpty {
		return Snapshot{}, illegal(m, ErrOccupied)
	}
	if _, over := r.Winner(s); over {
		return Snapshot{}, illegal(m, ErrGameAlreadyOver)
	}

	board := s.grid.Clone()
	board.Set(m.X, m.Y, s.toMove.Cell())
	return advance(s, board, m), nil
}

func (fiveInRow) Winner(s Snapshot) (Color, bool) {
	line, ok := FindAlignment(s.grid, WinLength)
	if !ok {
		return 0, false
	}
	return ColorOf(s.grid.At(line[0].X, line[0].Y))
}

// FindAlignment scans every row, column and diagonal of g for a run of at
// least n identical stones and returns the first maximal run found.
func FindAlignment(g Grid, n int) ([]Point, bool) {
	directions := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			cell := g.At(x, y)
			if cell == CellEmpty {
				continue
			}
			for _, d := range directions {
				// Only start counting at the first stone of a run.
				if px, py := x-d[0], y-d[1]; g.InBounds(px, py) && g.At(px, py) == cell {
					continue
				}
				line := collectRun(g, x, y, d[0], d[1], cell)
				if len(line) >= n {
					return line, true
				}
			}
		}
	}
	return nil, false
}

func collectRun(g Grid, x, y, dx, dy int, cell Cell) []Point {
	var line []Point
	for g.InBounds(x, y) && g.At(x, y) == cell {
		line = append(line, Point{X: x, Y: y})
		x += dx
		y += dy
	}
	return line
}
