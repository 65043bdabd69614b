package game

import "fmt"

// Point is a board coordinate. X is the column, Y the row, both 0-indexed from
// the top-left corner.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move is either a stone placement at a point or a pass.
type Move struct {
	Point
	Pass bool
}

// At returns a placement move.
func At(x, y int) Move {
	return Move{Point: Point{X: x, Y: y}}
}

// PassMove returns the pass move.
func PassMove() Move {
	return Move{Pass: true}
}

func (m Move) String() string {
	if m.Pass {
		return "pass"
	}
	return m.Point.String()
}

// Grid is a square matrix of cells. The zero value is not usable; create grids
// with NewGrid. Grids held by a Snapshot are never written after creation.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid returns an empty grid of the given side length. It panics if size is
// not positive.
func NewGrid(size int) Grid {
	if size < 1 {
		panic(fmt.Sprintf("game: invalid board size %d", size))
	}
	return Grid{size: size, cells: make([]Cell, size*size)}
}

// Size returns the side length.
func (g Grid) Size() int {
	return g.size
}

// InBounds reports whether (x, y) lies on the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// At returns the cell at (x, y). The coordinates must be in bounds.
func (g Grid) At(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// Set writes the cell at (x, y). Only grids that are not yet part of a
// snapshot may be written.
func (g Grid) Set(x, y int, c Cell) {
	g.cells[g.index(x, y)] = c
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	clone := Grid{size: g.size, cells: make([]Cell, len(g.cells))}
	copy(clone.cells, g.cells)
	return clone
}

// Count returns the number of cells holding c.
func (g Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have the same size and contents.
func (g Grid) Equal(o Grid) bool {
	if g.size != o.size || len(g.cells) != len(o.cells) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the grid as rows of ints indexed [y][x] (0=empty, 1=black,
// 2=white), the layout front ends draw from.
func (g Grid) Rows() [][]int {
	rows := make([][]int, g.size)
	for y := range rows {
		rows[y] = make([]int, g.size)
		for x := range rows[y] {
			rows[y][x] = int(g.At(x, y))
		}
	}
	return rows
}

func (g Grid) index(x, y int) int {
	return y*g.size + x
}

// neighbors lists the 4-adjacent offsets.
var neighbors = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
