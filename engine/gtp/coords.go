package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"goban/game"
)

// GTP coordinate system:
// - Columns: A-T (skipping I to avoid confusion with 1)
// - Rows: 1-19 (from bottom of board)
// - Example: D4, Q16, K10
//
// Board coordinate system:
// - X: 0-18 (left to right)
// - Y: 0-18 (top to bottom)
// - Example: (3, 15) for D4 on a 19x19 board

// FormatVertex converts board coordinates to GTP notation.
// For a 19x19 board: (0, 18) -> A1, (3, 15) -> D4, (15, 3) -> Q16
func FormatVertex(p game.Point, size int) string {
	col := 'A' + rune(p.X)
	if p.X >= 8 {
		col++ // Skip 'I'
	}
	return fmt.Sprintf("%c%d", col, size-p.Y)
}

// ParseVertex converts GTP notation to a move. "pass" in any case is the
// pass move.
// For a 19x19 board: A1 -> (0, 18), D4 -> (3, 15), Q16 -> (15, 3)
func ParseVertex(vertex string, size int) (game.Move, error) {
	vertex = strings.TrimSpace(strings.ToUpper(vertex))

	if vertex == "PASS" {
		return game.PassMove(), nil
	}
	if len(vertex) < 2 {
		return game.Move{}, fmt.Errorf("invalid vertex: %q", vertex)
	}

	letter := vertex[0]
	if letter < 'A' || letter > 'Z' || letter == 'I' {
		return game.Move{}, fmt.Errorf("invalid column in vertex: %q", vertex)
	}
	col := int(letter - 'A')
	if letter > 'I' {
		col-- // Account for skipped 'I'
	}

	row, err := strconv.Atoi(vertex[1:])
	if err != nil {
		return game.Move{}, fmt.Errorf("invalid row in vertex: %q", vertex)
	}

	// Rows count from the bottom.
	y := size - row
	if col >= size || y < 0 || y >= size {
		return game.Move{}, fmt.Errorf("vertex out of bounds: %q", vertex)
	}
	return game.At(col, y), nil
}

func colorName(c game.Color) string {
	if c == game.White {
		return "white"
	}
	return "black"
}
