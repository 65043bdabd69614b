package gtp

import (
	"testing"

	"goban/game"
)

func TestFormatVertex(t *testing.T) {
	tests := []struct {
		p    game.Point
		size int
		want string
	}{
		{game.Point{X: 0, Y: 18}, 19, "A1"},
		{game.Point{X: 3, Y: 15}, 19, "D4"},
		{game.Point{X: 15, Y: 3}, 19, "Q16"},
		{game.Point{X: 8, Y: 0}, 19, "J19"},
		{game.Point{X: 18, Y: 0}, 19, "T19"},
		{game.Point{X: 4, Y: 4}, 9, "E5"},
	}
	for _, tt := range tests {
		if got := FormatVertex(tt.p, tt.size); got != tt.want {
			t.Errorf("FormatVertex(%v, %d) = %q, want %q", tt.p, tt.size, got, tt.want)
		}
	}
}

func TestParseVertex(t *testing.T) {
	tests := []struct {
		in   string
		size int
		want game.Move
	}{
		{"A1", 19, game.At(0, 18)},
		{"d4", 19, game.At(3, 15)},
		{"Q16", 19, game.At(15, 3)},
		{"J19", 19, game.At(8, 0)},
		{" T19 ", 19, game.At(18, 0)},
		{"PASS", 19, game.PassMove()},
		{"pass", 9, game.PassMove()},
	}
	for _, tt := range tests {
		got, err := ParseVertex(tt.in, tt.size)
		if err != nil {
			t.Errorf("ParseVertex(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVertex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseVertexErrors(t *testing.T) {
	for _, in := range []string{"", "A", "I5", "A0", "A20", "K10", "Z1", "1A", "resign"} {
		if _, err := ParseVertex(in, 9); err == nil {
			t.Errorf("ParseVertex(%q) on 9x9: expected error", in)
		}
	}
}

func TestVertexRoundTrip(t *testing.T) {
	for _, size := range []int{9, 13, 19} {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				p := game.Point{X: x, Y: y}
				m, err := ParseVertex(FormatVertex(p, size), size)
				if err != nil || m != game.At(x, y) {
					t.Fatalf("round trip of %v on %d: got %v, %v", p, size, m, err)
				}
			}
		}
	}
}
