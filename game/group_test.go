package game

import "testing"

// gridFrom builds a grid from rows of '.', 'B' and 'W', indexed [y][x].
func gridFrom(t *testing.T, rows ...string) Grid {
	t.Helper()
	g := NewGrid(len(rows))
	for y, row := range rows {
		if len(row) != len(rows) {
			t.Fatalf("row %d has length %d, want %d", y, len(row), len(rows))
		}
		for x, ch := range row {
			switch ch {
			case 'B':
				g.Set(x, y, CellBlack)
			case 'W':
				g.Set(x, y, CellWhite)
			}
		}
	}
	return g
}

func TestFindGroupAndLiberties(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		x, y      int
		wantGroup int
		wantLibs  int
	}{
		{"lone center stone", []string{".....", ".....", "..B..", ".....", "....."}, 2, 2, 1, 4},
		{"top-left corner", []string{"B....", ".....", ".....", ".....", "....."}, 0, 0, 1, 2},
		{"left edge column zero", []string{".....", ".....", "B....", ".....", "....."}, 0, 2, 1, 3},
		{"top edge row zero", []string{"..B..", ".....", ".....", ".....", "....."}, 2, 0, 1, 3},
		{"bottom-right corner", []string{".....", ".....", ".....", ".....", "....B"}, 4, 4, 1, 2},
		{"shared liberty counted once", []string{".....", ".B...", ".BB..", ".....", "....."}, 1, 1, 3, 7},
		{"group along column zero", []string{"B....", "B....", "B....", ".....", "....."}, 0, 1, 3, 4},
		{"surrounded", []string{".....", "..W..", ".WBW.", "..W..", "....."}, 2, 2, 1, 0},
		{"empty start", []string{".....", ".....", ".....", ".....", "....."}, 2, 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFrom(t, tt.rows...)
			group, libs := FindGroupAndLiberties(g, tt.x, tt.y)
			if len(group) != tt.wantGroup {
				t.Errorf("group size = %d, want %d", len(group), tt.wantGroup)
			}
			if libs != tt.wantLibs {
				t.Errorf("liberties = %d, want %d", libs, tt.wantLibs)
			}
		})
	}
}

func TestFindCapturedGroups(t *testing.T) {
	g := gridFrom(t,
		"BW...",
		"W....",
		"...W.",
		"..WBW",
		"...W.",
	)
	captured := FindCapturedGroups(g, Black)
	if len(captured) != 2 {
		t.Fatalf("captured = %v, want the corner and the surrounded stone", captured)
	}
	want := map[Point]bool{{X: 0, Y: 0}: true, {X: 3, Y: 3}: true}
	for _, p := range captured {
		if !want[p] {
			t.Errorf("unexpected captured stone %v", p)
		}
	}
	if got := FindCapturedGroups(g, White); len(got) != 0 {
		t.Errorf("white captured = %v, want none", got)
	}
}

func TestFindCapturedGroupsWholeGroup(t *testing.T) {
	g := gridFrom(t,
		"BBW..",
		"WW...",
		".....",
		".....",
		".....",
	)
	captured := FindCapturedGroups(g, Black)
	if len(captured) != 2 {
		t.Fatalf("captured = %v, want both stones of the corner group", captured)
	}
}
