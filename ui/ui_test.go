package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"goban/engine"
	"goban/game"
	"goban/types"
)

func TestColumnLabelSkipsI(t *testing.T) {
	tests := []struct {
		x    int
		want rune
	}{
		{0, 'A'},
		{7, 'H'},
		{8, 'J'},
		{18, 'T'},
		{24, 'Z'},
	}
	for _, tt := range tests {
		if got := columnLabel(tt.x, false); got != tt.want {
			t.Errorf("columnLabel(%d) = %c, want %c", tt.x, got, tt.want)
		}
	}
	if got := columnLabel(8, true); got != 'Ｊ' {
		t.Errorf("full width columnLabel(8) = %c, want Ｊ", got)
	}
}

func TestStarPoints(t *testing.T) {
	tests := []struct {
		size  int
		count int
		has   [][2]int
	}{
		{5, 0, nil},
		{9, 5, [][2]int{{2, 2}, {6, 6}, {4, 4}}},
		{13, 5, [][2]int{{3, 3}, {9, 9}, {6, 6}}},
		{19, 9, [][2]int{{3, 3}, {15, 15}, {9, 9}, {3, 9}, {9, 15}}},
		{10, 4, [][2]int{{2, 2}, {7, 7}}},
	}
	for _, tt := range tests {
		stars := starPoints(tt.size)
		if len(stars) != tt.count {
			t.Errorf("size %d: %d star points, want %d", tt.size, len(stars), tt.count)
		}
		for _, p := range tt.has {
			if !stars[p] {
				t.Errorf("size %d: missing star point %v", tt.size, p)
			}
		}
	}
}

func TestGridRune(t *testing.T) {
	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '┌'},
		{8, 0, '┐'},
		{0, 8, '└'},
		{8, 8, '┘'},
		{4, 0, '┬'},
		{4, 8, '┴'},
		{0, 4, '├'},
		{8, 4, '┤'},
		{3, 5, '┼'},
	}
	for _, tt := range tests {
		if got := gridRune(tt.x, tt.y, 9, 9, false); got != tt.want {
			t.Errorf("gridRune(%d,%d) = %c, want %c", tt.x, tt.y, got, tt.want)
		}
	}
	if got := gridRune(4, 4, 9, 9, true); got != '◦' {
		t.Errorf("star point rune = %c", got)
	}
}

func TestRefusal(t *testing.T) {
	occupied := &game.IllegalMoveError{Move: game.At(1, 1), Err: game.ErrOccupied}
	tests := []struct {
		err  error
		want string
	}{
		{occupied, "Illegal move: occupied"},
		{fmt.Errorf("wrapped: %w", &game.IllegalMoveError{Err: game.ErrKoViolation}), "Illegal move: ko"},
		{engine.ErrNotYourTurn, "Not your turn"},
		{engine.ErrThinking, "Opponent is thinking"},
		{engine.ErrGameOver, "The game is over"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := refusal(tt.err); got != tt.want {
			t.Errorf("refusal(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestPanelText(t *testing.T) {
	st := types.NewBoardState(9)
	st.Rules = "go"
	st.MoveNumber = 3
	st.Prisoners = [2]int{1, 4}
	st.KoPoint = &types.BoardPos{X: 8, Y: 0}
	moves := []game.Move{game.At(2, 6), game.PassMove(), game.At(8, 8)}

	text := panelText(st, moves, 6.5)
	for _, want := range []string{"Go 9x9", "6.5", "Move:[-:-:-] 3", "B 4  W 1", "Ko:[-:-:-] J9", "pass", "J1"} {
		if !strings.Contains(text, want) {
			t.Errorf("panel text missing %q:\n%s", want, text)
		}
	}

	st.Rules = "gomoku"
	text = panelText(st, nil, 6.5)
	if strings.Contains(text, "Komi") || strings.Contains(text, "Captures") {
		t.Errorf("five in a row panel shows Go counters:\n%s", text)
	}
	if !strings.Contains(text, "Five in a row") {
		t.Errorf("panel text missing ruleset:\n%s", text)
	}
}

func TestPanelTextTruncatesMoves(t *testing.T) {
	st := types.NewBoardState(9)
	st.Rules = "go"
	moves := make([]game.Move, recentMoves+5)
	for i := range moves {
		moves[i] = game.PassMove()
	}
	text := panelText(st, moves, 0)
	if !strings.Contains(text, "5 earlier") {
		t.Errorf("expected truncation marker:\n%s", text)
	}
	if strings.Count(text, "pass") != recentMoves {
		t.Errorf("shows %d moves, want %d", strings.Count(text, "pass"), recentMoves)
	}
}
