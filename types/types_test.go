package types

import (
	"encoding/json"
	"testing"
)

func TestNewBoardState(t *testing.T) {
	b := NewBoardState(9)
	if b.Width() != 9 || b.Height() != 9 {
		t.Fatalf("size = %dx%d, want 9x9", b.Width(), b.Height())
	}
	if b.PlayerToMove != 1 || b.Finished() {
		t.Fatalf("player=%d finished=%v", b.PlayerToMove, b.Finished())
	}
	if b.LastMove != (BoardPos{-1, -1}) {
		t.Fatalf("last move = %+v, want none", b.LastMove)
	}
}

func TestCopyIsDeep(t *testing.T) {
	b := NewBoardState(3)
	b.KoPoint = &BoardPos{X: 1, Y: 1}
	c := b.Copy()
	c.Board[0][0] = 2
	c.KoPoint.X = 2
	if b.Board[0][0] != 0 || b.KoPoint.X != 1 {
		t.Fatal("copy shares memory with the original")
	}
}

func TestBoardPosUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want BoardPos
	}{
		{`[3, 4]`, BoardPos{3, 4}},
		{`{"x": 5, "y": 6}`, BoardPos{5, 6}},
	}
	for _, tt := range tests {
		var p BoardPos
		if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if p != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, p, tt.want)
		}
	}
	var p BoardPos
	if err := json.Unmarshal([]byte(`"nope"`), &p); err == nil {
		t.Error("expected error for a string")
	}
}
