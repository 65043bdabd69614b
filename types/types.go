// Package types contains shared data structures for goban front ends.
package types

import "encoding/json"

// Game phases.
const (
	PhasePlaying  = "playing"
	PhaseFinished = "finished"
)

// BoardState is a read-only copy of a game position handed to front ends.
// Board is indexed as Board[y][x] where 0=empty, 1=black, 2=white.
type BoardState struct {
	Rules        string    `json:"rules"`
	MoveNumber   int       `json:"move_number"`
	PlayerToMove int       `json:"player_to_move"` // 1=black, 2=white
	Phase        string    `json:"phase"`          // "playing", "finished"
	Board        [][]int   `json:"board"`
	Outcome      string    `json:"outcome"`
	Winner       int       `json:"winner"` // 0 when nobody has won
	LastMove     BoardPos  `json:"last_move"`
	LastPass     bool      `json:"last_pass"`
	KoPoint      *BoardPos `json:"ko_point,omitempty"`
	Prisoners    [2]int    `json:"prisoners"` // stones captured from black, white
	CanUndo      bool      `json:"can_undo"`
	CanRedo      bool      `json:"can_redo"`
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == PhaseFinished
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// Copy returns a deep copy.
func (b *BoardState) Copy() *BoardState {
	c := *b
	c.Board = make([][]int, len(b.Board))
	for i := range b.Board {
		c.Board[i] = append([]int(nil), b.Board[i]...)
	}
	if b.KoPoint != nil {
		ko := *b.KoPoint
		c.KoPoint = &ko
	}
	return &c
}

// BoardPos represents a position on the board. (-1, -1) means none.
type BoardPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnmarshalJSON accepts both {"x":..,"y":..} and a JSON array [x, y].
func (p *BoardPos) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err == nil && len(v) == 2 {
		p.X = int(v[0])
		p.Y = int(v[1])
		return nil
	}
	var obj struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.X, p.Y = obj.X, obj.Y
	return nil
}

// NewBoardState creates a new empty board of the given size.
func NewBoardState(size int) *BoardState {
	board := make([][]int, size)
	for i := range board {
		board[i] = make([]int, size)
	}
	return &BoardState{
		MoveNumber:   0,
		PlayerToMove: 1, // Black plays first
		Phase:        PhasePlaying,
		Board:        board,
		LastMove:     BoardPos{X: -1, Y: -1},
	}
}
