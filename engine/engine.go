// Package engine connects the rule engine to front ends and to an optional
// computer opponent.
package engine

import (
	"errors"

	"goban/game"
	"goban/types"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrThinking    = errors.New("opponent is thinking")
	// ErrResign is returned by Opponent.GenMove when the opponent gives up.
	ErrResign = errors.New("resign")
)

// GameEngine defines the interface front ends use to play a game.
type GameEngine interface {
	// Connect starts the opponent, if any, and replays preloaded moves.
	Connect() error

	// GetBoardState returns a copy of the current board state.
	GetBoardState() *types.BoardState

	// PlayMove plays a stone for the side to move.
	// Returns an error if the move is illegal.
	PlayMove(x, y int) error

	// Pass passes the current turn.
	Pass() error

	// IsMyTurn returns true if the human may move now.
	IsMyTurn() bool

	// GetPlayerColor returns the human player's color (1=black, 2=white).
	GetPlayerColor() int

	// OnMove registers a callback for when a move is played (by either player).
	// x, y are -1, -1 for a pass. boardState is passed directly to avoid lock contention.
	OnMove(func(x, y, color int, boardState *types.BoardState))

	// Undo takes back the last move. Against an opponent it takes back the
	// opponent's reply as well, so the human is to move again.
	Undo() error

	// Redo replays moves taken back by Undo.
	Redo() error

	// Reset clears the board and the move history.
	Reset() error

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Close shuts down the opponent and the game record.
	Close()
}

// Opponent is a computer player the session keeps in sync with the board.
type Opponent interface {
	NewGame(size int, komi float64) error
	Play(c game.Color, m game.Move) error
	GenMove(c game.Color) (game.Move, error)
	Undo() error
	ClearBoard() error
	FinalScore() (string, error)
	Close() error
}

// Recorder persists the moves of a game as they change.
type Recorder interface {
	SetMoves(moves []game.Move) error
	SetResult(result string) error
	Close() error
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Rules       game.Kind
	BoardSize   int     // 9, 13 or 19 for Go, typically 15 for five-in-a-row
	Komi        float64 // Typically 6.5 or 7.5
	PlayerColor int     // 1=black, 2=white
	Opponent    bool    // play against GnuGo
	EngineLevel int     // GnuGo level 1-10
	EnginePath  string  // Path to GnuGo binary
	LoadSGFPath string  // SGF file to resume
	HistoryDir  string  // where finished and running games are saved
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Rules:       game.GoRules,
		BoardSize:   19,
		Komi:        6.5,
		PlayerColor: 1, // Human plays black
		Opponent:    true,
		EngineLevel: 5,
		EnginePath:  "gnugo",
	}
}

// HumanColor returns PlayerColor as a game color.
func (c GameConfig) HumanColor() game.Color {
	if c.PlayerColor == int(game.White) {
		return game.White
	}
	return game.Black
}
