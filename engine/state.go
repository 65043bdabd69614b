package engine

import (
	"fmt"

	"goban/game"
	"goban/types"
)

// BoardStateOf copies the current position of g into a front-end board state.
// Phase and Outcome are left for the caller to fill in.
func BoardStateOf(g *game.Engine) *types.BoardState {
	cur := g.Current()
	bs := &types.BoardState{
		Rules:        g.Kind().String(),
		MoveNumber:   g.MoveNumber(),
		PlayerToMove: int(cur.ToMove()),
		Phase:        types.PhasePlaying,
		Board:        cur.Grid().Rows(),
		LastMove:     types.BoardPos{X: -1, Y: -1},
		Prisoners:    [2]int{cur.Prisoners(game.Black), cur.Prisoners(game.White)},
		CanUndo:      g.CanUndo(),
		CanRedo:      g.CanRedo(),
	}
	if m, ok := cur.LastMove(); ok {
		if m.Pass {
			bs.LastPass = true
		} else {
			bs.LastMove = types.BoardPos{X: m.X, Y: m.Y}
		}
	}
	if ko, ok := cur.KoPoint(); ok {
		bs.KoPoint = &types.BoardPos{X: ko.X, Y: ko.Y}
	}
	if w, ok := g.Winner(); ok {
		bs.Winner = int(w)
	}
	return bs
}

// twoPasses reports whether the last two moves were both passes.
func twoPasses(g *game.Engine) bool {
	moves := g.Moves()
	n := len(moves)
	return n >= 2 && moves[n-1].Pass && moves[n-2].Pass
}

// alignmentOutcome describes a five-in-a-row win.
func alignmentOutcome(c game.Color) string {
	return fmt.Sprintf("%s wins with five in a row", c)
}

// failureOutcome describes a game stopped because the opponent could not
// produce a move.
func failureOutcome(err error) string {
	return fmt.Sprintf("Opponent failed: %v", err)
}

// resignOutcome describes a win by resignation.
func resignOutcome(winner game.Color) string {
	return fmt.Sprintf("%s wins by resignation", winner)
}
