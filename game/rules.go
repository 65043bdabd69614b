package game

import (
	"fmt"
	"strings"
)

// Kind selects a ruleset.
type Kind int

const (
	GoRules Kind = iota
	FiveInRowRules
)

func (k Kind) String() string {
	switch k {
	case FiveInRowRules:
		return "gomoku"
	default:
		return "go"
	}
}

// ParseKind converts a ruleset name ("go", "gomoku", "five-in-a-row") to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "go", "weiqi", "baduk":
		return GoRules, nil
	case "gomoku", "five-in-a-row", "fiveinrow", "wuziqi":
		return FiveInRowRules, nil
	}
	return 0, fmt.Errorf("unknown ruleset %q", name)
}

// Ruleset decides move legality and derives the next snapshot. The set of
// rulesets is closed; obtain one with NewRuleset.
type Ruleset interface {
	Kind() Kind
	// Evaluate returns the snapshot that results from playing m on s, or an
	// *IllegalMoveError. s is never modified.
	Evaluate(s Snapshot, m Move) (Snapshot, error)
	// Winner reports the side that has won in s, if any.
	Winner(s Snapshot) (Color, bool)

	sealed()
}

// NewRuleset returns the ruleset for k.
func NewRuleset(k Kind) Ruleset {
	if k == FiveInRowRules {
		return fiveInRow{}
	}
	return goRules{}
}

// advance builds the snapshot following s after the side to move plays m on
// the already prepared grid.
func advance(s Snapshot, grid Grid, m Move) Snapshot {
	next := Snapshot{
		grid:     grid,
		toMove:   s.toMove.Opponent(),
		lastMove: m,
		hasLast:  true,
	}
	next.aux.prisoners = s.aux.prisoners
	return next
}
