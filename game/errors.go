package game

import (
	"errors"
	"fmt"
)

// Reasons a move can be refused. They are ordinary outcomes of Place, not
// failures of the engine.
var (
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrOccupied        = errors.New("occupied")
	ErrKoViolation     = errors.New("ko")
	ErrSuicideMove     = errors.New("suicide")
	ErrGameAlreadyOver = errors.New("game already over")
)

// IllegalMoveError reports a refused move and why.
type IllegalMoveError struct {
	Move Move
	Err  error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %v", e.Move, e.Err)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

func illegal(m Move, reason error) error {
	return &IllegalMoveError{Move: m, Err: reason}
}

// Reason returns the refusal reason carried by err, or nil if err is not an
// illegal move.
func Reason(err error) error {
	var ime *IllegalMoveError
	if errors.As(err, &ime) {
		return ime.Err
	}
	return nil
}
