package game

// goRules implements capture, suicide prohibition and simple ko.
type goRules struct{}

func (goRules) sealed() {}

func (goRules) Kind() Kind {
	return GoRules
}

func (goRules) Winner(Snapshot) (Color, bool) {
	return 0, false
}

func (goRules) Evaluate(s Snapshot, m Move) (Snapshot, error) {
	if m.Pass {
		return advance(s, s.grid.Clone(), m), nil
	}

	x, y := m.X, m.Y
	if !s.grid.InBounds(x, y) {
		return Snapshot{}, illegal(m, ErrOutOfBounds)
	}
	if s.grid.At(x, y) != CellEmpty {
		return Snapshot{}, illegal(m, ErrOccupied)
	}
	mover := s.toMove
	if s.aux.hasKo && s.aux.koPoint == m.Point && s.aux.koColor == mover {
		return Snapshot{}, illegal(m, ErrKoViolation)
	}

	// Captures are resolved before the mover's own liberties are counted.
	board := s.grid.Clone()
	board.Set(x, y, mover.Cell())

	enemy := mover.Opponent()
	captured := FindCapturedGroups(board, enemy)
	for _, p := range captured {
		board.Set(p.X, p.Y, CellEmpty)
	}

	if _, liberties := FindGroupAndLiberties(board, x, y); liberties == 0 && len(captured) == 0 {
		return Snapshot{}, illegal(m, ErrSuicideMove)
	}

	next := advance(s, board, m)
	next.aux.prisoners[enemy] += len(captured)
	if len(captured) == 1 {
		next.aux.koPoint = captured[0]
		next.aux.koColor = enemy
		next.aux.hasKo = true
	}
	return next, nil
}
