package engine

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"goban/game"
	"goban/types"
)

// ErrClosed is returned by every mutating call after Close.
var ErrClosed = errors.New("session closed")

// Option configures a Session.
type Option func(*Session)

// WithOpponent makes the session play the non-human color with o.
func WithOpponent(o Opponent) Option {
	return func(s *Session) {
		s.opponent = o
	}
}

// WithRecorder saves the game through r after every change.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithLogger sets the session logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) {
		s.log = l.Named("session")
	}
}

// WithMoves replays moves on Connect, for resuming a saved game.
func WithMoves(moves []game.Move) Option {
	return func(s *Session) {
		s.preload = append([]game.Move(nil), moves...)
	}
}

// Session implements GameEngine on top of the rule engine. Without an
// opponent both colors are played through PlayMove.
type Session struct {
	cfg      GameConfig
	game     *game.Engine
	opponent Opponent
	recorder Recorder
	log      *zap.SugaredLogger
	preload  []game.Move

	mu       sync.Mutex
	wg       sync.WaitGroup
	thinking bool
	over     bool
	outcome  string
	closed   bool

	moveCallback func(x, y, color int, boardState *types.BoardState)
	endCallback  func(outcome string)
}

var _ GameEngine = (*Session)(nil)

// NewSession creates a session for cfg. It panics if cfg.BoardSize is not
// positive.
func NewSession(cfg GameConfig, opts ...Option) *Session {
	s := &Session{
		cfg:  cfg,
		game: game.New(cfg.BoardSize, cfg.Rules),
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect starts the opponent and replays preloaded moves. If the opponent
// moves first it starts thinking before Connect returns.
func (s *Session) Connect() error {
	s.mu.Lock()
	if s.opponent != nil {
		if err := s.opponent.NewGame(s.cfg.BoardSize, s.cfg.Komi); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("start opponent: %w", err)
		}
	}

	for i, m := range s.preload {
		color := s.game.CurrentPlayer()
		if err := s.game.Play(m); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("replay move %d: %w", i+1, err)
		}
		if s.opponent != nil {
			if err := s.opponent.Play(color, m); err != nil {
				s.mu.Unlock()
				return fmt.Errorf("replay move %d to opponent: %w", i+1, err)
			}
		}
	}
	s.preload = nil

	s.log.Infow("game started",
		"rules", s.game.Kind(),
		"size", s.game.Size(),
		"moves", s.game.MoveNumber(),
		"opponent", s.opponent != nil,
	)
	s.record()
	notify := s.settle()
	s.mu.Unlock()

	notify()
	return nil
}

// GetBoardState returns a copy of the current board state.
func (s *Session) GetBoardState() *types.BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Moves returns the moves leading to the current position.
func (s *Session) Moves() []game.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Moves()
}

// PlayMove plays a stone for the side to move.
func (s *Session) PlayMove(x, y int) error {
	return s.play(game.At(x, y))
}

// Pass passes the current turn.
func (s *Session) Pass() error {
	return s.play(game.PassMove())
}

func (s *Session) play(m game.Move) error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.over {
		s.mu.Unlock()
		return ErrGameOver
	}

	color := s.game.CurrentPlayer()
	if s.opponent != nil && color != s.cfg.HumanColor() {
		s.mu.Unlock()
		return ErrNotYourTurn
	}

	// The opponent hears about the move only once the rules accept it.
	if err := s.game.Check(m); err != nil {
		s.mu.Unlock()
		s.log.Debugw("move refused", "color", color, "move", m, "reason", game.Reason(err))
		return err
	}
	if s.opponent != nil {
		if err := s.opponent.Play(color, m); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("opponent refused %s: %w", m, err)
		}
	}
	if err := s.game.Play(m); err != nil {
		s.mu.Unlock()
		return err
	}

	notify := s.afterMove(color, m)
	s.mu.Unlock()

	notify()
	return nil
}

// opponentMove asks the opponent for a move and plays it. The lock is not
// held while the opponent thinks; guard keeps the position fixed meanwhile.
func (s *Session) opponentMove() {
	defer s.wg.Done()

	s.mu.Lock()
	color := s.game.CurrentPlayer()
	s.mu.Unlock()

	m, err := s.opponent.GenMove(color)

	s.mu.Lock()
	s.thinking = false
	if s.closed {
		s.mu.Unlock()
		return
	}

	if err != nil {
		var outcome string
		if errors.Is(err, ErrResign) {
			s.log.Infow("opponent resigned", "color", color)
			outcome = s.finish(resignOutcome(color.Opponent()))
		} else {
			// Undo or Reset reopens the game and asks the opponent again.
			s.log.Errorw("opponent failed to move", "color", color, "error", err)
			outcome = s.finish(failureOutcome(err))
		}
		endCallback := s.endCallback
		s.mu.Unlock()

		if endCallback != nil {
			endCallback(outcome)
		}
		return
	}

	if perr := s.game.Play(m); perr != nil {
		s.log.Warnw("opponent move refused, passing instead",
			"color", color, "move", m, "reason", game.Reason(perr))
		if err := s.opponent.Undo(); err != nil {
			s.log.Errorw("opponent undo failed", "error", err)
		}
		m = game.PassMove()
		if err := s.opponent.Play(color, m); err != nil {
			s.log.Errorw("opponent pass failed", "error", err)
		}
		if err := s.game.Play(m); err != nil {
			s.log.Errorw("pass refused", "error", err)
			s.mu.Unlock()
			return
		}
	}

	notify := s.afterMove(color, m)
	s.mu.Unlock()

	notify()
}

// Undo takes back the last move, or the last move pair against an opponent.
func (s *Session) Undo() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}

	plies := s.undoPlies()
	for i := 0; i < plies; i++ {
		if s.opponent != nil {
			if err := s.opponent.Undo(); err != nil {
				notify := s.rewound()
				s.mu.Unlock()
				notify()
				return fmt.Errorf("opponent undo: %w", err)
			}
		}
		s.game.Undo()
	}
	if plies > 0 {
		s.log.Debugw("undo", "plies", plies, "move", s.game.MoveNumber())
	}

	notify := s.rewound()
	s.mu.Unlock()

	notify()
	return nil
}

// undoPlies returns how many moves Undo takes back so the human is to move
// afterwards.
func (s *Session) undoPlies() int {
	n := s.game.MoveNumber()
	if n == 0 {
		return 0
	}
	if s.opponent == nil {
		return 1
	}
	target := n - 1
	if toMoveAfter(target) != s.cfg.HumanColor() {
		target--
	}
	if target < 0 {
		return 0
	}
	return n - target
}

// toMoveAfter returns the side to move after n moves. Passes are moves, so
// the sides strictly alternate.
func toMoveAfter(n int) game.Color {
	if n%2 == 0 {
		return game.Black
	}
	return game.White
}

// Redo replays undone moves until the human is to move again.
func (s *Session) Redo() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}

	for s.game.CanRedo() {
		color := s.game.CurrentPlayer()
		s.game.Redo()
		m, _ := s.game.LastMove()
		if s.opponent != nil {
			if err := s.opponent.Play(color, m); err != nil {
				s.game.Undo()
				notify := s.rewound()
				s.mu.Unlock()
				notify()
				return fmt.Errorf("opponent refused %s: %w", m, err)
			}
		}
		if s.opponent == nil || s.game.CurrentPlayer() == s.cfg.HumanColor() {
			break
		}
	}

	notify := s.rewound()
	s.mu.Unlock()

	notify()
	return nil
}

// Reset clears the board and forgets every move.
func (s *Session) Reset() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}

	if s.opponent != nil {
		if err := s.opponent.ClearBoard(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("opponent clear_board: %w", err)
		}
	}
	s.game.Reset()
	s.log.Infow("game reset")

	notify := s.rewound()
	s.mu.Unlock()

	notify()
	return nil
}

// IsMyTurn returns true if the human may move now.
func (s *Session) IsMyTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over || s.thinking || s.closed {
		return false
	}
	return s.opponent == nil || s.game.CurrentPlayer() == s.cfg.HumanColor()
}

// GetPlayerColor returns the human player's color. Without an opponent the
// human plays both sides, so it is the side to move.
func (s *Session) GetPlayerColor() int {
	if s.opponent != nil {
		return int(s.cfg.HumanColor())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.game.CurrentPlayer())
}

// OnMove registers a callback for when a move is played.
func (s *Session) OnMove(callback func(x, y, color int, boardState *types.BoardState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (s *Session) OnGameEnd(callback func(outcome string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endCallback = callback
}

// Close stops the opponent, waits for a pending opponent move and closes the
// record.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.opponent != nil {
		if err := s.opponent.Close(); err != nil {
			s.log.Warnw("close opponent", "error", err)
		}
	}
	s.wg.Wait()
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			s.log.Warnw("close record", "error", err)
		}
	}
}

// guard must be called with the lock held.
func (s *Session) guard() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.thinking:
		return ErrThinking
	}
	return nil
}

// stateLocked must be called with the lock held.
func (s *Session) stateLocked() *types.BoardState {
	bs := BoardStateOf(s.game)
	if s.over {
		bs.Phase = types.PhaseFinished
		bs.Outcome = s.outcome
	}
	return bs
}

// afterMove records a committed move and returns the notifications to run
// once the lock is released.
func (s *Session) afterMove(color game.Color, m game.Move) func() {
	s.record()
	x, y := -1, -1
	if !m.Pass {
		x, y = m.X, m.Y
	}
	state := s.stateLocked()
	moveCallback := s.moveCallback
	settled := s.settle()
	return func() {
		if moveCallback != nil {
			moveCallback(x, y, int(color), state)
		}
		settled()
	}
}

// rewound reopens the game after the history moved backwards or was
// replayed, then settles it again.
func (s *Session) rewound() func() {
	wasOver := s.over
	s.over = false
	s.outcome = ""
	s.record()
	if wasOver && s.recorder != nil {
		if err := s.recorder.SetResult(""); err != nil {
			s.log.Warnw("record result", "error", err)
		}
	}
	return s.settle()
}

// settle ends the game if the position is final and starts the opponent if
// it is to move. The returned func runs the end callback and launches the
// opponent goroutine.
func (s *Session) settle() func() {
	ended := false
	var outcome string
	if !s.over {
		switch {
		case s.game.IsWin():
			w, _ := s.game.Winner()
			outcome, ended = s.finish(alignmentOutcome(w)), true
		case s.game.Kind() == game.GoRules && twoPasses(s.game):
			outcome, ended = s.finish(s.finalScore()), true
		}
	}

	launch := s.opponent != nil && !s.over && !s.closed && !s.thinking &&
		s.game.CurrentPlayer() != s.cfg.HumanColor()
	if launch {
		s.thinking = true
		s.wg.Add(1)
	}

	endCallback := s.endCallback
	return func() {
		if ended && endCallback != nil {
			endCallback(outcome)
		}
		if launch {
			go s.opponentMove()
		}
	}
}

// finish marks the game over and records the outcome.
func (s *Session) finish(outcome string) string {
	s.over = true
	s.outcome = outcome
	s.log.Infow("game over", "outcome", outcome, "moves", s.game.MoveNumber())
	if s.recorder != nil {
		if err := s.recorder.SetResult(outcome); err != nil {
			s.log.Warnw("record result", "error", err)
		}
	}
	return outcome
}

func (s *Session) finalScore() string {
	if s.opponent == nil {
		return "Game ended by two passes"
	}
	score, err := s.opponent.FinalScore()
	if err != nil {
		s.log.Warnw("final score", "error", err)
		return "Game ended"
	}
	return score
}

func (s *Session) record() {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SetMoves(s.game.Moves()); err != nil {
		s.log.Warnw("record moves", "error", err)
	}
}
