// Package server is the web front end: a JSON API and a websocket feed over
// in-memory game sessions.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/engine"
	"goban/types"
)

// OpponentFactory starts a computer opponent for a new game.
type OpponentFactory func(cfg engine.GameConfig) (engine.Opponent, error)

// RecorderFactory opens a game record for a new game.
type RecorderFactory func(cfg engine.GameConfig) (engine.Recorder, error)

// discarder is implemented by recorders that can delete a record of a game
// that failed to start.
type discarder interface {
	Discard() error
}

// Option configures a Server.
type Option func(*Server)

// WithOpponents lets clients create games against a computer opponent.
func WithOpponents(f OpponentFactory) Option {
	return func(s *Server) {
		s.newOpponent = f
	}
}

// WithRecorders saves every game created through the server.
func WithRecorders(f RecorderFactory) Option {
	return func(s *Server) {
		s.newRecorder = f
	}
}

// Server holds the running games.
type Server struct {
	defaults    engine.GameConfig
	newOpponent OpponentFactory
	newRecorder RecorderFactory
	log         *zap.SugaredLogger

	mu    sync.Mutex
	rooms map[string]*room
}

// room is one game and the websocket clients watching it.
type room struct {
	id      string
	created time.Time
	session *engine.Session
	hub     *hub
}

func (r *room) broadcast(state *types.BoardState) {
	r.hub.broadcast(wsMessage{Type: "state", Payload: mustMarshal(state)})
}

// New returns a server whose games default to defaults.
func New(defaults engine.GameConfig, log *zap.SugaredLogger, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		defaults: defaults,
		log:      log.Named("server"),
		rooms:    make(map[string]*room),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler for the API and the websocket feed.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.Post("/", s.handleCreateGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Delete("/", s.handleDeleteGame)
			r.Post("/moves", s.handlePlay)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
			r.Post("/reset", s.handleReset)
		})
	})

	r.Get("/ws/games/{id}", s.serveWS)
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// closes every game.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	s.log.Infow("listening", "addr", addr)
	var runErr error
	select {
	case <-ctx.Done():
		s.log.Infow("shutting down", "reason", ctx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Warnw("graceful shutdown failed", "error", err)
		server.Close()
	}
	s.Close()
	return runErr
}

// Close ends every game.
func (s *Server) Close() {
	s.mu.Lock()
	rooms := s.rooms
	s.rooms = make(map[string]*room)
	s.mu.Unlock()

	for _, r := range rooms {
		r.hub.close()
		r.session.Close()
	}
}

func (s *Server) createRoom(cfg engine.GameConfig) (*room, error) {
	opts := []engine.Option{engine.WithLogger(s.log)}
	if cfg.Opponent {
		if s.newOpponent == nil {
			return nil, errNoOpponent
		}
		opp, err := s.newOpponent(cfg)
		if err != nil {
			return nil, fmt.Errorf("start opponent: %w", err)
		}
		opts = append(opts, engine.WithOpponent(opp))
	}
	var rec engine.Recorder
	if s.newRecorder != nil {
		var err error
		rec, err = s.newRecorder(cfg)
		if err != nil {
			s.log.Warnw("game will not be recorded", "error", err)
			rec = nil
		} else {
			opts = append(opts, engine.WithRecorder(rec))
		}
	}

	r := &room{
		id:      uuid.NewString(),
		created: time.Now(),
		session: engine.NewSession(cfg, opts...),
		hub:     newHub(),
	}
	r.session.OnMove(func(x, y, color int, state *types.BoardState) {
		r.broadcast(state)
	})
	r.session.OnGameEnd(func(outcome string) {
		r.broadcast(r.session.GetBoardState())
	})
	if err := r.session.Connect(); err != nil {
		r.session.Close()
		if d, ok := rec.(discarder); ok {
			if derr := d.Discard(); derr != nil {
				s.log.Warnw("discard record", "error", derr)
			}
		}
		return nil, err
	}

	s.mu.Lock()
	s.rooms[r.id] = r
	s.mu.Unlock()
	s.log.Infow("game created", "id", r.id, "rules", cfg.Rules, "size", cfg.BoardSize, "opponent", cfg.Opponent)
	return r, nil
}

func (s *Server) room(id string) (*room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *Server) removeRoom(id string) bool {
	s.mu.Lock()
	r, ok := s.rooms[id]
	delete(s.rooms, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	r.hub.close()
	r.session.Close()
	s.log.Infow("game closed", "id", id)
	return true
}

type gameSummary struct {
	ID         string `json:"id"`
	Rules      string `json:"rules"`
	BoardSize  int    `json:"board_size"`
	MoveNumber int    `json:"move_number"`
	Phase      string `json:"phase"`
	Watchers   int    `json:"watchers"`
	created    time.Time
}

func (s *Server) summaries() []gameSummary {
	s.mu.Lock()
	rooms := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := make([]gameSummary, 0, len(rooms))
	for _, r := range rooms {
		st := r.session.GetBoardState()
		out = append(out, gameSummary{
			ID:         r.id,
			Rules:      st.Rules,
			BoardSize:  st.Width(),
			MoveNumber: st.MoveNumber,
			Phase:      st.Phase,
			Watchers:   r.hub.count(),
			created:    r.created,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].created.Before(out[j].created) })
	return out
}

// requestLogger logs each request through zap.
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debugw("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
