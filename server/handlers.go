package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"goban/engine"
	"goban/game"
)

const maxBoardSize = 25

var (
	errNotFound   = errors.New("game not found")
	errNoOpponent = errors.New("no computer opponent available")
)

// badRequest marks client errors that are not about the game itself.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string {
	return e.msg
}

type createRequest struct {
	Rules       string   `json:"rules"`
	BoardSize   int      `json:"board_size"`
	Komi        *float64 `json:"komi"`
	PlayerColor string   `json:"player_color"`
	Opponent    bool     `json:"opponent"`
	Level       int      `json:"level"`
}

// config fills the request over the server defaults.
func (req createRequest) config(defaults engine.GameConfig) (engine.GameConfig, error) {
	cfg := defaults
	cfg.LoadSGFPath = ""
	if req.Rules != "" {
		k, err := game.ParseKind(req.Rules)
		if err != nil {
			return cfg, &badRequest{err.Error()}
		}
		cfg.Rules = k
	}
	if req.BoardSize != 0 {
		cfg.BoardSize = req.BoardSize
	}
	if cfg.BoardSize < 1 || cfg.BoardSize > maxBoardSize {
		return cfg, &badRequest{fmt.Sprintf("board size must be between 1 and %d", maxBoardSize)}
	}
	if req.Komi != nil {
		cfg.Komi = *req.Komi
	}
	switch strings.ToLower(req.PlayerColor) {
	case "":
	case "black", "b":
		cfg.PlayerColor = int(game.Black)
	case "white", "w":
		cfg.PlayerColor = int(game.White)
	default:
		return cfg, &badRequest{fmt.Sprintf("unknown color %q", req.PlayerColor)}
	}
	cfg.Opponent = req.Opponent
	if cfg.Opponent && cfg.Rules != game.GoRules {
		return cfg, &badRequest{"the computer opponent only plays go"}
	}
	if req.Level != 0 {
		if req.Level < 1 || req.Level > 10 {
			return cfg, &badRequest{"level must be between 1 and 10"}
		}
		cfg.EngineLevel = req.Level
	}
	return cfg, nil
}

type moveRequest struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Pass bool `json:"pass"`
}

type gameResponse struct {
	ID    string `json:"id"`
	State any    `json:"state"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summaries())
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, &badRequest{"invalid payload"})
			return
		}
	}
	cfg, err := req.config(s.defaults)
	if err != nil {
		s.writeError(w, err)
		return
	}
	room, err := s.createRoom(cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameResponse{ID: room.id, State: room.session.GetBoardState()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	room, ok := s.room(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{ID: room.id, State: room.session.GetBoardState()})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if !s.removeRoom(chi.URLParam(r, "id")) {
		s.writeError(w, errNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &badRequest{"invalid payload"})
		return
	}
	s.act(w, r, func(room *room) error {
		if req.Pass {
			return room.session.Pass()
		}
		return room.session.PlayMove(req.X, req.Y)
	}, false)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(room *room) error { return room.session.Undo() }, true)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(room *room) error { return room.session.Redo() }, true)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(room *room) error { return room.session.Reset() }, true)
}

// act runs fn on the game named in the URL and answers with the new state.
// Moves reach watchers through the session callback; history changes have
// no callback, so they are broadcast here.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func(*room) error, broadcast bool) {
	room, ok := s.room(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, errNotFound)
		return
	}
	if err := fn(room); err != nil {
		s.writeError(w, err)
		return
	}
	state := room.session.GetBoardState()
	if broadcast {
		room.broadcast(state)
	}
	writeJSON(w, http.StatusOK, gameResponse{ID: room.id, State: state})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsCommand struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Pass bool `json:"pass"`
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	room, ok := s.room(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, errNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debugw("websocket upgrade failed", "error", err)
		return
	}
	c := &client{send: make(chan []byte, 16)}
	if !room.hub.register(c) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"))
		conn.Close()
		return
	}
	room.hub.send(c, wsMessage{Type: "state", Payload: mustMarshal(room.session.GetBoardState())})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, c.send); err != nil {
			s.log.Debugw("websocket write failed", "game", room.id, "error", err)
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			room.hub.unregister(c)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		s.dispatch(room, c, msg)
	}
}

// dispatch runs one websocket command. Errors go back to the sender only.
func (s *Server) dispatch(room *room, c *client, msg wsMessage) {
	var err error
	rewind := false
	switch msg.Type {
	case "place":
		var cmd wsCommand
		if err = json.Unmarshal(msg.Payload, &cmd); err != nil {
			err = &badRequest{"invalid payload"}
			break
		}
		if cmd.Pass {
			err = room.session.Pass()
		} else {
			err = room.session.PlayMove(cmd.X, cmd.Y)
		}
	case "pass":
		err = room.session.Pass()
	case "undo":
		err, rewind = room.session.Undo(), true
	case "redo":
		err, rewind = room.session.Redo(), true
	case "reset":
		err, rewind = room.session.Reset(), true
	case "request_state":
		room.hub.send(c, wsMessage{Type: "state", Payload: mustMarshal(room.session.GetBoardState())})
		return
	case "ping", "pong":
		return
	default:
		err = &badRequest{fmt.Sprintf("unknown message type %q", msg.Type)}
	}

	if err != nil {
		_, body := s.errorFor(err)
		room.hub.send(c, wsMessage{Type: "error", Payload: mustMarshal(body)})
		return
	}
	if rewind {
		room.broadcast(room.session.GetBoardState())
	}
}

// errorFor maps an error to its HTTP status and response body.
func (s *Server) errorFor(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}
	var br *badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, body
	case errors.Is(err, errNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, engine.ErrClosed):
		return http.StatusGone, body
	case game.Reason(err) != nil:
		body.Error = "illegal move"
		body.Reason = game.Reason(err).Error()
		return http.StatusConflict, body
	case errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrThinking):
		return http.StatusConflict, body
	case errors.Is(err, errNoOpponent):
		return http.StatusServiceUnavailable, body
	}
	s.log.Errorw("request failed", "error", err)
	return http.StatusInternalServerError, body
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := s.errorFor(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
