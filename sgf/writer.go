// Package sgf implements SGF FF[4] writing and reading for game records.
package sgf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/game"
)

// SGF game types.
const (
	gameTypeGo     = 1
	gameTypeGomoku = 4
)

// Header holds the root-node properties of a new record.
type Header struct {
	Rules       game.Kind
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
}

// GameRecord tracks a game in progress and writes it as SGF. The file is
// rewritten from the full move list on every change, so it always holds the
// moves up to the current position.
type GameRecord struct {
	FilePath    string
	GameID      string
	Rules       game.Kind
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	moves       []game.Move
	file        *os.File
	log         *zap.SugaredLogger
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
func NewGameRecord(dir string, h Header, log *zap.SugaredLogger) (*GameRecord, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	now := time.Now()
	id := uuid.NewString()
	// The id prefix keeps games started in the same second apart.
	filename := fmt.Sprintf("%s_%s_%s_%dx%d.sgf", now.Format("2006-01-02_150405"), id[:8], h.Rules, h.BoardSize, h.BoardSize)
	path := filepath.Join(dir, filename)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	rec := &GameRecord{
		FilePath:    path,
		GameID:      id,
		Rules:       h.Rules,
		BoardSize:   h.BoardSize,
		Komi:        h.Komi,
		PlayerBlack: h.PlayerBlack,
		PlayerWhite: h.PlayerWhite,
		Date:        now.Format("2006-01-02"),
		Result:      "?",
		file:        f,
		log:         log.Named("sgf"),
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	rec.log.Infow("recording game", "path", path, "id", rec.GameID)
	return rec, nil
}

// sgfCoord converts 0-indexed board coordinates to SGF letter pair.
// (0,0) -> "aa", (3,4) -> "de", (18,18) -> "ss".
func sgfCoord(x, y int) string {
	return string(rune('a'+x)) + string(rune('a'+y))
}

// SetMoves replaces the recorded moves. Black plays the first move and the
// colors alternate.
func (r *GameRecord) SetMoves(moves []game.Move) error {
	r.moves = append(r.moves[:0], moves...)
	return r.flush()
}

// Moves returns the recorded moves.
func (r *GameRecord) Moves() []game.Move {
	return append([]game.Move(nil), r.moves...)
}

// SetResult parses a game outcome string and sets the SGF RE property.
// Accepts GnuGo output like "White wins by 5.5 points" or "Black wins by resign"
// as well as already-formatted SGF like "W+5.5", "B+R". An empty outcome
// marks the game as unfinished.
func (r *GameRecord) SetResult(outcome string) error {
	r.Result = parseResult(outcome)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	return err
}

// Discard closes the record and deletes its file, for games that never
// started.
func (r *GameRecord) Discard() error {
	if err := r.Close(); err != nil {
		r.log.Warnw("close discarded record", "path", r.FilePath, "error", err)
	}
	if err := os.Remove(r.FilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	r.log.Debugw("record discarded", "path", r.FilePath)
	return nil
}

// String returns the record in SGF form.
func (r *GameRecord) String() string {
	var b strings.Builder

	gm := gameTypeGo
	if r.Rules == game.FiveInRowRules {
		gm = gameTypeGomoku
	}

	// Root node
	fmt.Fprintf(&b, "(;GM[%d]FF[4]CA[UTF-8]", gm)
	b.WriteString("AP[goban:1.0]")
	fmt.Fprintf(&b, "GN[%s]", r.GameID)
	fmt.Fprintf(&b, "SZ[%d]", r.BoardSize)
	if r.Rules == game.GoRules {
		fmt.Fprintf(&b, "KM[%.1f]", r.Komi)
	}
	fmt.Fprintf(&b, "PB[%s]", escape(r.PlayerBlack))
	fmt.Fprintf(&b, "PW[%s]", escape(r.PlayerWhite))
	fmt.Fprintf(&b, "DT[%s]", r.Date)
	fmt.Fprintf(&b, "RE[%s]", r.Result)
	b.WriteString("\n")

	// Move nodes
	for i, m := range r.moves {
		color := "B"
		if i%2 == 1 {
			color = "W"
		}
		if m.Pass {
			fmt.Fprintf(&b, ";%s[]", color)
		} else {
			fmt.Fprintf(&b, ";%s[%s]", color, sgfCoord(m.X, m.Y))
		}
	}

	b.WriteString(")\n")
	return b.String()
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(r.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

// escape protects the characters SGF text values reserve.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `]`, `\]`).Replace(s)
}

// parseResult converts various outcome formats to SGF RE[] value.
func parseResult(outcome string) string {
	o := strings.TrimSpace(outcome)

	// Already in SGF format
	if isValidSGFResult(o) {
		return o
	}

	low := strings.ToLower(o)

	// "White wins by 5.5 points" / "Black wins by 5.5 points"
	// "White wins by resign" / "Black wins by resignation"
	var winner string
	switch {
	case strings.HasPrefix(low, "white wins"):
		winner = "W"
	case strings.HasPrefix(low, "black wins"):
		winner = "B"
	default:
		return "?"
	}

	byIdx := strings.Index(low, " by ")
	if byIdx == -1 {
		return winner + "+?"
	}
	rest := strings.TrimSpace(low[byIdx+4:])

	switch {
	case strings.HasPrefix(rest, "resign"):
		return winner + "+R"
	case strings.HasPrefix(rest, "time"):
		return winner + "+T"
	case strings.HasPrefix(rest, "forfeit"):
		return winner + "+F"
	}

	// "5.5 points" or "5.5"
	if parts := strings.Fields(rest); len(parts) > 0 && isScore(parts[0]) {
		return winner + "+" + parts[0]
	}
	return winner + "+?"
}

// isValidSGFResult checks if a string is already a valid SGF result.
func isValidSGFResult(s string) bool {
	if s == "?" || s == "Jigo" || s == "Void" || s == "0" {
		return true
	}
	if len(s) < 3 {
		return false
	}
	if (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	rest := s[2:]
	if rest == "R" || rest == "T" || rest == "F" || rest == "?" {
		return true
	}
	return isScore(rest)
}

// isScore reports whether s is a non-negative decimal like "5" or "6.5".
func isScore(s string) bool {
	dotSeen := false
	for _, ch := range s {
		if ch == '.' {
			if dotSeen {
				return false
			}
			dotSeen = true
		} else if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(s) > 0
}
