package sgf

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"goban/game"
)

const testSGF = `(;GM[1]FF[4]CA[UTF-8]AP[goban:1.0]GN[abc]SZ[9]KM[6.5]PB[Player]PW[GnuGo Level 5]DT[2026-01-15]RE[B+3.5]
;B[ee];W[cc];B[gg];W[cg];B[gc])`

func writeTempSGF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp sgf: %v", err)
	}
	return path
}

func TestParseHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSGF(t, dir, "test.sgf", testSGF)

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if info.BoardSize != 9 {
		t.Errorf("BoardSize = %d, want 9", info.BoardSize)
	}
	if info.Komi != 6.5 {
		t.Errorf("Komi = %f, want 6.5", info.Komi)
	}
	if info.Rules != game.GoRules {
		t.Errorf("Rules = %v, want go", info.Rules)
	}
	if info.GameID != "abc" {
		t.Errorf("GameID = %q, want abc", info.GameID)
	}
	if info.PlayerBlack != "Player" {
		t.Errorf("PlayerBlack = %q, want %q", info.PlayerBlack, "Player")
	}
	if info.PlayerWhite != "GnuGo Level 5" {
		t.Errorf("PlayerWhite = %q, want %q", info.PlayerWhite, "GnuGo Level 5")
	}
	if info.Date != "2026-01-15" {
		t.Errorf("Date = %q, want %q", info.Date, "2026-01-15")
	}
	if info.Result != "B+3.5" || !info.Finished() {
		t.Errorf("Result = %q, want %q", info.Result, "B+3.5")
	}
	if info.MoveCount != 5 {
		t.Errorf("MoveCount = %d, want 5", info.MoveCount)
	}
}

func TestParseHeaderMissingFile(t *testing.T) {
	_, err := ParseHeader("/nonexistent/file.sgf")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves(`(;GM[1]SZ[19]C[a ;B[zz] in a comment];B[pd];W[];B[tt];W[dp])`, 19)
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	want := []game.Move{game.At(15, 3), game.PassMove(), game.PassMove(), game.At(3, 15)}
	if !reflect.DeepEqual(moves, want) {
		t.Errorf("moves = %v, want %v", moves, want)
	}
}

func TestParseMovesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"white first", `(;SZ[9];W[aa])`},
		{"black twice", `(;SZ[9];B[aa];B[bb])`},
		{"setup stones", `(;SZ[9]AB[aa][bb];W[cc])`},
	}
	for _, tt := range tests {
		if _, err := ParseMoves(tt.content, 9); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
	if _, err := ParseMoves(`(;SZ[9]AW[aa])`, 9); !errors.Is(err, ErrSetupUnsupported) {
		t.Errorf("err = %v, want ErrSetupUnsupported", err)
	}
}

func TestReplayToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSGF(t, dir, "test.sgf", testSGF)

	g, err := ReplayToEnd(path)
	if err != nil {
		t.Fatalf("ReplayToEnd: %v", err)
	}
	if g.MoveNumber() != 5 {
		t.Errorf("MoveNumber = %d, want 5", g.MoveNumber())
	}

	// B[ee] = (4,4), W[cc] = (2,2), B[gg] = (6,6), W[cg] = (2,6), B[gc] = (6,2)
	board := g.CurrentBoard()
	checks := []struct {
		x, y int
		cell game.Cell
	}{
		{4, 4, game.CellBlack},
		{2, 2, game.CellWhite},
		{6, 6, game.CellBlack},
		{2, 6, game.CellWhite},
		{6, 2, game.CellBlack},
	}
	for _, c := range checks {
		if got := board.At(c.x, c.y); got != c.cell {
			t.Errorf("At(%d, %d) = %v, want %v", c.x, c.y, got, c.cell)
		}
	}
}

func TestReplayWithCaptures(t *testing.T) {
	// Black surrounds a white stone at (1,0) on the top edge.
	sgf := `(;GM[1]FF[4]SZ[9]KM[6.5]PB[B]PW[W]DT[2026-01-01]RE[?]
;B[aa];W[ba];B[ca];W[ee];B[bb])`

	dir := t.TempDir()
	path := writeTempSGF(t, dir, "capture.sgf", sgf)

	g, err := ReplayToEnd(path)
	if err != nil {
		t.Fatalf("ReplayToEnd: %v", err)
	}
	board := g.CurrentBoard()
	if board.At(1, 0) != game.CellEmpty {
		t.Errorf("white at (1,0) should be captured")
	}
	if board.At(4, 4) != game.CellWhite {
		t.Errorf("white at (4,4) should remain")
	}
	if got := g.Current().Prisoners(game.White); got != 1 {
		t.Errorf("white prisoners = %d, want 1", got)
	}
}

func TestReplayGroupCapture(t *testing.T) {
	// White pair at (1,0),(2,0) captured by black at (0,0),(3,0),(1,1),(2,1).
	sgf := `(;GM[1]SZ[9];B[aa];W[ba];B[da];W[ca];B[bb];W[ii];B[cb])`
	g, err := Replay(&GameInfo{BoardSize: 9, Rules: game.GoRules}, mustParse(t, sgf, 9))
	if err != nil {
		t.Fatal(err)
	}
	board := g.CurrentBoard()
	if board.At(1, 0) != game.CellEmpty || board.At(2, 0) != game.CellEmpty {
		t.Error("white pair should be captured")
	}
}

func TestReplayIllegalMove(t *testing.T) {
	moves := mustParse(t, `(;SZ[9];B[aa];W[aa])`, 9)
	_, err := Replay(&GameInfo{BoardSize: 9, Rules: game.GoRules}, moves)
	if !errors.Is(err, game.ErrOccupied) {
		t.Errorf("err = %v, want occupied", err)
	}
}

func TestReplayFiveInRow(t *testing.T) {
	path := writeTempSGF(t, t.TempDir(), "five.sgf",
		`(;GM[4]SZ[15];B[aa];W[ab];B[ba];W[bb];B[ca];W[cb];B[da];W[db];B[ea])`)
	g, err := ReplayToEnd(path)
	if err != nil {
		t.Fatalf("ReplayToEnd: %v", err)
	}
	if w, ok := g.Winner(); !ok || w != game.Black {
		t.Errorf("Winner = %v, %v, want Black", w, ok)
	}
}

func mustParse(t *testing.T, content string, size int) []game.Move {
	t.Helper()
	moves, err := ParseMoves(content, size)
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	return moves
}

func TestListGames(t *testing.T) {
	dir := t.TempDir()

	// Create a few SGF files with timestamp-like names
	writeTempSGF(t, dir, "2026-01-10_100000_go_9x9.sgf", `(;GM[1]FF[4]SZ[9]KM[6.5]PB[P]PW[E]DT[2026-01-10]RE[?])`)
	writeTempSGF(t, dir, "2026-01-12_100000_go_13x13.sgf", `(;GM[1]FF[4]SZ[13]KM[7.5]PB[P]PW[E]DT[2026-01-12]RE[W+R])`)
	writeTempSGF(t, dir, "2026-01-11_100000_gomoku_15x15.sgf", `(;GM[4]FF[4]SZ[15]PB[P]PW[E]DT[2026-01-11]RE[B+?])`)

	// Also create a non-sgf file to ensure it's skipped
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an sgf"), 0644)

	games, err := ListGames(dir)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}

	if len(games) != 3 {
		t.Fatalf("len(games) = %d, want 3", len(games))
	}

	// Should be newest-first
	for i, want := range []string{"2026-01-12", "2026-01-11", "2026-01-10"} {
		if games[i].Date != want {
			t.Errorf("games[%d].Date = %q, want %s", i, games[i].Date, want)
		}
	}
	if games[1].Rules != game.FiveInRowRules {
		t.Errorf("games[1].Rules = %v, want gomoku", games[1].Rules)
	}
	if games[2].Finished() {
		t.Error("games[2] has no result and should not be finished")
	}
}

func TestListGamesEmptyDir(t *testing.T) {
	dir := t.TempDir()
	games, err := ListGames(dir)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("len(games) = %d, want 0", len(games))
	}
}

func TestListGamesNonexistentDir(t *testing.T) {
	games, err := ListGames("/nonexistent/dir")
	if err != nil {
		t.Fatalf("ListGames should not error for nonexistent dir: %v", err)
	}
	if games != nil {
		t.Errorf("games should be nil for nonexistent dir")
	}
}

func TestWriterThenReader(t *testing.T) {
	dir := t.TempDir()

	rec, err := NewGameRecord(dir, goHeader(9), nil)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	played := []game.Move{game.At(4, 4), game.At(2, 2), game.At(6, 6), game.PassMove()}
	rec.SetMoves(played)
	rec.SetResult("Black wins by 12.5 points")
	rec.Close()

	info, moves, err := Load(rec.FilePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.BoardSize != 9 || info.GameID != rec.GameID {
		t.Errorf("BoardSize = %d GameID = %q", info.BoardSize, info.GameID)
	}
	if info.Result != "B+12.5" {
		t.Errorf("Result = %q, want B+12.5", info.Result)
	}
	if !reflect.DeepEqual(moves, played) {
		t.Errorf("moves = %v, want %v", moves, played)
	}

	g, err := Replay(info, moves)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if g.CurrentBoard().At(6, 6) != game.CellBlack || g.CurrentPlayer() != game.Black {
		t.Error("replayed position does not match the record")
	}
}
