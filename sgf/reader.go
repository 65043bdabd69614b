package sgf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"goban/game"
)

// ErrSetupUnsupported is returned for records that place stones with AB/AW
// setup properties. Games are replayed move by move through the rules.
var ErrSetupUnsupported = errors.New("setup stones are not supported")

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath    string
	FileName    string
	GameID      string
	Rules       game.Kind
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	MoveCount   int
}

// Finished reports whether the record carries a final result.
func (g *GameInfo) Finished() bool {
	return g.Result != "" && g.Result != "?"
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return parseHeader(string(data), filePath), nil
}

func parseHeader(content, filePath string) *GameInfo {
	props := parseProperties(content)

	boardSize := 19
	if v, ok := props["SZ"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			boardSize = n
		}
	}

	komi := 0.0
	if v, ok := props["KM"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			komi = f
		}
	}

	rules := game.GoRules
	if props["GM"] == strconv.Itoa(gameTypeGomoku) {
		rules = game.FiveInRowRules
	}

	return &GameInfo{
		FilePath:    filePath,
		FileName:    filepath.Base(filePath),
		GameID:      props["GN"],
		Rules:       rules,
		BoardSize:   boardSize,
		Komi:        komi,
		PlayerBlack: unescape(props["PB"]),
		PlayerWhite: unescape(props["PW"]),
		Date:        props["DT"],
		Result:      props["RE"],
		MoveCount:   countMoves(content),
	}
}

// Load reads an SGF file and returns its header and main-line moves.
func Load(filePath string) (*GameInfo, []game.Move, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	content := string(data)
	info := parseHeader(content, filePath)
	moves, err := ParseMoves(content, info.BoardSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", info.FileName, err)
	}
	return info, moves, nil
}

// ParseMoves returns the moves of an SGF game in order. Black must move
// first and the colors must alternate.
func ParseMoves(content string, boardSize int) ([]game.Move, error) {
	if hasSetup(content) {
		return nil, ErrSetupUnsupported
	}

	var moves []game.Move
	for _, node := range parseNodes(content) {
		color, m, ok := parseMoveNode(node, boardSize)
		if !ok {
			continue
		}
		want := game.Black
		if len(moves)%2 == 1 {
			want = game.White
		}
		if color != want {
			return nil, fmt.Errorf("move %d: %s to play, found %s", len(moves)+1, want, color)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Replay plays moves into a new rule engine, so captures, ko and wins follow
// the same rules as a live game.
func Replay(info *GameInfo, moves []game.Move) (*game.Engine, error) {
	if info.BoardSize < 1 || info.BoardSize > 25 {
		return nil, fmt.Errorf("unsupported board size %d", info.BoardSize)
	}
	g := game.New(info.BoardSize, info.Rules)
	for i, m := range moves {
		if err := g.Play(m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return g, nil
}

// ReplayToEnd loads an SGF file and replays all its moves.
func ReplayToEnd(filePath string) (*game.Engine, error) {
	info, moves, err := Load(filePath)
	if err != nil {
		return nil, err
	}
	return Replay(info, moves)
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)

	// Find the root node: starts after "(;"
	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2 // skip "(;"

	// Root node ends at the next ";" or ")" outside a value
	end := skipNode(content, start)
	extractProps(content[start:end], props)
	return props
}

// skipNode returns the index of the first ';' or ')' at or after i that is
// not inside a property value.
func skipNode(content string, i int) int {
	for i < len(content) && content[i] != ';' && content[i] != ')' {
		if content[i] == '[' {
			i = skipValue(content, i+1)
		}
		i++
	}
	return i
}

// skipValue returns the index of the ']' closing a value that starts at i.
func skipValue(content string, i int) int {
	for i < len(content) && content[i] != ']' {
		if content[i] == '\\' && i+1 < len(content) {
			i++ // skip escaped char
		}
		i++
	}
	return i
}

// extractProps parses KEY[value] pairs from a node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		// Skip whitespace
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Read property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		// Read all property values (e.g., AB[aa][bb][cc])
		for i < len(node) && node[i] == '[' {
			valStart := i + 1
			i = skipValue(node, valStart)
			props[key] = node[valStart:i] // last value wins for simple props
			if i < len(node) {
				i++ // skip ']'
			}
		}
	}
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// countMoves counts the number of move nodes (;B[...] or ;W[...]) in the SGF.
func countMoves(content string) int {
	count := 0
	for i := 0; i+2 < len(content); i++ {
		if content[i] != ';' {
			continue
		}
		next := content[i+1]
		if (next == 'B' || next == 'W') && content[i+2] == '[' {
			count++
		}
	}
	return count
}

// hasSetup reports whether any node outside a value carries AB or AW.
func hasSetup(content string) bool {
	for i := 0; i+2 < len(content); i++ {
		switch {
		case content[i] == '[':
			i = skipValue(content, i+1)
		case content[i] == 'A' && (content[i+1] == 'B' || content[i+1] == 'W') && content[i+2] == '[':
			return true
		}
	}
	return false
}

// parseNodes returns all node strings after the root node.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}

	// Skip the root node, then cut the rest at each ';'. Variations are
	// flattened into the main line up to the first ')'.
	i := skipNode(content, start+2)
	for i < len(content) && content[i] == ';' {
		end := skipNode(content, i+1)
		nodes = append(nodes, content[i:end])
		i = end
	}
	return nodes
}

// parseMoveNode extracts the color and move from a node like ";B[pd]".
// "tt" is a pass on boards up to 19x19.
func parseMoveNode(node string, boardSize int) (game.Color, game.Move, bool) {
	node = strings.TrimSpace(node)
	if len(node) < 2 || node[0] != ';' {
		return 0, game.Move{}, false
	}

	var color game.Color
	switch node[1] {
	case 'B':
		color = game.Black
	case 'W':
		color = game.White
	default:
		return 0, game.Move{}, false
	}

	// Find the value in brackets
	bracketStart := strings.Index(node, "[")
	bracketEnd := strings.Index(node, "]")
	if bracketStart != 2 || bracketEnd == -1 || bracketEnd <= bracketStart {
		return 0, game.Move{}, false
	}

	coord := node[bracketStart+1 : bracketEnd]
	if coord == "" || (coord == "tt" && boardSize <= 19) {
		return color, game.PassMove(), true
	}
	if len(coord) != 2 {
		return 0, game.Move{}, false
	}
	return color, game.At(int(coord[0]-'a'), int(coord[1]-'a')), true
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *info)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].FileName > games[j].FileName
	})
	return games, nil
}
