// Package ui is the terminal front end: a board widget, a game info panel and
// the screens around them.
package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban/config"
	"goban/engine"
	"goban/game"
	"goban/types"
)

// BoardView draws a game and turns key presses into engine calls.
type BoardView struct {
	Box   *tview.Box
	state *types.BoardState
	hint  *tview.TextView
	panel *InfoPanel
	app   *tview.Application
	eng   engine.GameEngine
	draw  renderer

	selX, selY int
	focusMode  bool
	notice     string
}

func NewBoardView(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardView {
	b := &BoardView{
		Box:   tview.NewBox(),
		state: &types.BoardState{},
		hint:  hint,
		app:   app,
		selX:  -1,
		selY:  -1,
	}
	b.SetConfig(c)
	b.Box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		if b.state.Width() == 0 {
			return x, y, 1, 1
		}
		w, h := b.draw.board(screen, x, y, b.state, b.SelectedTile())
		return x, y, w, h
	})
	return b
}

func (b *BoardView) SetConfig(c *config.Config) {
	b.draw = newRenderer(c.Theme)
}

// State returns the last state the view drew.
func (b *BoardView) State() *types.BoardState {
	return b.state
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (b *BoardView) ToggleFocusMode() bool {
	b.SetFocusMode(!b.focusMode)
	return b.focusMode
}

func (b *BoardView) SetFocusMode(enabled bool) {
	b.focusMode = enabled
	b.refreshHint()
}

func (b *BoardView) SelectedTile() *types.BoardPos {
	if b.selX == -1 && b.selY == -1 {
		return nil
	}
	return &types.BoardPos{X: b.selX, Y: b.selY}
}

// MoveSelection moves the cursor. The first press places it on the last move,
// or the center of an empty board.
func (b *BoardView) MoveSelection(dx, dy int) {
	if b.state.Finished() {
		b.ResetSelection()
		return
	}
	if b.SelectedTile() == nil {
		b.selX, b.selY = b.state.LastMove.X, b.state.LastMove.Y
		if b.SelectedTile() == nil {
			b.selX = b.state.Width() / 2
			b.selY = b.state.Height() / 2
		}
		return
	}
	nx, ny := b.selX+dx, b.selY+dy
	if nx < 0 || nx >= b.state.Width() || ny < 0 || ny >= b.state.Height() {
		return
	}
	b.selX, b.selY = nx, ny
}

func (b *BoardView) ResetSelection() {
	b.selX = -1
	b.selY = -1
}

// Connect starts e and follows its moves.
func (b *BoardView) Connect(e engine.GameEngine) error {
	b.eng = e
	b.notice = ""
	b.ResetSelection()

	// Callbacks arrive from the opponent goroutine as well as from key
	// handlers running on the event loop, so redraws are always queued.
	e.OnMove(func(x, y, color int, _ *types.BoardState) {
		if x == -1 && y == -1 && color != e.GetPlayerColor() {
			go b.app.QueueUpdateDraw(func() { b.setNotice(fmt.Sprintf("%s passed", colorLabel(color))) })
		}
		go b.app.QueueUpdateDraw(b.Sync)
	})
	e.OnGameEnd(func(outcome string) {
		go b.app.QueueUpdateDraw(func() {
			b.ResetSelection()
			b.Sync()
		})
	})

	if err := e.Connect(); err != nil {
		b.eng = nil
		return err
	}
	b.Sync()
	return nil
}

// Sync redraws from the engine's current state.
func (b *BoardView) Sync() {
	if b.eng == nil {
		return
	}
	b.state = b.eng.GetBoardState()
	b.refreshHint()
}

// HandleKey plays, passes and walks history. It returns nil for keys it
// consumed.
func (b *BoardView) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if b.eng == nil {
		return event
	}
	switch event.Key() {
	case tcell.KeyUp:
		b.MoveSelection(0, -1)
	case tcell.KeyDown:
		b.MoveSelection(0, 1)
	case tcell.KeyLeft:
		b.MoveSelection(-1, 0)
	case tcell.KeyRight:
		b.MoveSelection(1, 0)
	case tcell.KeyEnter:
		if sel := b.SelectedTile(); sel != nil {
			b.act(func() error { return b.eng.PlayMove(sel.X, sel.Y) })
		}
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			b.MoveSelection(-1, 0)
		case 'j':
			b.MoveSelection(0, 1)
		case 'k':
			b.MoveSelection(0, -1)
		case 'l':
			b.MoveSelection(1, 0)
		case 'p':
			b.act(b.eng.Pass)
		case 'u':
			b.act(b.eng.Undo)
		case 'r':
			b.act(b.eng.Redo)
		case 'x':
			b.act(b.eng.Reset)
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

// act runs an engine call and shows why it was refused, if it was.
func (b *BoardView) act(fn func() error) {
	if err := fn(); err != nil {
		b.setNotice(refusal(err))
		return
	}
	b.notice = ""
	b.Sync()
}

func (b *BoardView) setNotice(s string) {
	b.notice = s
	b.refreshHint()
}

// Close disconnects the engine.
func (b *BoardView) Close() {
	if b.eng == nil {
		return
	}
	b.eng.Close()
	b.eng = nil
}

// refusal turns an engine error into a line for the status bar.
func refusal(err error) string {
	if reason := game.Reason(err); reason != nil {
		return "Illegal move: " + reason.Error()
	}
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, engine.ErrThinking):
		return "Opponent is thinking"
	case errors.Is(err, engine.ErrGameOver):
		return "The game is over"
	}
	return err.Error()
}

func colorLabel(color int) string {
	if color == int(game.White) {
		return "White"
	}
	return "Black"
}

func (b *BoardView) refreshHint() {
	if b.panel != nil {
		var moves []game.Move
		if h, ok := b.eng.(interface{ Moves() []game.Move }); ok {
			moves = h.Moves()
		}
		b.panel.SetState(b.state, moves)
	}

	if b.focusMode {
		b.hint.SetText("  f to toggle")
		return
	}

	var status, turn, controls string
	if b.notice != "" {
		status = "  ! " + b.notice + "\n"
	}

	if b.state.Finished() {
		turn = fmt.Sprintf("  Result: %s\n", b.state.Outcome)
		controls = "  u undo   x new board   q menu"
	} else {
		switch {
		case b.eng != nil && b.eng.IsMyTurn():
			stone := "●"
			if b.state.PlayerToMove == int(game.White) {
				stone = "○"
			}
			turn = fmt.Sprintf("  %s %s to play\n", stone, colorLabel(b.state.PlayerToMove))
		case b.eng != nil:
			turn = "  ◌ Thinking...\n"
		}
		controls = "  hjkl/↑↓←→ move  ⏎ play  p pass  u undo  r redo  x reset  f focus  q quit"
	}
	b.hint.SetText(status + turn + controls)
}

// renderer draws boards with a theme. The game view and the theme preview
// share it.
type renderer struct {
	theme  config.Theme
	styles []tcell.Color
}

// Indexes into renderer.styles.
const (
	styleBoard = iota
	styleBlack
	styleWhite
	styleBoardAlt
	styleBlackAlt
	styleWhiteAlt
	styleCursorFG
	styleLastPlayed
	styleCursorBG
	styleLine
	styleKo
)

func newRenderer(t config.Theme) renderer {
	c := t.Colors
	return renderer{
		theme: t,
		styles: []tcell.Color{
			styleBoard:      tcell.PaletteColor(c.BoardColor),
			styleBlack:      tcell.PaletteColor(c.BlackColor),
			styleWhite:      tcell.PaletteColor(c.WhiteColor),
			styleBoardAlt:   tcell.PaletteColor(c.BoardColorAlt),
			styleBlackAlt:   tcell.PaletteColor(c.BlackColorAlt),
			styleWhiteAlt:   tcell.PaletteColor(c.WhiteColorAlt),
			styleCursorFG:   tcell.PaletteColor(c.CursorColorFG),
			styleLastPlayed: tcell.PaletteColor(c.LastPlayedColorBG),
			styleCursorBG:   tcell.PaletteColor(c.CursorColorBG),
			styleLine:       tcell.PaletteColor(c.LineColor),
			styleKo:         tcell.PaletteColor(c.KoColorBG),
		},
	}
}

// board draws st with its top-left corner at x, y and returns the size used,
// coordinates included. Cells are two columns wide.
func (r renderer) board(screen tcell.Screen, x, y int, st *types.BoardState, cursor *types.BoardPos) (int, int) {
	size := st.Width()
	stars := starPoints(size)
	left := x + 4

	for by := 0; by < st.Height(); by++ {
		for bx := 0; bx < size; bx++ {
			stone := st.Board[by][bx]

			bg := styleBoard
			if r.theme.DrawStoneBackground {
				bg = stone
			}
			if (bx%2 + by%2) == 1 {
				bg += styleBoardAlt
			}

			fg := r.styles[styleLine]
			var ch rune
			switch stone {
			case int(game.Black):
				ch = r.theme.Symbols.BlackStone
				fg = r.styles[styleBlack]
			case int(game.White):
				ch = r.theme.Symbols.WhiteStone
				fg = r.styles[styleWhite]
			default:
				if r.theme.UseGridLines {
					ch = gridRune(bx, by, size, st.Height(), stars[[2]int{bx, by}])
				} else {
					ch = r.theme.Symbols.BoardSquare
				}
			}

			switch {
			case cursor != nil && bx == cursor.X && by == cursor.Y:
				if r.theme.DrawCursorBackground {
					bg = styleCursorBG
				} else if !r.theme.UseGridLines {
					ch = r.theme.Symbols.Cursor
				}
			case !st.LastPass && bx == st.LastMove.X && by == st.LastMove.Y:
				if r.theme.DrawLastPlayedBackground {
					bg = styleLastPlayed
				} else if !r.theme.UseGridLines {
					ch = r.theme.Symbols.LastPlayed
				}
			case st.KoPoint != nil && bx == st.KoPoint.X && by == st.KoPoint.Y:
				bg = styleKo
			}

			style := tcell.StyleDefault.Background(r.styles[bg]).Foreground(fg)
			screen.SetContent(left+bx*2, y+by, ch, nil, style)

			connector := ' '
			if stone == 0 && r.theme.UseGridLines && bx < size-1 && st.Board[by][bx+1] == 0 {
				connector = '─'
			}
			screen.SetContent(left+bx*2+1, y+by, connector, nil, style)
		}
	}
	r.coordinates(screen, x, y, st, cursor)
	return size*2 + 4, st.Height() + 2
}

func (r renderer) coordinates(screen tcell.Screen, x, y int, st *types.BoardState, cursor *types.BoardPos) {
	w, h := st.Width(), st.Height()
	plain := tcell.StyleDefault
	selected := tcell.StyleDefault.Background(r.styles[styleCursorBG])
	last := tcell.StyleDefault.Background(r.styles[styleLastPlayed])

	pick := func(onCursor, onLast bool) tcell.Style {
		switch {
		case onCursor:
			return selected
		case onLast && !st.LastPass:
			return last
		}
		return plain
	}

	for ix := 0; ix < w; ix++ {
		style := pick(cursor != nil && ix == cursor.X, ix == st.LastMove.X)
		screen.SetContent(x+4+ix*2, y+h+1, columnLabel(ix, r.theme.FullWidthLetters), nil, style)
		screen.SetContent(x+4+ix*2+1, y+h+1, ' ', nil, style)
	}

	for iy := 0; iy < h; iy++ {
		style := pick(cursor != nil && iy == cursor.Y, iy == st.LastMove.Y)
		label := fmt.Sprintf("%2d", h-iy)
		screen.SetContent(x+1, y+iy, rune(label[0]), nil, style)
		screen.SetContent(x+2, y+iy, rune(label[1]), nil, style)
	}
}

// columnLabel returns the letter for column x. I is skipped, as on a real
// board.
func columnLabel(x int, fullWidth bool) rune {
	base := 'A'
	if fullWidth {
		base = 'Ａ'
	}
	if x >= 8 {
		x++
	}
	return base + rune(x)
}

// gridRune returns the box-drawing character for an empty intersection.
func gridRune(x, y, width, height int, star bool) rune {
	if star {
		return '◦'
	}

	top, bottom := y == 0, y == height-1
	left, right := x == 0, x == width-1

	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top:
		return '┬'
	case bottom:
		return '┴'
	case left:
		return '├'
	case right:
		return '┤'
	default:
		return '┼'
	}
}

// starPoints returns the marked points of a board: corners on the third line
// (fourth from 13x13 up), the center of odd boards and the side points of odd
// boards from 15x15 up.
func starPoints(size int) map[[2]int]bool {
	stars := make(map[[2]int]bool)
	if size < 7 {
		return stars
	}
	edge := 2
	if size >= 13 {
		edge = 3
	}
	far := size - 1 - edge
	mid := size / 2
	for _, p := range [][2]int{{edge, edge}, {edge, far}, {far, edge}, {far, far}} {
		stars[p] = true
	}
	if size%2 == 1 {
		stars[[2]int{mid, mid}] = true
		if size >= 15 {
			for _, p := range [][2]int{{edge, mid}, {far, mid}, {mid, edge}, {mid, far}} {
				stars[p] = true
			}
		}
	}
	return stars
}
