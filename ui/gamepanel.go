package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"goban/engine/gtp"
	"goban/game"
	"goban/types"
)

const recentMoves = 12

// InfoPanel shows the ruleset, counters and recent moves beside the board.
type InfoPanel struct {
	view *tview.TextView
	komi float64
}

func NewInfoPanel() *InfoPanel {
	p := &InfoPanel{view: tview.NewTextView()}
	p.view.SetDynamicColors(true)
	p.view.SetBorder(false)
	p.view.SetTextAlign(tview.AlignLeft)
	return p
}

func (p *InfoPanel) View() *tview.TextView {
	return p.view
}

// SetKomi sets the komi shown for Go games.
func (p *InfoPanel) SetKomi(komi float64) {
	p.komi = komi
}

// SetState redraws the panel for st. moves may be nil.
func (p *InfoPanel) SetState(st *types.BoardState, moves []game.Move) {
	if st == nil || st.Width() == 0 {
		p.view.SetText("")
		return
	}
	p.view.SetText(panelText(st, moves, p.komi))
}

func panelText(st *types.BoardState, moves []game.Move, komi float64) string {
	var b strings.Builder
	goGame := st.Rules == game.GoRules.String()

	b.WriteString("[white::b]Game Info[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	if goGame {
		fmt.Fprintf(&b, "[white]Rules:[-:-:-] Go %dx%d\n", st.Width(), st.Height())
		fmt.Fprintf(&b, "[white]Komi:[-:-:-] %.1f\n", komi)
	} else {
		fmt.Fprintf(&b, "[white]Rules:[-:-:-] Five in a row %dx%d\n", st.Width(), st.Height())
	}
	fmt.Fprintf(&b, "[white]Move:[-:-:-] %d\n", st.MoveNumber)
	if goGame {
		// Prisoners[0] counts black stones taken, so it is White's tally.
		fmt.Fprintf(&b, "[white]Captures:[-:-:-] B %d  W %d\n", st.Prisoners[1], st.Prisoners[0])
		if st.KoPoint != nil {
			fmt.Fprintf(&b, "[white]Ko:[-:-:-] %s\n", gtp.FormatVertex(game.Point{X: st.KoPoint.X, Y: st.KoPoint.Y}, st.Width()))
		}
	}
	if st.Finished() {
		fmt.Fprintf(&b, "[yellow]%s[-]\n", st.Outcome)
	}

	if len(moves) == 0 {
		return b.String()
	}

	b.WriteString("\n[white::b]Moves[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	start := 0
	if len(moves) > recentMoves {
		start = len(moves) - recentMoves
	}
	for i := start; i < len(moves); i++ {
		color := "[white]B[-]"
		if i%2 == 1 {
			color = "[dimgray]W[-]"
		}
		marker := " "
		if i == len(moves)-1 {
			marker = "[white]>[-]"
		}
		fmt.Fprintf(&b, "%s[dimgray]%3d.[-] %s %s\n", marker, i+1, color, moveLabel(moves[i], st.Width()))
	}
	if start > 0 {
		fmt.Fprintf(&b, "[dimgray]  ··· %d earlier[-]\n", start)
	}
	return b.String()
}

func moveLabel(m game.Move, size int) string {
	if m.Pass {
		return "pass"
	}
	return gtp.FormatVertex(game.Point{X: m.X, Y: m.Y}, size)
}

// GameLayout arranges the board, the info panel and the status bar, and
// switches to a board-only focus layout.
type GameLayout struct {
	Flex  *tview.Flex
	board *BoardView
	panel *InfoPanel
	hint  *tview.TextView
}

func NewGameLayout(board *BoardView, hint *tview.TextView) *GameLayout {
	l := &GameLayout{
		Flex:  tview.NewFlex(),
		board: board,
		panel: NewInfoPanel(),
		hint:  hint,
	}
	board.panel = l.panel
	l.normal()
	return l
}

// SetKomi sets the komi shown in the info panel.
func (l *GameLayout) SetKomi(komi float64) {
	l.panel.SetKomi(komi)
}

// ToggleFocus switches between the normal and the focus layout.
func (l *GameLayout) ToggleFocus() {
	l.SetFocus(!l.board.focusMode)
}

func (l *GameLayout) SetFocus(enabled bool) {
	l.board.SetFocusMode(enabled)
	if enabled {
		l.focus()
	} else {
		l.normal()
	}
}

func (l *GameLayout) normal() {
	l.Flex.Clear()

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(l.board.Box, 0, 1, true)
	boardRow.AddItem(l.panel.View(), 28, 0, false)

	l.Flex.SetDirection(tview.FlexRow)
	l.Flex.AddItem(boardRow, 0, 1, true)
	l.Flex.AddItem(l.hint, 3, 0, false)
}

func (l *GameLayout) focus() {
	l.Flex.Clear()

	w, h := 22, 11
	if st := l.board.State(); st.Width() > 0 {
		w = st.Width()*2 + 4
		h = st.Height() + 2
	}

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(l.board.Box, w, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	l.Flex.SetDirection(tview.FlexRow)
	l.Flex.AddItem(nil, 0, 1, false)
	l.Flex.AddItem(centerRow, h, 0, true)
	l.Flex.AddItem(nil, 0, 1, false)
}
