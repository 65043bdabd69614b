package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban/game"
	"goban/sgf"
)

// HistoryBrowser lists saved games with a preview of their final position.
// Enter resumes the selected game.
type HistoryBrowser struct {
	flex     *tview.Flex
	list     *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	games    []sgf.GameInfo
	boards   map[string]*game.Engine
	failed   map[string]error
	selected int
	onResume func(sgf.GameInfo)
	onDone   func()
}

func NewHistoryBrowser(dir string, onResume func(sgf.GameInfo), onDone func()) *HistoryBrowser {
	hb := &HistoryBrowser{
		dir:      dir,
		onResume: onResume,
		onDone:   onDone,
	}

	hb.list = tview.NewList()
	hb.list.SetBorder(true)
	hb.list.SetTitle(" Game History ")
	hb.list.ShowSecondaryText(false)
	hb.list.SetHighlightFullLine(true)
	hb.list.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.list.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))
	hb.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.list.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index >= 0 && index < len(hb.games) && hb.onResume != nil {
			hb.onResume(hb.games[index])
		}
	})
	hb.list.SetInputCapture(hb.handleInput)

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Preview ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetText("  [dimgray]⏎[-] resume  [dimgray]d[-] delete  [dimgray]q[-] back")

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.list, 42, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.Refresh()
	return hb
}

func (hb *HistoryBrowser) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the game list from disk.
func (hb *HistoryBrowser) Refresh() {
	hb.boards = make(map[string]*game.Engine)
	hb.failed = make(map[string]error)
	hb.list.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := sgf.ListGames(hb.dir)
	if err != nil {
		hb.list.AddItem(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())), "", 0, nil)
		return
	}
	if len(games) == 0 {
		hb.list.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		hb.list.AddItem(historyLabel(g), "", 0, nil)
	}
}

func historyLabel(g sgf.GameInfo) string {
	result := g.Result
	if !g.Finished() {
		result = "..."
	}
	return fmt.Sprintf("%s  %-6s %dx%d  %s", g.Date, g.Rules, g.BoardSize, g.BoardSize, result)
}

func (hb *HistoryBrowser) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		hb.onDone()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			hb.onDone()
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowser) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	os.Remove(hb.games[hb.selected].FilePath)
	hb.Refresh()
}

// position replays the selected record once and caches the result.
func (hb *HistoryBrowser) position(info sgf.GameInfo) (*game.Engine, error) {
	if g, ok := hb.boards[info.FilePath]; ok {
		return g, nil
	}
	if err, ok := hb.failed[info.FilePath]; ok {
		return nil, err
	}
	g, err := sgf.ReplayToEnd(info.FilePath)
	if err != nil {
		hb.failed[info.FilePath] = err
		return nil, err
	}
	hb.boards[info.FilePath] = g
	return g, nil
}

func (hb *HistoryBrowser) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}
	info := hb.games[hb.selected]
	left, top := x+2, y+1
	dim := tcell.StyleDefault.Foreground(MenuColors.Hint)

	g, err := hb.position(info)
	if err != nil {
		drawText(screen, left, top, "Cannot replay: "+err.Error(), tcell.StyleDefault.Foreground(tcell.ColorRed))
		return x, y, width, height
	}

	board := g.CurrentBoard()
	size := board.Size()
	if width < size+4 || height < size+7 {
		return x, y, width, height
	}

	empty := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	black := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	white := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	for by := 0; by < size; by++ {
		for bx := 0; bx < size; bx++ {
			ch, style := '·', empty
			switch board.At(bx, by) {
			case game.CellBlack:
				ch, style = '●', black
			case game.CellWhite:
				ch, style = '○', white
			}
			screen.SetContent(left+bx, top+by, ch, nil, style)
		}
	}

	line := top + size + 1
	label := tcell.StyleDefault.Foreground(MenuColors.Label)
	drawText(screen, left, line, fmt.Sprintf("%s %dx%d | %d moves", info.Rules, size, size, info.MoveCount), label)
	line++
	drawText(screen, left, line, "B: "+info.PlayerBlack, dim)
	line++
	drawText(screen, left, line, "W: "+info.PlayerWhite, dim)
	line++
	if info.Rules == game.GoRules {
		snap := g.Current()
		drawText(screen, left, line, fmt.Sprintf("Captures: B %d  W %d", snap.Prisoners(game.White), snap.Prisoners(game.Black)), dim)
		line++
	}
	result := info.Result
	if !info.Finished() {
		result = "Unfinished"
	}
	drawText(screen, left, line, "Result: "+result, tcell.StyleDefault.Foreground(MenuColors.Selected))
	return x, y, width, height
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
