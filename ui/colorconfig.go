package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban/config"
	"goban/types"
)

type paletteEntry struct {
	code int
	name string
}

var boardColors = []paletteEntry{
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{228, "Light Gold"},
	{222, "Gold"},
	{220, "Bright Yellow"},
	{214, "Orange Gold"},
	{208, "Dark Orange"},
	{180, "Tan"},
	{179, "Light Brown"},
	{172, "Brown"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{252, "Light Gray"},
	{250, "Gray"},
	{248, "Medium Gray"},
	{244, "Dark Gray"},
	{188, "Light Beige"},
	{181, "Dusty Rose"},
	{223, "Peach"},
	{216, "Salmon"},
}

var lineColors = []paletteEntry{
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{136, "Dark Brown"},
	{88, "Dark Red"},
	{52, "Dark Maroon"},
	{22, "Dark Green"},
	{23, "Teal"},
	{24, "Dark Cyan"},
	{17, "Navy Blue"},
	{54, "Purple"},
	{232, "Black"},
	{236, "Dark Gray"},
	{240, "Gray"},
	{244, "Medium Gray"},
	{16, "True Black"},
}

// ThemeEditor picks board and line colors with a live preview and saves
// them to the config file.
type ThemeEditor struct {
	flex    *tview.Flex
	list    *tview.List
	preview *tview.Box
	cfg     *config.Config
	draft   config.Theme
	lines   bool // editing line color instead of board color
	filling bool
	onDone  func(error)
}

// previewState is the position drawn in the preview: a few stones, a last
// move and a ko point.
var previewState = &types.BoardState{
	Board: [][]int{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 2, 0, 0, 0},
		{0, 1, 2, 0, 2, 0, 0},
		{0, 0, 1, 2, 1, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
	},
	LastMove: types.BoardPos{X: 4, Y: 4},
	KoPoint:  &types.BoardPos{X: 3, Y: 3},
}

// NewThemeEditor creates the theme screen. onDone receives the error from
// saving the config, if any.
func NewThemeEditor(cfg *config.Config, onDone func(error)) *ThemeEditor {
	te := &ThemeEditor{
		cfg:    cfg,
		draft:  cfg.Theme,
		onDone: onDone,
	}

	te.list = tview.NewList()
	te.list.SetBorder(true)
	te.list.ShowSecondaryText(false)
	te.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		te.pick(index)
	})
	te.list.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		te.pick(index)
		if !te.lines {
			te.lines = true
			te.populate()
			return
		}
		te.cfg.Theme = te.draft
		te.lines = false
		te.populate()
		te.onDone(te.cfg.Save())
	})

	te.preview = tview.NewBox()
	te.preview.SetBorder(true)
	te.preview.SetTitle(" Board Preview ")
	te.preview.SetDrawFunc(te.drawPreview)

	te.flex = tview.NewFlex().
		AddItem(te.list, 34, 0, true).
		AddItem(te.preview, 0, 1, false)

	te.populate()
	return te
}

func (te *ThemeEditor) entries() []paletteEntry {
	if te.lines {
		return lineColors
	}
	return boardColors
}

func (te *ThemeEditor) pick(index int) {
	entries := te.entries()
	if te.filling || index < 0 || index >= len(entries) {
		return
	}
	if te.lines {
		te.draft.Colors.LineColor = entries[index].code
	} else {
		te.draft.Colors.BoardColor = entries[index].code
		te.draft.Colors.BoardColorAlt = entries[index].code
	}
}

func (te *ThemeEditor) populate() {
	te.filling = true
	defer func() { te.filling = false }()
	te.list.Clear()
	current := te.draft.Colors.BoardColor
	title := " Board Color (Tab: line color) "
	if te.lines {
		current = te.draft.Colors.LineColor
		title = " Line Color (Tab: board color) "
	}
	te.list.SetTitle(title)

	for i, c := range te.entries() {
		te.list.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)", tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range te.entries() {
		if c.code == current {
			te.list.SetCurrentItem(i)
			break
		}
	}
}

// ToggleMode switches between editing the board and the line color.
func (te *ThemeEditor) ToggleMode() {
	te.lines = !te.lines
	te.populate()
}

// Cancel drops unsaved changes.
func (te *ThemeEditor) Cancel() {
	te.draft = te.cfg.Theme
	te.lines = false
	te.populate()
}

func (te *ThemeEditor) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 24 || height < 12 {
		return x, y, width, height
	}
	r := newRenderer(te.draft)
	_, h := r.board(screen, x+1, y+1, previewState, nil)

	info := fmt.Sprintf("Board: %d  Line: %d", te.draft.Colors.BoardColor, te.draft.Colors.LineColor)
	drawText(screen, x+5, y+1+h, info, tcell.StyleDefault)
	return x, y, width, height
}

func (te *ThemeEditor) Flex() *tview.Flex {
	return te.flex
}

func (te *ThemeEditor) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	te.list.SetInputCapture(capture)
}
