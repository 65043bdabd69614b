package ui

import "github.com/gdamore/tcell/v2"

// MenuColors is the palette of the menu screens.
var MenuColors = struct {
	Label       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	ButtonBG    tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
}{
	Label:       tcell.PaletteColor(250), // light gray
	Hint:        tcell.PaletteColor(245), // dim gray
	Selected:    tcell.PaletteColor(109), // blue
	ButtonBG:    tcell.PaletteColor(60),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
}
