package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawStoneBackground:      false,
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		FullWidthLetters:         false,
		UseGridLines:             true,
		Colors: ConfigColors{
			BoardColor:        180,
			BoardColorAlt:     180,
			BlackColor:        232,
			BlackColorAlt:     232,
			WhiteColor:        255,
			WhiteColorAlt:     255,
			LineColor:         94,
			CursorColorFG:     2,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			KoColorBG:         1,
		},
		Symbols: ConfigSymbols{
			BlackStone:  '●',
			WhiteStone:  '●',
			BoardSquare: '┼',
			Cursor:      '┼',
			LastPlayed:  '┼',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		GnuGo: GnuGoConfig{
			Path:  "gnugo",
			Komi:  6.5,
			Level: 5,
		},
		Game: GameConfig{
			Rules:       "go",
			BoardSize:   19,
			PlayerColor: "black",
			Opponent:    true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(xdg.StateHome, "goban", "goban.log"),
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
