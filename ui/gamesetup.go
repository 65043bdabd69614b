package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"goban/engine"
	"goban/game"
)

var (
	setupRules  = []game.Kind{game.GoRules, game.FiveInRowRules}
	setupSizes  = []int{9, 13, 15, 19}
	setupLevels = []string{"1 (easiest)", "2", "3", "4", "5", "6", "7", "8", "9", "10 (hardest)"}
)

// SetupActions are the buttons of the setup screen.
type SetupActions struct {
	Start   func(engine.GameConfig)
	History func()
	Theme   func()
	Quit    func()
}

// GameSetup is the new game form.
type GameSetup struct {
	form *tview.Form
	flex *tview.Flex
	help *tview.TextView
	cfg  engine.GameConfig
}

// NewGameSetup builds the form with defaults preselected.
func NewGameSetup(defaults engine.GameConfig, actions SetupActions) *GameSetup {
	s := &GameSetup{cfg: defaults}
	form := tview.NewForm()

	form.AddDropDown("Rules", []string{"Go", "Five in a row"}, indexOf(setupRules, defaults.Rules), func(option string, index int) {
		if index >= 0 {
			s.cfg.Rules = setupRules[index]
		}
	})

	sizes := make([]string, len(setupSizes))
	for i, n := range setupSizes {
		sizes[i] = strconv.Itoa(n) + "x" + strconv.Itoa(n)
	}
	form.AddDropDown("Board Size", sizes, indexOf(setupSizes, defaults.BoardSize), func(option string, index int) {
		if index >= 0 {
			s.cfg.BoardSize = setupSizes[index]
		}
	})

	form.AddCheckbox("Play GnuGo", defaults.Opponent, func(checked bool) {
		s.cfg.Opponent = checked
	})

	form.AddDropDown("Your Color", []string{"Black (play first)", "White (play second)"}, defaults.PlayerColor-1, func(option string, index int) {
		s.cfg.PlayerColor = index + 1
	})

	form.AddDropDown("GnuGo Strength", setupLevels, defaults.EngineLevel-1, func(option string, index int) {
		s.cfg.EngineLevel = index + 1
	})

	form.AddInputField("Komi", strconv.FormatFloat(defaults.Komi, 'f', 1, 64), 8, func(text string, lastChar rune) bool {
		return (lastChar >= '0' && lastChar <= '9') || lastChar == '.' || lastChar == '-'
	}, func(text string) {
		if val, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			s.cfg.Komi = val
		}
	})

	form.AddButton("Start Game", func() {
		if msg := s.problem(); msg != "" {
			s.help.SetText(msg).SetTextColor(tcell.ColorRed)
			return
		}
		s.help.SetText(setupHelp).SetTextColor(MenuColors.Hint)
		actions.Start(s.cfg)
	})
	if actions.History != nil {
		form.AddButton("History", actions.History)
	}
	if actions.Theme != nil {
		form.AddButton("Board Color", actions.Theme)
	}
	form.AddButton("Quit", actions.Quit)

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	s.help = tview.NewTextView().
		SetText(setupHelp).
		SetTextAlign(tview.AlignCenter)
	s.help.SetTextColor(MenuColors.Hint)

	s.form = form
	s.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(s.help, 1, 0, false)
	return s
}

const setupHelp = "Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm"

// problem explains why the chosen settings cannot start a game.
func (s *GameSetup) problem() string {
	if s.cfg.Opponent && s.cfg.Rules != game.GoRules {
		return "GnuGo only plays Go. Untick \"Play GnuGo\" for five in a row."
	}
	return ""
}

// Config returns the settings currently chosen.
func (s *GameSetup) Config() engine.GameConfig {
	return s.cfg
}

func (s *GameSetup) Form() *tview.Flex {
	return s.flex
}

func indexOf[T comparable](options []T, v T) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}
