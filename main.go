// goban plays Go and five in a row in the terminal or in the browser, hotseat
// or against GnuGo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"goban/config"
	"goban/engine"
	"goban/engine/gtp"
	"goban/game"
	"goban/logging"
	"goban/server"
	"goban/sgf"
	"goban/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	flagConfig     = flag.String("config", "", "Config file (default: goban/config.json in the XDG config dirs)")
	flagRules      = flag.String("rules", "", "Ruleset: go or gomoku")
	flagBoardSize  = flag.Int("boardsize", 0, "Board size (1-25)")
	flagColor      = flag.String("color", "", "Player color (black or white)")
	flagDifficulty = flag.Int("difficulty", 0, "GnuGo difficulty level (1-10)")
	flagKomi       = flag.Float64("komi", -1, "Komi value")
	flagAI         = flag.Bool("ai", true, "Play against GnuGo (go only)")
	flagLoad       = flag.String("load", "", "Resume the game saved in this SGF file")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagServe      = flag.Bool("serve", false, "Run the web server instead of the terminal UI")
	flagAddr       = flag.String("addr", "", "Web server listen address")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var (
	cfg *config.Config
	log *zap.SugaredLogger

	app      *tview.Application
	rootPage *tview.Pages
	board    *ui.BoardView
	layout   *ui.GameLayout
)

// options holds the game settings given on the command line. Zero values
// mean "use the config".
type options struct {
	rules      string
	boardSize  int
	color      string
	difficulty int
	komi       float64 // negative when unset
	ai         *bool
	load       string
}

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("goban %s\n", Version)
		return
	}

	var err error
	if *flagConfig != "" {
		cfg, err = config.Load(*flagConfig)
	} else {
		cfg, err = config.InitConfig()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logPath := cfg.Log.File
	if *flagServe {
		logPath = "stderr"
	}
	log, err = logging.New(cfg.Log.Level, logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: cannot open log:", err)
		os.Exit(1)
	}
	defer log.Sync()

	gameCfg, err := buildGameConfig(cfg, flagOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	if *flagServe {
		if err := runServer(gameCfg); err != nil {
			log.Errorw("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}
	runTerminal(gameCfg)
}

func flagOptions() options {
	o := options{
		rules:      *flagRules,
		boardSize:  *flagBoardSize,
		color:      *flagColor,
		difficulty: *flagDifficulty,
		komi:       *flagKomi,
		load:       *flagLoad,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "ai" {
			o.ai = flagAI
		}
	})
	return o
}

// buildGameConfig applies command-line options over the config file.
func buildGameConfig(c *config.Config, o options) (engine.GameConfig, error) {
	color, _ := config.ParseColor(c.Game.PlayerColor)
	gameCfg := engine.GameConfig{
		Rules:       c.Rules(),
		BoardSize:   c.Game.BoardSize,
		Komi:        c.GnuGo.Komi,
		PlayerColor: color,
		Opponent:    c.Game.Opponent,
		EngineLevel: c.GnuGo.Level,
		EnginePath:  c.GnuGo.Path,
		LoadSGFPath: o.load,
	}
	if c.History.Enabled {
		gameCfg.HistoryDir = c.HistoryDir()
	}

	if o.rules != "" {
		k, err := game.ParseKind(o.rules)
		if err != nil {
			return gameCfg, err
		}
		gameCfg.Rules = k
		if k != game.GoRules && o.ai == nil {
			gameCfg.Opponent = false
		}
	}
	if o.boardSize != 0 {
		if o.boardSize < 1 || o.boardSize > config.MaxBoardSize {
			return gameCfg, fmt.Errorf("board size must be between 1 and %d", config.MaxBoardSize)
		}
		gameCfg.BoardSize = o.boardSize
	}
	if o.color != "" {
		color, err := config.ParseColor(o.color)
		if err != nil {
			return gameCfg, err
		}
		gameCfg.PlayerColor = color
	}
	if o.difficulty != 0 {
		if o.difficulty < 1 || o.difficulty > 10 {
			return gameCfg, fmt.Errorf("difficulty must be between 1 and 10")
		}
		gameCfg.EngineLevel = o.difficulty
	}
	if o.komi >= 0 {
		gameCfg.Komi = o.komi
	}
	if o.ai != nil {
		gameCfg.Opponent = *o.ai
	}
	if gameCfg.Opponent && gameCfg.Rules != game.GoRules {
		return gameCfg, fmt.Errorf("GnuGo only plays go; use -ai=false for %s", gameCfg.Rules)
	}
	return gameCfg, nil
}

// newSession builds a session for gameCfg: the saved moves to resume, the
// GnuGo opponent and the SGF record. It returns the config as adjusted by a
// loaded record.
func newSession(gameCfg engine.GameConfig) (*engine.Session, engine.GameConfig, error) {
	opts := []engine.Option{engine.WithLogger(log)}

	if gameCfg.LoadSGFPath != "" {
		info, moves, err := sgf.Load(gameCfg.LoadSGFPath)
		if err != nil {
			return nil, gameCfg, err
		}
		if info.BoardSize < 1 || info.BoardSize > config.MaxBoardSize {
			return nil, gameCfg, fmt.Errorf("%s: unsupported board size %d", info.FileName, info.BoardSize)
		}
		gameCfg.Rules = info.Rules
		gameCfg.BoardSize = info.BoardSize
		if info.Rules == game.GoRules {
			gameCfg.Komi = info.Komi
		} else {
			gameCfg.Opponent = false
		}
		opts = append(opts, engine.WithMoves(moves))
		log.Infow("resuming game", "path", info.FilePath, "moves", len(moves))
	}

	black, white := "Human", "Human"
	if gameCfg.Opponent {
		client, err := gtp.Start(gameCfg.EnginePath, gameCfg.EngineLevel, log)
		if err != nil {
			return nil, gameCfg, err
		}
		name := client.Name()
		if gameCfg.HumanColor() == game.Black {
			white = name
		} else {
			black = name
		}
		opts = append(opts, engine.WithOpponent(client))
	}

	if gameCfg.HistoryDir != "" {
		rec, err := sgf.NewGameRecord(gameCfg.HistoryDir, sgf.Header{
			Rules:       gameCfg.Rules,
			BoardSize:   gameCfg.BoardSize,
			Komi:        gameCfg.Komi,
			PlayerBlack: black,
			PlayerWhite: white,
		}, log)
		if err != nil {
			log.Warnw("game will not be saved", "error", err)
		} else {
			opts = append(opts, engine.WithRecorder(rec))
		}
	}

	return engine.NewSession(gameCfg, opts...), gameCfg, nil
}

func runServer(gameCfg engine.GameConfig) error {
	opts := []server.Option{
		server.WithOpponents(func(c engine.GameConfig) (engine.Opponent, error) {
			return gtp.Start(c.EnginePath, c.EngineLevel, log)
		}),
	}
	if gameCfg.HistoryDir != "" {
		opts = append(opts, server.WithRecorders(func(c engine.GameConfig) (engine.Recorder, error) {
			black, white := "Human", "Human"
			if c.Opponent {
				if c.HumanColor() == game.Black {
					white = "GnuGo"
				} else {
					black = "GnuGo"
				}
			}
			return sgf.NewGameRecord(c.HistoryDir, sgf.Header{
				Rules:       c.Rules,
				BoardSize:   c.BoardSize,
				Komi:        c.Komi,
				PlayerBlack: black,
				PlayerWhite: white,
			}, log)
		}))
	}

	addr := cfg.Server.Addr
	if *flagAddr != "" {
		addr = *flagAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(gameCfg, log, opts...).ListenAndServe(ctx, addr)
}

func runTerminal(gameCfg engine.GameConfig) {
	quickStart := *flagQuickStart || *flagBoardSize > 0 || *flagColor != "" || *flagDifficulty > 0 ||
		*flagKomi >= 0 || *flagFocus || *flagLoad != "" || *flagRules != ""

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ goban ")

	hint := tview.NewTextView()
	hint.SetBorderPadding(0, 0, 1, 1)
	board = ui.NewBoardView(app, cfg, hint)
	layout = ui.NewGameLayout(board, hint)

	board.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q':
				if board.SelectedTile() != nil {
					board.ResetSelection()
				} else {
					board.Close()
					rootPage.SwitchToPage("setup")
				}
				return nil
			case 'f':
				layout.ToggleFocus()
				return nil
			}
		}
		return board.HandleKey(event)
	})

	history := ui.NewHistoryBrowser(cfg.HistoryDir(), func(info sgf.GameInfo) {
		resumed := gameCfg
		resumed.LoadSGFPath = info.FilePath
		startGame(resumed)
	}, func() {
		rootPage.SwitchToPage("setup")
	})

	theme := ui.NewThemeEditor(cfg, func(err error) {
		if err != nil {
			log.Warnw("save theme", "error", err)
		}
		board.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	theme.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			theme.Cancel()
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			theme.ToggleMode()
			return nil
		}
		return event
	})

	setup := ui.NewGameSetup(gameCfg, ui.SetupActions{
		Start: startGame,
		History: func() {
			history.Refresh()
			rootPage.SwitchToPage("history")
		},
		Theme: func() { rootPage.SwitchToPage("colors") },
		Quit:  app.Stop,
	})

	rootPage.AddPage("setup", setup.Form(), true, !quickStart)
	rootPage.AddPage("gameview", layout.Flex, true, quickStart)
	rootPage.AddPage("history", history.Flex(), true, false)
	rootPage.AddPage("colors", theme.Flex(), true, false)

	if quickStart {
		startGame(gameCfg)
		if *flagFocus {
			layout.SetFocus(true)
		}
	}

	err := app.SetRoot(rootPage, true).Run()
	board.Close()
	if err != nil {
		log.Errorw("terminal UI failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// startGame replaces the running game with a new one.
func startGame(gameCfg engine.GameConfig) {
	board.Close()

	session, gameCfg, err := newSession(gameCfg)
	if err == nil {
		layout.SetKomi(gameCfg.Komi)
		if err = board.Connect(session); err != nil {
			session.Close()
		}
	}
	if err != nil {
		log.Errorw("start game", "error", err)
		rootPage.SwitchToPage("setup")
		showError(startFailure(err))
		return
	}
	rootPage.SwitchToPage("gameview")
}

func startFailure(err error) string {
	msg := fmt.Sprintf("Failed to start game:\n%s", err)
	if errors.Is(err, exec.ErrNotFound) {
		msg += "\n\nPlease install GnuGo:\n" +
			"  macOS:  brew install gnu-go\n" +
			"  Ubuntu: sudo apt install gnugo\n" +
			"  Fedora: sudo dnf install gnugo"
	}
	return msg
}

func showError(text string) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}
