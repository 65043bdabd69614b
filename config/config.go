package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"goban/game"
)

var (
	cfgFile = "goban/config.json"
)

// EnvPrefix prefixes environment overrides, e.g. GOBAN_SERVER_ADDR.
const EnvPrefix = "GOBAN"

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board" mapstructure:"board"`
	BoardColorAlt     int `json:"board_alt" mapstructure:"board_alt"`
	BlackColor        int `json:"black" mapstructure:"black"`
	BlackColorAlt     int `json:"black_alt" mapstructure:"black_alt"`
	WhiteColor        int `json:"white" mapstructure:"white"`
	WhiteColorAlt     int `json:"white_alt" mapstructure:"white_alt"`
	LineColor         int `json:"line" mapstructure:"line"`
	CursorColorFG     int `json:"cursor_fg" mapstructure:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg" mapstructure:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg" mapstructure:"last_played_bg"`
	KoColorBG         int `json:"ko_bg" mapstructure:"ko_bg"`
}

type ConfigSymbols struct {
	BlackStone  rune `json:"black" mapstructure:"black"`
	WhiteStone  rune `json:"white" mapstructure:"white"`
	BoardSquare rune `json:"board" mapstructure:"board"`
	Cursor      rune `json:"cursor" mapstructure:"cursor"`
	LastPlayed  rune `json:"last_played" mapstructure:"last_played"`
}

type Theme struct {
	DrawStoneBackground      bool          `json:"draw_stone_bg" mapstructure:"draw_stone_bg"`
	DrawCursorBackground     bool          `json:"draw_cursor_bg" mapstructure:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg" mapstructure:"draw_last_played_bg"`
	FullWidthLetters         bool          `json:"fullwidth_letters" mapstructure:"fullwidth_letters"`
	UseGridLines             bool          `json:"use_grid_lines" mapstructure:"use_grid_lines"`
	Colors                   ConfigColors  `json:"colors" mapstructure:"colors"`
	Symbols                  ConfigSymbols `json:"symbols" mapstructure:"symbols"`
}

// GnuGoConfig holds GnuGo-specific settings.
type GnuGoConfig struct {
	Path  string  `json:"gnugo_path" mapstructure:"gnugo_path"`
	Komi  float64 `json:"default_komi" mapstructure:"default_komi"`
	Level int     `json:"default_level" mapstructure:"default_level"`
}

// GameConfig holds the defaults for a new game.
type GameConfig struct {
	Rules       string `json:"rules" mapstructure:"rules"`
	BoardSize   int    `json:"board_size" mapstructure:"board_size"`
	PlayerColor string `json:"player_color" mapstructure:"player_color"`
	Opponent    bool   `json:"opponent" mapstructure:"opponent"`
}

// ServerConfig holds the web front end settings.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// LogConfig holds logging settings. An empty File disables logging.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// HistoryConfig controls where game records are saved.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

type Config struct {
	Theme   Theme         `json:"theme" mapstructure:"theme"`
	GnuGo   GnuGoConfig   `json:"gnugo" mapstructure:"gnugo"`
	Game    GameConfig    `json:"game" mapstructure:"game"`
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
	History HistoryConfig `json:"history" mapstructure:"history"`
}

// InitConfig loads the user's config file from the XDG config directories,
// falling back to defaults when there is none.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return Load(absPath)
}

// Load reads the config file at path over the defaults and applies GOBAN_*
// environment overrides. An empty path loads only defaults and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := json.Marshal(DefaultConfig)
	if err != nil {
		return nil, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, err
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := v.MergeConfig(f); err != nil {
			return nil, &InvalidConfig{fmt.Sprintf("%s: %v", path, err)}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &InvalidConfig{err.Error()}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.BoardSquare} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	rules, err := game.ParseKind(c.Game.Rules)
	if err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Game.BoardSize < 1 || c.Game.BoardSize > MaxBoardSize {
		return &InvalidConfig{fmt.Sprintf("board size must be between 1 and %d, got %d", MaxBoardSize, c.Game.BoardSize)}
	}
	if _, err := ParseColor(c.Game.PlayerColor); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Game.Opponent && rules != game.GoRules {
		return &InvalidConfig{"GnuGo only plays Go; disable the opponent for " + rules.String()}
	}
	if c.GnuGo.Level < 1 || c.GnuGo.Level > 10 {
		return &InvalidConfig{fmt.Sprintf("GnuGo level must be between 1 and 10, got %d", c.GnuGo.Level)}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{err.Error()}
	}
	return nil
}

// MaxBoardSize is the largest board GTP coordinates can address.
const MaxBoardSize = 25

// ParseColor converts "black"/"b" and "white"/"w" to 1 and 2.
func ParseColor(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return 1, nil
	case "white", "w":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Rules returns the configured ruleset. The config must be valid.
func (c *Config) Rules() game.Kind {
	k, _ := game.ParseKind(c.Game.Rules)
	return k
}

// HistoryDir returns the directory game records are written to.
func (c *Config) HistoryDir() string {
	if c.History.Dir != "" {
		return c.History.Dir
	}
	return filepath.Join(xdg.DataHome, "goban", "history")
}

// Save writes the config to the user's XDG config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}
