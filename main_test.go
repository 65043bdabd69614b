package main

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"goban/config"
	"goban/engine"
	"goban/game"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		check   func(t *testing.T, got engine.GameConfig)
		wantErr bool
	}{
		{
			name: "defaults",
			opts: options{komi: -1},
			check: func(t *testing.T, got engine.GameConfig) {
				if got.Rules != game.GoRules || got.BoardSize != 19 || got.PlayerColor != 1 {
					t.Errorf("got %+v, want go 19x19 as black", got)
				}
				if !got.Opponent || got.EngineLevel != 5 || got.Komi != 6.5 {
					t.Errorf("got %+v, want GnuGo level 5 komi 6.5", got)
				}
			},
		},
		{
			name: "gomoku drops the opponent",
			opts: options{rules: "gomoku", komi: -1},
			check: func(t *testing.T, got engine.GameConfig) {
				if got.Rules != game.FiveInRowRules {
					t.Errorf("rules = %v, want %v", got.Rules, game.FiveInRowRules)
				}
				if got.Opponent {
					t.Error("opponent enabled for five in a row")
				}
			},
		},
		{
			name:    "gomoku with GnuGo",
			opts:    options{rules: "gomoku", komi: -1, ai: boolPtr(true)},
			wantErr: true,
		},
		{
			name: "hotseat go",
			opts: options{komi: -1, ai: boolPtr(false)},
			check: func(t *testing.T, got engine.GameConfig) {
				if got.Opponent {
					t.Error("opponent enabled with -ai=false")
				}
			},
		},
		{
			name: "overrides",
			opts: options{boardSize: 9, color: "white", difficulty: 8, komi: 0, load: "game.sgf"},
			check: func(t *testing.T, got engine.GameConfig) {
				if got.BoardSize != 9 || got.PlayerColor != 2 || got.EngineLevel != 8 {
					t.Errorf("got %+v, want 9x9 white level 8", got)
				}
				if got.Komi != 0 {
					t.Errorf("komi = %v, want 0", got.Komi)
				}
				if got.LoadSGFPath != "game.sgf" {
					t.Errorf("load path = %q", got.LoadSGFPath)
				}
			},
		},
		{name: "unknown rules", opts: options{rules: "chess", komi: -1}, wantErr: true},
		{name: "board too large", opts: options{boardSize: 26, komi: -1}, wantErr: true},
		{name: "negative board", opts: options{boardSize: -3, komi: -1}, wantErr: true},
		{name: "difficulty too high", opts: options{difficulty: 11, komi: -1}, wantErr: true},
		{name: "bad color", opts: options{color: "green", komi: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.DefaultConfig
			c.History.Dir = t.TempDir()
			got, err := buildGameConfig(&c, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestBuildGameConfigHistory(t *testing.T) {
	c := config.DefaultConfig
	c.History.Dir = "/tmp/goban-history"

	got, err := buildGameConfig(&c, options{komi: -1})
	if err != nil {
		t.Fatal(err)
	}
	if got.HistoryDir != c.History.Dir {
		t.Errorf("history dir = %q, want %q", got.HistoryDir, c.History.Dir)
	}

	c.History.Enabled = false
	got, err = buildGameConfig(&c, options{komi: -1})
	if err != nil {
		t.Fatal(err)
	}
	if got.HistoryDir != "" {
		t.Errorf("history dir = %q with history disabled", got.HistoryDir)
	}
}

func TestStartFailure(t *testing.T) {
	missing := fmt.Errorf("start gnugo: %w", &exec.Error{Name: "gnugo", Err: exec.ErrNotFound})
	if msg := startFailure(missing); !strings.Contains(msg, "brew install gnu-go") {
		t.Errorf("missing binary gives no install hint:\n%s", msg)
	}
	if msg := startFailure(errors.New("bad sgf")); strings.Contains(msg, "install") {
		t.Errorf("unrelated error gives install hint:\n%s", msg)
	}
}
