// Package gtp implements a Go Text Protocol client used to play against GnuGo.
package gtp

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"goban/engine"
	"goban/game"
)

// CommandError is a failure response ("? message") from the engine.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("GTP %s: %s", e.Command, e.Message)
}

// Client sends GTP commands and reads their responses. It implements
// engine.Opponent.
type Client struct {
	mu   sync.Mutex
	in   io.WriteCloser
	out  *bufio.Reader
	cmd  *exec.Cmd
	size int
	log  *zap.SugaredLogger
}

var _ engine.Opponent = (*Client)(nil)

// NewClient returns a client that writes commands to w and reads responses
// from r.
func NewClient(r io.Reader, w io.WriteCloser, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		in:  w,
		out: bufio.NewReader(r),
		log: log.Named("gtp"),
	}
}

// Start runs GnuGo at path in GTP mode and returns a client connected to it.
func Start(path string, level int, log *zap.SugaredLogger) (*Client, error) {
	cmd := exec.Command(path,
		"--mode", "gtp",
		"--level", fmt.Sprintf("%d", level),
		"--quiet",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	// Discard stderr to prevent blocking
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start GnuGo: %w", err)
	}

	c := NewClient(stdout, stdin, log)
	c.cmd = cmd
	c.log.Infow("engine started", "path", path, "level", level, "pid", cmd.Process.Pid)
	return c, nil
}

// Command sends one GTP command and returns the response text without the
// leading "=".
func (c *Client) Command(command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(command)
}

// send must be called with the lock held.
func (c *Client) send(command string) (string, error) {
	c.log.Debugw("send", "command", command)

	if _, err := fmt.Fprintf(c.in, "%s\n", command); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", command, err)
	}

	// A response ends with an empty line.
	var response strings.Builder
	for {
		line, err := c.out.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read response to %q: %w", command, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if response.Len() == 0 {
				continue
			}
			break
		}
		if response.Len() > 0 {
			response.WriteString("\n")
		}
		response.WriteString(line)
	}

	result := response.String()
	c.log.Debugw("receive", "command", command, "response", result)

	if strings.HasPrefix(result, "?") {
		return "", &CommandError{
			Command: command,
			Message: strings.TrimSpace(strings.TrimPrefix(result, "?")),
		}
	}
	return strings.TrimSpace(strings.TrimPrefix(result, "=")), nil
}

// NewGame sets the board size and komi and clears the board.
func (c *Client) NewGame(size int, komi float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.send(fmt.Sprintf("boardsize %d", size)); err != nil {
		return fmt.Errorf("failed to set board size: %w", err)
	}
	if _, err := c.send("clear_board"); err != nil {
		return fmt.Errorf("failed to clear board: %w", err)
	}
	if _, err := c.send(fmt.Sprintf("komi %.1f", komi)); err != nil {
		return fmt.Errorf("failed to set komi: %w", err)
	}
	c.size = size
	return nil
}

// Play tells the engine about a move.
func (c *Client) Play(color game.Color, m game.Move) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	vertex := "pass"
	if !m.Pass {
		vertex = FormatVertex(m.Point, c.size)
	}
	_, err := c.send(fmt.Sprintf("play %s %s", colorName(color), vertex))
	return err
}

// GenMove asks the engine to choose and play a move for color. A
// resignation is reported as engine.ErrResign.
func (c *Client) GenMove(color game.Color) (game.Move, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	response, err := c.send(fmt.Sprintf("genmove %s", colorName(color)))
	if err != nil {
		return game.Move{}, err
	}
	if strings.EqualFold(response, "resign") {
		return game.Move{}, engine.ErrResign
	}
	return ParseVertex(response, c.size)
}

// Undo takes back the engine's last move.
func (c *Client) Undo() error {
	_, err := c.Command("undo")
	return err
}

// ClearBoard empties the engine's board.
func (c *Client) ClearBoard() error {
	_, err := c.Command("clear_board")
	return err
}

// FinalScore returns the engine's score estimate, such as "W+6.5".
func (c *Client) FinalScore() (string, error) {
	return c.Command("final_score")
}

// Name returns the engine's name and version, such as "GNU Go 3.8".
func (c *Client) Name() string {
	name, err := c.Command("name")
	if err != nil {
		return "GTP engine"
	}
	if version, err := c.Command("version"); err == nil && version != "" {
		name += " " + version
	}
	return name
}

// Close quits the engine and waits for the process to exit. If a command is
// in flight the quit is skipped and closing stdin ends the process.
func (c *Client) Close() error {
	if c.mu.TryLock() {
		if _, err := c.send("quit"); err != nil {
			c.log.Debugw("quit", "error", err)
		}
		c.mu.Unlock()
	}
	err := c.in.Close()
	if c.cmd != nil && c.cmd.Process != nil {
		if werr := c.cmd.Wait(); werr != nil {
			c.log.Debugw("engine exited", "error", werr)
		}
	}
	return err
}
