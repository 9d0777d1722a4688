// Package console plays a game of the engine on a terminal: it renders the board, reads moves
// and announces the outcome.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	commandReset = "r"
	commandQuit  = "q"
)

type Console struct {
	logger *slog.Logger

	game   *tictactoe.Game
	in     *bufio.Scanner
	out    io.Writer
	colors bool
}

// New builds a console for game. When colors is false no escape sequences are written.
func New(logger *slog.Logger, game *tictactoe.Game, in io.Reader, out io.Writer, colors bool) *Console {
	return &Console{
		logger: logger.With("component", "console"),

		game:   game,
		in:     bufio.NewScanner(in),
		out:    out,
		colors: colors,
	}
}

type inputLine struct {
	text string
	err  error
}

// Run plays until the user quits, the input ends or ctx is cancelled. Cancellation is
// honoured while waiting for input.
func (that *Console) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := that.readLines(ctx)

	for {
		that.render()
		that.prompt()

		var input inputLine

		select {
		case <-ctx.Done():
			that.printf("\n")
			return nil
		case next, ok := <-lines:
			if !ok {
				return nil
			}
			input = next
		}

		if input.err != nil {
			return fmt.Errorf("failed to read input: %w", input.err)
		}

		line := strings.TrimSpace(input.text)

		switch strings.ToLower(line) {
		case commandQuit:
			return nil
		case commandReset:
			that.game.ResetGame()
			that.logger.Debug("game reset")
			continue
		case "":
			continue
		}

		if that.game.State() != tictactoe.InProgress {
			that.printf("The game is over. Type %q to play again or %q to quit.\n", commandReset, commandQuit)
			continue
		}

		that.play(line)
	}
}

// readLines scans the input on its own goroutine. The channel is closed at the end of input.
func (that *Console) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		for that.in.Scan() {
			select {
			case lines <- inputLine{text: that.in.Text()}:
			case <-ctx.Done():
				return
			}
		}

		if err := that.in.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return lines
}

// play applies one "row col" input for the current player.
func (that *Console) play(line string) {
	row, col, err := parseCell(line)
	if err != nil {
		that.printf("Invalid input %q: enter a row and a column, e.g. \"1 2\".\n", line)
		return
	}

	player := that.game.CurrentPlayer()
	move := entity.NewMove(row, col, player.Label)

	if !that.game.IsValidMove(move) {
		that.printf("Invalid move: (%d, %d) is not available.\n", row, col)
		return
	}

	if err = that.game.ProcessMove(move); err != nil {
		that.printf("Invalid move: %v.\n", err)
		return
	}

	switch {
	case that.game.IsTied():
		that.logger.Debug("game tied")
	case that.game.HasWinner():
		that.logger.Debug("game won", "player", player.Label)
	default:
		that.game.TogglePlayer()
	}
}

func (that *Console) prompt() {
	switch {
	case that.game.IsTied():
		that.printf("Tied game!\n")
	case that.game.HasWinner():
		player := that.game.CurrentPlayer()
		that.printf("Player %s won!\n", that.paint(strconv.Quote(player.Label), player.Color, false))
	default:
		player := that.game.CurrentPlayer()
		that.printf("%s's turn (row col, %s to restart, %s to quit): ",
			that.paint(player.Label, player.Color, false), commandReset, commandQuit)
		return
	}

	that.printf("Type %q to play again or %q to quit: ", commandReset, commandQuit)
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Warn("failed to write output", "error", err)
	}
}

func parseCell(line string) (int, int, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 numbers, got %d", len(fields))
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad row: %w", err)
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad column: %w", err)
	}

	return row, col, nil
}
