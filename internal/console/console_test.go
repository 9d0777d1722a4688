package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func runConsole(t *testing.T, game *tictactoe.Game, input string, colors bool) string {
	t.Helper()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := New(logger, game, strings.NewReader(input), &out, colors).Run(context.Background())
	require.NoError(t, err)

	return out.String()
}

func TestConsole_Run(t *testing.T) {
	t.Run("X wins the top row", func(t *testing.T) {
		// Given: a fresh game
		game := tictactoe.NewDefault()

		// When: X fills the top row while O plays the middle one
		out := runConsole(t, game, "0 0\n1 0\n0 1\n1 1\n0 2\nq\n", false)

		// Then: the win is announced and the line highlighted
		assert.Contains(t, out, "X's turn")
		assert.Contains(t, out, "O's turn")
		assert.Contains(t, out, `Player "X" won!`)
		assert.Equal(t, 3, strings.Count(out, "*X*"))
		assert.True(t, game.HasWinner())
	})

	t.Run("Tie", func(t *testing.T) {
		game := tictactoe.NewDefault()

		out := runConsole(t, game, "0 0\n0 1\n0 2\n1 1\n1 0\n1 2\n2 1\n2 0\n2 2\n", false)

		assert.Contains(t, out, "Tied game!")
		assert.NotContains(t, out, "won!")
		assert.True(t, game.IsTied())
	})

	t.Run("Invalid input keeps the turn", func(t *testing.T) {
		game := tictactoe.NewDefault()

		out := runConsole(t, game, "hello\n5 5\n1 1\n1 1\n", false)

		assert.Contains(t, out, `Invalid input "hello"`)
		assert.Contains(t, out, "Invalid move: (5, 5)")
		assert.Contains(t, out, "Invalid move: (1, 1)")
		assert.Equal(t, entity.DefaultLabelO, game.CurrentPlayer().Label)
	})

	t.Run("Moves after the end are refused", func(t *testing.T) {
		game := tictactoe.NewDefault()

		out := runConsole(t, game, "0 0\n1 0\n0 1\n1 1\n0 2\n2 2\n", false)

		assert.Contains(t, out, "The game is over")
		cell, err := game.Cell(2, 2)
		require.NoError(t, err)
		assert.False(t, cell.IsPlayed())
	})

	t.Run("Play again keeps the turn", func(t *testing.T) {
		// Given: X won
		game := tictactoe.NewDefault()

		// When: asking to play again
		runConsole(t, game, "0 0\n1 0\n0 1\n1 1\n0 2\nr\n", false)

		// Then: the board is empty and X still moves
		assert.Equal(t, tictactoe.InProgress, game.State())
		assert.Empty(t, game.WinnerCombo())
		assert.Equal(t, entity.DefaultLabelX, game.CurrentPlayer().Label)
	})

	t.Run("Colors follow the players", func(t *testing.T) {
		game := tictactoe.NewDefault()

		out := runConsole(t, game, "1 1\n", true)

		assert.Contains(t, out, ansiColors["red"]+"X"+ansiReset)
		assert.Contains(t, out, ansiColors["green"]+"O"+ansiReset)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		err := New(logger, tictactoe.NewDefault(), strings.NewReader("1 1\n"), &out, false).Run(ctx)

		require.NoError(t, err)
		assert.Empty(t, out.String())
	})

	t.Run("Cancel while waiting for input", func(t *testing.T) {
		// Given: a console waiting on input that never arrives
		reader, writer := io.Pipe()
		t.Cleanup(func() { writer.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		console := New(logger, tictactoe.NewDefault(), reader, io.Discard, false)

		done := make(chan error, 1)
		go func() {
			done <- console.Run(ctx)
		}()

		// When: the context is cancelled mid-read
		time.Sleep(50 * time.Millisecond)
		cancel()

		// Then: Run returns promptly
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after the context was cancelled")
		}
	})
}

func TestConsole_Render(t *testing.T) {
	game := tictactoe.NewDefault()
	require.NoError(t, game.ProcessMove(entity.NewMove(1, 1, entity.DefaultLabelX)))

	var out bytes.Buffer
	console := New(slog.New(slog.NewTextHandler(io.Discard, nil)), game, strings.NewReader(""), &out, false)

	console.render()

	expected := "\n" +
		"    0   1   2  \n" +
		" 0    |   |   \n" +
		"   ---+---+---\n" +
		" 1    | X |   \n" +
		"   ---+---+---\n" +
		" 2    |   |   \n" +
		"\n"
	assert.Equal(t, expected, out.String())
}

func TestParseCell(t *testing.T) {
	row, col, err := parseCell("2 1")
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)

	row, col, err = parseCell("0,2")
	require.NoError(t, err)
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)

	for _, bad := range []string{"", "1", "1 2 3", "a b"} {
		_, _, err = parseCell(bad)
		assert.Error(t, err, bad)
	}
}
