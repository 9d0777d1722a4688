package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestGame_Snapshot(t *testing.T) {
	t.Run("Ongoing game", func(t *testing.T) {
		// Given: X played the centre and the turn passed to O
		game := NewDefault()
		playTurns(t, game, pos(1, 1))

		// When: taking a snapshot
		match := game.Snapshot("g1")

		// Then: it mirrors the engine
		expected := &entity.Match{
			ID:        "g1",
			BoardSize: 3,
			Board: [][]string{
				{"", "", ""},
				{"", x, ""},
				{"", "", ""},
			},
			Players: entity.DefaultPlayers(),
			Turn:    1,
			Status:  entity.StatusOngoing,
		}
		assert.Equal(t, expected, match)
	})

	t.Run("Won game records winner and line", func(t *testing.T) {
		game := NewDefault()
		playTurns(t, game, pos(0, 0), pos(1, 0), pos(0, 1), pos(1, 1), pos(0, 2))

		match := game.Snapshot("g2")

		assert.Equal(t, entity.StatusWon, match.Status)
		assert.Equal(t, x, match.Winner)
		assert.Equal(t, []entity.Position{pos(0, 0), pos(0, 1), pos(0, 2)}, match.WinnerCombo)
	})

	t.Run("Tied game", func(t *testing.T) {
		game := NewDefault()
		playTurns(t, game,
			pos(0, 0), pos(0, 1), pos(0, 2), pos(1, 1), pos(1, 0),
			pos(1, 2), pos(2, 1), pos(2, 0), pos(2, 2),
		)

		match := game.Snapshot("g3")

		assert.Equal(t, entity.StatusTied, match.Status)
		assert.Empty(t, match.Winner)
		assert.Empty(t, match.WinnerCombo)
	})
}

func TestRestore(t *testing.T) {
	t.Run("Round trip keeps board, turn and outcome", func(t *testing.T) {
		// Given: a game X has won after O was toggled in between
		game := NewDefault()
		playTurns(t, game, pos(2, 0), pos(0, 0), pos(1, 1), pos(0, 1), pos(0, 2))
		match := game.Snapshot("g1")

		// When: restoring it
		restored, err := Restore(match)

		// Then: the engine is equivalent
		require.NoError(t, err)
		assert.Equal(t, game.Board(), restored.Board())
		assert.Equal(t, game.CurrentPlayer(), restored.CurrentPlayer())
		assert.Equal(t, game.WinnerCombo(), restored.WinnerCombo())
		assert.True(t, restored.HasWinner())
		assert.Equal(t, match, restored.Snapshot("g1"))
	})

	t.Run("Restored game keeps playing", func(t *testing.T) {
		// Given: a snapshot of an ongoing game with O to move
		game := NewDefault()
		playTurns(t, game, pos(0, 0))
		restored, err := Restore(game.Snapshot("g1"))
		require.NoError(t, err)

		// When: O plays
		playTurns(t, restored, pos(1, 1))

		// Then: the turn is back with X
		assert.Equal(t, x, restored.CurrentPlayer().Label)
	})

	t.Run("Rejects corrupted snapshots", func(t *testing.T) {
		valid := func() *entity.Match {
			return NewDefault().Snapshot("g1")
		}

		cases := map[string]func(m *entity.Match){
			"turn out of range":  func(m *entity.Match) { m.Turn = 2 },
			"missing row":        func(m *entity.Match) { m.Board = m.Board[:2] },
			"short row":          func(m *entity.Match) { m.Board[1] = m.Board[1][:1] },
			"unknown label":      func(m *entity.Match) { m.Board[0][0] = "Z" },
			"status disagrees":   func(m *entity.Match) { m.Status = entity.StatusWon },
			"unknown status":     func(m *entity.Match) { m.Status = "waiting" },
			"bad board size":     func(m *entity.Match) { m.BoardSize = 0 },
			"single player":      func(m *entity.Match) { m.Players = m.Players[:1] },
			"won board says tie": func(m *entity.Match) { m.Board[0] = []string{x, x, x}; m.Status = entity.StatusTied },
		}

		for name, corrupt := range cases {
			t.Run(name, func(t *testing.T) {
				match := valid()
				corrupt(match)

				_, err := Restore(match)

				assert.ErrorIs(t, err, apperror.ErrCorruptedState)
			})
		}
	})

	t.Run("Rejects nil", func(t *testing.T) {
		_, err := Restore(nil)
		assert.ErrorIs(t, err, apperror.ErrCorruptedState)
	})
}
