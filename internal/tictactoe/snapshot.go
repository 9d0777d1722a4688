package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Snapshot captures the engine as a serialisable match with the given id.
func (that *Game) Snapshot(id string) *entity.Match {
	board := make([][]string, that.boardSize)
	for row := range that.board {
		board[row] = make([]string, that.boardSize)
		for col, cell := range that.board[row] {
			board[row][col] = cell.Label
		}
	}

	match := &entity.Match{
		ID:        id,
		BoardSize: that.boardSize,
		Board:     board,
		Players:   that.Players(),
		Turn:      that.cursor,
	}

	switch that.State() {
	case Won:
		match.Status = entity.StatusWon
		match.WinnerCombo = that.WinnerCombo()
		first := that.winnerCombo[0]
		match.Winner = that.board[first.Row][first.Col].Label
	case Tied:
		match.Status = entity.StatusTied
	default:
		match.Status = entity.StatusOngoing
	}

	return match
}

// Restore rebuilds an engine from a snapshot. The winning combinations and the winner
// are recomputed from the board; a snapshot whose status disagrees with its board is rejected.
func Restore(match *entity.Match) (*Game, error) {
	if match == nil {
		return nil, fmt.Errorf("%w: nil match", apperror.ErrCorruptedState)
	}

	if err := match.ConfirmOngoingState(); errors.Is(err, apperror.ErrCorruptedState) {
		return nil, err
	}

	game, err := New(match.Players, match.BoardSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedState, err)
	}

	if match.Turn < 0 || match.Turn >= len(game.players) {
		return nil, fmt.Errorf("%w: turn %d", apperror.ErrCorruptedState, match.Turn)
	}
	game.cursor = match.Turn

	if len(match.Board) != game.boardSize {
		return nil, fmt.Errorf("%w: %d rows for board size %d", apperror.ErrCorruptedState, len(match.Board), game.boardSize)
	}

	for row, labels := range match.Board {
		if len(labels) != game.boardSize {
			return nil, fmt.Errorf("%w: row %d has %d cells", apperror.ErrCorruptedState, row, len(labels))
		}

		for col, label := range labels {
			if label != entity.EmptyCell && !game.isPlayerLabel(label) {
				return nil, fmt.Errorf("%w: unknown label %q at (%d, %d)", apperror.ErrCorruptedState, label, row, col)
			}
			game.board[row][col] = entity.NewMove(row, col, label)
		}
	}

	game.detectWinner()

	if restored := game.Snapshot(match.ID).Status; restored != match.Status {
		return nil, fmt.Errorf("%w: status %q but board is %q", apperror.ErrCorruptedState, match.Status, restored)
	}

	return game, nil
}

func (that *Game) isPlayerLabel(label string) bool {
	for _, player := range that.players {
		if player.Label == label {
			return true
		}
	}

	return false
}
