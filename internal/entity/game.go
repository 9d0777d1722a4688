package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusTied    = "tied"
)

// Match is the serialisable state of one game: what gets stored and sent to clients.
type Match struct {
	ID          string     `json:"id"`
	BoardSize   int        `json:"board_size"`
	Board       [][]string `json:"board"`
	Players     []Player   `json:"players"`
	Turn        int        `json:"turn"`
	Status      string     `json:"status"`
	Winner      string     `json:"winner,omitempty"`
	WinnerCombo []Position `json:"winner_combo,omitempty"`
}

func (that *Match) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Match) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Match) IsTied() bool {
	return that.Status == StatusTied
}

func (that *Match) IsFinished() bool {
	return that.IsWon() || that.IsTied()
}

// CurrentPlayer returns the player whose turn it is, or the zero Player when Turn is out of range.
func (that *Match) CurrentPlayer() Player {
	if that.Turn < 0 || that.Turn >= len(that.Players) {
		return Player{}
	}

	return that.Players[that.Turn]
}

func (that *Match) ConfirmOngoingState() error {
	switch that.Status {
	case StatusOngoing:
		return nil
	case StatusWon, StatusTied:
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrCorruptedState, that.Status)
	}
}
