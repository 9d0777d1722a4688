// Package tictactoe holds the game engine: board occupancy, move validation,
// line detection and stalemate detection for a two-player square-grid game.
//
// The engine is not safe for concurrent use; callers that share a Game between
// goroutines must serialise access to it.
package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const DefaultBoardSize = 3

// State is the phase a game is in. Exactly one holds at any time.
type State int

const (
	InProgress State = iota
	Won
	Tied
)

func (that State) String() string {
	switch that {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Tied:
		return "tied"
	default:
		return fmt.Sprintf("State(%d)", int(that))
	}
}

type Game struct {
	players []entity.Player
	cursor  int

	boardSize     int
	board         [][]entity.Move
	winningCombos [][]entity.Position

	hasWinner   bool
	winnerCombo []entity.Position
}

// New builds an engine for exactly two players on a boardSize x boardSize grid.
// The first player moves first.
func New(players []entity.Player, boardSize int) (*Game, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}

	if boardSize < 1 {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrInvalidBoardSize, boardSize)
	}

	game := &Game{
		players:   append([]entity.Player(nil), players...),
		boardSize: boardSize,
	}
	game.setupBoard()

	return game, nil
}

// NewDefault builds a 3x3 engine for the default X/O players.
func NewDefault() *Game {
	game, err := New(entity.DefaultPlayers(), DefaultBoardSize)
	if err != nil {
		panic(fmt.Errorf("default game setup failed: %w", err))
	}

	return game
}

func validatePlayers(players []entity.Player) error {
	if len(players) != 2 {
		return fmt.Errorf("%w: got %d", apperror.ErrInvalidPlayers, len(players))
	}

	if players[0].Label == entity.EmptyCell || players[1].Label == entity.EmptyCell {
		return fmt.Errorf("%w: empty label", apperror.ErrInvalidPlayers)
	}

	if players[0].Label == players[1].Label {
		return fmt.Errorf("%w: duplicate label %q", apperror.ErrInvalidPlayers, players[0].Label)
	}

	return nil
}

func (that *Game) setupBoard() {
	that.board = make([][]entity.Move, that.boardSize)
	for row := range that.board {
		that.board[row] = make([]entity.Move, that.boardSize)
	}
	that.clearBoard()

	that.winningCombos = winningCombos(that.boardSize)
}

func (that *Game) clearBoard() {
	for row := range that.board {
		for col := range that.board[row] {
			that.board[row][col] = entity.NewMove(row, col, entity.EmptyCell)
		}
	}
}

func (that *Game) inBounds(row, col int) bool {
	return row >= 0 && row < that.boardSize && col >= 0 && col < that.boardSize
}

// IsValidMove reports whether move may be played: nobody has won yet and the target
// cell exists and is unplayed. The label is not checked against the current player.
func (that *Game) IsValidMove(move entity.Move) bool {
	if that.hasWinner || !that.inBounds(move.Row, move.Col) {
		return false
	}

	return !that.board[move.Row][move.Col].IsPlayed()
}

// ProcessMove writes move into the board and declares a win if it completes a line.
// A rejected move leaves the game untouched.
func (that *Game) ProcessMove(move entity.Move) error {
	if !that.inBounds(move.Row, move.Col) {
		return fmt.Errorf("%w: (%d, %d) on a %dx%d board",
			apperror.ErrInvalidCoordinate, move.Row, move.Col, that.boardSize, that.boardSize)
	}

	if move.Label == entity.EmptyCell {
		return apperror.ErrEmptyLabel
	}

	if that.hasWinner {
		return apperror.ErrGameFinished
	}

	if that.board[move.Row][move.Col].IsPlayed() {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, move.Row, move.Col)
	}

	that.board[move.Row][move.Col] = move
	that.detectWinner()

	return nil
}

// detectWinner stops at the first uniformly occupied combination in scan order.
func (that *Game) detectWinner() {
	for _, combo := range that.winningCombos {
		if that.isUniform(combo) {
			that.hasWinner = true
			that.winnerCombo = combo
			return
		}
	}
}

func (that *Game) isUniform(combo []entity.Position) bool {
	first := that.board[combo[0].Row][combo[0].Col].Label
	if first == entity.EmptyCell {
		return false
	}

	for _, pos := range combo[1:] {
		if that.board[pos.Row][pos.Col].Label != first {
			return false
		}
	}

	return true
}

// HasWinner reports whether a line has been completed since the last reset.
func (that *Game) HasWinner() bool {
	return that.hasWinner
}

// IsTied reports a full board with no winner. A line completed on the last free
// cell is a win, never a tie.
func (that *Game) IsTied() bool {
	if that.hasWinner {
		return false
	}

	for _, row := range that.board {
		for _, cell := range row {
			if !cell.IsPlayed() {
				return false
			}
		}
	}

	return true
}

// State folds the winner flag and the board into one of InProgress, Won or Tied.
func (that *Game) State() State {
	switch {
	case that.hasWinner:
		return Won
	case that.IsTied():
		return Tied
	default:
		return InProgress
	}
}

// TogglePlayer hands the turn to the other player.
func (that *Game) TogglePlayer() {
	that.cursor = (that.cursor + 1) % len(that.players)
}

// ResetGame empties the board and clears the winner. The current player is kept:
// whoever was to move before the reset moves first afterwards.
func (that *Game) ResetGame() {
	that.clearBoard()
	that.hasWinner = false
	that.winnerCombo = nil
}

// CurrentPlayer returns the player whose turn it is.
func (that *Game) CurrentPlayer() entity.Player {
	return that.players[that.cursor]
}

// Players returns a copy of both players in turn order.
func (that *Game) Players() []entity.Player {
	return append([]entity.Player(nil), that.players...)
}

// BoardSize returns the number of rows, which equals the number of columns.
func (that *Game) BoardSize() int {
	return that.boardSize
}

// WinnerCombo returns the line that won the game, or an empty slice.
func (that *Game) WinnerCombo() []entity.Position {
	if that.winnerCombo == nil {
		return []entity.Position{}
	}

	return copyCombo(that.winnerCombo)
}

// WinningCombos returns a copy of every line in scan order: rows, columns, main and anti-diagonal.
func (that *Game) WinningCombos() [][]entity.Position {
	combos := make([][]entity.Position, 0, len(that.winningCombos))
	for _, combo := range that.winningCombos {
		combos = append(combos, copyCombo(combo))
	}

	return combos
}

// Cell returns the move at (row, col).
func (that *Game) Cell(row, col int) (entity.Move, error) {
	if !that.inBounds(row, col) {
		return entity.Move{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCoordinate, row, col)
	}

	return that.board[row][col], nil
}

// Board returns a copy of the board, row-major.
func (that *Game) Board() [][]entity.Move {
	board := make([][]entity.Move, len(that.board))
	for row := range that.board {
		board[row] = append([]entity.Move(nil), that.board[row]...)
	}

	return board
}
