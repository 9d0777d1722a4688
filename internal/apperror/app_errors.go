package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameNotFound      = errors.New("game not found")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCoordinate = errors.New("invalid cell coordinate")
	ErrEmptyLabel        = errors.New("move has no player label")
	ErrInvalidPlayers    = errors.New("a game needs exactly two players with distinct labels")
	ErrInvalidBoardSize  = errors.New("board size must be at least 1")
	ErrCorruptedState    = errors.New("stored game state is corrupted")
)
