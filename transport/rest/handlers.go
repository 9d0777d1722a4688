package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type GameHandler struct {
	logger *slog.Logger
	game   gameUseCase
}

func NewGameHandler(logger *slog.Logger, game gameUseCase) *GameHandler {
	return &GameHandler{
		logger: logger.With("component", "game_handler"),
		game:   game,
	}
}

func (that *GameHandler) CreateGame(c echo.Context) error {
	match, err := that.game.CreateGame(c.Request().Context())
	if err != nil {
		return that.sendError(c, "CreateGame", err)
	}

	return c.JSON(http.StatusCreated, match)
}

func (that *GameHandler) GetGame(c echo.Context) error {
	match, err := that.game.GetGame(c.Request().Context(), c.Param("id"))
	if err != nil {
		return that.sendError(c, "GetGame", err)
	}

	return c.JSON(http.StatusOK, match)
}

func (that *GameHandler) MakeTurn(c echo.Context) error {
	var req turnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Row == nil || req.Col == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "row and col are required"})
	}

	match, err := that.game.MakeTurn(c.Request().Context(), c.Param("id"), *req.Row, *req.Col)
	if err != nil {
		return that.sendError(c, "MakeTurn", err)
	}

	return c.JSON(http.StatusOK, match)
}

func (that *GameHandler) ResetGame(c echo.Context) error {
	match, err := that.game.ResetGame(c.Request().Context(), c.Param("id"))
	if err != nil {
		return that.sendError(c, "ResetGame", err)
	}

	return c.JSON(http.StatusOK, match)
}

func (that *GameHandler) EndGame(c echo.Context) error {
	if err := that.game.EndGame(c.Request().Context(), c.Param("id")); err != nil {
		return that.sendError(c, "EndGame", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// sendError maps domain errors to HTTP statuses; the rest are logged and hidden.
func (that *GameHandler) sendError(c echo.Context, method string, err error) error {
	var status int

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCoordinate), errors.Is(err, apperror.ErrEmptyLabel):
		status = http.StatusBadRequest
	default:
		that.logger.Error("request failed", "method", method, "gameID", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(status, errorResponse{Error: err.Error()})
}
