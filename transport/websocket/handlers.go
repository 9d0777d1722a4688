package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

var (
	errUnknownAction    = errors.New("unknown action")
	errMalformedMessage = errors.New("malformed message")
	errGameIDRequired   = errors.New("game_id is required")
	errCellRequired     = errors.New("cell is required")
)

// publicErrors may be shown to players as is; anything else is reported as an internal error.
var publicErrors = []error{
	apperror.ErrGameNotFound,
	apperror.ErrGameFinished,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCoordinate,
	errUnknownAction,
	errMalformedMessage,
	errGameIDRequired,
	errCellRequired,
}

func (that *Server) handleNewGame(ctx context.Context, c *client, _ *Message) error {
	game, err := that.gameUseCase.CreateGame(ctx)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.subscribe(game.ID, c)
	that.sendMessage(c, actionGameNew, Payload{GameID: game.ID, Game: game})

	that.logger.Info("game created", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, msg *Message) error {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return err
	}

	game, err := that.gameUseCase.GetGame(ctx, payload.GameID)
	if err != nil {
		return fmt.Errorf("failed to join game %s: %w", payload.GameID, err)
	}

	that.subscribe(game.ID, c)
	that.sendMessage(c, actionGameJoin, Payload{GameID: game.ID, Game: game})

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return err
	}

	if payload.Cell == nil {
		return errCellRequired
	}

	game, err := that.gameUseCase.MakeTurn(ctx, payload.GameID, payload.Cell.Row, payload.Cell.Col)
	if err != nil {
		return fmt.Errorf("failed to make turn in game %s: %w", payload.GameID, err)
	}

	that.subscribe(game.ID, c)
	that.broadcast(game.ID, actionGameTurn, Payload{GameID: game.ID, Game: game})

	if game.IsFinished() {
		that.logger.Info("game finished", "gameID", game.ID, "status", game.Status, "winner", game.Winner)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, c *client, msg *Message) error {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return err
	}

	game, err := that.gameUseCase.ResetGame(ctx, payload.GameID)
	if err != nil {
		return fmt.Errorf("failed to reset game %s: %w", payload.GameID, err)
	}

	that.subscribe(game.ID, c)
	that.broadcast(game.ID, actionGameReset, Payload{GameID: game.ID, Game: game})

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, c *client, msg *Message) error {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return err
	}

	if err = that.gameUseCase.EndGame(ctx, payload.GameID); err != nil {
		return fmt.Errorf("failed to end game %s: %w", payload.GameID, err)
	}

	that.subscribe(payload.GameID, c)
	that.broadcast(payload.GameID, actionGameLeave, Payload{GameID: payload.GameID})
	that.dropGame(payload.GameID)

	that.logger.Info("game ended", "gameID", payload.GameID)

	return nil
}

func decodeGamePayload(msg *Message) (Payload, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return payload, fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	if payload.GameID == "" {
		return payload, errGameIDRequired
	}

	return payload, nil
}

// sendErrorResponse answers the sender only.
func (that *Server) sendErrorResponse(c *client, action string, err error) {
	that.sendMessage(c, action, Payload{Error: errorText(err)})
}

func errorText(err error) string {
	for _, known := range publicErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}
