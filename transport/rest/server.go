package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Match, error)
	GetGame(ctx context.Context, gameID string) (*entity.Match, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Match, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Match, error)
	EndGame(ctx context.Context, gameID string) error
}

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	games := NewGameHandler(logger, gameUseCase)

	e.GET("/ping", pingHandler)

	e.POST("/games", games.CreateGame)
	e.GET("/games/:id", games.GetGame)
	e.POST("/games/:id/turns", games.MakeTurn)
	e.POST("/games/:id/reset", games.ResetGame)
	e.DELETE("/games/:id", games.EndGame)

	return &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
	}
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.echo.ServeHTTP(w, r)
}

// Start - starts HTTP server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := that.echo.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := that.echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
