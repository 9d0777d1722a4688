package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const maxEvictionInterval = time.Minute

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

// session serialises every operation on one engine.
type session struct {
	mu   sync.Mutex
	game *tictactoe.Game

	// lastUsed is the time of the last write, which is when the stored copy's ttl was refreshed.
	lastUsed time.Time
	ended    bool
}

// GameManager drives engines on behalf of remote players: it validates and applies turns,
// decides between tie, win and next turn, and keeps the repository in sync.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	players   []entity.Player
	boardSize int
	ttl       time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewGameManager builds a manager for games between players on a boardSize board. Games idle
// for longer than ttl are dropped from memory, matching the repository expiry; zero keeps them.
func NewGameManager(logger *slog.Logger, gameRepo gameRepo, players []entity.Player, boardSize int, ttl time.Duration) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,

		players:   players,
		boardSize: boardSize,
		ttl:       ttl,
		now:       time.Now,

		sessions: make(map[string]*session),
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Match, error) {
	game, err := tictactoe.New(that.players, that.boardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to set up game: %w", err)
	}

	gameID := uuid.NewString()
	match := game.Snapshot(gameID)

	if err = that.gameRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.mu.Lock()
	that.sessions[gameID] = &session{game: game, lastUsed: that.now()}
	that.mu.Unlock()

	that.logger.Info("game created", "gameID", gameID, "boardSize", that.boardSize)

	return match, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Match, error) {
	sess, err := that.lockSession(ctx, gameID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	return sess.game.Snapshot(gameID), nil
}

// MakeTurn plays (row, col) for whoever is to move. After an accepted move a tie is
// checked first, then a win; only when neither holds does the turn pass on.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Match, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	sess, err := that.lockSession(ctx, gameID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	game := sess.game
	player := game.CurrentPlayer()
	move := entity.NewMove(row, col, player.Label)

	if !game.IsValidMove(move) {
		return nil, invalidMoveReason(game, move)
	}

	before := game.Snapshot(gameID)

	if err = game.ProcessMove(move); err != nil {
		return nil, fmt.Errorf("failed to process move: %w", err)
	}

	switch {
	case game.IsTied():
		log.Info("game tied")
	case game.HasWinner():
		log.Info("game won", "player", player.Label, "combo", game.WinnerCombo())
	default:
		game.TogglePlayer()
	}

	match := game.Snapshot(gameID)
	if err = that.save(ctx, sess, match, before); err != nil {
		return nil, err
	}

	return match, nil
}

// ResetGame empties the board for another round. The player who was to move keeps the turn.
func (that *GameManager) ResetGame(ctx context.Context, gameID string) (*entity.Match, error) {
	sess, err := that.lockSession(ctx, gameID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	before := sess.game.Snapshot(gameID)
	sess.game.ResetGame()

	match := sess.game.Snapshot(gameID)
	if err = that.save(ctx, sess, match, before); err != nil {
		return nil, err
	}

	that.logger.Info("game reset", "gameID", gameID, "turn", match.CurrentPlayer().Label)

	return match, nil
}

// EndGame waits for the operation in flight on gameID, then removes the game everywhere.
// Callers still holding the session afterwards get apperror.ErrGameNotFound.
func (that *GameManager) EndGame(ctx context.Context, gameID string) error {
	that.mu.Lock()
	sess, inMemory := that.sessions[gameID]
	delete(that.sessions, gameID)
	that.mu.Unlock()

	if inMemory {
		sess.mu.Lock()
		defer sess.mu.Unlock()

		sess.ended = true
	}

	err := that.gameRepo.DeleteByID(ctx, gameID)
	if errors.Is(err, apperror.ErrGameNotFound) && inMemory {
		err = nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game ended", "gameID", gameID)

	return nil
}

// RunEviction drops idle games from memory until ctx is done.
func (that *GameManager) RunEviction(ctx context.Context) {
	if that.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(min(that.ttl, maxEvictionInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.evictIdle(); evicted > 0 {
				that.logger.Info("evicted idle games", "count", evicted)
			}
		}
	}
}

// evictIdle drops sessions not written for longer than ttl. Busy sessions are skipped.
func (that *GameManager) evictIdle() int {
	if that.ttl <= 0 {
		return 0
	}

	cutoff := that.now().Add(-that.ttl)
	evicted := 0

	that.mu.Lock()
	defer that.mu.Unlock()

	for gameID, sess := range that.sessions {
		if !sess.mu.TryLock() {
			continue
		}

		if sess.lastUsed.Before(cutoff) {
			sess.ended = true
			delete(that.sessions, gameID)
			evicted++
		}

		sess.mu.Unlock()
	}

	return evicted
}

// lockSession returns the live session for gameID with its mutex held.
func (that *GameManager) lockSession(ctx context.Context, gameID string) (*session, error) {
	sess, err := that.getSession(ctx, gameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.ended {
		sess.mu.Unlock()
		return nil, fmt.Errorf("game %s: %w", gameID, apperror.ErrGameNotFound)
	}

	return sess, nil
}

// getSession returns the engine for gameID, restoring it from the repository when this
// process has not seen the game yet.
func (that *GameManager) getSession(ctx context.Context, gameID string) (*session, error) {
	that.mu.RLock()
	sess, ok := that.sessions[gameID]
	that.mu.RUnlock()

	if ok {
		return sess, nil
	}

	match, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game, err := tictactoe.Restore(match)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", gameID, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// another request may have restored it meanwhile
	if sess, ok = that.sessions[gameID]; ok {
		return sess, nil
	}

	sess = &session{game: game, lastUsed: that.now()}
	that.sessions[gameID] = sess

	return sess, nil
}

// save persists match for a locked session, restoring before when the write fails.
func (that *GameManager) save(ctx context.Context, sess *session, match, before *entity.Match) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, match); err != nil {
		that.rollback(sess, before)
		return fmt.Errorf("failed to update game: %w", err)
	}

	sess.lastUsed = that.now()

	return nil
}

func (that *GameManager) rollback(sess *session, before *entity.Match) {
	game, err := tictactoe.Restore(before)
	if err != nil {
		that.logger.Error("failed to roll back game", "gameID", before.ID, "error", err)
		return
	}

	sess.game = game
}

// invalidMoveReason mirrors the order ProcessMove checks in: coordinates, then the game state,
// then the cell.
func invalidMoveReason(game *tictactoe.Game, move entity.Move) error {
	if _, err := game.Cell(move.Row, move.Col); err != nil {
		return err
	}

	if game.State() != tictactoe.InProgress {
		return apperror.ErrGameFinished
	}

	return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, move.Row, move.Col)
}
