package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func newMatch(id string) *entity.Match {
	return &entity.Match{
		ID:        id,
		BoardSize: 3,
		Board: [][]string{
			{entity.DefaultLabelX, "", ""},
			{"", entity.DefaultLabelO, ""},
			{"", "", ""},
		},
		Players: entity.DefaultPlayers(),
		Turn:    0,
		Status:  entity.StatusOngoing,
	}
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, time.Hour)

	// Given: a match
	match := newMatch("123")

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, match)

	// Then: no error is returned and the key expires
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored match
		match := newMatch("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, match))

		// When: GetByID is called with its id
		retrieved, err := gameRepo.GetByID(ctx, match.ID)

		// Then: the stored match comes back unchanged
		require.NoError(t, err)
		assert.Equal(t, match, retrieved)
	})

	t.Run("GetByID_Updated", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a match stored twice with a new status
		match := newMatch("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, match))
		match.Status = entity.StatusTied
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, match))

		// When: reading it back
		retrieved, err := gameRepo.GetByID(ctx, match.ID)

		// Then: the last write wins
		require.NoError(t, err)
		assert.Equal(t, entity.StatusTied, retrieved.Status)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with an unknown id
		retrieved, err := gameRepo.GetByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored match
		match := newMatch("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, match))

		// When: DeleteByID is called
		err := gameRepo.DeleteByID(ctx, match.ID)

		// Then: it is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, match.ID)
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: DeleteByID is called with an unknown id
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
