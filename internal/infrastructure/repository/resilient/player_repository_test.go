package resilient

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	playermock "github.com/riskibarqy/pelada-balancer/internal/mocks/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("List", mock.Anything).Return(nil, errors.New("connection refused")).Times(2)

	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	repo := NewPlayerRepository(next, breaker)

	for i := 0; i < 2; i++ {
		_, err := repo.List(ctx)
		require.Error(t, err)
		require.False(t, errors.Is(err, resilience.ErrCircuitOpen))
	}

	_, err := repo.List(ctx)
	require.True(t, errors.Is(err, resilience.ErrCircuitOpen), "got %v", err)

	err = repo.Upsert(ctx, player.Player{Name: "Valdir"})
	require.True(t, errors.Is(err, resilience.ErrCircuitOpen), "got %v", err)
	next.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPlayerRepository_MissesAndCancellationsAreNotFailures(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("GetByName", mock.Anything, "Ghost").Return(player.Player{}, false, nil).Times(3)
	next.On("List", mock.Anything).Return(nil, context.Canceled).Times(3)

	repo := NewPlayerRepository(next, resilience.NewCircuitBreaker(1, time.Minute, 1))

	for i := 0; i < 3; i++ {
		_, ok, err := repo.GetByName(ctx, "Ghost")
		require.NoError(t, err)
		require.False(t, ok)
	}
	for i := 0; i < 3; i++ {
		_, err := repo.List(ctx)
		require.True(t, errors.Is(err, context.Canceled), "got %v", err)
	}

	require.Equal(t, resilience.CircuitStateClosed, repo.(*PlayerRepository).State())
}

func TestPlayerRepository_PassesResultsThrough(t *testing.T) {
	ctx := context.Background()
	valdir := player.Player{Name: "Valdir", Position: player.PositionGoalkeeper, Skill: 4, Age: 40}

	next := playermock.NewRepository(t)
	next.On("List", mock.Anything).Return([]player.Player{valdir}, nil).Once()
	next.On("GetByName", mock.Anything, "Valdir").Return(valdir, true, nil).Once()
	next.On("Upsert", mock.Anything, valdir).Return(nil).Once()

	repo := NewPlayerRepository(next, resilience.NewCircuitBreaker(1, time.Minute, 1))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []player.Player{valdir}, items)

	got, ok, err := repo.GetByName(ctx, "Valdir")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, valdir, got)

	require.NoError(t, repo.Upsert(ctx, valdir))
}

func TestNewPlayerRepository_NilBreakerReturnsNext(t *testing.T) {
	next := playermock.NewRepository(t)
	require.Same(t, player.Repository(next), NewPlayerRepository(next, nil))
}
