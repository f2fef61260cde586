package resilient

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/resilience"
)

// PlayerRepository fails fast with resilience.ErrCircuitOpen once a remote
// roster backend keeps erroring.
type PlayerRepository struct {
	next    player.Repository
	breaker *resilience.CircuitBreaker
}

// NewPlayerRepository returns next unchanged when breaker is nil.
func NewPlayerRepository(next player.Repository, breaker *resilience.CircuitBreaker) player.Repository {
	if breaker == nil {
		return next
	}
	return &PlayerRepository{next: next, breaker: breaker}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	var out []player.Player
	err := r.breaker.Do(func() error {
		items, err := r.next.List(ctx)
		out = items
		return err
	}, isBackendFailure)
	return out, err
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	var (
		out    player.Player
		exists bool
	)
	err := r.breaker.Do(func() error {
		item, ok, err := r.next.GetByName(ctx, name)
		out, exists = item, ok
		return err
	}, isBackendFailure)
	return out, exists, err
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	return r.breaker.Do(func() error {
		return r.next.Upsert(ctx, p)
	}, isBackendFailure)
}

func (r *PlayerRepository) State() resilience.CircuitState {
	return r.breaker.State()
}

// isBackendFailure ignores cancellations issued by the caller.
func isBackendFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}
