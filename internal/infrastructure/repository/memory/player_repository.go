package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

// PlayerRepository keeps the roster in insertion order. Upserting an existing
// name replaces the record in place.
type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	index   map[string]int
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		players: make([]player.Player, 0, len(players)),
		index:   make(map[string]int, len(players)),
	}
	for _, p := range players {
		r.upsertLocked(p)
	}

	return r
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return player.CloneAll(r.players), nil
}

func (r *PlayerRepository) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.index[name]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.players[idx].Clone(), true, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertLocked(p)
	return nil
}

func (r *PlayerRepository) upsertLocked(p player.Player) {
	p = p.Clone()
	p.IsGuest = false
	if p.AlternativePositions == nil {
		p.AlternativePositions = []player.Position{}
	}

	if idx, ok := r.index[p.Name]; ok {
		r.players[idx] = p
		return
	}
	r.index[p.Name] = len(r.players)
	r.players = append(r.players, p)
}
