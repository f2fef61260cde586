package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	basecache "github.com/riskibarqy/pelada-balancer/internal/platform/cache"
)

const (
	playerListKey       = "player:list"
	playerNameKeyPrefix = "player:name:"
)

type cachedPlayerByName struct {
	value  player.Player
	exists bool
}

// PlayerRepository is a read-through cache in front of a roster store.
// Every upsert drops the list and the written name before returning.
type PlayerRepository struct {
	next   player.Repository
	lists  *basecache.Store[[]player.Player]
	byName *basecache.Store[cachedPlayerByName]
}

func NewPlayerRepository(next player.Repository, ttl time.Duration) *PlayerRepository {
	return &PlayerRepository{
		next:   next,
		lists:  basecache.NewStore[[]player.Player](ttl),
		byName: basecache.NewStore[cachedPlayerByName](ttl),
	}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	items, err := r.lists.GetOrLoad(ctx, playerListKey, func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return player.CloneAll(items), nil
	})
	if err != nil {
		return nil, err
	}

	return player.CloneAll(items), nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	cached, err := r.byName.GetOrLoad(ctx, playerNameKeyPrefix+name, func(ctx context.Context) (cachedPlayerByName, error) {
		item, exists, err := r.next.GetByName(ctx, name)
		if err != nil {
			return cachedPlayerByName{}, err
		}
		return cachedPlayerByName{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	return cached.value.Clone(), cached.exists, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	err := r.next.Upsert(ctx, p)

	// A failed write may still have reached storage.
	r.lists.Delete(ctx, playerListKey)
	r.byName.Delete(ctx, playerNameKeyPrefix+p.Name)

	return err
}
