package player

import "context"

// Repository is the roster store. Guests never reach it.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByName(ctx context.Context, name string) (Player, bool, error)
	Upsert(ctx context.Context, p Player) error
}
