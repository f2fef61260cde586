package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	playermock "github.com/riskibarqy/pelada-balancer/internal/mocks/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
)

func neymar() player.Player {
	return player.Player{
		Name:                 "Neymar",
		Age:                  33,
		Skill:                5,
		Position:             player.PositionWinger,
		AlternativePositions: []player.Position{player.PositionForward},
	}
}

func TestRosterService_ListPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	service := NewRosterService(repo, nil)

	stored := []player.Player{neymar(), {Name: "Alisson", Age: 32, Skill: 4, Position: player.PositionGoalkeeper}}
	repo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return(stored, nil).
		Once()

	got, err := service.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected player count: got=%d want=2", len(got))
	}
	if got[1].AlternativePositions == nil {
		t.Fatalf("alternative positions should serialize as an empty list")
	}
	for _, p := range got {
		if p.IsGuest {
			t.Fatalf("roster players must never be flagged as guests")
		}
	}
}

func TestRosterService_ListPlayers_CircuitOpen(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	service := NewRosterService(repo, nil)

	repo.On("List", mock.Anything).Return(nil, resilience.ErrCircuitOpen).Once()

	_, err := service.ListPlayers(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestRosterService_UpdatePlayer_Success(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	service := NewRosterService(repo, nil)

	updated := neymar()
	updated.Name = "  Neymar "
	updated.Skill = 4

	repo.On("GetByName", mock.Anything, "Neymar").Return(neymar(), true, nil).Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(p player.Player) bool {
			return p.Name == "Neymar" && p.Skill == 4 && !p.IsGuest
		})).
		Return(nil).
		Once()

	got, err := service.UpdatePlayer(context.Background(), updated)
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	if got.Name != "Neymar" || got.Skill != 4 {
		t.Fatalf("unexpected updated player: %+v", got)
	}
}

func TestRosterService_UpdatePlayer_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     func() player.Player
		setup     func(repo *playermock.Repository)
		targetErr error
	}{
		{
			name: "guest record",
			input: func() player.Player {
				p := neymar()
				p.IsGuest = true
				return p
			},
			targetErr: ErrInvalidInput,
		},
		{
			name: "unknown position",
			input: func() player.Player {
				p := neymar()
				p.Position = "SW"
				return p
			},
			targetErr: ErrInvalidInput,
		},
		{
			name: "alternative equals primary",
			input: func() player.Player {
				p := neymar()
				p.AlternativePositions = []player.Position{player.PositionWinger}
				return p
			},
			targetErr: ErrInvalidInput,
		},
		{
			name:  "unknown player",
			input: neymar,
			setup: func(repo *playermock.Repository) {
				repo.On("GetByName", mock.Anything, "Neymar").Return(player.Player{}, false, nil).Once()
			},
			targetErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := playermock.NewRepository(t)
			if tt.setup != nil {
				tt.setup(repo)
			}
			service := NewRosterService(repo, nil)

			_, err := service.UpdatePlayer(context.Background(), tt.input())
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestRosterService_CreatePlayer(t *testing.T) {
	t.Parallel()

	t.Run("conflict", func(t *testing.T) {
		t.Parallel()

		repo := playermock.NewRepository(t)
		repo.On("GetByName", mock.Anything, "Neymar").Return(neymar(), true, nil).Once()

		_, err := NewRosterService(repo, nil).CreatePlayer(context.Background(), neymar())
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		repo := playermock.NewRepository(t)
		repo.On("GetByName", mock.Anything, "Neymar").Return(player.Player{}, false, nil).Once()
		repo.On("Upsert", mock.Anything, mock.AnythingOfType("player.Player")).Return(nil).Once()

		got, err := NewRosterService(repo, nil).CreatePlayer(context.Background(), neymar())
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		if got.Name != "Neymar" {
			t.Fatalf("unexpected created player: %+v", got)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		repo := playermock.NewRepository(t)
		storageErr := errors.New("disk full")
		repo.On("GetByName", mock.Anything, "Neymar").Return(player.Player{}, false, nil).Once()
		repo.On("Upsert", mock.Anything, mock.Anything).Return(storageErr).Once()

		_, err := NewRosterService(repo, nil).CreatePlayer(context.Background(), neymar())
		if !errors.Is(err, storageErr) {
			t.Fatalf("expected storage error in chain, got %v", err)
		}
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
			t.Fatalf("storage failure must not be classified as a client error: %v", err)
		}
	})
}
