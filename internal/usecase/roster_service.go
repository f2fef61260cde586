package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/logging"
)

// RosterService owns the persisted roster: listing, creating and updating
// players. Guests never reach it.
type RosterService struct {
	playerRepo player.Repository
	logger     *logging.Logger
	// writeMu serializes the exists-check and write of create/update.
	writeMu sync.Mutex
}

func NewRosterService(playerRepo player.Repository, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		playerRepo: playerRepo,
		logger:     logger,
	}
}

func (s *RosterService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListPlayers")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		err = classify(errors.Wrap(err, "list players"))
		recordSpanError(span, err)
		return nil, err
	}

	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		item.IsGuest = false
		if item.AlternativePositions == nil {
			item.AlternativePositions = []player.Position{}
		}
		out = append(out, item)
	}

	return out, nil
}

// CreatePlayer adds a new roster player. An existing name is a conflict.
func (s *RosterService) CreatePlayer(ctx context.Context, p player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreatePlayer")
	defer span.End()

	p, err := preparePersisted(p)
	if err != nil {
		recordSpanError(span, err)
		return player.Player{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, exists, err := s.playerRepo.GetByName(ctx, p.Name)
	if err != nil {
		err = classify(errors.Wrapf(err, "get player %q", p.Name))
		recordSpanError(span, err)
		return player.Player{}, err
	}
	if exists {
		return player.Player{}, errors.Mark(errors.Newf("player %q already exists", p.Name), ErrConflict)
	}

	if err := s.playerRepo.Upsert(ctx, p); err != nil {
		err = classify(errors.Wrapf(err, "create player %q", p.Name))
		recordSpanError(span, err)
		return player.Player{}, err
	}

	s.logger.InfoContext(ctx, "player created",
		"player_name", p.Name,
		"position", string(p.Position),
		"skill", p.Skill,
	)

	return p, nil
}

// UpdatePlayer replaces the stored record with the same name
// (last write wins). Guests and unknown names are rejected without touching
// the roster.
func (s *RosterService) UpdatePlayer(ctx context.Context, p player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdatePlayer")
	defer span.End()

	p, err := preparePersisted(p)
	if err != nil {
		recordSpanError(span, err)
		return player.Player{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	previous, exists, err := s.playerRepo.GetByName(ctx, p.Name)
	if err != nil {
		err = classify(errors.Wrapf(err, "get player %q", p.Name))
		recordSpanError(span, err)
		return player.Player{}, err
	}
	if !exists {
		return player.Player{}, errors.Mark(errors.Newf("player %q not found", p.Name), ErrNotFound)
	}

	if err := s.playerRepo.Upsert(ctx, p); err != nil {
		err = classify(errors.Wrapf(err, "update player %q", p.Name))
		recordSpanError(span, err)
		return player.Player{}, err
	}

	s.logger.InfoContext(ctx, "player updated",
		"player_name", p.Name,
		"skill_before", previous.Skill,
		"skill_after", p.Skill,
		"position", string(p.Position),
	)

	return p, nil
}

func preparePersisted(p player.Player) (player.Player, error) {
	if p.IsGuest {
		return player.Player{}, errors.Mark(
			errors.Newf("guest %q cannot be persisted", p.Name),
			ErrInvalidInput,
		)
	}

	p = p.Clone()
	p.Name = strings.TrimSpace(p.Name)
	if p.AlternativePositions == nil {
		p.AlternativePositions = []player.Position{}
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, classify(err)
	}

	return p, nil
}
