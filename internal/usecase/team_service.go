package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pelada-balancer/internal/domain/balance"
	"github.com/riskibarqy/pelada-balancer/internal/domain/guest"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

// BalancerSettings controls how much search a generation request gets.
type BalancerSettings struct {
	MaxIterations int
	// Restarts is the number of independent searches; restart 0 keeps the
	// pool order, the others shuffle it with Seed+i.
	Restarts int
	Workers  int
	// Seed of 0 picks a time-based seed per request.
	Seed uint64
}

func DefaultBalancerSettings() BalancerSettings {
	return BalancerSettings{
		MaxIterations: balance.DefaultMaxIterations,
		Restarts:      4,
		Workers:       4,
	}
}

// Generation is a finished team split.
type Generation struct {
	Formation  balance.Formation
	Team1      []balance.AssignedPlayer
	Team2      []balance.AssignedPlayer
	Stats1     balance.TeamStats
	Stats2     balance.TeamStats
	Score      balance.Score
	Iterations int
	Restart    int
}

type TeamService struct {
	playerRepo player.Repository
	settings   BalancerSettings
	logger     *logging.Logger
	now        func() time.Time
}

func NewTeamService(playerRepo player.Repository, settings BalancerSettings, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultBalancerSettings()
	if settings.MaxIterations < 1 {
		settings.MaxIterations = defaults.MaxIterations
	}
	if settings.Restarts < 1 {
		settings.Restarts = defaults.Restarts
	}
	if settings.Workers < 1 {
		settings.Workers = defaults.Workers
	}

	return &TeamService{
		playerRepo: playerRepo,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate splits the submitted pool. Entries flagged as guests get the
// walk-in defaults; nothing is read from or written to the roster.
func (s *TeamService) Generate(ctx context.Context, pool []player.Player) (Generation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Generate")
	defer span.End()

	prepared := make([]player.Player, 0, len(pool))
	for _, p := range pool {
		if p.IsGuest {
			p = guest.Normalize(p)
		} else {
			p = p.Clone()
			if p.AlternativePositions == nil {
				p.AlternativePositions = []player.Position{}
			}
		}
		prepared = append(prepared, p)
	}

	out, err := s.generate(ctx, prepared)
	if err != nil {
		recordSpanError(span, err)
		return Generation{}, err
	}
	return out, nil
}

// GenerateFromSelection resolves names against a roster snapshot, merges the
// session guests and splits the result.
func (s *TeamService) GenerateFromSelection(ctx context.Context, names []string, guests []player.Player) (Generation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GenerateFromSelection")
	defer span.End()

	roster, err := s.playerRepo.List(ctx)
	if err != nil {
		err = classify(errors.Wrap(err, "list players"))
		recordSpanError(span, err)
		return Generation{}, err
	}

	overlay := guest.NewOverlay(roster)
	for _, g := range guests {
		if err := overlay.Add(g); err != nil {
			err = classify(err)
			recordSpanError(span, err)
			return Generation{}, err
		}
	}

	pool, err := overlay.Pool(names)
	if err != nil {
		err = classify(err)
		recordSpanError(span, err)
		return Generation{}, err
	}

	out, err := s.generate(ctx, pool)
	if err != nil {
		recordSpanError(span, err)
		return Generation{}, err
	}
	return out, nil
}

// FormationPreview reports the per-team layout a pool of count players gets.
func (s *TeamService) FormationPreview(ctx context.Context, count int) (balance.Formation, error) {
	_, span := startUsecaseSpan(ctx, "usecase.TeamService.FormationPreview")
	defer span.End()

	f, err := balance.FormationForPoolSize(count)
	if err != nil {
		return balance.Formation{}, classify(err)
	}
	return f, nil
}

func (s *TeamService) generate(ctx context.Context, pool []player.Player) (Generation, error) {
	if err := balance.ValidatePool(pool); err != nil {
		return Generation{}, classify(err)
	}

	started := s.now()
	result, restart, err := s.runRestarts(pool)
	if err != nil {
		s.logger.WarnContext(ctx, "team generation failed",
			"pool_size", len(pool),
			"error", err,
		)
		return Generation{}, classify(err)
	}

	out := Generation{
		Formation:  result.Formation,
		Team1:      result.Team1,
		Team2:      result.Team2,
		Stats1:     balance.Stats(result.Team1),
		Stats2:     balance.Stats(result.Team2),
		Score:      result.Score,
		Iterations: result.Iterations,
		Restart:    restart,
	}

	s.logger.InfoContext(ctx, "teams generated",
		"pool_size", len(pool),
		"formation", out.Formation.Name,
		"skill_gap", out.Score.SkillGap,
		"age_gap", out.Score.AgeGap,
		"off_primary", out.Score.OffPrimary,
		"iterations", out.Iterations,
		"restart", restart,
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)

	return out, nil
}

// runRestarts runs the configured searches on a bounded worker pool and keeps
// the lowest score; equal scores go to the lower restart index.
func (s *TeamService) runRestarts(pool []player.Player) (balance.Result, int, error) {
	restarts := s.settings.Restarts
	seed := s.settings.Seed
	if seed == 0 {
		seed = uint64(s.now().UnixNano())
	}

	workerCount := s.settings.Workers
	if workerCount > restarts {
		workerCount = restarts
	}
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return balance.Result{}, 0, errors.Wrap(err, "create balancer worker pool")
	}
	defer workers.Release()

	results := make([]balance.Result, restarts)
	errs := make([]error, restarts)

	var wg sync.WaitGroup
	for i := 0; i < restarts; i++ {
		i := i
		opts := balance.Options{
			MaxIterations: s.settings.MaxIterations,
			Seed:          seed + uint64(i),
			Shuffle:       i > 0,
		}

		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			var catcher panics.Catcher
			catcher.Try(func() {
				results[i], errs[i] = balance.Balance(pool, opts)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				results[i] = balance.Result{}
				errs[i] = errors.Wrapf(recovered.AsError(), "balancer restart %d panicked", i)
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return balance.Result{}, 0, errors.Wrap(err, "submit balancer restart")
		}
	}
	wg.Wait()

	best := -1
	for i := range results {
		if errs[i] != nil {
			continue
		}
		if best < 0 || results[i].Score.Less(results[best].Score) {
			best = i
		}
	}
	if best < 0 {
		return balance.Result{}, 0, errs[0]
	}

	return results[best], best, nil
}
