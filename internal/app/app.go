package app

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pelada-balancer/internal/config"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/file"
	"github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/resilient"
	"github.com/riskibarqy/pelada-balancer/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/pelada-balancer/internal/platform/id"
	"github.com/riskibarqy/pelada-balancer/internal/platform/logging"
	"github.com/riskibarqy/pelada-balancer/internal/platform/resilience"
	"github.com/riskibarqy/pelada-balancer/internal/usecase"
)

const storeConnectTimeout = 10 * time.Second

// NewHTTPServer builds the roster store selected by cfg, the services and the
// router. The returned close func releases store connections and must run
// after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, errors.New("http server addr cannot be empty")
	}

	playerRepo, closeStore, err := NewRosterRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	settings := usecase.DefaultBalancerSettings()
	settings.MaxIterations = cfg.BalancerMaxIterations
	settings.Restarts = cfg.BalancerRestarts
	settings.Workers = cfg.BalancerWorkers
	settings.Seed = cfg.BalancerSeed

	rosterSvc := usecase.NewRosterService(playerRepo, logger.Named("roster"))
	teamSvc := usecase.NewTeamService(playerRepo, settings, logger.Named("balancer"))

	handler := httpapi.NewHandler(rosterSvc, teamSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
		IDGenerator:        idgen.NewRandomGenerator(8),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeStore, nil
}

// NewRosterRepository opens the configured backend, seeds it with the default
// roster when enabled, and stacks the circuit breaker and read cache on top.
func NewRosterRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (player.Repository, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("roster_backend", cfg.RosterBackend)

	var seed []player.Player
	if cfg.RosterSeedDefaults {
		seed = memory.SeedPlayers()
	}

	connectCx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
	defer cancel()

	var (
		repo    player.Repository
		closeFn = func() error { return nil }
		remote  bool
	)

	switch cfg.RosterBackend {
	case config.RosterBackendMemory:
		repo = memory.NewPlayerRepository(seed)

	case config.RosterBackendFile:
		fileRepo, err := file.NewPlayerRepository(cfg.RosterFile, seed, logger)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open roster file")
		}
		repo = fileRepo

	case config.RosterBackendPostgres:
		db, err := sqlx.Open("postgres", NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
		if err != nil {
			return nil, nil, errors.Wrap(err, "open postgres")
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxOpenConns)
		if err := db.PingContext(connectCx); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "ping postgres")
		}
		logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL), "max_open_conns", cfg.DBMaxOpenConns)

		pgRepo := postgres.NewPlayerRepository(db)
		if len(seed) > 0 {
			inserted, err := pgRepo.SeedIfEmpty(connectCx, seed)
			if err != nil {
				_ = db.Close()
				return nil, nil, errors.Wrap(err, "seed postgres roster")
			}
			logger.Info("roster seed checked", "inserted", inserted)
		}
		repo, closeFn, remote = pgRepo, db.Close, true

	case config.RosterBackendRedis:
		rdRepo, err := redisrepo.NewPlayerRepository(connectCx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open redis roster")
		}
		if len(seed) > 0 {
			inserted, err := rdRepo.SeedIfEmpty(connectCx, seed)
			if err != nil {
				_ = rdRepo.Close()
				return nil, nil, errors.Wrap(err, "seed redis roster")
			}
			logger.Info("roster seed checked", "inserted", inserted)
		}
		repo, closeFn, remote = rdRepo, rdRepo.Close, true

	default:
		return nil, nil, errors.Newf("unsupported roster backend %q", cfg.RosterBackend)
	}

	if remote {
		breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.RosterCircuitEnabled,
			FailureThreshold: cfg.RosterCircuitFailureCount,
			OpenTimeout:      cfg.RosterCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RosterCircuitHalfOpenMaxReq,
		})
		repo = resilient.NewPlayerRepository(repo, breaker)
	}
	if remote && cfg.CacheEnabled {
		repo = cache.NewPlayerRepository(repo, cfg.CacheTTL)
	}

	logger.Info("roster store ready",
		"circuit_breaker", remote && cfg.RosterCircuitEnabled,
		"cache", remote && cfg.CacheEnabled,
	)

	return repo, closeFn, nil
}
