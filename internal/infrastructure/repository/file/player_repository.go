package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pelada-balancer/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

// PlayerRepository keeps the roster in memory and rewrites the whole JSON
// file on every upsert. A write becomes visible only after it is on disk.
type PlayerRepository struct {
	path   string
	logger *logging.Logger

	writeMu sync.Mutex
	mem     *memory.PlayerRepository
}

// NewPlayerRepository loads the roster from path. A missing file is created
// with seed. A file that cannot be read or decoded is left untouched and seed
// is served instead until the next write replaces it.
func NewPlayerRepository(path string, seed []player.Player, logger *logging.Logger) (*PlayerRepository, error) {
	if path == "" {
		return nil, errors.New("roster file path is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("roster_file", path)

	players, err := load(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		players = player.CloneAll(seed)
		if err := save(path, players); err != nil {
			return nil, errors.Wrap(err, "seed roster file")
		}
		logger.Info("roster file created with default roster", "players", len(players))
	default:
		logger.Warn("roster file unreadable, serving default roster", "error", err)
		players = player.CloneAll(seed)
	}

	valid := make([]player.Player, 0, len(players))
	for _, p := range players {
		if err := p.Validate(); err != nil {
			logger.Warn("skipping invalid roster entry", "player", p.Name, "error", err)
			continue
		}
		valid = append(valid, p)
	}

	return &PlayerRepository{
		path:   path,
		logger: logger,
		mem:    memory.NewPlayerRepository(valid),
	}, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.mem.List(ctx)
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	return r.mem.GetByName(ctx, name)
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current, err := r.mem.List(ctx)
	if err != nil {
		return err
	}

	next := make([]player.Player, 0, len(current)+1)
	replaced := false
	for _, existing := range current {
		if existing.Name == p.Name {
			next = append(next, p)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, p)
	}

	if err := save(r.path, next); err != nil {
		return errors.Wrapf(err, "persist player %q", p.Name)
	}

	return r.mem.Upsert(ctx, p)
}

func load(path string) ([]player.Player, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []playerRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(err, "decode roster file")
	}

	out := make([]player.Player, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toPlayer())
	}
	return out, nil
}

// save writes to a temp file in the target directory and renames it over
// path so readers never observe a partial roster.
func save(path string, players []player.Player) error {
	records := make([]playerRecord, 0, len(players))
	for _, p := range players {
		records = append(records, toRecord(p))
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigDefault.NewEncoder(buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(err, "encode roster")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create roster directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp roster file")
	}
	tmpName := tmp.Name()

	if _, err := buf.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write temp roster file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "sync temp roster file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close temp roster file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "chmod temp roster file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "replace roster file")
	}

	return nil
}
