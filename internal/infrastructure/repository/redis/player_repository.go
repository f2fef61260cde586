package redis

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

const defaultKeyPrefix = "pelada"

// upsertScript writes the record and appends the name to the order list only
// when the hash field is new, so both keys change atomically.
var upsertScript = redis.NewScript(`
local added = redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
if added == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
end
return added
`)

type playerRecord struct {
	Name                string   `json:"name"`
	Position            string   `json:"position"`
	AlternativePosition []string `json:"alternative_position"`
	Skill               int      `json:"skill"`
	Age                 int      `json:"age"`
}

// PlayerRepository stores the roster as a hash of name to JSON record plus a
// list that remembers insertion order.
type PlayerRepository struct {
	client   *redis.Client
	hashKey  string
	orderKey string
}

// NewPlayerRepository connects to rawURL and verifies the connection.
func NewPlayerRepository(ctx context.Context, rawURL, keyPrefix string) (*PlayerRepository, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return NewPlayerRepositoryWithClient(client, keyPrefix), nil
}

func NewPlayerRepositoryWithClient(client *redis.Client, keyPrefix string) *PlayerRepository {
	keyPrefix = strings.TrimSpace(keyPrefix)
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &PlayerRepository{
		client:   client,
		hashKey:  keyPrefix + ":roster",
		orderKey: keyPrefix + ":roster:order",
	}
}

func (r *PlayerRepository) Close() error {
	return r.client.Close()
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	pipe := r.client.Pipeline()
	orderCmd := pipe.LRange(ctx, r.orderKey, 0, -1)
	allCmd := pipe.HGetAll(ctx, r.hashKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "read roster")
	}

	raw := allCmd.Val()
	out := make([]player.Player, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	appendRecord := func(name string) error {
		data, ok := raw[name]
		if !ok {
			return nil
		}
		if _, dup := seen[name]; dup {
			return nil
		}
		seen[name] = struct{}{}

		p, err := decodePlayer(data)
		if err != nil {
			return errors.Wrapf(err, "decode player %q", name)
		}
		out = append(out, p)
		return nil
	}

	for _, name := range orderCmd.Val() {
		if err := appendRecord(name); err != nil {
			return nil, err
		}
	}

	// Fields written without the order list, e.g. by hand, sort last by name.
	var stray []string
	for name := range raw {
		if _, ok := seen[name]; !ok {
			stray = append(stray, name)
		}
	}
	sort.Strings(stray)
	for _, name := range stray {
		if err := appendRecord(name); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	data, err := r.client.HGet(ctx, r.hashKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, errors.Wrapf(err, "read player %q", name)
	}

	p, err := decodePlayer(data)
	if err != nil {
		return player.Player{}, false, errors.Wrapf(err, "decode player %q", name)
	}
	return p, true, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	data, err := encodePlayer(p)
	if err != nil {
		return errors.Wrapf(err, "encode player %q", p.Name)
	}

	if err := upsertScript.Run(ctx, r.client, []string{r.hashKey, r.orderKey}, p.Name, data).Err(); err != nil {
		return errors.Wrapf(err, "upsert player %q", p.Name)
	}
	return nil
}

// SeedIfEmpty stores players when the roster hash does not exist yet.
func (r *PlayerRepository) SeedIfEmpty(ctx context.Context, players []player.Player) (int, error) {
	exists, err := r.client.Exists(ctx, r.hashKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "check roster key")
	}
	if exists > 0 {
		return 0, nil
	}

	for _, p := range players {
		if err := r.Upsert(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(players), nil
}

func encodePlayer(p player.Player) (string, error) {
	alts := make([]string, 0, len(p.AlternativePositions))
	for _, alt := range p.AlternativePositions {
		alts = append(alts, string(alt))
	}
	return sonic.MarshalString(playerRecord{
		Name:                p.Name,
		Position:            string(p.Position),
		AlternativePosition: alts,
		Skill:               p.Skill,
		Age:                 p.Age,
	})
}

func decodePlayer(data string) (player.Player, error) {
	var rec playerRecord
	if err := sonic.UnmarshalString(data, &rec); err != nil {
		return player.Player{}, err
	}

	alts := make([]player.Position, 0, len(rec.AlternativePosition))
	for _, alt := range rec.AlternativePosition {
		alts = append(alts, player.Position(alt))
	}
	return player.Player{
		Name:                 rec.Name,
		Position:             player.Position(rec.Position),
		AlternativePositions: alts,
		Skill:                rec.Skill,
		Age:                  rec.Age,
	}, nil
}
