package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	qb "github.com/riskibarqy/pelada-balancer/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

var playerSelectColumns = []string{
	"id",
	"name",
	"position",
	"alternative_position",
	"skill",
	"age",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db, now: time.Now}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select players query")
	}

	ctx, span := startQuerySpan(ctx, "list_players", query)
	var rows []playerTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	endQuerySpan(span, err)
	if err != nil {
		return nil, errors.Wrap(err, "select players")
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.Eq("name", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, errors.Wrap(err, "build select player by name query")
	}

	ctx, span := startQuerySpan(ctx, "get_player", query)
	var row playerTableModel
	err = r.db.GetContext(ctx, &row, query, args...)
	endQuerySpan(span, err)
	if err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, errors.Wrapf(err, "select player %q", name)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	query, args, err := buildUpsertPlayerQuery(p, r.now())
	if err != nil {
		return err
	}

	ctx, span := startQuerySpan(ctx, "upsert_player", query)
	_, err = r.db.ExecContext(ctx, query, args...)
	endQuerySpan(span, err)
	if err != nil {
		return errors.Wrapf(err, "upsert player %q", p.Name)
	}
	return nil
}

// SeedIfEmpty inserts players when the table has no rows yet.
func (r *PlayerRepository) SeedIfEmpty(ctx context.Context, players []player.Player) (int, error) {
	const countQuery = `SELECT COUNT(1) FROM ` + playersTable

	spanCtx, span := startQuerySpan(ctx, "count_players", countQuery)
	var count int
	err := r.db.GetContext(spanCtx, &count, countQuery)
	endQuerySpan(span, err)
	if err != nil {
		return 0, errors.Wrap(err, "count players for seed")
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := r.now()
	for _, p := range players {
		builder, err := qb.InsertModel(playersTable, newPlayerInsertModel(p, now))
		if err != nil {
			return 0, errors.Wrapf(err, "build seed player %q", p.Name)
		}
		query, args, err := builder.OnConflictDoNothing("name").ToSQL()
		if err != nil {
			return 0, errors.Wrapf(err, "build seed player %q query", p.Name)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, errors.Wrapf(err, "seed player %q", p.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit seed tx")
	}
	return len(players), nil
}

func buildUpsertPlayerQuery(p player.Player, now time.Time) (string, []any, error) {
	builder, err := qb.InsertModel(playersTable, newPlayerInsertModel(p, now))
	if err != nil {
		return "", nil, errors.Wrap(err, "build upsert player model")
	}
	query, args, err := builder.OnConflictUpdate([]string{"name"}).ToSQL()
	if err != nil {
		return "", nil, errors.Wrap(err, "build upsert player query")
	}
	return query, args, nil
}
