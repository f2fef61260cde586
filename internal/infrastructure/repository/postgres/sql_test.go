package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(errors.Wrap(sql.ErrNoRows, "select player")) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: relation players does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestBuildUpsertPlayerQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	p := player.Player{
		Name:                 "Zunino",
		Position:             player.PositionCenterBack,
		AlternativePositions: []player.Position{player.PositionRightBack, player.PositionLeftBack},
		Skill:                4,
		Age:                  30,
		IsGuest:              true,
	}

	query, args, err := buildUpsertPlayerQuery(p, now)
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO players (name, position, alternative_position, skill, age, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (name) DO UPDATE SET " +
		"position = EXCLUDED.position, alternative_position = EXCLUDED.alternative_position, " +
		"skill = EXCLUDED.skill, age = EXCLUDED.age, updated_at = EXCLUDED.updated_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
	alts, ok := args[2].(pq.StringArray)
	if !ok || len(alts) != 2 || alts[0] != "LD" || alts[1] != "LE" {
		t.Fatalf("unexpected alternative_position arg: %#v", args[2])
	}
	if got := args[5].(time.Time); !got.Equal(now) || got.Location() != time.UTC {
		t.Fatalf("updated_at must be stored in UTC, got %v", got)
	}
}

func TestPlayerTableModelToDomain(t *testing.T) {
	row := playerTableModel{
		Name:     "Valdir",
		Position: "GOL",
		Skill:    4,
		Age:      40,
	}

	got := row.toDomain()
	if got.AlternativePositions == nil || len(got.AlternativePositions) != 0 {
		t.Fatalf("expected empty non-nil alternatives, got %#v", got.AlternativePositions)
	}
	if got.IsGuest {
		t.Fatalf("stored players are never guests")
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("converted player invalid: %v", err)
	}
}

func TestFormatQueryForTrace(t *testing.T) {
	got := formatQueryForTrace(" SELECT   name\nFROM players \t WHERE name = $1 ")
	want := "SELECT name FROM players WHERE name = $1"
	if got != want {
		t.Fatalf("unexpected formatted query: %q", got)
	}

	long := formatQueryForTrace("SELECT " + strings.Repeat("x, ", 400) + "y FROM players")
	if len(long) != maxTracedQueryLength+3 || !strings.HasSuffix(long, "...") {
		t.Fatalf("expected truncated query, got length %d", len(long))
	}
}
