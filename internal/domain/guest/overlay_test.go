package guest

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

func testRoster() []player.Player {
	return []player.Player{
		{Name: "Valdir", Age: 40, Skill: 4, Position: player.PositionGoalkeeper},
		{Name: "Josce", Age: 27, Skill: 4, Position: player.PositionCenterBack},
		{Name: "Delio", Age: 55, Skill: 4, Position: player.PositionMidfielder},
	}
}

func TestNormalize(t *testing.T) {
	g := Normalize(player.Player{Name: "Convidado", Skill: 3, Position: player.PositionForward})

	if !g.IsGuest {
		t.Fatalf("expected guest flag")
	}
	if g.Age != player.DefaultGuestAge {
		t.Fatalf("expected default age %d, got %d", player.DefaultGuestAge, g.Age)
	}
	if g.AlternativePositions == nil {
		t.Fatalf("expected empty alternative positions, got nil")
	}
}

func TestOverlay_AddRejectsCollisions(t *testing.T) {
	o := NewOverlay(testRoster())

	if err := o.Add(player.Player{Name: "Valdir", Skill: 3, Position: player.PositionForward}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for roster collision, got %v", err)
	}
	if err := o.Add(player.Player{Name: "Tiago", Skill: 3, Position: player.PositionForward}); err != nil {
		t.Fatalf("add guest: %v", err)
	}
	if err := o.Add(player.Player{Name: "Tiago", Skill: 2, Position: player.PositionMidfielder}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for guest collision, got %v", err)
	}
	if err := o.Add(player.Player{Name: "valdir", Skill: 3, Position: player.PositionForward}); err != nil {
		t.Fatalf("names are case-sensitive, got %v", err)
	}
}

func TestOverlay_AddValidatesGuest(t *testing.T) {
	o := NewOverlay(nil)

	err := o.Add(player.Player{Name: "Tiago", Skill: 3, Position: "GK"})
	if !errors.Is(err, player.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestOverlay_Pool(t *testing.T) {
	roster := testRoster()
	o := NewOverlay(roster)
	if err := o.Add(player.Player{Name: "Tiago", Skill: 3, Position: player.PositionForward}); err != nil {
		t.Fatalf("add guest: %v", err)
	}

	pool, err := o.Pool([]string{"Delio", "Valdir", "Tiago"})
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if len(pool) != 3 {
		t.Fatalf("expected 3 players, got %d", len(pool))
	}
	if pool[0].Name != "Delio" || pool[1].Name != "Valdir" || pool[2].Name != "Tiago" {
		t.Fatalf("unexpected pool order: %v", pool)
	}
	if !pool[2].IsGuest || pool[0].IsGuest {
		t.Fatalf("unexpected guest flags")
	}

	pool[0].AlternativePositions = append(pool[0].AlternativePositions, player.PositionForward)
	if len(roster[2].AlternativePositions) != 0 {
		t.Fatalf("pool must not alias the roster snapshot")
	}
}

func TestOverlay_PoolErrors(t *testing.T) {
	o := NewOverlay(testRoster())

	if _, err := o.Pool([]string{"Nobody"}); !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
	if _, err := o.Pool([]string{"Josce", "Josce"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for repeated selection, got %v", err)
	}
}
