package balance

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

// fixturePool returns the first n players of a roster whose prefixes of
// 16..24 players cover every formation.
func fixturePool(n int) []player.Player {
	all := []player.Player{
		{Name: "p01", Skill: 4, Age: 40, Position: player.PositionGoalkeeper},
		{Name: "p02", Skill: 3, Age: 25, Position: player.PositionGoalkeeper},
		{Name: "p03", Skill: 4, Age: 30, Position: player.PositionCenterBack},
		{Name: "p04", Skill: 3, Age: 45, Position: player.PositionCenterBack},
		{Name: "p05", Skill: 3, Age: 25, Position: player.PositionRightBack},
		{Name: "p06", Skill: 2, Age: 55, Position: player.PositionRightBack},
		{Name: "p07", Skill: 4, Age: 45, Position: player.PositionLeftBack},
		{Name: "p08", Skill: 3, Age: 50, Position: player.PositionLeftBack},
		{Name: "p09", Skill: 5, Age: 50, Position: player.PositionMidfielder},
		{Name: "p10", Skill: 4, Age: 55, Position: player.PositionMidfielder},
		{Name: "p11", Skill: 4, Age: 30, Position: player.PositionMidfielder},
		{Name: "p12", Skill: 2, Age: 40, Position: player.PositionMidfielder},
		{Name: "p13", Skill: 5, Age: 35, Position: player.PositionForward},
		{Name: "p14", Skill: 3, Age: 50, Position: player.PositionForward, AlternativePositions: []player.Position{player.PositionWinger}},
		{Name: "p15", Skill: 2, Age: 45, Position: player.PositionForward, AlternativePositions: []player.Position{player.PositionWinger}},
		{Name: "p16", Skill: 4, Age: 22, Position: player.PositionForward, AlternativePositions: []player.Position{player.PositionWinger}},
		{Name: "p17", Skill: 3, Age: 35, Position: player.PositionMidfielder, AlternativePositions: []player.Position{player.PositionForward}},
		{Name: "p18", Skill: 4, Age: 50, Position: player.PositionWinger, AlternativePositions: []player.Position{player.PositionForward}},
		{Name: "p19", Skill: 2, Age: 60, Position: player.PositionWinger, AlternativePositions: []player.Position{player.PositionForward}},
		{Name: "p20", Skill: 3, Age: 28, Position: player.PositionMidfielder, AlternativePositions: []player.Position{player.PositionRightBack}},
		{Name: "p21", Skill: 2, Age: 50, Position: player.PositionCenterBack, AlternativePositions: []player.Position{player.PositionLeftBack}},
		{Name: "p22", Skill: 3, Age: 33, Position: player.PositionCenterBack},
		{Name: "p23", Skill: 3, Age: 72, Position: player.PositionLeftBack},
		{Name: "p24", Skill: 4, Age: 40, Position: player.PositionMidfielder, AlternativePositions: []player.Position{player.PositionForward}},
	}
	return player.CloneAll(all[:n])
}

func TestFormationForPoolSize(t *testing.T) {
	tests := []struct {
		size     int
		name     string
		outfield int
	}{
		{size: 16, name: "3-2-2", outfield: 7},
		{size: 17, name: "3-2-2", outfield: 7},
		{size: 18, name: "3-2-3", outfield: 8},
		{size: 19, name: "3-2-3", outfield: 8},
		{size: 20, name: "3-3-3", outfield: 9},
		{size: 21, name: "3-3-3", outfield: 9},
		{size: 22, name: "4-3-3", outfield: 10},
		{size: 30, name: "4-3-3", outfield: 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("pool %d", tt.size), func(t *testing.T) {
			f, err := FormationForPoolSize(tt.size)
			if err != nil {
				t.Fatalf("formation: %v", err)
			}
			if f.Name != tt.name {
				t.Fatalf("expected formation %s, got %s", tt.name, f.Name)
			}
			if f.Outfield() != tt.outfield {
				t.Fatalf("expected %d outfield players, got %d", tt.outfield, f.Outfield())
			}
			if len(f.Slots) != tt.outfield+1 {
				t.Fatalf("expected %d slots, got %d", tt.outfield+1, len(f.Slots))
			}
			if f.Slots[0] != player.PositionGoalkeeper {
				t.Fatalf("first slot must be GOL, got %s", f.Slots[0])
			}
		})
	}

	if _, err := FormationForPoolSize(15); !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("expected ErrInsufficientPlayers, got %v", err)
	}
}

func TestFormationSlotsAreNotShared(t *testing.T) {
	f, _ := FormationForPoolSize(16)
	f.Slots[0] = player.PositionForward

	again, _ := FormationForPoolSize(16)
	if again.Slots[0] != player.PositionGoalkeeper {
		t.Fatalf("formation table mutated through returned slots")
	}
}

func TestMatchSlots_PrefersPrimaryThenFallsBack(t *testing.T) {
	players := []player.Player{
		{Name: "a", Position: player.PositionCenterBack, AlternativePositions: []player.Position{player.PositionRightBack}},
		{Name: "b", Position: player.PositionCenterBack},
	}

	got := matchSlots(players, []player.Position{player.PositionRightBack, player.PositionCenterBack}, nil)
	if !got.complete() {
		t.Fatalf("expected complete assignment, unfilled=%v", got.unfilled)
	}
	if got.playerOf[0] != 0 || got.playerOf[1] != 1 {
		t.Fatalf("unexpected assignment: %v", got.playerOf)
	}
	if got.offPrimary != 1 {
		t.Fatalf("expected one off-primary assignment, got %d", got.offPrimary)
	}

	got = matchSlots(players, []player.Position{player.PositionGoalkeeper}, nil)
	if got.complete() || len(got.unfilled) != 1 {
		t.Fatalf("expected GOL slot to stay unfilled")
	}
}

func TestBalance_PartitionsPool(t *testing.T) {
	for size := 16; size <= 24; size++ {
		for seed := uint64(0); seed < 3; seed++ {
			t.Run(fmt.Sprintf("size %d seed %d", size, seed), func(t *testing.T) {
				pool := fixturePool(size)
				res, err := Balance(pool, Options{MaxIterations: 1000, Seed: seed, Shuffle: seed > 0})
				if err != nil {
					t.Fatalf("balance: %v", err)
				}

				seen := make(map[string]int)
				for _, p := range append(append([]AssignedPlayer(nil), res.Team1...), res.Team2...) {
					seen[p.Name]++
					if !p.CanPlay(p.AssignedPosition) {
						t.Fatalf("%s assigned to %s outside primary/alternative positions", p.Name, p.AssignedPosition)
					}
				}
				if len(seen) != len(pool) {
					t.Fatalf("expected %d distinct players, got %d", len(pool), len(seen))
				}
				for _, p := range pool {
					if seen[p.Name] != 1 {
						t.Fatalf("player %s appears %d times", p.Name, seen[p.Name])
					}
				}

				diff := len(res.Team1) - len(res.Team2)
				if diff < -1 || diff > 1 {
					t.Fatalf("team sizes differ by more than one: %d vs %d", len(res.Team1), len(res.Team2))
				}

				assertCoversFormation(t, res.Formation, res.Team1)
				assertCoversFormation(t, res.Formation, res.Team2)
			})
		}
	}
}

func assertCoversFormation(t *testing.T, f Formation, team []AssignedPlayer) {
	t.Helper()

	need := make(map[player.Position]int)
	for _, slot := range f.Slots {
		need[slot]++
	}
	have := make(map[player.Position]int)
	for _, p := range team {
		have[p.AssignedPosition]++
	}
	for pos, n := range need {
		if have[pos] < n {
			t.Fatalf("formation %s needs %d %s, team has %d", f.Name, n, pos, have[pos])
		}
	}
}

func TestBalance_LocalOptimality(t *testing.T) {
	for _, size := range []int{16, 18, 20, 22, 24} {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			pool := fixturePool(size)
			res, err := Balance(pool, Options{MaxIterations: 1000, Seed: 7, Shuffle: true})
			if err != nil {
				t.Fatalf("balance: %v", err)
			}
			if !res.Converged {
				t.Fatalf("expected search to converge, iterations=%d", res.Iterations)
			}

			gap := skillGap(res.Team1, res.Team2)
			for i := range res.Team1 {
				for j := range res.Team2 {
					t1 := plainPlayers(res.Team1)
					t2 := plainPlayers(res.Team2)
					t1[i], t2[j] = t2[j], t1[i]

					if !matchSlots(t1, res.Formation.Slots, nil).complete() || !matchSlots(t2, res.Formation.Slots, nil).complete() {
						continue
					}
					if swapped := skillGapPlain(t1, t2); swapped < gap-1e-9 {
						t.Fatalf("swap %s<->%s lowers skill gap from %.4f to %.4f", res.Team1[i].Name, res.Team2[j].Name, gap, swapped)
					}
				}
			}
		})
	}
}

func plainPlayers(team []AssignedPlayer) []player.Player {
	out := make([]player.Player, 0, len(team))
	for _, p := range team {
		out = append(out, p.Player)
	}
	return out
}

func skillGap(a, b []AssignedPlayer) float64 {
	return skillGapPlain(plainPlayers(a), plainPlayers(b))
}

func skillGapPlain(a, b []player.Player) float64 {
	sum := func(team []player.Player) int {
		total := 0
		for _, p := range team {
			total += p.Skill
		}
		return total
	}
	return averageGap(sum(a), len(a), sum(b), len(b))
}

func TestBalance_ExactPrimaryCoverageKeepsEveryoneOnPrimary(t *testing.T) {
	res, err := Balance(fixturePool(16), DefaultOptions())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if res.Formation.Name != "3-2-2" {
		t.Fatalf("expected 3-2-2, got %s", res.Formation.Name)
	}
	if res.Score.OffPrimary != 0 {
		t.Fatalf("expected no off-primary assignments, got %d", res.Score.OffPrimary)
	}
	for _, team := range [][]AssignedPlayer{res.Team1, res.Team2} {
		if len(team) != 8 {
			t.Fatalf("expected 8 players per team, got %d", len(team))
		}
		if team[0].AssignedPosition != player.PositionGoalkeeper {
			t.Fatalf("expected goalkeeper first, got %s", team[0].AssignedPosition)
		}
		for _, p := range team {
			if p.AssignedPosition != p.Position {
				t.Fatalf("%s moved from %s to %s", p.Name, p.Position, p.AssignedPosition)
			}
		}
	}
}

func TestBalance_FourThreeThreeForTwentyTwo(t *testing.T) {
	res, err := Balance(fixturePool(22), DefaultOptions())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if res.Formation.Name != "4-3-3" {
		t.Fatalf("expected 4-3-3, got %s", res.Formation.Name)
	}
	if len(res.Team1) != 11 || len(res.Team2) != 11 {
		t.Fatalf("expected 11 v 11, got %d v %d", len(res.Team1), len(res.Team2))
	}
}

func TestBalance_LeftoverKeepsPrimaryPosition(t *testing.T) {
	res, err := Balance(fixturePool(17), DefaultOptions())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	bigger := res.Team1
	if len(res.Team2) > len(res.Team1) {
		bigger = res.Team2
	}
	if len(bigger) != 9 {
		t.Fatalf("expected one team to carry the extra player, sizes %d/%d", len(res.Team1), len(res.Team2))
	}
	assertCoversFormation(t, res.Formation, bigger)
}

func TestBalance_Deterministic(t *testing.T) {
	opts := Options{MaxIterations: 200, Seed: 42, Shuffle: true}
	first, err := Balance(fixturePool(20), opts)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	second, err := Balance(fixturePool(20), opts)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	if fmt.Sprint(first.Team1) != fmt.Sprint(second.Team1) || fmt.Sprint(first.Team2) != fmt.Sprint(second.Team2) {
		t.Fatalf("same seed produced different teams")
	}
}

func TestBalance_IterationCap(t *testing.T) {
	res, err := Balance(fixturePool(24), Options{MaxIterations: 1, Seed: 3, Shuffle: true})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if res.Iterations > 1 {
		t.Fatalf("expected at most 1 iteration, got %d", res.Iterations)
	}
}

func TestBalance_Failures(t *testing.T) {
	tests := []struct {
		name      string
		pool      func() []player.Player
		targetErr error
	}{
		{
			name:      "fifteen players",
			pool:      func() []player.Player { return fixturePool(15) },
			targetErr: ErrInsufficientPlayers,
		},
		{
			name: "no goalkeeper",
			pool: func() []player.Player {
				pool := fixturePool(16)
				pool[0].Position = player.PositionMidfielder
				pool[1].Position = player.PositionMidfielder
				return pool
			},
			targetErr: ErrUnsatisfiableFormation,
		},
		{
			name: "single goalkeeper",
			pool: func() []player.Player {
				pool := fixturePool(16)
				pool[1].Position = player.PositionForward
				return pool
			},
			targetErr: ErrUnsatisfiableFormation,
		},
		{
			name: "duplicate name",
			pool: func() []player.Player {
				pool := fixturePool(16)
				pool[5].Name = pool[4].Name
				return pool
			},
			targetErr: ErrDuplicateName,
		},
		{
			name: "unknown position",
			pool: func() []player.Player {
				pool := fixturePool(16)
				pool[3].Position = "SW"
				return pool
			},
			targetErr: player.ErrInvalidPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Balance(tt.pool(), DefaultOptions())
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
			if len(res.Team1) != 0 || len(res.Team2) != 0 {
				t.Fatalf("no teams should be returned on failure")
			}
		})
	}
}

func TestBalance_GoalkeeperFromAlternative(t *testing.T) {
	pool := fixturePool(16)
	pool[1].Position = player.PositionForward
	pool[15].AlternativePositions = []player.Position{player.PositionGoalkeeper}

	res, err := Balance(pool, DefaultOptions())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	keepers := 0
	for _, p := range append(append([]AssignedPlayer(nil), res.Team1...), res.Team2...) {
		if p.AssignedPosition == player.PositionGoalkeeper {
			keepers++
		}
	}
	if keepers != 2 {
		t.Fatalf("expected two goalkeepers, got %d", keepers)
	}
}

func TestStats(t *testing.T) {
	team := []AssignedPlayer{
		{Player: player.Player{Skill: 4, Age: 30}},
		{Player: player.Player{Skill: 3, Age: 50}},
	}
	got := Stats(team)
	if got.Size != 2 || got.AvgSkill != 3.5 || got.AvgAge != 40 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if empty := Stats(nil); empty.AvgSkill != 0 || empty.AvgAge != 0 {
		t.Fatalf("expected zero stats for empty team, got %+v", empty)
	}
}
