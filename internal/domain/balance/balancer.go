package balance

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

const DefaultMaxIterations = 500

// Options tunes a single balancing run.
type Options struct {
	// MaxIterations caps local-search passes; each pass applies at most one swap.
	MaxIterations int
	// Seed drives candidate ordering when Shuffle is set.
	Seed    uint64
	Shuffle bool
}

func DefaultOptions() Options {
	return Options{MaxIterations: DefaultMaxIterations}
}

// AssignedPlayer is a pool member placed on a team with a concrete position.
type AssignedPlayer struct {
	player.Player
	AssignedPosition player.Position
}

// Result holds two disjoint teams covering the whole pool.
type Result struct {
	Formation  Formation
	Team1      []AssignedPlayer
	Team2      []AssignedPlayer
	Score      Score
	Iterations int
	Converged  bool
}

// ValidatePool checks the preconditions of Balance.
func ValidatePool(pool []player.Player) error {
	if len(pool) < MinPoolSize {
		return errors.Wrapf(ErrInsufficientPlayers, "at least %d players are required, got %d", MinPoolSize, len(pool))
	}

	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return errors.Wrapf(ErrDuplicateName, "%q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	return nil
}

// Balance splits pool into two teams that fill the formation for its size,
// then runs a bounded swap search minimizing Score.
func Balance(pool []player.Player, opts Options) (Result, error) {
	if err := ValidatePool(pool); err != nil {
		return Result{}, err
	}

	formation, err := FormationForPoolSize(len(pool))
	if err != nil {
		return Result{}, err
	}

	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	s := &search{
		pool:      pool,
		formation: formation,
		opts:      opts,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	if err := s.seedSplit(); err != nil {
		return Result{}, err
	}
	s.improve()

	return s.result(), nil
}

type search struct {
	pool       []player.Player
	formation  Formation
	opts       Options
	rng        *rand.Rand
	teams      [2][]int
	skillSum   [2]int
	ageSum     [2]int
	score      Score
	iterations int
	converged  bool
}

type slotPair struct {
	a, b int
}

type swapCandidate struct {
	i, j     int
	skillGap float64
	ageGap   float64
}

func (s *search) seedSplit() error {
	order := make([]int, len(s.pool))
	for i := range order {
		order[i] = i
	}
	if s.opts.Shuffle {
		s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	k := len(s.formation.Slots)
	both := make([]player.Position, 0, 2*k)
	both = append(both, s.formation.Slots...)
	both = append(both, s.formation.Slots...)

	assign := matchSlots(s.pool, both, order)
	if !assign.complete() {
		return s.unsatisfiable(both, assign.unfilled[0])
	}

	used := make([]bool, len(s.pool))
	pairs := make([]slotPair, 0, k)
	for slot := 0; slot < k; slot++ {
		a, b := assign.playerOf[slot], assign.playerOf[slot+k]
		used[a], used[b] = true, true
		if s.pool[b].Skill > s.pool[a].Skill {
			a, b = b, a
		}
		pairs = append(pairs, slotPair{a: a, b: b})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return s.pool[pairs[i].a].Skill-s.pool[pairs[i].b].Skill > s.pool[pairs[j].a].Skill-s.pool[pairs[j].b].Skill
	})
	for _, pair := range pairs {
		target := 0
		if s.skillSum[1] < s.skillSum[0] {
			target = 1
		}
		s.add(target, pair.a)
		s.add(1-target, pair.b)
	}

	leftovers := make([]int, 0, len(s.pool)-2*k)
	for _, idx := range order {
		if !used[idx] {
			leftovers = append(leftovers, idx)
		}
	}
	sort.SliceStable(leftovers, func(i, j int) bool {
		return s.pool[leftovers[i]].Skill > s.pool[leftovers[j]].Skill
	})
	for _, idx := range leftovers {
		target := 0
		if len(s.teams[1]) < len(s.teams[0]) ||
			(len(s.teams[1]) == len(s.teams[0]) && s.skillSum[1] < s.skillSum[0]) {
			target = 1
		}
		s.add(target, idx)
	}

	a0 := s.assignTeam(s.teams[0])
	a1 := s.assignTeam(s.teams[1])
	s.score = Score{
		SkillGap:   averageGap(s.skillSum[0], len(s.teams[0]), s.skillSum[1], len(s.teams[1])),
		AgeGap:     averageGap(s.ageSum[0], len(s.teams[0]), s.ageSum[1], len(s.teams[1])),
		OffPrimary: a0.offPrimary + a1.offPrimary,
	}

	return nil
}

func (s *search) unsatisfiable(slots []player.Position, unfilled int) error {
	pos := slots[unfilled]
	required := 0
	for _, slot := range slots {
		if slot == pos {
			required++
		}
	}
	capable := 0
	for _, p := range s.pool {
		if p.CanPlay(pos) {
			capable++
		}
	}

	return errors.Wrapf(ErrUnsatisfiableFormation,
		"cannot fill %s slots for formation %s: %d required across both teams, %d player(s) can play it",
		pos, s.formation.Name, required, capable)
}

func (s *search) add(team, idx int) {
	s.teams[team] = append(s.teams[team], idx)
	s.skillSum[team] += s.pool[idx].Skill
	s.ageSum[team] += s.pool[idx].Age
}

func (s *search) assignTeam(members []int) slotAssignment {
	players := make([]player.Player, len(members))
	for i, idx := range members {
		players[i] = s.pool[idx]
	}
	return matchSlots(players, s.formation.Slots, nil)
}

func (s *search) improve() {
	for s.iterations < s.opts.MaxIterations {
		s.iterations++
		if !s.applyBestSwap() {
			s.converged = true
			return
		}
	}
}

// applyBestSwap tries swaps in order of resulting skill and age gap and
// commits the first one that keeps both teams slot-complete and lowers the
// score.
func (s *search) applyBestSwap() bool {
	candidates := s.candidates()
	sort.SliceStable(candidates, func(a, b int) bool {
		if c := compareFloat(candidates[a].skillGap, candidates[b].skillGap); c != 0 {
			return c < 0
		}
		return compareFloat(candidates[a].ageGap, candidates[b].ageGap) < 0
	})

	for _, c := range candidates {
		t0 := append([]int(nil), s.teams[0]...)
		t1 := append([]int(nil), s.teams[1]...)
		t0[c.i], t1[c.j] = t1[c.j], t0[c.i]

		a0 := s.assignTeam(t0)
		if !a0.complete() {
			continue
		}
		a1 := s.assignTeam(t1)
		if !a1.complete() {
			continue
		}

		next := Score{SkillGap: c.skillGap, AgeGap: c.ageGap, OffPrimary: a0.offPrimary + a1.offPrimary}
		if !next.Less(s.score) {
			continue
		}

		p, q := s.pool[s.teams[0][c.i]], s.pool[s.teams[1][c.j]]
		s.skillSum[0] += q.Skill - p.Skill
		s.skillSum[1] += p.Skill - q.Skill
		s.ageSum[0] += q.Age - p.Age
		s.ageSum[1] += p.Age - q.Age
		s.teams[0], s.teams[1] = t0, t1
		s.score = next
		return true
	}

	return false
}

// candidates lists swaps whose skill and age gaps do not exceed the current ones.
func (s *search) candidates() []swapCandidate {
	n0, n1 := len(s.teams[0]), len(s.teams[1])
	out := make([]swapCandidate, 0, n0*n1)
	for i, pi := range s.teams[0] {
		p := s.pool[pi]
		for j, qi := range s.teams[1] {
			q := s.pool[qi]
			skillGap := averageGap(s.skillSum[0]-p.Skill+q.Skill, n0, s.skillSum[1]-q.Skill+p.Skill, n1)
			ageGap := averageGap(s.ageSum[0]-p.Age+q.Age, n0, s.ageSum[1]-q.Age+p.Age, n1)

			if c := compareFloat(skillGap, s.score.SkillGap); c > 0 {
				continue
			} else if c == 0 && compareFloat(ageGap, s.score.AgeGap) > 0 {
				continue
			}
			out = append(out, swapCandidate{i: i, j: j, skillGap: skillGap, ageGap: ageGap})
		}
	}
	return out
}

func (s *search) result() Result {
	return Result{
		Formation:  s.formation,
		Team1:      s.buildTeam(s.teams[0]),
		Team2:      s.buildTeam(s.teams[1]),
		Score:      s.score,
		Iterations: s.iterations,
		Converged:  s.converged,
	}
}

func (s *search) buildTeam(members []int) []AssignedPlayer {
	assign := s.assignTeam(members)
	positions := make([]player.Position, len(members))
	for i, idx := range members {
		positions[i] = s.pool[idx].Position
	}
	for slot, i := range assign.playerOf {
		if i >= 0 {
			positions[i] = s.formation.Slots[slot]
		}
	}

	out := make([]AssignedPlayer, 0, len(members))
	for i, idx := range members {
		out = append(out, AssignedPlayer{
			Player:           s.pool[idx].Clone(),
			AssignedPosition: positions[i],
		})
	}
	SortByPosition(out)

	return out
}

// SortByPosition orders a team GOL first through ATA, then by name.
func SortByPosition(team []AssignedPlayer) {
	sort.SliceStable(team, func(i, j int) bool {
		oi, oj := team[i].AssignedPosition.Order(), team[j].AssignedPosition.Order()
		if oi != oj {
			return oi < oj
		}
		return strings.Compare(team[i].Name, team[j].Name) < 0
	})
}

// TeamStats are the aggregate figures shown next to a generated team.
type TeamStats struct {
	Size     int
	AvgSkill float64
	AvgAge   float64
}

func Stats(team []AssignedPlayer) TeamStats {
	var skill, age int
	for _, p := range team {
		skill += p.Skill
		age += p.Age
	}
	return TeamStats{
		Size:     len(team),
		AvgSkill: average(skill, len(team)),
		AvgAge:   average(age, len(team)),
	}
}
