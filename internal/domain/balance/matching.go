package balance

import "github.com/riskibarqy/pelada-balancer/internal/domain/player"

// slotMatcher fills slots with distinct players using augmenting paths.
// Slots are first matched on primary positions only, then the remaining
// slots are completed using alternative positions.
type slotMatcher struct {
	players     []player.Player
	slots       []player.Position
	order       []int
	playerOf    []int
	slotOf      []int
	visited     []bool
	primaryOnly bool
}

type slotAssignment struct {
	// playerOf maps slot index to player index, -1 when unfilled.
	playerOf   []int
	unfilled   []int
	offPrimary int
}

func (a slotAssignment) complete() bool {
	return len(a.unfilled) == 0
}

// matchSlots assigns players to slots. order lists player indices in the
// preference order used when several candidates are eligible; nil means
// natural order.
func matchSlots(players []player.Player, slots []player.Position, order []int) slotAssignment {
	if order == nil {
		order = make([]int, len(players))
		for i := range order {
			order[i] = i
		}
	}

	m := &slotMatcher{
		players:  players,
		slots:    slots,
		order:    order,
		playerOf: make([]int, len(slots)),
		slotOf:   make([]int, len(players)),
		visited:  make([]bool, len(players)),
	}
	for i := range m.playerOf {
		m.playerOf[i] = -1
	}
	for i := range m.slotOf {
		m.slotOf[i] = -1
	}

	m.primaryOnly = true
	m.fill()
	m.primaryOnly = false
	m.fill()

	out := slotAssignment{playerOf: m.playerOf}
	for s, p := range m.playerOf {
		if p < 0 {
			out.unfilled = append(out.unfilled, s)
			continue
		}
		if players[p].Position != slots[s] {
			out.offPrimary++
		}
	}

	return out
}

func (m *slotMatcher) fill() {
	for s := range m.slots {
		if m.playerOf[s] >= 0 {
			continue
		}
		for i := range m.visited {
			m.visited[i] = false
		}
		m.augment(s)
	}
}

func (m *slotMatcher) eligible(slot, p int) bool {
	if m.primaryOnly {
		return m.players[p].Position == m.slots[slot]
	}
	return m.players[p].CanPlay(m.slots[slot])
}

func (m *slotMatcher) augment(slot int) bool {
	for _, p := range m.order {
		if m.visited[p] || !m.eligible(slot, p) {
			continue
		}
		m.visited[p] = true

		if m.slotOf[p] < 0 || m.augment(m.slotOf[p]) {
			m.slotOf[p] = slot
			m.playerOf[slot] = p
			return true
		}
	}

	return false
}
