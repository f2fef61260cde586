package balance

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

// MinPoolSize is the smallest pool that can be split into two teams.
const MinPoolSize = 16

// Formation describes one team's layout: a goalkeeper plus outfield lines.
type Formation struct {
	Name        string
	Defenders   int
	Midfielders int
	Attackers   int
	Slots       []player.Position
}

func (f Formation) Outfield() int {
	return f.Defenders + f.Midfielders + f.Attackers
}

// Required is the number of slotted players across both teams.
func (f Formation) Required() int {
	return 2 * len(f.Slots)
}

type formationRule struct {
	maxPool   int
	formation Formation
}

var formationRules = []formationRule{
	{
		maxPool: 17,
		formation: Formation{
			Name: "3-2-2", Defenders: 3, Midfielders: 2, Attackers: 2,
			Slots: []player.Position{
				player.PositionGoalkeeper,
				player.PositionCenterBack, player.PositionRightBack, player.PositionLeftBack,
				player.PositionMidfielder, player.PositionMidfielder,
				player.PositionForward, player.PositionForward,
			},
		},
	},
	{
		maxPool: 19,
		formation: Formation{
			Name: "3-2-3", Defenders: 3, Midfielders: 2, Attackers: 3,
			Slots: []player.Position{
				player.PositionGoalkeeper,
				player.PositionCenterBack, player.PositionRightBack, player.PositionLeftBack,
				player.PositionMidfielder, player.PositionMidfielder,
				player.PositionWinger, player.PositionWinger, player.PositionForward,
			},
		},
	},
	{
		maxPool: 21,
		formation: Formation{
			Name: "3-3-3", Defenders: 3, Midfielders: 3, Attackers: 3,
			Slots: []player.Position{
				player.PositionGoalkeeper,
				player.PositionCenterBack, player.PositionRightBack, player.PositionLeftBack,
				player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
				player.PositionForward, player.PositionForward, player.PositionForward,
			},
		},
	},
	{
		maxPool: 0,
		formation: Formation{
			Name: "4-3-3", Defenders: 4, Midfielders: 3, Attackers: 3,
			Slots: []player.Position{
				player.PositionGoalkeeper,
				player.PositionCenterBack, player.PositionCenterBack, player.PositionRightBack, player.PositionLeftBack,
				player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
				player.PositionForward, player.PositionForward, player.PositionForward,
			},
		},
	},
}

// FormationForPoolSize picks the per-team layout for a pool of n players.
func FormationForPoolSize(n int) (Formation, error) {
	if n < MinPoolSize {
		return Formation{}, errors.Wrapf(ErrInsufficientPlayers, "at least %d players are required, got %d", MinPoolSize, n)
	}

	for _, rule := range formationRules {
		if rule.maxPool == 0 || n <= rule.maxPool {
			f := rule.formation
			f.Slots = append([]player.Position(nil), rule.formation.Slots...)
			return f, nil
		}
	}

	return Formation{}, errors.AssertionFailedf("no formation rule for pool size %d", n)
}
