package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

const playersTable = "players"

type playerTableModel struct {
	ID                  int64          `db:"id"`
	Name                string         `db:"name"`
	Position            string         `db:"position"`
	AlternativePosition pq.StringArray `db:"alternative_position"`
	Skill               int            `db:"skill"`
	Age                 int            `db:"age"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type playerInsertModel struct {
	Name                string         `db:"name"`
	Position            string         `db:"position"`
	AlternativePosition pq.StringArray `db:"alternative_position"`
	Skill               int            `db:"skill"`
	Age                 int            `db:"age"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	alts := make([]player.Position, 0, len(m.AlternativePosition))
	for _, alt := range m.AlternativePosition {
		alts = append(alts, player.Position(alt))
	}
	return player.Player{
		Name:                 m.Name,
		Position:             player.Position(m.Position),
		AlternativePositions: alts,
		Skill:                m.Skill,
		Age:                  m.Age,
	}
}

func newPlayerInsertModel(p player.Player, now time.Time) playerInsertModel {
	alts := make(pq.StringArray, 0, len(p.AlternativePositions))
	for _, alt := range p.AlternativePositions {
		alts = append(alts, string(alt))
	}
	return playerInsertModel{
		Name:                p.Name,
		Position:            string(p.Position),
		AlternativePosition: alts,
		Skill:               p.Skill,
		Age:                 p.Age,
		UpdatedAt:           now.UTC(),
	}
}
