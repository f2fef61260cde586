package file

import "github.com/riskibarqy/pelada-balancer/internal/domain/player"

// playerRecord is the on-disk shape of one roster entry.
type playerRecord struct {
	Name                string   `json:"name"`
	Position            string   `json:"position"`
	AlternativePosition []string `json:"alternative_position"`
	Skill               int      `json:"skill"`
	Age                 int      `json:"age"`
	IsGuest             bool     `json:"is_guest"`
}

func toRecord(p player.Player) playerRecord {
	alts := make([]string, 0, len(p.AlternativePositions))
	for _, alt := range p.AlternativePositions {
		alts = append(alts, string(alt))
	}
	return playerRecord{
		Name:                p.Name,
		Position:            string(p.Position),
		AlternativePosition: alts,
		Skill:               p.Skill,
		Age:                 p.Age,
	}
}

func (r playerRecord) toPlayer() player.Player {
	alts := make([]player.Position, 0, len(r.AlternativePosition))
	for _, alt := range r.AlternativePosition {
		alts = append(alts, player.Position(alt))
	}
	return player.Player{
		Name:                 r.Name,
		Position:             player.Position(r.Position),
		AlternativePositions: alts,
		Skill:                r.Skill,
		Age:                  r.Age,
	}
}
