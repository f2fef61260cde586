package httpapi

import (
	"strings"

	"github.com/riskibarqy/pelada-balancer/internal/domain/balance"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/usecase"
)

type playerDTO struct {
	Name                string   `json:"name" validate:"required,max=64"`
	Age                 int      `json:"age" validate:"min=0,max=120"`
	Skill               int      `json:"skill" validate:"min=1,max=5"`
	Position            string   `json:"position" validate:"required,position"`
	AlternativePosition []string `json:"alternative_position" validate:"omitempty,dive,position"`
	IsGuest             bool     `json:"is_guest"`
}

type assignedPlayerDTO struct {
	playerDTO
	AssignedPosition string `json:"assigned_position"`
}

type selectionRequest struct {
	Names  []string    `json:"names" validate:"dive,required"`
	Guests []playerDTO `json:"guests" validate:"dive"`
}

type updatePlayerResponse struct {
	Message string    `json:"message"`
	Player  playerDTO `json:"player"`
}

type teamStatsDTO struct {
	Size     int     `json:"size"`
	AvgSkill float64 `json:"avg_skill"`
	AvgAge   float64 `json:"avg_age"`
}

type formationDTO struct {
	Name        string   `json:"name"`
	Outfield    int      `json:"outfield"`
	Defenders   int      `json:"defenders"`
	Midfielders int      `json:"midfielders"`
	Attackers   int      `json:"attackers"`
	Slots       []string `json:"slots"`
}

type generationDTO struct {
	Team1     []assignedPlayerDTO     `json:"team1"`
	Team2     []assignedPlayerDTO     `json:"team2"`
	Formation formationDTO            `json:"formation"`
	Stats     map[string]teamStatsDTO `json:"stats"`
	Balance   balanceDTO              `json:"balance"`
}

type balanceDTO struct {
	SkillGap   float64 `json:"skill_gap"`
	AgeGap     float64 `json:"age_gap"`
	OffPrimary int     `json:"off_primary"`
	Iterations int     `json:"iterations"`
}

func (d playerDTO) toDomain() player.Player {
	alts := make([]player.Position, 0, len(d.AlternativePosition))
	for _, alt := range d.AlternativePosition {
		alts = append(alts, player.Position(alt))
	}
	return player.Player{
		Name:                 strings.TrimSpace(d.Name),
		Age:                  d.Age,
		Skill:                d.Skill,
		Position:             player.Position(d.Position),
		AlternativePositions: alts,
		IsGuest:              d.IsGuest,
	}
}

func playersToDomain(items []playerDTO) []player.Player {
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		Name:                p.Name,
		Age:                 p.Age,
		Skill:               p.Skill,
		Position:            string(p.Position),
		AlternativePosition: positionsToStrings(p.AlternativePositions),
		IsGuest:             p.IsGuest,
	}
}

func positionsToStrings(items []player.Position) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}
	return out
}

func teamToDTO(team []balance.AssignedPlayer) []assignedPlayerDTO {
	out := make([]assignedPlayerDTO, 0, len(team))
	for _, p := range team {
		out = append(out, assignedPlayerDTO{
			playerDTO:        playerToDTO(p.Player),
			AssignedPosition: string(p.AssignedPosition),
		})
	}
	return out
}

func formationToDTO(f balance.Formation) formationDTO {
	return formationDTO{
		Name:        f.Name,
		Outfield:    f.Outfield(),
		Defenders:   f.Defenders,
		Midfielders: f.Midfielders,
		Attackers:   f.Attackers,
		Slots:       positionsToStrings(f.Slots),
	}
}

func statsToDTO(s balance.TeamStats) teamStatsDTO {
	return teamStatsDTO{Size: s.Size, AvgSkill: s.AvgSkill, AvgAge: s.AvgAge}
}

func generationToDTO(g usecase.Generation) generationDTO {
	return generationDTO{
		Team1:     teamToDTO(g.Team1),
		Team2:     teamToDTO(g.Team2),
		Formation: formationToDTO(g.Formation),
		Stats: map[string]teamStatsDTO{
			"team1": statsToDTO(g.Stats1),
			"team2": statsToDTO(g.Stats2),
		},
		Balance: balanceDTO{
			SkillGap:   g.Score.SkillGap,
			AgeGap:     g.Score.AgeGap,
			OffPrimary: g.Score.OffPrimary,
			Iterations: g.Iterations,
		},
	}
}
