package memory

import "github.com/riskibarqy/pelada-balancer/internal/domain/player"

const (
	gol = player.PositionGoalkeeper
	zag = player.PositionCenterBack
	ld  = player.PositionRightBack
	le  = player.PositionLeftBack
	mc  = player.PositionMidfielder
	pd  = player.PositionWinger
	ata = player.PositionForward
)

func alts(positions ...player.Position) []player.Position {
	return append([]player.Position{}, positions...)
}

// SeedPlayers returns the default roster used when no stored roster exists.
func SeedPlayers() []player.Player {
	return []player.Player{
		{Name: "Plinio", Position: ld, AlternativePositions: alts(mc, le), Skill: 3, Age: 25},
		{Name: "Valdir", Position: gol, AlternativePositions: alts(), Skill: 4, Age: 40},
		{Name: "Edson", Position: gol, AlternativePositions: alts(), Skill: 4, Age: 62},
		{Name: "Bran", Position: gol, AlternativePositions: alts(), Skill: 3, Age: 25},
		{Name: "Zunino", Position: zag, AlternativePositions: alts(ld, le), Skill: 4, Age: 30},
		{Name: "Josce", Position: zag, AlternativePositions: alts(), Skill: 4, Age: 27},
		{Name: "Eda", Position: le, AlternativePositions: alts(ld, zag), Skill: 3, Age: 50},
		{Name: "Dick", Position: le, AlternativePositions: alts(mc), Skill: 4, Age: 45},
		{Name: "Delio", Position: mc, AlternativePositions: alts(), Skill: 4, Age: 55},
		{Name: "Mauro", Position: mc, AlternativePositions: alts(ata), Skill: 5, Age: 50},
		{Name: "Ilson", Position: ata, AlternativePositions: alts(), Skill: 5, Age: 35},
		{Name: "Bia", Position: ata, AlternativePositions: alts(mc), Skill: 5, Age: 45},
		{Name: "Magrão", Position: ata, AlternativePositions: alts(), Skill: 5, Age: 55},
		{Name: "Gomes", Position: pd, AlternativePositions: alts(), Skill: 4, Age: 50},
		{Name: "Erick", Position: le, AlternativePositions: alts(pd, ata), Skill: 4, Age: 22},
		{Name: "Gerson 2", Position: pd, AlternativePositions: alts(le, ld), Skill: 3, Age: 45},
		{Name: "Gerson", Position: ld, AlternativePositions: alts(pd), Skill: 3, Age: 55},
		{Name: "Diomar", Position: pd, AlternativePositions: alts(), Skill: 2, Age: 60},
		{Name: "Matheus", Position: pd, AlternativePositions: alts(ata), Skill: 2, Age: 25},
		{Name: "Minga", Position: le, AlternativePositions: alts(), Skill: 3, Age: 72},
		{Name: "Xande", Position: mc, AlternativePositions: alts(le), Skill: 4, Age: 40},
		{Name: "Amarildo", Position: ata, AlternativePositions: alts(), Skill: 3, Age: 50},
		{Name: "Aures", Position: pd, AlternativePositions: alts(le), Skill: 3, Age: 50},
		{Name: "Fininho", Position: mc, AlternativePositions: alts(ata), Skill: 4, Age: 50},
		{Name: "Deba", Position: mc, AlternativePositions: alts(), Skill: 4, Age: 30},
		{Name: "Gustavo", Position: mc, AlternativePositions: alts(ata), Skill: 4, Age: 30},
		{Name: "Vânio", Position: mc, AlternativePositions: alts(ata), Skill: 4, Age: 40},
		{Name: "Murilo", Position: ata, AlternativePositions: alts(), Skill: 2, Age: 45},
		{Name: "Ricardo", Position: mc, AlternativePositions: alts(ld, le), Skill: 4, Age: 35},
		{Name: "Tarcisio", Position: ata, AlternativePositions: alts(), Skill: 2, Age: 50},
		{Name: "Vilmar", Position: zag, AlternativePositions: alts(le), Skill: 3, Age: 45},
	}
}
