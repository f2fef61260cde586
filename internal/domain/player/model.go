package player

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Position is a tactical role code from the closed set used by the roster.
type Position string

const (
	PositionGoalkeeper Position = "GOL"
	PositionCenterBack Position = "ZAG"
	PositionRightBack  Position = "LD"
	PositionLeftBack   Position = "LE"
	PositionMidfielder Position = "MC"
	PositionWinger     Position = "PD/PE"
	PositionForward    Position = "ATA"
)

const (
	MinSkill        = 1
	MaxSkill        = 5
	MinAge          = 1
	MaxAge          = 120
	DefaultGuestAge = 30
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidPlayer   = errors.New("invalid player")
)

// AllPositions lists the closed position set in display order.
var AllPositions = []Position{
	PositionGoalkeeper,
	PositionCenterBack,
	PositionRightBack,
	PositionLeftBack,
	PositionMidfielder,
	PositionWinger,
	PositionForward,
}

var positionOrder = map[Position]int{
	PositionGoalkeeper: 1,
	PositionCenterBack: 2,
	PositionRightBack:  3,
	PositionLeftBack:   4,
	PositionMidfielder: 5,
	PositionWinger:     6,
	PositionForward:    7,
}

func (p Position) Valid() bool {
	_, ok := positionOrder[p]
	return ok
}

// Order returns the display rank of the position; unknown codes sort last.
func (p Position) Order() int {
	if order, ok := positionOrder[p]; ok {
		return order
	}
	return 99
}

func ParsePosition(raw string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", errors.Wrapf(ErrInvalidPosition, "%q", raw)
	}
	return p, nil
}

// Player is a roster entry or a session guest.
type Player struct {
	Name                 string
	Age                  int
	Skill                int
	Position             Position
	AlternativePositions []Position
	IsGuest              bool
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Mark(errors.New("player name is required"), ErrInvalidPlayer)
	}
	if !p.Position.Valid() {
		return errors.Wrapf(ErrInvalidPosition, "player %q primary position %q", p.Name, p.Position)
	}

	seen := make(map[Position]struct{}, len(p.AlternativePositions))
	for _, alt := range p.AlternativePositions {
		if !alt.Valid() {
			return errors.Wrapf(ErrInvalidPosition, "player %q alternative position %q", p.Name, alt)
		}
		if alt == p.Position {
			return errors.Mark(errors.Newf("player %q lists primary position %s as alternative", p.Name, alt), ErrInvalidPlayer)
		}
		if _, dup := seen[alt]; dup {
			return errors.Mark(errors.Newf("player %q lists alternative position %s twice", p.Name, alt), ErrInvalidPlayer)
		}
		seen[alt] = struct{}{}
	}

	if p.Skill < MinSkill || p.Skill > MaxSkill {
		return errors.Mark(errors.Newf("player %q skill must be between %d and %d, got %d", p.Name, MinSkill, MaxSkill, p.Skill), ErrInvalidPlayer)
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return errors.Mark(errors.Newf("player %q age must be between %d and %d, got %d", p.Name, MinAge, MaxAge, p.Age), ErrInvalidPlayer)
	}

	return nil
}

// CanPlay reports whether pos is the primary or one of the alternative positions.
func (p Player) CanPlay(pos Position) bool {
	if p.Position == pos {
		return true
	}
	for _, alt := range p.AlternativePositions {
		if alt == pos {
			return true
		}
	}
	return false
}

func (p Player) Clone() Player {
	copied := p
	if p.AlternativePositions != nil {
		copied.AlternativePositions = append(make([]Position, 0, len(p.AlternativePositions)), p.AlternativePositions...)
	}
	return copied
}

func CloneAll(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, p.Clone())
	}
	return out
}
