package guest

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
)

var (
	ErrNameTaken   = errors.New("name already taken")
	ErrUnknownName = errors.New("unknown player name")
)

// Overlay merges session guests with a roster snapshot for one generation
// request. It never writes back to the roster.
type Overlay struct {
	roster      []player.Player
	rosterIndex map[string]int
	guests      []player.Player
	guestIndex  map[string]int
}

func NewOverlay(roster []player.Player) *Overlay {
	o := &Overlay{
		roster:      player.CloneAll(roster),
		rosterIndex: make(map[string]int, len(roster)),
		guestIndex:  make(map[string]int),
	}
	for i := range o.roster {
		o.roster[i].IsGuest = false
		o.rosterIndex[o.roster[i].Name] = i
	}
	return o
}

// Normalize flags g as a guest and fills the defaults the UI applies to walk-ins.
func Normalize(g player.Player) player.Player {
	g = g.Clone()
	g.IsGuest = true
	if g.Age == 0 {
		g.Age = player.DefaultGuestAge
	}
	if g.AlternativePositions == nil {
		g.AlternativePositions = []player.Position{}
	}
	return g
}

// Add registers a guest. Names are case-sensitive and must not collide with
// the roster or another guest.
func (o *Overlay) Add(g player.Player) error {
	g = Normalize(g)
	if err := g.Validate(); err != nil {
		return err
	}
	if _, ok := o.rosterIndex[g.Name]; ok {
		return errors.Wrapf(ErrNameTaken, "guest %q matches a roster player", g.Name)
	}
	if _, ok := o.guestIndex[g.Name]; ok {
		return errors.Wrapf(ErrNameTaken, "guest %q added twice", g.Name)
	}

	o.guestIndex[g.Name] = len(o.guests)
	o.guests = append(o.guests, g)
	return nil
}

func (o *Overlay) Guests() []player.Player {
	return player.CloneAll(o.guests)
}

// Pool returns the selected roster players in selection order followed by
// every guest. Selecting a guest by name is allowed and does not duplicate it.
func (o *Overlay) Pool(names []string) ([]player.Player, error) {
	out := make([]player.Player, 0, len(names)+len(o.guests))
	selected := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := selected[name]; dup {
			return nil, errors.Wrapf(ErrNameTaken, "%q selected twice", name)
		}
		selected[name] = struct{}{}

		if idx, ok := o.rosterIndex[name]; ok {
			out = append(out, o.roster[idx].Clone())
			continue
		}
		if _, ok := o.guestIndex[name]; ok {
			continue
		}
		return nil, errors.Wrapf(ErrUnknownName, "%q", name)
	}

	out = append(out, player.CloneAll(o.guests)...)
	return out, nil
}
