package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/domain/balance"
	"github.com/riskibarqy/pelada-balancer/internal/domain/guest"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/resilience"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInsufficientPlayers    = errors.New("insufficient players")
	ErrUnsatisfiableFormation = errors.New("unsatisfiable formation")
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("resource already exists")
	ErrDependencyUnavailable  = errors.New("dependency unavailable")
)

// classify marks domain errors with the usecase sentinel the transport maps
// to a status. The wrapped chain is kept for errors.Is and logging.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, balance.ErrInsufficientPlayers):
		return errors.Mark(err, ErrInsufficientPlayers)
	case errors.Is(err, balance.ErrUnsatisfiableFormation):
		return errors.Mark(err, ErrUnsatisfiableFormation)
	case errors.Is(err, guest.ErrUnknownName):
		return errors.Mark(err, ErrNotFound)
	case errors.Is(err, balance.ErrDuplicateName),
		errors.Is(err, guest.ErrNameTaken),
		errors.Is(err, player.ErrInvalidPlayer),
		errors.Is(err, player.ErrInvalidPosition):
		return errors.Mark(err, ErrInvalidInput)
	case errors.Is(err, resilience.ErrCircuitOpen):
		return errors.Mark(err, ErrDependencyUnavailable)
	default:
		return err
	}
}
