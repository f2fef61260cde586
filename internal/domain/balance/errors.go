package balance

import "github.com/cockroachdb/errors"

var (
	ErrInsufficientPlayers    = errors.New("insufficient players")
	ErrDuplicateName          = errors.New("duplicate player name")
	ErrUnsatisfiableFormation = errors.New("unsatisfiable formation")
)
