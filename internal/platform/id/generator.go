package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/cockroachdb/errors"
)

// Generator creates opaque IDs, used to correlate a request across logs and traces.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns IDs of 2*size hex characters; size defaults to 16 bytes.
func NewRandomGenerator(size ...int) *RandomGenerator {
	g := &RandomGenerator{size: 16}
	if len(size) > 0 && size[0] > 0 {
		g.size = size[0]
	}
	return g
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return hex.EncodeToString(buf), nil
}
