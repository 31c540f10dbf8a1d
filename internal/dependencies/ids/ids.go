package ids

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/mcoot/banker/internal/dependencies/clock"
)

// Generator produces unique identifiers that can be mocked for testing
type Generator interface {
	// NewID returns a new lexicographically sortable identifier
	NewID() string
}

// ULIDGenerator implements Generator with monotonic ULIDs
type ULIDGenerator struct {
	mu      sync.Mutex
	clock   clock.Clock
	entropy *ulid.MonotonicEntropy
}

// New creates a ULIDGenerator stamped by the given clock
func New(clk clock.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   clk,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewID returns a ULID; IDs from the same millisecond still sort in creation order
func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}
