package class

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces the opaque identity token stamped on every class.
// Implemented by UUIDv7Generator (default) and SequenceGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 class identities.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns "<prefix>-1", "<prefix>-2", ... for deterministic
// identities in tests and golden traces.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceGenerator creates a generator whose first token is prefix + "-1".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next token in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

var (
	idMu  sync.RWMutex
	idGen IDGenerator = UUIDv7Generator{}
)

// SetIDGenerator replaces the generator used by Extend and returns a function
// that restores the previous one.
//
//	restore := class.SetIDGenerator(class.NewSequenceGenerator("cls"))
//	defer restore()
func SetIDGenerator(g IDGenerator) (restore func()) {
	if g == nil {
		g = UUIDv7Generator{}
	}
	idMu.Lock()
	prev := idGen
	idGen = g
	idMu.Unlock()
	return func() {
		idMu.Lock()
		idGen = prev
		idMu.Unlock()
	}
}

func nextID() string {
	idMu.RLock()
	defer idMu.RUnlock()
	return idGen.Generate()
}
