package testutil

import "sync"

// FixedIDGenerator hands out a fixed list of class identity tokens, then
// repeats the last one. It satisfies class.IDGenerator.
//
// With no tokens, Generate returns "test-class".
type FixedIDGenerator struct {
	mu     sync.Mutex
	tokens []string
	next   int
}

// NewFixedIDGenerator creates a generator over tokens.
func NewFixedIDGenerator(tokens ...string) *FixedIDGenerator {
	return &FixedIDGenerator{tokens: tokens}
}

// Generate returns the next token.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.tokens) == 0 {
		return "test-class"
	}
	if g.next >= len(g.tokens) {
		return g.tokens[len(g.tokens)-1]
	}
	tok := g.tokens[g.next]
	g.next++
	return tok
}
