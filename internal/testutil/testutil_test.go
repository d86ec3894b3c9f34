package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/engine"
)

var (
	_ engine.LogicalClock = (*DeterministicClock)(nil)
	_ class.IDGenerator   = (*FixedIDGenerator)(nil)
)

func TestDeterministicClockReset(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
}

func TestFixedIDGenerator(t *testing.T) {
	g := NewFixedIDGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Equal(t, "b", g.Generate())

	assert.Equal(t, "test-class", NewFixedIDGenerator().Generate())
}

func TestEngineWithDeterministicClock(t *testing.T) {
	clock := NewDeterministicClock()
	run := func() []int64 {
		clock.Reset()
		e, err := engine.New(nil, engine.WithClock(clock), engine.WithIDGenerator(NewFixedIDGenerator()))
		assert.NoError(t, err)
		_, err = e.Instantiate("a", "Responder")
		assert.NoError(t, err)
		assert.NoError(t, e.Trigger("a", "ping", nil))
		var seqs []int64
		for _, ev := range e.Trace() {
			seqs = append(seqs, ev.Seq)
		}
		return seqs
	}
	assert.Equal(t, []int64{1, 2}, run())
	assert.Equal(t, run(), run())
}
