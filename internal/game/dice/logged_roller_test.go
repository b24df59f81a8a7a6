package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aherron/skirmish/internal/game/dice"
)

// script returns queued values, clamping each to the requested bound.
type script struct {
	vals []int
	i    int
}

func (s *script) Intn(n int) int {
	if s.i >= len(s.vals) {
		panic("script exhausted")
	}
	v := s.vals[s.i]
	s.i++
	if v >= n {
		v = n - 1
	}
	return v
}

// TestRoller_NarratesEachRoll verifies a roll is logged at debug level
// with the audit fields and still returns the plain roll result.
func TestRoller_NarratesEachRoll(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	roller := dice.NewLoggedRoller(&script{vals: []int{3, 5}}, zap.New(core))

	result, err := roller.Roll(dice.MustParse("2d6+3"))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, result.Dice)
	assert.Equal(t, 13, result.Total())

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2d6+3", fields["expression"])
	assert.Equal(t, int64(3), fields["modifier"])
	assert.Equal(t, int64(13), fields["total"])
}

// TestRoller_QuietAboveDebug verifies narration stays out of info-level
// output.
func TestRoller_QuietAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	roller := dice.NewLoggedRoller(&script{vals: []int{2}}, zap.New(core))

	_, err := roller.Roll(dice.MustParse("1d8"))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}
