package life

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesEvaluate(t *testing.T) {
	r := DefaultRules()

	for neighbors := 0; neighbors <= MaxNeighbors; neighbors++ {
		aliveNext, err := r.Evaluate(true, neighbors)
		require.NoError(t, err)
		assert.Equal(t, neighbors == 2 || neighbors == 3, aliveNext,
			"alive cell with %d neighbors", neighbors)

		deadNext, err := r.Evaluate(false, neighbors)
		require.NoError(t, err)
		assert.Equal(t, neighbors == 3, deadNext,
			"dead cell with %d neighbors", neighbors)
	}
}

func TestEvaluateRejectsOutOfRangeNeighborCount(t *testing.T) {
	r := DefaultRules()
	for _, n := range []int{-1, 9, 100} {
		_, err := r.Evaluate(true, n)
		assert.ErrorIs(t, err, ErrValidation, "neighbors=%d", n)
	}
}

func TestSetBirthValidation(t *testing.T) {
	r := DefaultRules()

	err := r.SetBirth([]int{-1, 3, 9, 12})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "-1")
	assert.Contains(t, err.Error(), "9")
	assert.Contains(t, err.Error(), "12")

	// a failed set must not clobber the previous rules
	next, err := r.Evaluate(false, 3)
	require.NoError(t, err)
	assert.True(t, next)

	assert.ErrorIs(t, r.SetBirth(nil), ErrValidation)
	assert.ErrorIs(t, r.SetSurvival(nil), ErrValidation)

	// empty non-nil sets are legal
	require.NoError(t, r.SetBirth([]int{}))
	next, err = r.Evaluate(false, 3)
	require.NoError(t, err)
	assert.False(t, next)
}

func TestNewRuleSetRejectsBadValues(t *testing.T) {
	_, err := NewRuleSet([]int{3}, []int{2, 3, 42})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "42")
}

func TestNotation(t *testing.T) {
	tests := []struct {
		birth    []int
		survival []int
		want     string
	}{
		{[]int{3}, []int{2, 3}, "B3/S23"},
		{[]int{3, 6}, []int{2, 3}, "B36/S23"},     // HighLife
		{[]int{3, 1}, []int{8, 0, 4}, "B13/S048"}, // digits sort ascending
		{[]int{3, 3, 3}, []int{2, 2}, "B3/S2"},    // duplicates collapse
		{[]int{}, []int{}, "B/S"},                 // empty sets render no digits
	}
	for _, tt := range tests {
		r, err := NewRuleSet(tt.birth, tt.survival)
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.Notation())
	}
}

func TestParseRulesRoundTrip(t *testing.T) {
	for _, notation := range []string{"B3/S23", "B36/S23", "B/S", "B012345678/S012345678"} {
		r, err := ParseRules(notation)
		require.NoError(t, err)
		assert.Equal(t, notation, r.Notation())
	}
}

func TestParseRulesRejectsMalformedNotation(t *testing.T) {
	for _, notation := range []string{"", "B3S23", "3/23", "S23/B3", "B3/S29", "Bx/S23"} {
		_, err := ParseRules(notation)
		assert.True(t, errors.Is(err, ErrValidation), "notation %q: %v", notation, err)
	}
}

func TestRuleSetCloneIsIndependent(t *testing.T) {
	original := DefaultRules()
	clone := original.Clone()
	require.True(t, original.Equal(clone))

	require.NoError(t, clone.SetBirth([]int{1}))
	assert.False(t, original.Equal(clone))

	next, err := original.Evaluate(false, 3)
	require.NoError(t, err)
	assert.True(t, next, "mutating the clone leaked into the original")
}

func TestRuleSetEquality(t *testing.T) {
	a, err := NewRuleSet([]int{3, 6}, []int{2, 3})
	require.NoError(t, err)
	b, err := NewRuleSet([]int{6, 3}, []int{3, 2}) // order irrelevant
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(DefaultRules()))
	assert.False(t, a.Equal(nil))
}
