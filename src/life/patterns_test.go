package life

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evolve(t *testing.T, g *Grid, rules *RuleSet, ticks int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		require.NoError(t, g.CalculateNextGeneration(rules))
		g.ApplyNextGeneration()
	}
}

func TestBlinkerOscillates(t *testing.T) {
	g := mustGrid(t, 5, 5)
	setAlive(t, g, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
	horizontal := g.Clone()

	evolve(t, g, DefaultRules(), 1)
	assert.Equal(t, map[[2]int]bool{
		{1, 2}: true,
		{2, 2}: true,
		{3, 2}: true,
	}, alivePattern(g), "blinker should be vertical after one tick")

	evolve(t, g, DefaultRules(), 1)
	assert.True(t, g.Equal(horizontal), "blinker should return to horizontal after two ticks")
}

func TestBlockIsStill(t *testing.T) {
	g := mustGrid(t, 5, 5)
	setAlive(t, g, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2})
	block := g.Clone()

	evolve(t, g, DefaultRules(), 5)
	assert.True(t, g.Equal(block))
}

func TestGliderTranslatesDiagonally(t *testing.T) {
	g := mustGrid(t, 10, 10)
	glider := [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	setAlive(t, g, glider...)

	evolve(t, g, DefaultRules(), 4)

	want := make(map[[2]int]bool)
	for _, c := range glider {
		want[[2]int{c[0] + 1, c[1] + 1}] = true
	}
	assert.Equal(t, 5, g.AliveCount())
	assert.Equal(t, want, alivePattern(g), "glider should shift by (+1,+1) after 4 ticks")
}

func TestHighLifeReplicatorRulesDiffer(t *testing.T) {
	// B36/S23: a dead cell with 6 neighbors is born, unlike Conway rules.
	highlife, err := ParseRules("B36/S23")
	require.NoError(t, err)

	next, err := highlife.Evaluate(false, 6)
	require.NoError(t, err)
	assert.True(t, next)

	next, err = DefaultRules().Evaluate(false, 6)
	require.NoError(t, err)
	assert.False(t, next)
}

func TestCustomRulesDriveEvolution(t *testing.T) {
	// "Life without death" (B3/S012345678): live cells never die.
	rules, err := ParseRules("B3/S012345678")
	require.NoError(t, err)

	g := mustGrid(t, 5, 5)
	setAlive(t, g, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})

	evolve(t, g, rules, 1)
	for _, c := range [][2]int{{2, 1}, {2, 2}, {2, 3}} {
		cell, err := g.CellAt(c[0], c[1])
		require.NoError(t, err)
		assert.True(t, cell.Alive(), "cell %v died under B3/S012345678", c)
	}
	assert.Equal(t, 5, g.AliveCount(), "the two border births are kept")
}
