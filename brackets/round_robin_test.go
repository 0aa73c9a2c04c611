package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinAllPairsOnce(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			entries := makeEntries(n)
			matches, err := NewRoundRobinGenerator().Generate(entries)
			require.NoError(t, err)
			require.Len(t, matches, n*(n-1)/2)

			seen := make(map[string]bool)
			for _, m := range matches {
				assert.Equal(t, 1, m.Round)
				assert.Equal(t, StatusScheduled, m.Status)
				assert.Empty(t, m.NextMatchUID)
				require.True(t, m.Slot1.Occupied())
				require.True(t, m.Slot2.Occupied())

				a, b := m.Slot1.Entry.ID, m.Slot2.Entry.ID
				require.NotEqual(t, a, b)
				pair := a + "|" + b
				if b < a {
					pair = b + "|" + a
				}
				assert.False(t, seen[pair], "pair %s scheduled twice", pair)
				seen[pair] = true
			}
		})
	}
}

func TestRoundRobinUIDsAndPositions(t *testing.T) {
	matches, err := NewRoundRobinGenerator().Generate(makeEntries(4))
	require.NoError(t, err)
	for i, m := range matches {
		assert.Equal(t, i+1, m.Position)
		assert.Equal(t, fmt.Sprintf("RRM%d", i+1), m.UID)
	}
}

func TestRoundRobinRejectsSingleEntry(t *testing.T) {
	_, err := NewRoundRobinGenerator().Generate(makeEntries(1))
	assert.ErrorIs(t, err, ErrNotEnoughEntries)
}

func TestSingleEliminationGeneratorDelegatesToBuilder(t *testing.T) {
	for _, n := range []int{4, 5, 6, 8} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			built, err := Build(makeEntries(n))
			require.NoError(t, err)
			generated, err := NewSingleEliminationGenerator().Generate(makeEntries(n))
			require.NoError(t, err)

			expected := built.AllMatches()
			require.Len(t, generated, len(expected))
			for i := range expected {
				assert.Equal(t, expected[i].UID, generated[i].UID)
				assert.Equal(t, expected[i].NextMatchUID, generated[i].NextMatchUID)
				assert.Equal(t, expected[i].Status, generated[i].Status)
			}
		})
	}
}

func TestGeneratorNames(t *testing.T) {
	assert.Equal(t, "SingleElimination", NewSingleEliminationGenerator().Name())
	assert.Equal(t, "RoundRobin", NewRoundRobinGenerator().Name())
}
