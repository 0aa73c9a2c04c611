package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Strips everything the database does not store and rebuilds the
// bracket, confirming routing is a pure function of the static shape.
func TestAssembleBracketRecomputesRouting(t *testing.T) {
	for _, n := range []int{2, 5, 6, 8, 12, 13} {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			original, err := Build(makeEntries(n))
			require.NoError(t, err)

			stripped := make([]*Match, 0, len(original.AllMatches()))
			for _, m := range original.AllMatches() {
				stripped = append(stripped, &Match{
					UID:      m.UID,
					Round:    m.Round,
					Position: m.Position,
					Slot1:    m.Slot1,
					Slot2:    m.Slot2,
					Status:   m.Status,
				})
			}

			rebuilt, err := AssembleBracket(original.Entries, stripped)
			require.NoError(t, err)
			assert.Equal(t, original.Size, rebuilt.Size)
			assert.Equal(t, original.ByeCount, rebuilt.ByeCount)

			for _, want := range original.AllMatches() {
				got := rebuilt.Match(want.UID)
				require.NotNil(t, got, "match %s missing after reassembly", want.UID)
				assert.Equal(t, want.NextMatchUID, got.NextMatchUID, "match %s", want.UID)
				assert.Equal(t, want.NextSlot, got.NextSlot, "match %s", want.UID)
				assert.Equal(t, want.SourceUIDs, got.SourceUIDs, "match %s", want.UID)
			}
		})
	}
}

func TestAssembleBracketMidTournament(t *testing.T) {
	b, err := Build(makeEntries(5))
	require.NoError(t, err)

	// Play the round 1 match, then rebuild and keep playing.
	_, err = SubmitResult(b, "R1M1", "p4", twoSetWin())
	require.NoError(t, err)

	rebuilt, err := AssembleBracket(b.Entries, b.AllMatches())
	require.NoError(t, err)

	outcome, err := SubmitResult(rebuilt, "R2M1", "p1", twoSetWin())
	require.NoError(t, err)
	require.NotNil(t, outcome.Downstream)
	assert.Equal(t, "R3M1", outcome.Downstream.UID)
}

func TestMatchLookup(t *testing.T) {
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	assert.NotNil(t, b.Match("R1M1"))
	assert.NotNil(t, b.Match("R3M1"))
	assert.Nil(t, b.Match("R4M1"))
	assert.Equal(t, "R3M1", b.FinalMatch().UID)
	assert.Len(t, b.AllMatches(), 7)
}
