package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDestinationStandard(t *testing.T) {
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	cases := []struct {
		round, position int
		wantUID         string
		wantSlot        int
	}{
		{1, 1, "R2M1", 1},
		{1, 2, "R2M1", 2},
		{1, 3, "R2M2", 1},
		{1, 4, "R2M2", 2},
		{2, 1, "R3M1", 1},
		{2, 2, "R3M1", 2},
	}
	for _, tc := range cases {
		uid, slot, ok := NextDestination(b, tc.round, tc.position)
		require.True(t, ok, "R%dM%d", tc.round, tc.position)
		assert.Equal(t, tc.wantUID, uid)
		assert.Equal(t, tc.wantSlot, slot)
	}

	// The final has no destination.
	_, _, ok := NextDestination(b, 3, 1)
	assert.False(t, ok)
}

func TestNextDestinationByeShifted(t *testing.T) {
	// 5 entries: one round 1 match, seed 1 holds R2M1 slot 1 as a bye.
	// The round 1 winner must land in the first non-bye round 2 slot.
	b, err := Build(makeEntries(5))
	require.NoError(t, err)

	uid, slot, ok := NextDestination(b, 1, 1)
	require.True(t, ok)
	assert.Equal(t, "R2M1", uid)
	assert.Equal(t, 2, slot)
}

func TestNextDestinationByeShiftedLargerField(t *testing.T) {
	// 12 entries: 4 byes, 4 round 1 matches, round 2 has 4 matches.
	// Each bye claims one slot 1, so round 1 winners fill the slot 2s
	// in order.
	b, err := Build(makeEntries(12))
	require.NoError(t, err)
	require.Len(t, b.Rounds[0], 4)

	for pos := 1; pos <= 4; pos++ {
		uid, slot, ok := NextDestination(b, 1, pos)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("R2M%d", pos), uid)
		assert.Equal(t, 2, slot)
	}
}

func TestNextDestinationDeterministic(t *testing.T) {
	b, err := Build(makeEntries(11))
	require.NoError(t, err)

	for _, m := range b.AllMatches() {
		uid1, slot1, ok1 := NextDestination(b, m.Round, m.Position)
		uid2, slot2, ok2 := NextDestination(b, m.Round, m.Position)
		assert.Equal(t, uid1, uid2)
		assert.Equal(t, slot1, slot2)
		assert.Equal(t, ok1, ok2)
	}
}

func TestRoutingNeverTargetsByeSlot(t *testing.T) {
	for n := 2; n <= 33; n++ {
		b, err := Build(makeEntries(n))
		require.NoError(t, err)

		for _, m := range b.AllMatches() {
			if m.NextMatchUID == "" {
				continue
			}
			next := b.Match(m.NextMatchUID)
			require.NotNil(t, next, "n=%d %s routes to missing %s", n, m.UID, m.NextMatchUID)
			target := next.Slot1
			if m.NextSlot == 2 {
				target = next.Slot2
			}
			assert.NotEqual(t, SlotBye, target.Status,
				"n=%d %s routes into bye slot %s/%d", n, m.UID, m.NextMatchUID, m.NextSlot)
		}
	}
}

func TestEverySlotFedByExactlyOneSource(t *testing.T) {
	for n := 2; n <= 33; n++ {
		b, err := Build(makeEntries(n))
		require.NoError(t, err)

		feeds := map[string]int{}
		for _, m := range b.AllMatches() {
			if m.NextMatchUID != "" {
				feeds[fmt.Sprintf("%s/%d", m.NextMatchUID, m.NextSlot)]++
			}
		}
		for key, count := range feeds {
			assert.Equal(t, 1, count, "n=%d slot %s fed by %d matches", n, key, count)
		}

		// Every non-bye, initially empty slot must be fed by some match.
		for _, m := range b.AllMatches() {
			for slotNo, s := range map[int]Slot{1: m.Slot1, 2: m.Slot2} {
				if s.Status == SlotEmpty {
					key := fmt.Sprintf("%s/%d", m.UID, slotNo)
					assert.Equal(t, 1, feeds[key], "n=%d empty slot %s has no source", n, key)
				}
			}
		}
	}
}

func TestSourceMatches(t *testing.T) {
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	assert.Equal(t, []string{"R1M1", "R1M2"}, SourceMatches(b, 2, 1))
	assert.Equal(t, []string{"R2M1", "R2M2"}, SourceMatches(b, 3, 1))
	assert.Nil(t, SourceMatches(b, 1, 1))

	// Bye-shifted: R2M1 of a 5-entry field is fed only by R1M1, and the
	// all-bye R2M2 has no sources at all.
	b5, err := Build(makeEntries(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"R1M1"}, SourceMatches(b5, 2, 1))
	assert.Nil(t, SourceMatches(b5, 2, 2))
}
