package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntries(n int) []*Entry {
	entries := make([]*Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = &Entry{
			ID:          fmt.Sprintf("p%d", i+1),
			DisplayName: fmt.Sprintf("Player %d", i+1),
			Seed:        i + 1,
			RegOrder:    i,
			MemberIDs:   []int{i + 1},
		}
	}
	return entries
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func TestBuildSizesAndByes(t *testing.T) {
	for n := 2; n <= 33; n++ {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			b, err := Build(makeEntries(n))
			require.NoError(t, err)

			size := nextPowerOfTwo(n)
			assert.Equal(t, size, b.Size)
			assert.Equal(t, size-n, b.ByeCount)

			// Round sizing: every round from 2 on has size/2^r matches,
			// and the last round is the final.
			for r := 2; r <= len(b.Rounds); r++ {
				assert.Len(t, b.Rounds[r-1], size>>uint(r), "round %d", r)
			}
			assert.Len(t, b.Rounds[len(b.Rounds)-1], 1)

			// Every entry appears in exactly one initial slot.
			seen := map[string]int{}
			byeSlots := 0
			for _, m := range b.AllMatches() {
				for _, s := range []Slot{m.Slot1, m.Slot2} {
					if s.Occupied() {
						seen[s.Entry.ID]++
					}
					if s.Status == SlotBye {
						byeSlots++
					}
				}
			}
			assert.Len(t, seen, n)
			for id, count := range seen {
				assert.Equal(t, 1, count, "entry %s placed %d times", id, count)
			}
			assert.Equal(t, b.ByeCount, byeSlots)

			// Byes go to the strongest seeds, so seed 1 never plays
			// round 1 when any bye exists.
			if b.ByeCount > 0 {
				for _, m := range b.Rounds[0] {
					if m.Slot1.Occupied() {
						assert.NotEqual(t, 1, m.Slot1.Entry.Seed)
					}
					if m.Slot2.Occupied() {
						assert.NotEqual(t, 1, m.Slot2.Entry.Seed)
					}
				}
			}
		})
	}
}

func TestBuildRound1Pairing(t *testing.T) {
	// 8 entries, no byes: round 1 must pair strongest against weakest.
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	require.Len(t, b.Rounds[0], 4)
	expected := [][2]int{{1, 8}, {2, 7}, {3, 6}, {4, 5}}
	for i, m := range b.Rounds[0] {
		assert.Equal(t, expected[i][0], m.Slot1.Entry.Seed)
		assert.Equal(t, expected[i][1], m.Slot2.Entry.Seed)
		assert.Equal(t, StatusScheduled, m.Status)
	}
}

func TestBuildFiveEntries(t *testing.T) {
	b, err := Build(makeEntries(5))
	require.NoError(t, err)

	assert.Equal(t, 8, b.Size)
	assert.Equal(t, 3, b.ByeCount)
	require.Len(t, b.Rounds[0], 1)

	// Only seeds 4 and 5 play round 1.
	r1 := b.Rounds[0][0]
	assert.Equal(t, 4, r1.Slot1.Entry.Seed)
	assert.Equal(t, 5, r1.Slot2.Entry.Seed)

	// Seed 1 waits for the round 1 winner; seeds 2 and 3 were paired
	// against each other and can play immediately.
	r2 := b.Rounds[1]
	require.Len(t, r2, 2)
	assert.Equal(t, 1, r2[0].Slot1.Entry.Seed)
	assert.Equal(t, SlotBye, r2[0].Slot1.Status)
	assert.Equal(t, SlotEmpty, r2[0].Slot2.Status)
	assert.Equal(t, StatusPending, r2[0].Status)

	assert.Equal(t, 2, r2[1].Slot1.Entry.Seed)
	assert.Equal(t, 3, r2[1].Slot2.Entry.Seed)
	assert.Equal(t, SlotBye, r2[1].Slot1.Status)
	assert.Equal(t, SlotBye, r2[1].Slot2.Status)
	assert.Equal(t, StatusScheduled, r2[1].Status)
}

func TestBuildSixEntriesFixedTemplate(t *testing.T) {
	b, err := Build(makeEntries(6))
	require.NoError(t, err)

	assert.Equal(t, 8, b.Size)
	assert.Equal(t, 2, b.ByeCount)
	require.Len(t, b.Rounds, 3)
	require.Len(t, b.Rounds[0], 2)
	require.Len(t, b.Rounds[1], 2)

	// R1M1: 3 vs 6, R1M2: 4 vs 5, top two seeds bye into round 2.
	assert.Equal(t, 3, b.Rounds[0][0].Slot1.Entry.Seed)
	assert.Equal(t, 6, b.Rounds[0][0].Slot2.Entry.Seed)
	assert.Equal(t, 4, b.Rounds[0][1].Slot1.Entry.Seed)
	assert.Equal(t, 5, b.Rounds[0][1].Slot2.Entry.Seed)

	assert.Equal(t, 1, b.Rounds[1][0].Slot1.Entry.Seed)
	assert.Equal(t, SlotBye, b.Rounds[1][0].Slot1.Status)
	assert.Equal(t, 2, b.Rounds[1][1].Slot1.Entry.Seed)
	assert.Equal(t, SlotBye, b.Rounds[1][1].Slot1.Status)
}

func TestBuildRejectsBadInput(t *testing.T) {
	_, err := Build(makeEntries(1))
	assert.ErrorIs(t, err, ErrNotEnoughEntries)

	entries := makeEntries(4)
	entries[2].Seed = 2 // duplicate, seed 3 missing
	_, err = Build(entries)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Problems, "seed 3 missing")
	assert.Contains(t, validationErr.Problems, "seed 2 assigned to 2 entries")
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	entries := makeEntries(5)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	_, err := Build(entries)
	require.NoError(t, err)
	for i, e := range entries {
		assert.Equal(t, ids[i], e.ID)
	}
}
