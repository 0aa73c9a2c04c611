package brackets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMatch(uid string, e1, e2 *Entry, winner *Entry, sets ...SetScore) *Match {
	return &Match{
		UID:      uid,
		Round:    1,
		Slot1:    Slot{Entry: e1, Status: SlotFilled},
		Slot2:    Slot{Entry: e2, Status: SlotFilled},
		Status:   MatchStatusCompleted,
		WinnerID: winner.ID,
		Score:    &Score{Sets: sets},
	}
}

func TestComputeRankingsOrdering(t *testing.T) {
	entries := makeEntries(4)
	a, b, c, d := entries[0], entries[1], entries[2], entries[3]

	// a beats b 2-0, c beats d 2-1, a beats c 2-0: a has 2 wins,
	// c 1 win, b and d 0 wins with b ahead on set differential.
	matches := []*Match{
		completedMatch("R1M1", a, b, a, SetScore{11, 5}, SetScore{11, 7}),
		completedMatch("R1M2", c, d, c, SetScore{11, 9}, SetScore{8, 11}, SetScore{11, 6}),
		completedMatch("R2M1", a, c, a, SetScore{11, 3}, SetScore{11, 4}),
	}

	rankings := ComputeRankings(entries, matches)
	require.Len(t, rankings, 4)

	assert.Equal(t, a.ID, rankings[0].Entry.ID)
	assert.Equal(t, 2, rankings[0].Wins)
	assert.Equal(t, c.ID, rankings[1].Entry.ID)
	// b lost 0-2 (set diff -2), d lost 1-2 (set diff -1), so d outranks
	// b despite the worse seed.
	assert.Equal(t, d.ID, rankings[2].Entry.ID)
	assert.Equal(t, b.ID, rankings[3].Entry.ID)

	// Dense ranks 1..N.
	for i, r := range rankings {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestComputeRankingsSeedBreaksTies(t *testing.T) {
	entries := makeEntries(4)
	a, b, c, d := entries[0], entries[1], entries[2], entries[3]

	// Two identical results: both winners 1-0 with identical scores,
	// both losers symmetric. Seed decides every remaining tie.
	matches := []*Match{
		completedMatch("R1M1", a, d, a, SetScore{11, 5}, SetScore{11, 5}),
		completedMatch("R1M2", b, c, b, SetScore{11, 5}, SetScore{11, 5}),
	}

	rankings := ComputeRankings(entries, matches)
	require.Len(t, rankings, 4)
	assert.Equal(t, a.ID, rankings[0].Entry.ID)
	assert.Equal(t, b.ID, rankings[1].Entry.ID)
	assert.Equal(t, c.ID, rankings[2].Entry.ID)
	assert.Equal(t, d.ID, rankings[3].Entry.ID)
}

func TestComputeRankingsPermutationStable(t *testing.T) {
	entries := makeEntries(8)
	b1, err := Build(entries)
	require.NoError(t, err)
	for r := range b1.Rounds {
		for _, m := range b1.Rounds[r] {
			if m.Status == StatusScheduled {
				_, err := SubmitResult(b1, m.UID, m.Slot1.Entry.ID, twoSetWin())
				require.NoError(t, err)
			}
		}
	}

	baseline := ComputeRankings(b1.Entries, b1.completedMatches())

	for trial := 0; trial < 5; trial++ {
		shuffledEntries := append([]*Entry(nil), b1.Entries...)
		rand.Shuffle(len(shuffledEntries), func(i, j int) {
			shuffledEntries[i], shuffledEntries[j] = shuffledEntries[j], shuffledEntries[i]
		})
		shuffledMatches := append([]*Match(nil), b1.completedMatches()...)
		rand.Shuffle(len(shuffledMatches), func(i, j int) {
			shuffledMatches[i], shuffledMatches[j] = shuffledMatches[j], shuffledMatches[i]
		})

		got := ComputeRankings(shuffledEntries, shuffledMatches)
		require.Len(t, got, len(baseline))
		for i := range baseline {
			assert.Equal(t, baseline[i].Entry.ID, got[i].Entry.ID, "position %d", i)
			assert.Equal(t, baseline[i].Rank, got[i].Rank)
		}
	}
}

func TestComputeRankingsIgnoresIncompleteMatches(t *testing.T) {
	entries := makeEntries(2)
	pending := &Match{
		UID:    "R1M1",
		Round:  1,
		Slot1:  Slot{Entry: entries[0], Status: SlotFilled},
		Slot2:  Slot{Entry: entries[1], Status: SlotFilled},
		Status: StatusScheduled,
	}
	rankings := ComputeRankings(entries, []*Match{pending})
	require.Len(t, rankings, 2)
	assert.Zero(t, rankings[0].Wins)
	assert.Zero(t, rankings[1].Wins)
}
