package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSetWin() *Score {
	return &Score{Sets: []SetScore{{Games1: 11, Games2: 7}, {Games1: 11, Games2: 9}}}
}

func TestSubmitResultFullEightEntryRun(t *testing.T) {
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	// Round 1: slot 1 (the stronger seed) wins everywhere.
	var lastOutcome *ResultOutcome
	for _, m := range b.Rounds[0] {
		winner := m.Slot1.Entry.ID
		outcome, err := SubmitResult(b, m.UID, winner, twoSetWin())
		require.NoError(t, err)
		assert.Equal(t, MatchStatusCompleted, outcome.Match.Status)
		assert.Equal(t, winner, outcome.Match.WinnerID)
		require.NotNil(t, outcome.Downstream)
		lastOutcome = outcome
	}
	// The last round 1 result filled the second slot of R2M2.
	assert.True(t, lastOutcome.DownstreamReady)

	for _, m := range b.Rounds[1] {
		assert.Equal(t, StatusScheduled, m.Status)
		require.True(t, m.Slot1.Occupied())
		require.True(t, m.Slot2.Occupied())
	}

	// Semifinals: seeds 1 and 2 advance.
	for _, m := range b.Rounds[1] {
		_, err := SubmitResult(b, m.UID, m.Slot1.Entry.ID, twoSetWin())
		require.NoError(t, err)
	}

	final := b.FinalMatch()
	require.Equal(t, StatusScheduled, final.Status)
	assert.Equal(t, 1, final.Slot1.Entry.Seed)
	assert.Equal(t, 2, final.Slot2.Entry.Seed)

	outcome, err := SubmitResult(b, final.UID, final.Slot1.Entry.ID, twoSetWin())
	require.NoError(t, err)
	assert.True(t, outcome.TournamentCompleted)
	assert.Nil(t, outcome.Downstream)
	require.Len(t, outcome.Rankings, 8)
	assert.Equal(t, 1, outcome.Rankings[0].Rank)
	assert.Equal(t, 1, outcome.Rankings[0].Entry.Seed)
	assert.Equal(t, 3, outcome.Rankings[0].Wins)
}

func TestSubmitResultByeRecipientPlaysRound2(t *testing.T) {
	b, err := Build(makeEntries(5))
	require.NoError(t, err)

	// Seeds 2 vs 3 were seated together by their byes and can play
	// before the round 1 match finishes.
	outcome, err := SubmitResult(b, "R2M2", "p2", twoSetWin())
	require.NoError(t, err)
	assert.Equal(t, "p2", outcome.Match.WinnerID)

	// R2M1 still waits for the round 1 winner.
	_, err = SubmitResult(b, "R2M1", "p1", twoSetWin())
	assert.ErrorIs(t, err, ErrMatchNotReady)

	outcome, err = SubmitResult(b, "R1M1", "p4", twoSetWin())
	require.NoError(t, err)
	require.NotNil(t, outcome.Downstream)
	assert.Equal(t, "R2M1", outcome.Downstream.UID)
	assert.Equal(t, "p4", outcome.Downstream.Slot2.Entry.ID)
	assert.True(t, outcome.DownstreamReady)
}

func TestSubmitResultRejections(t *testing.T) {
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	_, err = SubmitResult(b, "R9M9", "p1", twoSetWin())
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = SubmitResult(b, "R2M1", "p1", twoSetWin())
	assert.ErrorIs(t, err, ErrMatchNotReady)

	_, err = SubmitResult(b, "R1M1", "p3", twoSetWin())
	assert.ErrorIs(t, err, ErrWinnerNotInMatch)

	_, err = SubmitResult(b, "R1M1", "p1", nil)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = SubmitResult(b, "R1M1", "p1", twoSetWin())
	require.NoError(t, err)
	_, err = SubmitResult(b, "R1M1", "p8", twoSetWin())
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestSubmitResultOccupiedSlotIsFatal(t *testing.T) {
	b, err := Build(makeEntries(8))
	require.NoError(t, err)

	// Corrupt the downstream slot to simulate a double advancement.
	b.Match("R2M1").Slot1 = Slot{Entry: b.Entries[7], Status: SlotFilled}

	_, err = SubmitResult(b, "R1M1", "p1", twoSetWin())
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestSubmitResultNeverOverwritesBye(t *testing.T) {
	// Every bracket size with byes: play each round fully and confirm
	// no advancement ever lands on a seated bye.
	for n := 3; n <= 17; n++ {
		b, err := Build(makeEntries(n))
		require.NoError(t, err)

		for r := 1; r <= len(b.Rounds); r++ {
			for _, m := range b.Rounds[r-1] {
				if m.Status != StatusScheduled {
					continue
				}
				_, err := SubmitResult(b, m.UID, m.Slot1.Entry.ID, twoSetWin())
				require.NoError(t, err, "n=%d match %s", n, m.UID)
			}
		}
		assert.Equal(t, MatchStatusCompleted, b.FinalMatch().Status, "n=%d", n)
	}
}
