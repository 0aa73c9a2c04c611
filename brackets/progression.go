package brackets

import "fmt"

// ResultOutcome describes every document the caller must persist
// after one result submission: the completed match, at most one
// downstream match, and, when the final just finished, the standings.
type ResultOutcome struct {
	Match      *Match
	Downstream *Match
	// DownstreamReady is true when this advancement filled the second
	// slot of the downstream match, transitioning it from pending to
	// scheduled.
	DownstreamReady bool
	// TournamentCompleted is true when the completed match was the
	// final.
	TournamentCompleted bool
	Rankings            []Ranking
}

// SubmitResult records the result of one match and advances the
// winner into its computed downstream slot. The bracket is mutated in
// place; the caller owns persisting the touched documents atomically.
//
// A match can receive exactly one result. Submitting against a
// completed match, a pending match, or with a winner that does not
// occupy one of the two slots is rejected. A destination slot that is
// already occupied means a double advancement happened upstream; that
// is an engine defect and is surfaced as ErrSlotOccupied.
func SubmitResult(b *Bracket, matchUID, winnerEntryID string, score *Score) (*ResultOutcome, error) {
	m := b.Match(matchUID)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchUID)
	}

	switch m.Status {
	case MatchStatusCompleted:
		return nil, fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchUID)
	case StatusScheduled:
	default:
		return nil, fmt.Errorf("%w: %s", ErrMatchNotReady, matchUID)
	}

	winner := slotEntry(m, winnerEntryID)
	if winner == nil {
		return nil, fmt.Errorf("%w: entry %s in match %s", ErrWinnerNotInMatch, winnerEntryID, matchUID)
	}
	if score == nil || len(score.Sets) == 0 {
		return nil, newValidationError("match %s requires a sets score", matchUID)
	}

	m.Status = MatchStatusCompleted
	m.WinnerID = winner.ID
	m.Score = score

	outcome := &ResultOutcome{Match: m}

	nextUID, nextSlot, ok := NextDestination(b, m.Round, m.Position)
	if !ok {
		// Final match: the bracket is decided.
		outcome.TournamentCompleted = true
		outcome.Rankings = ComputeRankings(b.Entries, b.completedMatches())
		return outcome, nil
	}

	next := b.Match(nextUID)
	if next == nil {
		return nil, invariantErrorf("match %s routes to nonexistent match %s", matchUID, nextUID)
	}

	target := &next.Slot1
	if nextSlot == 2 {
		target = &next.Slot2
	}
	if target.Status == SlotBye || target.Occupied() {
		return nil, fmt.Errorf("%w: match %s slot %d while advancing winner of %s",
			ErrSlotOccupied, nextUID, nextSlot, matchUID)
	}

	*target = Slot{Entry: winner, Status: SlotFilled}
	outcome.Downstream = next
	if next.Slot1.Occupied() && next.Slot2.Occupied() && next.Status == StatusPending {
		next.Status = StatusScheduled
		outcome.DownstreamReady = true
	}

	return outcome, nil
}

func slotEntry(m *Match, entryID string) *Entry {
	if m.Slot1.Occupied() && m.Slot1.Entry.ID == entryID {
		return m.Slot1.Entry
	}
	if m.Slot2.Occupied() && m.Slot2.Entry.ID == entryID {
		return m.Slot2.Entry
	}
	return nil
}
