package brackets

import (
	"github.com/dominikbraun/graph"
)

// validateBracket checks the structural invariants of a freshly built
// bracket:
//
//	(a) every entry occupies exactly one slot across the whole bracket;
//	(b) the number of bye slots equals M - N;
//	(c) seed 1 holds a slot (filled or bye) in round 1 or round 2;
//	(d) round r has exactly M/2^r matches for r >= 2;
//	(e) the computed advancement routing forms an in-tree rooted at
//	    the final (every non-final match feeds exactly one slot of a
//	    later match, acyclically).
//
// Any violation is a construction defect, not an input problem, so the
// bracket must be discarded rather than persisted.
func validateBracket(b *Bracket) error {
	seen := make(map[string]int, len(b.Entries))
	byeSlots := 0
	for _, m := range b.AllMatches() {
		for _, s := range []Slot{m.Slot1, m.Slot2} {
			if s.Status == SlotBye {
				byeSlots++
			}
			if s.Occupied() {
				seen[s.Entry.ID]++
			}
		}
	}

	for _, e := range b.Entries {
		if seen[e.ID] != 1 {
			return invariantErrorf("entry %s placed %d times, want exactly once", e.ID, seen[e.ID])
		}
	}
	if placed := len(seen); placed != len(b.Entries) {
		return invariantErrorf("%d distinct entries placed, want %d", placed, len(b.Entries))
	}

	if want := b.Size - len(b.Entries); byeSlots != want {
		return invariantErrorf("%d bye slots, want %d", byeSlots, want)
	}

	if err := validateSeedOnePlaced(b); err != nil {
		return err
	}

	for r := 2; r <= len(b.Rounds); r++ {
		if want := b.Size >> uint(r); len(b.Rounds[r-1]) != want {
			return invariantErrorf("round %d has %d matches, want %d", r, len(b.Rounds[r-1]), want)
		}
	}

	return validateAdvancementTree(b)
}

func validateSeedOnePlaced(b *Bracket) error {
	maxRound := 2
	if len(b.Rounds) < 2 {
		maxRound = 1
	}
	for r := 0; r < maxRound; r++ {
		for _, m := range b.Rounds[r] {
			for _, s := range []Slot{m.Slot1, m.Slot2} {
				if s.Occupied() && s.Entry.Seed == 1 {
					return nil
				}
			}
		}
	}
	return invariantErrorf("seed 1 has no slot in round 1 or round 2")
}

// validateAdvancementTree models the computed routing as a directed
// graph and rejects cycles, fan-out, or slots fed by more than one
// source.
func validateAdvancementTree(b *Bracket) error {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, m := range b.AllMatches() {
		if err := g.AddVertex(m.UID); err != nil {
			return invariantErrorf("duplicate match uid %s", m.UID)
		}
	}

	slotSources := make(map[string]int)
	final := b.FinalMatch()
	if final == nil {
		return invariantErrorf("bracket has no single final match")
	}

	for _, m := range b.AllMatches() {
		uid, slot, ok := NextDestination(b, m.Round, m.Position)
		if m.UID == final.UID {
			if ok {
				return invariantErrorf("final match %s routes to %s", m.UID, uid)
			}
			continue
		}
		if !ok {
			return invariantErrorf("match %s has no downstream destination", m.UID)
		}
		target := b.Match(uid)
		if target == nil {
			return invariantErrorf("match %s routes to nonexistent match %s", m.UID, uid)
		}
		targetSlot := target.Slot1
		if slot == 2 {
			targetSlot = target.Slot2
		}
		if targetSlot.Status == SlotBye {
			return invariantErrorf("match %s routes into bye slot %d of %s", m.UID, slot, uid)
		}
		key := destinationKey(uid, slot)
		slotSources[key]++
		if slotSources[key] > 1 {
			return invariantErrorf("slot %d of match %s fed by multiple sources", slot, uid)
		}
		if err := g.AddEdge(m.UID, uid); err != nil {
			return invariantErrorf("routing %s -> %s breaks the advancement tree: %v", m.UID, uid, err)
		}
	}

	return nil
}

func destinationKey(uid string, slot int) string {
	if slot == 1 {
		return uid + "#1"
	}
	return uid + "#2"
}
