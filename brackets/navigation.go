package brackets

// Navigation resolver: downstream and upstream routing computed purely
// from the static bracket shape (round sizes and where bye entries
// were seated at construction). Nothing here reads mutable match
// state, so routing can be re-derived at any time, including from
// match documents reconstructed from scratch.

type destination struct {
	uid  string
	slot int
}

// NextDestination reports the match UID and slot (1 or 2) the winner
// of the given match advances into, or ok=false for the final.
func NextDestination(b *Bracket, round, position int) (uid string, slot int, ok bool) {
	if round < 1 || round > len(b.Rounds) {
		return "", 0, false
	}
	if round == len(b.Rounds) {
		// Champion; nowhere to go.
		return "", 0, false
	}

	if round == 1 && byeShifted(b) {
		d, ok := directIndexDestination(b, position)
		if !ok {
			return "", 0, false
		}
		return d.uid, d.slot, true
	}

	next := (position + 1) / 2
	slot = 2
	if position%2 == 1 {
		slot = 1
	}
	return matchUID(round+1, next), slot, true
}

// byeShifted reports whether round 1 feeds a bye-shifted round 2,
// detected by any round 2 slot pre-filled with a bye entry.
func byeShifted(b *Bracket) bool {
	if len(b.Rounds) < 2 {
		return false
	}
	for _, m := range b.Rounds[1] {
		if m.Slot1.Status == SlotBye || m.Slot2.Status == SlotBye {
			return true
		}
	}
	return false
}

// directIndexDestination maps the k-th played round 1 match to the
// k-th winner-reserved slot of round 2, scanning matches in order,
// slot 1 before slot 2 and skipping every bye slot. A bye slot is
// never a destination, so a seated bye entry can never be overwritten
// by an advancing winner.
func directIndexDestination(b *Bracket, position int) (destination, bool) {
	k := 0
	for _, m := range b.Rounds[1] {
		if m.Slot1.Status != SlotBye {
			k++
			if k == position {
				return destination{uid: m.UID, slot: 1}, true
			}
		}
		if m.Slot2.Status != SlotBye {
			k++
			if k == position {
				return destination{uid: m.UID, slot: 2}, true
			}
		}
	}
	return destination{}, false
}

// SourceMatches lists the UIDs of the upstream matches whose winners
// feed the given match, in slot order. Round 1 matches and fully
// bye-seated matches have no sources. The result is for display only;
// progression never consults it.
func SourceMatches(b *Bracket, round, position int) []string {
	if round <= 1 || round > len(b.Rounds) {
		return nil
	}
	target := matchUID(round, position)
	bySlot := map[int]string{}
	for _, m := range b.Rounds[round-2] {
		uid, slot, ok := NextDestination(b, m.Round, m.Position)
		if ok && uid == target {
			bySlot[slot] = m.UID
		}
	}
	var out []string
	for slot := 1; slot <= 2; slot++ {
		if uid, ok := bySlot[slot]; ok {
			out = append(out, uid)
		}
	}
	return out
}

// resolveRouting stamps the computed routing onto every match.
func resolveRouting(b *Bracket) {
	for _, round := range b.Rounds {
		for _, m := range round {
			if uid, slot, ok := NextDestination(b, m.Round, m.Position); ok {
				m.NextMatchUID = uid
				m.NextSlot = slot
			} else {
				m.NextMatchUID = ""
				m.NextSlot = 0
			}
			m.SourceUIDs = SourceMatches(b, m.Round, m.Position)
		}
	}
}
