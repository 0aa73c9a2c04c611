package brackets

import (
	"math"
	"sort"
)

// bracketTemplate selects the construction shape for a given field
// size. The fixed six-player template reproduces the widely expected
// shape for that size; the standard template is correct for all N.
type bracketTemplate int

const (
	templateStandard bracketTemplate = iota
	templateFixedSix
)

func templateFor(n int) bracketTemplate {
	if n == 6 {
		return templateFixedSix
	}
	return templateStandard
}

// BuildSingleElimination constructs the complete bracket for n seeded
// entries: bracket size M = next power of two >= n, R = log2(M)
// rounds, M-n byes granted to the strongest seeds. Entries must carry
// a dense seed permutation 1..n. The input slice is not mutated.
//
// Round 1 pairs the remaining (non-bye) entries strongest against
// weakest, so the top remaining seeds cannot meet before the latest
// mathematically possible round. Bye recipients are placed directly
// into round 2: each of the first min(round1Matches, byeCount) byes is
// paired against an as-yet-undecided round 1 winner, and any byes
// beyond that count are paired against each other in seed order.
func BuildSingleElimination(entries []*Entry) (*Bracket, error) {
	n := len(entries)
	if n < 2 {
		return nil, ErrNotEnoughEntries
	}
	if err := ValidateSeeds(entries); err != nil {
		return nil, err
	}

	rounds := int(math.Ceil(math.Log2(float64(n))))
	size := 1 << uint(rounds)
	byeCount := size - n

	seeded := make([]*Entry, n)
	copy(seeded, entries)
	sort.Slice(seeded, func(i, j int) bool { return seeded[i].Seed < seeded[j].Seed })

	withBye := seeded[:byeCount]
	inRound1 := seeded[byeCount:]

	b := &Bracket{
		Size:     size,
		ByeCount: byeCount,
		Rounds:   make([][]*Match, rounds),
		Entries:  seeded,
	}

	// Round 1: pair i-th strongest against i-th weakest of the entries
	// actually playing it.
	round1Matches := len(inRound1) / 2
	b.Rounds[0] = make([]*Match, round1Matches)
	for i := 0; i < round1Matches; i++ {
		b.Rounds[0][i] = &Match{
			UID:      matchUID(1, i+1),
			Round:    1,
			Position: i + 1,
			Slot1:    Slot{Entry: inRound1[i], Status: SlotFilled},
			Slot2:    Slot{Entry: inRound1[len(inRound1)-1-i], Status: SlotFilled},
			Status:   StatusScheduled,
		}
	}

	// Rounds 2..R start as empty slot pairs of size M/2^r.
	for r := 2; r <= rounds; r++ {
		count := size >> uint(r)
		b.Rounds[r-1] = make([]*Match, count)
		for i := 0; i < count; i++ {
			b.Rounds[r-1][i] = &Match{
				UID:      matchUID(r, i+1),
				Round:    r,
				Position: i + 1,
				Slot1:    Slot{Status: SlotEmpty},
				Slot2:    Slot{Status: SlotEmpty},
				Status:   StatusPending,
			}
		}
	}

	if byeCount > 0 {
		placeByes(b, withBye, round1Matches)
	}

	resolveRouting(b)

	if err := validateBracket(b); err != nil {
		return nil, err
	}
	return b, nil
}

// placeByes seats the bye recipients in round 2. The first
// min(round1Matches, byeCount) byes each take slot 1 of one round 2
// match, leaving slot 2 reserved for a round 1 winner. Excess byes are
// paired against each other in seed order, filling both slots of the
// remaining matches immediately so no dependency on round 1 exists.
func placeByes(b *Bracket, withBye []*Entry, round1Matches int) {
	round2 := b.Rounds[1]

	direct := round1Matches
	if len(withBye) < direct {
		direct = len(withBye)
	}

	for i := 0; i < direct; i++ {
		round2[i].Slot1 = Slot{Entry: withBye[i], Status: SlotBye}
	}

	next := direct
	for mi := direct; next < len(withBye); mi++ {
		round2[mi].Slot1 = Slot{Entry: withBye[next], Status: SlotBye}
		round2[mi].Slot2 = Slot{Entry: withBye[next+1], Status: SlotBye}
		round2[mi].Status = StatusScheduled
		next += 2
	}
}

// GenerateFixedSixBracket builds the six-player bracket through the
// fixed template: two round 1 matches, the top two seeds receiving
// byes into round 2, one final. The general algorithm produces the
// same shape; the template exists so the expected layout for this club
// staple is spelled out rather than implied.
func GenerateFixedSixBracket(entries []*Entry) (*Bracket, error) {
	if len(entries) != 6 {
		return nil, newValidationError("fixed six-player template requires exactly 6 entries, got %d", len(entries))
	}
	if err := ValidateSeeds(entries); err != nil {
		return nil, err
	}

	seeded := make([]*Entry, 6)
	copy(seeded, entries)
	sort.Slice(seeded, func(i, j int) bool { return seeded[i].Seed < seeded[j].Seed })

	b := &Bracket{
		Size:     8,
		ByeCount: 2,
		Entries:  seeded,
		Rounds: [][]*Match{
			{
				{
					UID: matchUID(1, 1), Round: 1, Position: 1,
					Slot1:  Slot{Entry: seeded[2], Status: SlotFilled},
					Slot2:  Slot{Entry: seeded[5], Status: SlotFilled},
					Status: StatusScheduled,
				},
				{
					UID: matchUID(1, 2), Round: 1, Position: 2,
					Slot1:  Slot{Entry: seeded[3], Status: SlotFilled},
					Slot2:  Slot{Entry: seeded[4], Status: SlotFilled},
					Status: StatusScheduled,
				},
			},
			{
				{
					UID: matchUID(2, 1), Round: 2, Position: 1,
					Slot1:  Slot{Entry: seeded[0], Status: SlotBye},
					Slot2:  Slot{Status: SlotEmpty},
					Status: StatusPending,
				},
				{
					UID: matchUID(2, 2), Round: 2, Position: 2,
					Slot1:  Slot{Entry: seeded[1], Status: SlotBye},
					Slot2:  Slot{Status: SlotEmpty},
					Status: StatusPending,
				},
			},
			{
				{
					UID: matchUID(3, 1), Round: 3, Position: 1,
					Slot1:  Slot{Status: SlotEmpty},
					Slot2:  Slot{Status: SlotEmpty},
					Status: StatusPending,
				},
			},
		},
	}

	resolveRouting(b)

	if err := validateBracket(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Build constructs a single-elimination bracket, choosing the template
// by field size.
func Build(entries []*Entry) (*Bracket, error) {
	if templateFor(len(entries)) == templateFixedSix {
		return GenerateFixedSixBracket(entries)
	}
	return BuildSingleElimination(entries)
}
