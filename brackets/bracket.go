package brackets

import (
	"fmt"
	"sort"
)

// SlotStatus describes how a bracket slot came to be occupied.
type SlotStatus string

const (
	SlotEmpty  SlotStatus = "empty"
	SlotFilled SlotStatus = "filled"
	SlotBye    SlotStatus = "bye"
)

type MatchStatus string

const (
	// StatusPending marks a match whose participants are not known yet
	// (at least one slot waits for an upstream winner).
	StatusPending MatchStatus = "pending"
	// StatusScheduled marks a match with both participants known.
	StatusScheduled MatchStatus = "scheduled"
	// MatchStatusCompleted is terminal. Corrections are not supported.
	MatchStatusCompleted MatchStatus = "completed"
)

// RatingSnapshot carries the external skill inputs used only during
// seeding. ClubRank is 1-based, lower is better; 0 means unranked.
type RatingSnapshot struct {
	Rating   float64 `json:"rating"`
	ClubRank int     `json:"club_rank"`
	WinRate  float64 `json:"win_rate"`
}

// Entry is one seeded competitor or doubles team.
type Entry struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Seed        int            `json:"seed,omitempty"`
	Rating      RatingSnapshot `json:"rating"`
	// RegOrder is the registration sequence number, used as the final
	// seeding tiebreaker so re-running seeding is reproducible.
	RegOrder int `json:"-"`
	// MemberIDs holds the underlying registration IDs: one for a
	// singles entry, two for a doubles team.
	MemberIDs []int `json:"member_ids,omitempty"`
}

type Slot struct {
	Entry  *Entry     `json:"entry,omitempty"`
	Status SlotStatus `json:"status"`
}

func (s Slot) Occupied() bool {
	return s.Entry != nil
}

type Match struct {
	UID      string      `json:"uid"`
	Round    int         `json:"round"`
	Position int         `json:"position"`
	Slot1    Slot        `json:"slot1"`
	Slot2    Slot        `json:"slot2"`
	Status   MatchStatus `json:"status"`
	WinnerID string      `json:"winner_id,omitempty"`
	Score    *Score      `json:"score,omitempty"`

	// Routing below is computed by the navigation resolver, never
	// hand-authored. It is persisted for display but can always be
	// rebuilt from the bracket shape alone.
	NextMatchUID string   `json:"next_match_uid,omitempty"`
	NextSlot     int      `json:"next_slot,omitempty"`
	SourceUIDs   []string `json:"source_uids,omitempty"`
}

func matchUID(round, position int) string {
	return fmt.Sprintf("R%dM%d", round, position)
}

// Bracket is the full ordered set of rounds for a single-elimination
// tournament. Rounds[0] is round 1; the last round holds the final.
type Bracket struct {
	Size     int        `json:"size"` // next power of two >= entry count
	ByeCount int        `json:"bye_count"`
	Rounds   [][]*Match `json:"rounds"`
	Entries  []*Entry   `json:"entries"`
}

func (b *Bracket) RoundCount() int {
	return len(b.Rounds)
}

// Match looks a match up by its bracket UID.
func (b *Bracket) Match(uid string) *Match {
	for _, round := range b.Rounds {
		for _, m := range round {
			if m.UID == uid {
				return m
			}
		}
	}
	return nil
}

func (b *Bracket) FinalMatch() *Match {
	if len(b.Rounds) == 0 {
		return nil
	}
	final := b.Rounds[len(b.Rounds)-1]
	if len(final) != 1 {
		return nil
	}
	return final[0]
}

// AllMatches returns every match in round order, position order.
func (b *Bracket) AllMatches() []*Match {
	var out []*Match
	for _, round := range b.Rounds {
		out = append(out, round...)
	}
	return out
}

func (b *Bracket) completedMatches() []*Match {
	var out []*Match
	for _, m := range b.AllMatches() {
		if m.Status == MatchStatusCompleted {
			out = append(out, m)
		}
	}
	return out
}

func (b *Bracket) entryByID(id string) *Entry {
	for _, e := range b.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// AssembleBracket rebuilds a Bracket from persisted match documents.
// Matches only need UID, Round, Position, slots, status, winner and
// score; all routing is recomputed from the static shape, so the
// result is identical no matter how the documents were stored.
func AssembleBracket(entries []*Entry, matches []*Match) (*Bracket, error) {
	if len(matches) == 0 {
		return nil, fmt.Errorf("cannot assemble bracket from zero matches")
	}

	maxRound := 0
	for _, m := range matches {
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}

	rounds := make([][]*Match, maxRound)
	for _, m := range matches {
		if m.Round < 1 {
			return nil, fmt.Errorf("match %s has invalid round %d", m.UID, m.Round)
		}
		rounds[m.Round-1] = append(rounds[m.Round-1], m)
	}
	for r := range rounds {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].Position < rounds[r][j].Position
		})
	}

	byeSlots := 0
	for _, m := range matches {
		if m.Slot1.Status == SlotBye {
			byeSlots++
		}
		if m.Slot2.Status == SlotBye {
			byeSlots++
		}
	}

	b := &Bracket{
		Size:     1 << uint(maxRound),
		ByeCount: byeSlots,
		Rounds:   rounds,
		Entries:  entries,
	}
	resolveRouting(b)
	return b, nil
}
