package brackets

import "sort"

// Ranking is one row of the final standings.
type Ranking struct {
	Rank      int    `json:"rank"`
	Entry     *Entry `json:"entry"`
	Wins      int    `json:"wins"`
	SetsWon   int    `json:"sets_won"`
	SetsLost  int    `json:"sets_lost"`
	GamesWon  int    `json:"games_won"`
	GamesLost int    `json:"games_lost"`
}

func (r Ranking) SetDiff() int  { return r.SetsWon - r.SetsLost }
func (r Ranking) GameDiff() int { return r.GamesWon - r.GamesLost }

// ComputeRankings totals every entry's results across the completed
// matches and orders them by wins, then set differential, then game
// differential, then seed (lower seed wins remaining ties). Ranks are
// dense 1..N with no shared positions. The result is a pure function
// of the completed match set: permuting either input leaves the order
// unchanged.
func ComputeRankings(entries []*Entry, matches []*Match) []Ranking {
	totals := make(map[string]*Ranking, len(entries))
	for _, e := range entries {
		totals[e.ID] = &Ranking{Entry: e}
	}

	for _, m := range matches {
		if m.Status != MatchStatusCompleted || m.Score == nil {
			continue
		}
		if !m.Slot1.Occupied() || !m.Slot2.Occupied() {
			continue
		}
		t1 := totals[m.Slot1.Entry.ID]
		t2 := totals[m.Slot2.Entry.ID]
		if t1 == nil || t2 == nil {
			continue
		}

		if m.WinnerID == m.Slot1.Entry.ID {
			t1.Wins++
		} else if m.WinnerID == m.Slot2.Entry.ID {
			t2.Wins++
		}

		s1, s2 := m.Score.SetsWonBySlot1(), m.Score.SetsWonBySlot2()
		t1.SetsWon += s1
		t1.SetsLost += s2
		t2.SetsWon += s2
		t2.SetsLost += s1

		g1, g2 := m.Score.gamesBySlot()
		t1.GamesWon += g1
		t1.GamesLost += g2
		t2.GamesWon += g2
		t2.GamesLost += g1
	}

	out := make([]Ranking, 0, len(entries))
	for _, e := range entries {
		out = append(out, *totals[e.ID])
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.SetDiff() != b.SetDiff() {
			return a.SetDiff() > b.SetDiff()
		}
		if a.GameDiff() != b.GameDiff() {
			return a.GameDiff() > b.GameDiff()
		}
		return a.Entry.Seed < b.Entry.Seed
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
