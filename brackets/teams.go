package brackets

import (
	"fmt"
	"sort"
)

// Registration is the minimal view of one confirmed registration the
// engine needs to form entries. PartnerID is only set for doubles.
type Registration struct {
	ID          int
	DisplayName string
	PartnerID   *int
	Rating      RatingSnapshot
	RegOrder    int
}

// SoloEntry converts one registration into a singles entry.
func SoloEntry(reg Registration) *Entry {
	return &Entry{
		ID:          SoloEntryID(reg.ID),
		DisplayName: reg.DisplayName,
		Rating:      reg.Rating,
		RegOrder:    reg.RegOrder,
		MemberIDs:   []int{reg.ID},
	}
}

func SoloEntryID(registrationID int) string {
	return fmt.Sprintf("p%d", registrationID)
}

// TeamEntryID builds the deterministic composite identity of a doubles
// team from its two member registration IDs.
func TeamEntryID(a, b int) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("t%d-%d", a, b)
}

// GroupTeams pairs registrations whose partner references are mutual
// into team entries. A registration whose partner reference is absent
// or not reciprocated is excluded and returned in skipped for the
// caller to log; a dangling reference is not fatal.
func GroupTeams(regs []Registration) (teams []*Entry, skipped []Registration) {
	byID := make(map[int]Registration, len(regs))
	for _, r := range regs {
		byID[r.ID] = r
	}

	paired := make(map[int]bool, len(regs))
	for _, r := range regs {
		if paired[r.ID] {
			continue
		}
		if r.PartnerID == nil {
			skipped = append(skipped, r)
			continue
		}
		partner, ok := byID[*r.PartnerID]
		if !ok || partner.ID == r.ID || partner.PartnerID == nil || *partner.PartnerID != r.ID {
			skipped = append(skipped, r)
			continue
		}

		a, b := r, partner
		if b.ID < a.ID {
			a, b = b, a
		}
		regOrder := a.RegOrder
		if b.RegOrder < regOrder {
			regOrder = b.RegOrder
		}
		teams = append(teams, &Entry{
			ID:          TeamEntryID(a.ID, b.ID),
			DisplayName: a.DisplayName + " / " + b.DisplayName,
			Rating:      meanRating(a.Rating, b.Rating),
			RegOrder:    regOrder,
			MemberIDs:   []int{a.ID, b.ID},
		})
		paired[a.ID] = true
		paired[b.ID] = true
	}

	sort.Slice(teams, func(i, j int) bool { return teams[i].RegOrder < teams[j].RegOrder })
	return teams, skipped
}

// meanRating averages the two members' skill inputs so doubles seeding
// operates on the team aggregate. Club rank averages only over ranked
// members; two unranked members stay unranked.
func meanRating(a, b RatingSnapshot) RatingSnapshot {
	out := RatingSnapshot{
		Rating:  (a.Rating + b.Rating) / 2,
		WinRate: (a.WinRate + b.WinRate) / 2,
	}
	switch {
	case a.ClubRank > 0 && b.ClubRank > 0:
		out.ClubRank = (a.ClubRank + b.ClubRank) / 2
	case a.ClubRank > 0:
		out.ClubRank = a.ClubRank
	case b.ClubRank > 0:
		out.ClubRank = b.ClubRank
	}
	return out
}
