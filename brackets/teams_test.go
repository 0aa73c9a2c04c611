package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestGroupTeamsMutualPairs(t *testing.T) {
	regs := []Registration{
		{ID: 1, DisplayName: "Ann", PartnerID: intPtr(2), RegOrder: 0, Rating: RatingSnapshot{Rating: 4.0}},
		{ID: 2, DisplayName: "Bob", PartnerID: intPtr(1), RegOrder: 1, Rating: RatingSnapshot{Rating: 3.0}},
		{ID: 3, DisplayName: "Cal", PartnerID: intPtr(4), RegOrder: 2},
		{ID: 4, DisplayName: "Dee", PartnerID: intPtr(3), RegOrder: 3},
		{ID: 5, DisplayName: "Eve", PartnerID: intPtr(6), RegOrder: 4},
		{ID: 6, DisplayName: "Fay", PartnerID: intPtr(5), RegOrder: 5},
	}

	teams, skipped := GroupTeams(regs)
	require.Len(t, teams, 3)
	assert.Empty(t, skipped)

	assert.Equal(t, "t1-2", teams[0].ID)
	assert.Equal(t, "Ann / Bob", teams[0].DisplayName)
	assert.Equal(t, []int{1, 2}, teams[0].MemberIDs)
	assert.InDelta(t, 3.5, teams[0].Rating.Rating, 1e-9)
	assert.Equal(t, "t3-4", teams[1].ID)
	assert.Equal(t, "t5-6", teams[2].ID)
}

func TestGroupTeamsSkipsDanglingReferences(t *testing.T) {
	regs := []Registration{
		{ID: 1, DisplayName: "Ann", PartnerID: intPtr(2), RegOrder: 0},
		{ID: 2, DisplayName: "Bob", PartnerID: intPtr(1), RegOrder: 1},
		// Partner never registered.
		{ID: 3, DisplayName: "Cal", PartnerID: intPtr(99), RegOrder: 2},
		// No partner declared.
		{ID: 4, DisplayName: "Dee", RegOrder: 3},
		// One-sided: points at Ann, who points at Bob.
		{ID: 5, DisplayName: "Eve", PartnerID: intPtr(1), RegOrder: 4},
	}

	teams, skipped := GroupTeams(regs)
	require.Len(t, teams, 1)
	assert.Equal(t, "t1-2", teams[0].ID)

	require.Len(t, skipped, 3)
	skippedIDs := []int{skipped[0].ID, skipped[1].ID, skipped[2].ID}
	assert.ElementsMatch(t, []int{3, 4, 5}, skippedIDs)
}

func TestGroupTeamsSelfReference(t *testing.T) {
	regs := []Registration{
		{ID: 1, DisplayName: "Ann", PartnerID: intPtr(1), RegOrder: 0},
	}
	teams, skipped := GroupTeams(regs)
	assert.Empty(t, teams)
	require.Len(t, skipped, 1)
}

func TestTeamEntryIDOrderIndependent(t *testing.T) {
	assert.Equal(t, TeamEntryID(7, 3), TeamEntryID(3, 7))
	assert.Equal(t, "t3-7", TeamEntryID(7, 3))
}

func TestMeanRatingClubRank(t *testing.T) {
	ranked := RatingSnapshot{Rating: 4.0, ClubRank: 4}
	unranked := RatingSnapshot{Rating: 3.0}

	// Only the ranked member contributes a club rank.
	got := meanRating(ranked, unranked)
	assert.Equal(t, 4, got.ClubRank)
	assert.InDelta(t, 3.5, got.Rating, 1e-9)

	// Two unranked members stay unranked.
	got = meanRating(unranked, unranked)
	assert.Zero(t, got.ClubRank)

	// Two ranked members average.
	got = meanRating(ranked, RatingSnapshot{Rating: 4.0, ClubRank: 8})
	assert.Equal(t, 6, got.ClubRank)
}

func TestSoloEntry(t *testing.T) {
	reg := Registration{ID: 12, DisplayName: "Ann", RegOrder: 3, Rating: RatingSnapshot{Rating: 4.2}}
	e := SoloEntry(reg)
	assert.Equal(t, "p12", e.ID)
	assert.Equal(t, "Ann", e.DisplayName)
	assert.Equal(t, []int{12}, e.MemberIDs)
	assert.Equal(t, 3, e.RegOrder)
}
