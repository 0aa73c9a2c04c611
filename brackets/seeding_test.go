package brackets

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratedEntry(id string, rating float64, clubRank int, winRate float64, regOrder int) *Entry {
	return &Entry{
		ID:          id,
		DisplayName: id,
		Rating:      RatingSnapshot{Rating: rating, ClubRank: clubRank, WinRate: winRate},
		RegOrder:    regOrder,
	}
}

func seedsOf(entries []*Entry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.ID] = e.Seed
	}
	return out
}

func TestAssignSeedsByRating(t *testing.T) {
	entries := []*Entry{
		ratedEntry("a", 3.5, 0, 0.5, 0),
		ratedEntry("b", 4.5, 0, 0.5, 1),
		ratedEntry("c", 4.0, 0, 0.5, 2),
	}
	require.NoError(t, AssignSeeds(entries, SeedRating))
	assert.Equal(t, map[string]int{"b": 1, "c": 2, "a": 3}, seedsOf(entries))
}

func TestAssignSeedsRatingTiebreaks(t *testing.T) {
	// Equal rating: club rank decides, then win rate, then earliest
	// registration. Unranked (0) always loses to ranked.
	entries := []*Entry{
		ratedEntry("unranked", 4.0, 0, 0.9, 0),
		ratedEntry("rank2", 4.0, 2, 0.5, 1),
		ratedEntry("rank1", 4.0, 1, 0.5, 2),
		ratedEntry("tied-late", 4.0, 2, 0.5, 3),
	}
	require.NoError(t, AssignSeeds(entries, SeedRating))

	got := seedsOf(entries)
	assert.Equal(t, 1, got["rank1"])
	assert.Equal(t, 2, got["rank2"], "equal rank resolves by registration order")
	assert.Equal(t, 3, got["tied-late"])
	assert.Equal(t, 4, got["unranked"])
}

func TestAssignSeedsByRanking(t *testing.T) {
	entries := []*Entry{
		ratedEntry("mid", 5.0, 7, 0.5, 0),
		ratedEntry("top", 3.0, 1, 0.5, 1),
		ratedEntry("unranked", 4.8, 0, 0.5, 2),
	}
	require.NoError(t, AssignSeeds(entries, SeedRanking))

	got := seedsOf(entries)
	assert.Equal(t, 1, got["top"], "club rank beats rating under the ranking policy")
	assert.Equal(t, 2, got["mid"])
	assert.Equal(t, 3, got["unranked"])
}

func TestAssignSeedsSnake(t *testing.T) {
	// Five entries rated in strict descending order: snake alternates
	// ends of the ordered list, so seeds land 1,3,5,4,2.
	entries := []*Entry{
		ratedEntry("e1", 5.0, 0, 0, 0),
		ratedEntry("e2", 4.0, 0, 0, 1),
		ratedEntry("e3", 3.0, 0, 0, 2),
		ratedEntry("e4", 2.0, 0, 0, 3),
		ratedEntry("e5", 1.0, 0, 0, 4),
	}
	require.NoError(t, AssignSeeds(entries, SeedSnake))
	assert.Equal(t, map[string]int{"e1": 1, "e2": 3, "e3": 5, "e4": 4, "e5": 2}, seedsOf(entries))
}

func TestAssignSeedsRandomIsDensePermutation(t *testing.T) {
	entries := makeEntries(16)
	for _, e := range entries {
		e.Seed = 0
	}
	require.NoError(t, AssignSeeds(entries, SeedRandom))

	seeds := make([]int, 0, len(entries))
	for _, e := range entries {
		seeds = append(seeds, e.Seed)
	}
	sort.Ints(seeds)
	for i, s := range seeds {
		assert.Equal(t, i+1, s)
	}
}

func TestAssignSeedsManualValidatesOnly(t *testing.T) {
	entries := makeEntries(4)
	require.NoError(t, AssignSeeds(entries, SeedManual))

	entries[0].Seed = 9
	err := AssignSeeds(entries, SeedManual)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Problems, "seed 1 missing")
	assert.Contains(t, validationErr.Problems, "seed 9 out of range 1..4")
}

func TestAssignSeedsRejectsUnknownPolicy(t *testing.T) {
	err := AssignSeeds(makeEntries(4), SeedPolicy("bogus"))
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidateSeedsReportsEveryProblem(t *testing.T) {
	entries := makeEntries(5)
	entries[1].Seed = 1 // duplicate 1, seed 2 missing
	entries[4].Seed = 1 // triple 1, seed 5 missing

	err := ValidateSeeds(entries)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Problems, "seed 1 assigned to 3 entries")
	assert.Contains(t, validationErr.Problems, "seed 2 missing")
	assert.Contains(t, validationErr.Problems, "seed 5 missing")
}
