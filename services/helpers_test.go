package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodseed1/Lightning-Pickleball-sub009/brackets"
	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
)

func testRegistration(id int, name string, rating float64) *models.Registration {
	return &models.Registration{
		ID:     id,
		Status: models.RegistrationConfirmed,
		Player: &models.Player{ID: id * 100, FirstName: name, Rating: rating},
	}
}

func singlesFormat() *models.Format {
	return &models.Format{
		ID:              1,
		BracketType:     models.BracketSingleElimination,
		ParticipantType: models.FormatParticipantSingles,
		SeedingPolicy:   string(brackets.SeedRating),
	}
}

func doublesFormat() *models.Format {
	f := singlesFormat()
	f.ParticipantType = models.FormatParticipantDoubles
	return f
}

func TestBuildEntriesSingles(t *testing.T) {
	regs := []*models.Registration{
		testRegistration(1, "Ann", 4.0),
		testRegistration(2, "Bob", 3.5),
	}

	entries, skipped, err := buildEntries(singlesFormat(), regs)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].ID)
	assert.Equal(t, "Ann", entries[0].DisplayName)
	assert.Equal(t, 0, entries[0].RegOrder)
	assert.Equal(t, 1, entries[1].RegOrder)
}

func TestBuildEntriesDoubles(t *testing.T) {
	r1 := testRegistration(1, "Ann", 4.0)
	r2 := testRegistration(2, "Bob", 3.0)
	r1.PartnerID = &r2.ID
	r2.PartnerID = &r1.ID
	r3 := testRegistration(3, "Cal", 5.0) // no partner

	entries, skipped, err := buildEntries(doublesFormat(), []*models.Registration{r1, r2, r3})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1-2", entries[0].ID)
	assert.InDelta(t, 3.5, entries[0].Rating.Rating, 1e-9)
	require.Len(t, skipped, 1)
	assert.Equal(t, 3, skipped[0].ID)
}

func TestBuildEntriesRequiresPlayerDetails(t *testing.T) {
	regs := []*models.Registration{{ID: 1, Status: models.RegistrationConfirmed}}
	_, _, err := buildEntries(singlesFormat(), regs)
	assert.Error(t, err)
}

func TestApplyStoredSeeds(t *testing.T) {
	seed1, seed2 := 1, 2
	regs := []*models.Registration{
		testRegistration(1, "Ann", 4.0),
		testRegistration(2, "Bob", 3.5),
	}
	regs[0].Seed = &seed1
	regs[1].Seed = &seed2

	entries, _, err := buildEntries(singlesFormat(), regs)
	require.NoError(t, err)
	require.NoError(t, applyStoredSeeds(entries, regs))
	assert.Equal(t, 1, entries[0].Seed)
	assert.Equal(t, 2, entries[1].Seed)
}

func TestApplyStoredSeedsMissingSeed(t *testing.T) {
	regs := []*models.Registration{
		testRegistration(1, "Ann", 4.0),
		testRegistration(2, "Bob", 3.5),
	}
	entries, _, err := buildEntries(singlesFormat(), regs)
	require.NoError(t, err)

	err = applyStoredSeeds(entries, regs)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestApplyStoredSeedsTeamSeedMismatch(t *testing.T) {
	r1 := testRegistration(1, "Ann", 4.0)
	r2 := testRegistration(2, "Bob", 3.0)
	r1.PartnerID = &r2.ID
	r2.PartnerID = &r1.ID
	seed1, seed2 := 1, 2
	r1.Seed = &seed1
	r2.Seed = &seed2

	entries, _, err := buildEntries(doublesFormat(), []*models.Registration{r1, r2})
	require.NoError(t, err)

	err = applyStoredSeeds(entries, []*models.Registration{r1, r2})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestMatchModelRoundTrip(t *testing.T) {
	regs := []*models.Registration{
		testRegistration(1, "Ann", 4.0),
		testRegistration(2, "Bob", 3.5),
		testRegistration(3, "Cal", 3.0),
		testRegistration(4, "Dee", 2.5),
		testRegistration(5, "Eve", 2.0),
	}
	entries, _, err := buildEntries(singlesFormat(), regs)
	require.NoError(t, err)
	require.NoError(t, brackets.AssignSeeds(entries, brackets.SeedRating))

	bracket, err := brackets.Build(entries)
	require.NoError(t, err)

	matchTime := time.Now()
	byID := entriesByID(entries)
	for _, em := range bracket.AllMatches() {
		row, err := toMatchModel(7, em, matchTime)
		require.NoError(t, err)
		assert.Equal(t, 7, row.TournamentID)
		assert.Equal(t, em.UID, row.BracketUID)

		back, err := toEngineMatch(row, byID)
		require.NoError(t, err)
		assert.Equal(t, em.UID, back.UID)
		assert.Equal(t, em.Status, back.Status)
		assert.Equal(t, em.Slot1.Status, back.Slot1.Status, "match %s", em.UID)
		assert.Equal(t, em.Slot2.Status, back.Slot2.Status, "match %s", em.UID)
		if em.Slot1.Occupied() {
			assert.Equal(t, em.Slot1.Entry.ID, back.Slot1.Entry.ID)
		}
	}
}

func TestGeneratorFor(t *testing.T) {
	g, err := generatorFor(models.BracketSingleElimination)
	require.NoError(t, err)
	assert.Equal(t, "SingleElimination", g.Name())

	g, err = generatorFor(models.BracketRoundRobin)
	require.NoError(t, err)
	assert.Equal(t, "RoundRobin", g.Name())

	_, err = generatorFor(models.BracketType("swiss"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateTournamentDates(t *testing.T) {
	now := time.Now()

	assert.ErrorIs(t, validateTournamentDates(time.Time{}, now, now.Add(time.Hour)), ErrTournamentDatesRequired)
	assert.ErrorIs(t, validateTournamentDates(now.Add(time.Hour), now, now.Add(2*time.Hour)), ErrTournamentInvalidRegDate)
	assert.ErrorIs(t, validateTournamentDates(now, now.Add(time.Hour), now.Add(time.Hour)), ErrTournamentInvalidDateRange)
	assert.NoError(t, validateTournamentDates(now, now.Add(time.Hour), now.Add(2*time.Hour)))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, isValidStatusTransition(models.StatusSoon, models.StatusRegistration))
	assert.True(t, isValidStatusTransition(models.StatusRegistration, models.StatusActive))
	assert.True(t, isValidStatusTransition(models.StatusActive, models.StatusCompleted))
	assert.True(t, isValidStatusTransition(models.StatusActive, models.StatusCanceled))

	assert.False(t, isValidStatusTransition(models.StatusSoon, models.StatusActive))
	assert.False(t, isValidStatusTransition(models.StatusCompleted, models.StatusActive))
	assert.False(t, isValidStatusTransition(models.StatusCanceled, models.StatusRegistration))
}
