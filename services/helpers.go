package services

import (
	"fmt"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub009/brackets"
	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
)

func validateTournamentDates(reg, start, end time.Time) error {
	if reg.IsZero() || start.IsZero() || end.IsZero() {
		return ErrTournamentDatesRequired
	}
	if reg.After(start) {
		return fmt.Errorf("%w: registration date (%s) is after start date (%s)",
			ErrTournamentInvalidRegDate, reg.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date (%s) is not before end date (%s)",
			ErrTournamentInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusSoon:         {models.StatusRegistration, models.StatusCanceled},
		models.StatusRegistration: {models.StatusActive, models.StatusCanceled},
		models.StatusActive:       {models.StatusCompleted, models.StatusCanceled},
		models.StatusCompleted:    {},
		models.StatusCanceled:     {},
	}
	for _, s := range allowed[current] {
		if next == s {
			return true
		}
	}
	return false
}

// generatorFor selects the match generator for a bracket type.
func generatorFor(bracketType models.BracketType) (brackets.Generator, error) {
	switch bracketType {
	case models.BracketSingleElimination:
		return brackets.NewSingleEliminationGenerator(), nil
	case models.BracketRoundRobin:
		return brackets.NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported bracket type %q", ErrValidationFailed, bracketType)
	}
}

// toEngineRegistrations converts confirmed registration rows into the
// engine's registration view. RegOrder is the position in created-at
// order, which ListByTournament already guarantees.
func toEngineRegistrations(regs []*models.Registration) ([]brackets.Registration, error) {
	out := make([]brackets.Registration, 0, len(regs))
	for i, reg := range regs {
		if reg.Player == nil {
			return nil, fmt.Errorf("registration %d is missing player details", reg.ID)
		}
		out = append(out, brackets.Registration{
			ID:          reg.ID,
			DisplayName: reg.Player.DisplayName(),
			PartnerID:   reg.PartnerID,
			Rating: brackets.RatingSnapshot{
				Rating:   reg.Player.Rating,
				ClubRank: reg.Player.ClubRank,
				WinRate:  reg.Player.WinRate,
			},
			RegOrder: i,
		})
	}
	return out, nil
}

// buildEntries turns registrations into bracket entries: one per
// registration for singles, one per mutual partner pair for doubles.
// Registrations with dangling partner references come back in skipped
// for the caller to log; they are excluded, not fatal.
func buildEntries(format *models.Format, regs []*models.Registration) (entries []*brackets.Entry, skipped []brackets.Registration, err error) {
	engineRegs, err := toEngineRegistrations(regs)
	if err != nil {
		return nil, nil, err
	}

	if format.ParticipantType == models.FormatParticipantDoubles {
		entries, skipped = brackets.GroupTeams(engineRegs)
		return entries, skipped, nil
	}

	entries = make([]*brackets.Entry, 0, len(engineRegs))
	for _, r := range engineRegs {
		entries = append(entries, brackets.SoloEntry(r))
	}
	return entries, nil, nil
}

// applyStoredSeeds copies persisted registration seeds onto entries,
// used for the manual policy and when reassembling a bracket. Both
// members of a doubles team must carry the same seed.
func applyStoredSeeds(entries []*brackets.Entry, regs []*models.Registration) error {
	seedByRegID := make(map[int]*int, len(regs))
	for _, reg := range regs {
		seedByRegID[reg.ID] = reg.Seed
	}

	for _, e := range entries {
		var seed *int
		for i, memberID := range e.MemberIDs {
			memberSeed, ok := seedByRegID[memberID]
			if !ok || memberSeed == nil {
				return fmt.Errorf("%w: entry %s has no seed", ErrValidationFailed, e.ID)
			}
			if i == 0 {
				seed = memberSeed
			} else if *memberSeed != *seed {
				return fmt.Errorf("%w: team %s members carry different seeds (%d and %d)",
					ErrValidationFailed, e.ID, *seed, *memberSeed)
			}
		}
		e.Seed = *seed
	}
	return nil
}

// toMatchModel converts one engine match into its persisted form.
func toMatchModel(tournamentID int, m *brackets.Match, matchTime time.Time) (*models.Match, error) {
	row := &models.Match{
		TournamentID: tournamentID,
		BracketUID:   m.UID,
		Round:        m.Round,
		Position:     m.Position,
		Status:       models.MatchStatus(m.Status),
		MatchTime:    matchTime,
	}
	if m.Slot1.Occupied() {
		id := m.Slot1.Entry.ID
		row.Entry1ID = &id
		row.Slot1Bye = m.Slot1.Status == brackets.SlotBye
	}
	if m.Slot2.Occupied() {
		id := m.Slot2.Entry.ID
		row.Entry2ID = &id
		row.Slot2Bye = m.Slot2.Status == brackets.SlotBye
	}
	if m.WinnerID != "" {
		id := m.WinnerID
		row.WinnerID = &id
	}
	if m.Score != nil {
		encoded, err := m.Score.Encode()
		if err != nil {
			return nil, err
		}
		row.Score = &encoded
	}
	if m.NextMatchUID != "" {
		uid := m.NextMatchUID
		slot := m.NextSlot
		row.NextMatchUID = &uid
		row.NextSlot = &slot
	}
	return row, nil
}

// toEngineMatch converts a persisted match row back to its engine
// form. Routing fields are left blank; the navigation resolver
// recomputes them when the bracket is assembled.
func toEngineMatch(row *models.Match, entriesByID map[string]*brackets.Entry) (*brackets.Match, error) {
	m := &brackets.Match{
		UID:      row.BracketUID,
		Round:    row.Round,
		Position: row.Position,
		Status:   brackets.MatchStatus(row.Status),
		Slot1:    brackets.Slot{Status: brackets.SlotEmpty},
		Slot2:    brackets.Slot{Status: brackets.SlotEmpty},
	}

	fill := func(slot *brackets.Slot, entryID *string, bye bool) error {
		if entryID == nil {
			return nil
		}
		e, ok := entriesByID[*entryID]
		if !ok {
			return fmt.Errorf("match %s references unknown entry %s", row.BracketUID, *entryID)
		}
		status := brackets.SlotFilled
		if bye {
			status = brackets.SlotBye
		}
		*slot = brackets.Slot{Entry: e, Status: status}
		return nil
	}
	if err := fill(&m.Slot1, row.Entry1ID, row.Slot1Bye); err != nil {
		return nil, err
	}
	if err := fill(&m.Slot2, row.Entry2ID, row.Slot2Bye); err != nil {
		return nil, err
	}

	if row.WinnerID != nil {
		m.WinnerID = *row.WinnerID
	}
	if row.Score != nil && *row.Score != "" {
		score, err := brackets.ParseScore(*row.Score)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", row.BracketUID, err)
		}
		m.Score = score
	}
	return m, nil
}

func entriesByID(entries []*brackets.Entry) map[string]*brackets.Entry {
	byID := make(map[string]*brackets.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return byID
}
