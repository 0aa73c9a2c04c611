package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goodseed1/Lightning-Pickleball-sub009/brackets"
	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
)

// BracketView is the full bracket as served to clients: rounds in
// order, matches in position order, with entry details denormalized.
type BracketView struct {
	TournamentID int           `json:"tournament_id"`
	BracketType  string        `json:"bracket_type"`
	Size         int           `json:"size,omitempty"`
	ByeCount     int           `json:"bye_count,omitempty"`
	Rounds       [][]MatchView `json:"rounds"`
}

type EntryView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Seed        int    `json:"seed,omitempty"`
	Bye         bool   `json:"bye,omitempty"`
}

type MatchView struct {
	MatchID      int        `json:"match_id"`
	BracketUID   string     `json:"bracket_uid"`
	Round        int        `json:"round"`
	Position     int        `json:"position"`
	Entry1       *EntryView `json:"entry1,omitempty"`
	Entry2       *EntryView `json:"entry2,omitempty"`
	Status       string     `json:"status"`
	WinnerID     *string    `json:"winner_id,omitempty"`
	Score        *string    `json:"score,omitempty"`
	NextMatchUID *string    `json:"next_match_uid,omitempty"`
	NextSlot     *int       `json:"next_slot,omitempty"`
	MatchTime    time.Time  `json:"match_time"`
}

type BracketService interface {
	GenerateAndSaveBracket(ctx context.Context, tournamentID int) (*BracketView, error)
	GetBracketView(ctx context.Context, tournamentID int) (*BracketView, error)
	DeleteBracket(ctx context.Context, tournamentID int) error
	// AssembleBracket reconstructs the engine bracket from persisted
	// rows; used by result submission.
	AssembleBracket(ctx context.Context, tournament *models.Tournament, format *models.Format) (*brackets.Bracket, map[string]*models.Match, error)
}

type bracketService struct {
	db         *sql.DB
	formatRepo repositories.FormatRepository
	tournRepo  repositories.TournamentRepository
	regRepo    repositories.RegistrationRepository
	matchRepo  repositories.MatchRepository
	hub        *brackets.Hub
	logger     *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	formatRepo repositories.FormatRepository,
	tournRepo repositories.TournamentRepository,
	regRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:         db,
		formatRepo: formatRepo,
		tournRepo:  tournRepo,
		regRepo:    regRepo,
		matchRepo:  matchRepo,
		hub:        hub,
		logger:     logger,
	}
}

// GenerateAndSaveBracket freezes the confirmed entries, seeds them per
// the format's policy, builds the bracket and persists every match row
// in one transaction. Re-invocation on a tournament that already has
// matches is rejected; entries cannot change afterwards.
func (s *bracketService) GenerateAndSaveBracket(ctx context.Context, tournamentID int) (*BracketView, error) {
	tournament, err := s.tournRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}
	format, err := s.formatRepo.GetByID(ctx, tournament.FormatID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrFormatNotFound, ErrFormatNotFound)
	}

	existing, err := s.matchRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrBracketAlreadyGenerated
	}

	confirmed := models.RegistrationConfirmed
	regs, err := s.regRepo.ListByTournament(ctx, tournamentID, &confirmed, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed registrations for tournament %d: %w", tournamentID, err)
	}

	entries, skipped, err := buildEntries(format, regs)
	if err != nil {
		return nil, err
	}
	for _, r := range skipped {
		s.logger.Warn("excluding registration with dangling partner reference",
			slog.Int("tournament_id", tournamentID),
			slog.Int("registration_id", r.ID),
			slog.String("player", r.DisplayName))
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: found %d", brackets.ErrNotEnoughEntries, len(entries))
	}

	policy := brackets.SeedPolicy(format.SeedingPolicy)
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrSeedingPolicyInvalid, format.SeedingPolicy)
	}
	if policy == brackets.SeedManual {
		if err := applyStoredSeeds(entries, regs); err != nil {
			return nil, err
		}
	}
	if err := brackets.AssignSeeds(entries, policy); err != nil {
		return nil, err
	}

	generator, err := generatorFor(format.BracketType)
	if err != nil {
		return nil, err
	}
	engineMatches, err := generator.Generate(entries)
	if err != nil {
		var invariant *brackets.InvariantError
		if errors.As(err, &invariant) {
			// Engine defect, never a user mistake. Abort loudly and
			// persist nothing.
			s.logger.Error("bracket construction invariant violated",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		return nil, err
	}

	view := &BracketView{TournamentID: tournamentID, BracketType: string(format.BracketType)}
	if format.BracketType == models.BracketSingleElimination {
		assembled, err := brackets.AssembleBracket(entries, engineMatches)
		if err != nil {
			return nil, err
		}
		view.Size = assembled.Size
		view.ByeCount = assembled.ByeCount
	}

	matchTime := tournament.StartDate
	if time.Now().After(matchTime) {
		matchTime = time.Now().Add(15 * time.Minute)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin bracket transaction: %w", err)
	}
	defer tx.Rollback()

	rows := make([]*models.Match, 0, len(engineMatches))
	for _, em := range engineMatches {
		row, err := toMatchModel(tournamentID, em, matchTime)
		if err != nil {
			return nil, err
		}
		if err := s.matchRepo.Create(ctx, tx, row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	// Seeds are frozen onto the registrations in the same transaction;
	// both members of a doubles team receive theirs together.
	for _, e := range entries {
		for _, memberID := range e.MemberIDs {
			if err := s.regRepo.UpdateSeed(ctx, tx, memberID, e.Seed); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bracket transaction: %w", err)
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("bracket_type", string(format.BracketType)),
		slog.Int("entries", len(entries)),
		slog.Int("matches", len(rows)))

	view.Rounds = buildRoundViews(rows, entriesByID(entries))

	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Message{
		Type:    brackets.EventBracketGenerated,
		Payload: view,
	})
	return view, nil
}

// DeleteBracket removes every match row for a tournament so the
// organizer can regenerate with a different field or seeding. Refused
// once any result has been recorded.
func (s *bracketService) DeleteBracket(ctx context.Context, tournamentID int) error {
	if _, err := s.tournRepo.GetByID(ctx, tournamentID); err != nil {
		return mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}

	existing, err := s.matchRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if existing == 0 {
		return ErrBracketNotGenerated
	}

	completed := models.MatchCompleted
	done, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, &completed)
	if err != nil {
		return err
	}
	if len(done) > 0 {
		return fmt.Errorf("%w: %d matches already completed", ErrBracketHasResults, len(done))
	}

	if err := s.matchRepo.DeleteByTournament(ctx, s.db, tournamentID); err != nil {
		return err
	}

	s.logger.Info("bracket deleted",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", existing))

	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Message{
		Type:    brackets.EventBracketDeleted,
		Payload: map[string]int{"tournament_id": tournamentID},
	})
	return nil
}

// GetBracketView loads everything the bracket page needs in parallel.
func (s *bracketService) GetBracketView(ctx context.Context, tournamentID int) (*BracketView, error) {
	tournament, err := s.tournRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}

	var (
		format *models.Format
		regs   []*models.Registration
		rows   []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		format, err = s.formatRepo.GetByID(gCtx, tournament.FormatID)
		return err
	})
	g.Go(func() error {
		confirmed := models.RegistrationConfirmed
		var err error
		regs, err = s.regRepo.ListByTournament(gCtx, tournamentID, &confirmed, true)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.matchRepo.ListByTournament(gCtx, tournamentID, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bracket data for tournament %d: %w", tournamentID, err)
	}

	if len(rows) == 0 {
		return nil, ErrBracketNotGenerated
	}

	entries, _, err := buildEntries(format, regs)
	if err != nil {
		return nil, err
	}

	view := &BracketView{
		TournamentID: tournamentID,
		BracketType:  string(format.BracketType),
		Rounds:       buildRoundViews(rows, entriesByID(entries)),
	}
	if format.BracketType == models.BracketSingleElimination {
		maxRound := 0
		for _, row := range rows {
			if row.Round > maxRound {
				maxRound = row.Round
			}
		}
		view.Size = 1 << uint(maxRound)
		for _, row := range rows {
			if row.Slot1Bye {
				view.ByeCount++
			}
			if row.Slot2Bye {
				view.ByeCount++
			}
		}
	}
	return view, nil
}

// AssembleBracket rebuilds the engine bracket from persisted rows and
// returns the rows keyed by bracket UID so the caller can map engine
// mutations back onto documents.
func (s *bracketService) AssembleBracket(ctx context.Context, tournament *models.Tournament, format *models.Format) (*brackets.Bracket, map[string]*models.Match, error) {
	confirmed := models.RegistrationConfirmed
	regs, err := s.regRepo.ListByTournament(ctx, tournament.ID, &confirmed, true)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.matchRepo.ListByTournament(ctx, tournament.ID, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrBracketNotGenerated
	}

	entries, _, err := buildEntries(format, regs)
	if err != nil {
		return nil, nil, err
	}
	if err := applyStoredSeeds(entries, regs); err != nil {
		return nil, nil, err
	}

	byID := entriesByID(entries)
	engineMatches := make([]*brackets.Match, 0, len(rows))
	rowsByUID := make(map[string]*models.Match, len(rows))
	for _, row := range rows {
		em, err := toEngineMatch(row, byID)
		if err != nil {
			return nil, nil, err
		}
		engineMatches = append(engineMatches, em)
		rowsByUID[row.BracketUID] = row
	}

	bracket, err := brackets.AssembleBracket(entries, engineMatches)
	if err != nil {
		return nil, nil, err
	}
	return bracket, rowsByUID, nil
}

func buildRoundViews(rows []*models.Match, byID map[string]*brackets.Entry) [][]MatchView {
	maxRound := 0
	for _, row := range rows {
		if row.Round > maxRound {
			maxRound = row.Round
		}
	}
	rounds := make([][]MatchView, maxRound)
	for _, row := range rows {
		rounds[row.Round-1] = append(rounds[row.Round-1], toMatchView(row, byID))
	}
	return rounds
}

func toMatchView(row *models.Match, byID map[string]*brackets.Entry) MatchView {
	mv := MatchView{
		MatchID:      row.ID,
		BracketUID:   row.BracketUID,
		Round:        row.Round,
		Position:     row.Position,
		Status:       string(row.Status),
		WinnerID:     row.WinnerID,
		Score:        row.Score,
		NextMatchUID: row.NextMatchUID,
		NextSlot:     row.NextSlot,
		MatchTime:    row.MatchTime,
	}
	mv.Entry1 = toEntryView(row.Entry1ID, row.Slot1Bye, byID)
	mv.Entry2 = toEntryView(row.Entry2ID, row.Slot2Bye, byID)
	return mv
}

func toEntryView(entryID *string, bye bool, byID map[string]*brackets.Entry) *EntryView {
	if entryID == nil {
		return nil
	}
	view := &EntryView{ID: *entryID, Bye: bye, DisplayName: "Entry " + *entryID}
	if e, ok := byID[*entryID]; ok {
		view.DisplayName = e.DisplayName
		view.Seed = e.Seed
	}
	return view
}

func roomID(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

func mapRepoNotFound(err, repoSentinel, serviceSentinel error) error {
	if errors.Is(err, repoSentinel) {
		return serviceSentinel
	}
	return err
}
