package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub009/brackets"
	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
)

// SubmitResultInput carries one match result. Score is the raw JSON
// sets payload, e.g. {"sets":[{"games1":11,"games2":7}]}.
type SubmitResultInput struct {
	MatchID       int    `json:"match_id"`
	WinnerEntryID string `json:"winner_entry_id"`
	Score         string `json:"score"`
}

// SubmitResultOutput reports what the submission changed so handlers
// and websocket clients do not have to re-fetch the whole bracket.
type SubmitResultOutput struct {
	Match               *models.Match      `json:"match"`
	Downstream          *models.Match      `json:"downstream,omitempty"`
	TournamentCompleted bool               `json:"tournament_completed"`
	Standings           []*models.Standing `json:"standings,omitempty"`
}

type MatchService interface {
	SubmitResult(ctx context.Context, tournamentID int, input SubmitResultInput) (*SubmitResultOutput, error)
	GetMatch(ctx context.Context, tournamentID, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
}

type matchService struct {
	db           *sql.DB
	formatRepo   repositories.FormatRepository
	tournRepo    repositories.TournamentRepository
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	bracketSvc   BracketService
	hub          *brackets.Hub
	logger       *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	formatRepo repositories.FormatRepository,
	tournRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	bracketSvc BracketService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:           db,
		formatRepo:   formatRepo,
		tournRepo:    tournRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		bracketSvc:   bracketSvc,
		hub:          hub,
		logger:       logger,
	}
}

// SubmitResult completes one match and advances the winner. The engine
// decides everything on an in-memory bracket; this layer only makes
// those decisions durable, writing the completed match and the
// downstream slot in a single transaction with both rows locked.
func (s *matchService) SubmitResult(ctx context.Context, tournamentID int, input SubmitResultInput) (*SubmitResultOutput, error) {
	tournament, err := s.tournRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}
	if tournament.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: tournament is %s", ErrMatchNotSubmittable, tournament.Status)
	}
	format, err := s.formatRepo.GetByID(ctx, tournament.FormatID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrFormatNotFound, ErrFormatNotFound)
	}

	row, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchNotFound, ErrMatchNotFound)
	}
	if row.TournamentID != tournamentID {
		return nil, ErrMatchNotFound
	}

	score, err := brackets.ParseScore(input.Score)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	switch format.BracketType {
	case models.BracketSingleElimination:
		return s.submitElimination(ctx, tournament, format, row, input.WinnerEntryID, score)
	case models.BracketRoundRobin:
		return s.submitRoundRobin(ctx, tournament, format, row, input.WinnerEntryID, score)
	default:
		return nil, fmt.Errorf("%w: unsupported bracket type %q", ErrValidationFailed, format.BracketType)
	}
}

func (s *matchService) submitElimination(ctx context.Context, tournament *models.Tournament, format *models.Format, row *models.Match, winnerEntryID string, score *brackets.Score) (*SubmitResultOutput, error) {
	bracket, rowsByUID, err := s.bracketSvc.AssembleBracket(ctx, tournament, format)
	if err != nil {
		return nil, err
	}

	outcome, err := brackets.SubmitResult(bracket, row.BracketUID, winnerEntryID, score)
	if err != nil {
		return nil, mapEngineError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin result transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock rows in a fixed order (submitted match first, downstream
	// second) so two concurrent submissions into the same downstream
	// match cannot deadlock.
	locked, err := s.matchRepo.GetByIDForUpdate(ctx, tx, row.ID)
	if err != nil {
		return nil, err
	}
	if locked.Status != models.MatchScheduled {
		return nil, fmt.Errorf("%w: match %s is %s", ErrMatchNotSubmittable, row.BracketUID, locked.Status)
	}

	if err := s.matchRepo.RecordResult(ctx, tx, row.ID, encodeScore(score), winnerEntryID); err != nil {
		return nil, err
	}

	out := &SubmitResultOutput{TournamentCompleted: outcome.TournamentCompleted}

	if outcome.Downstream != nil {
		downRow, ok := rowsByUID[outcome.Downstream.UID]
		if !ok {
			return nil, fmt.Errorf("downstream match %s has no persisted row", outcome.Downstream.UID)
		}
		if _, err := s.matchRepo.GetByBracketUIDForUpdate(ctx, tx, tournament.ID, downRow.BracketUID); err != nil {
			return nil, err
		}
		slot := 1
		if outcome.Downstream.Slot2.Occupied() && outcome.Downstream.Slot2.Entry.ID == winnerEntryID {
			slot = 2
		}
		nextStatus := models.MatchPending
		if outcome.DownstreamReady {
			nextStatus = models.MatchScheduled
		}
		if err := s.matchRepo.FillSlot(ctx, tx, downRow.ID, slot, winnerEntryID, nextStatus); err != nil {
			return nil, err
		}
	}

	if outcome.TournamentCompleted {
		standings := toStandingRows(tournament.ID, outcome.Rankings)
		if err := s.standingRepo.CreateAll(ctx, tx, standings); err != nil {
			return nil, err
		}
		if err := s.tournRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusCompleted); err != nil {
			return nil, err
		}
		out.Standings = standings
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result transaction: %w", err)
	}

	updated, err := s.matchRepo.GetByID(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	out.Match = updated
	if outcome.Downstream != nil {
		if downRow, ok := rowsByUID[outcome.Downstream.UID]; ok {
			if refreshed, err := s.matchRepo.GetByID(ctx, downRow.ID); err == nil {
				out.Downstream = refreshed
			}
		}
	}

	s.broadcastResult(tournament.ID, out)
	return out, nil
}

// submitRoundRobin records a result with no advancement. Standings are
// produced once the last scheduled match completes.
func (s *matchService) submitRoundRobin(ctx context.Context, tournament *models.Tournament, format *models.Format, row *models.Match, winnerEntryID string, score *brackets.Score) (*SubmitResultOutput, error) {
	if row.Status != models.MatchScheduled {
		return nil, fmt.Errorf("%w: match %s is %s", ErrMatchNotSubmittable, row.BracketUID, row.Status)
	}
	if !rowHasEntry(row, winnerEntryID) {
		return nil, fmt.Errorf("%w: entry %s in match %s", ErrWinnerNotInMatch, winnerEntryID, row.BracketUID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin result transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.matchRepo.GetByIDForUpdate(ctx, tx, row.ID); err != nil {
		return nil, err
	}
	if err := s.matchRepo.RecordResult(ctx, tx, row.ID, encodeScore(score), winnerEntryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result transaction: %w", err)
	}

	out := &SubmitResultOutput{}
	out.Match, err = s.matchRepo.GetByID(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	// A fresh assembly after commit tells us whether everything is done.
	bracket, _, err := s.bracketSvc.AssembleBracket(ctx, tournament, format)
	if err != nil {
		return nil, err
	}
	remaining := 0
	for _, m := range bracket.AllMatches() {
		if m.Status != brackets.MatchStatusCompleted {
			remaining++
		}
	}
	if remaining == 0 {
		rankings := brackets.ComputeRankings(bracket.Entries, bracket.AllMatches())
		standings := toStandingRows(tournament.ID, rankings)

		finishTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin standings transaction: %w", err)
		}
		defer finishTx.Rollback()
		if err := s.standingRepo.CreateAll(ctx, finishTx, standings); err != nil {
			return nil, err
		}
		if err := s.tournRepo.UpdateStatus(ctx, finishTx, tournament.ID, models.StatusCompleted); err != nil {
			return nil, err
		}
		if err := finishTx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit standings transaction: %w", err)
		}
		out.TournamentCompleted = true
		out.Standings = standings
	}

	s.broadcastResult(tournament.ID, out)
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, tournamentID, matchID int) (*models.Match, error) {
	row, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchNotFound, ErrMatchNotFound)
	}
	if row.TournamentID != tournamentID {
		return nil, ErrMatchNotFound
	}
	return row, nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID, round, status)
}

func (s *matchService) broadcastResult(tournamentID int, out *SubmitResultOutput) {
	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Message{
		Type:    brackets.EventMatchUpdated,
		Payload: out,
	})
	if out.TournamentCompleted {
		s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Message{
			Type:    brackets.EventTournamentCompleted,
			Payload: out.Standings,
		})
	}
}

func toStandingRows(tournamentID int, rankings []brackets.Ranking) []*models.Standing {
	standings := make([]*models.Standing, 0, len(rankings))
	now := time.Now()
	for _, r := range rankings {
		standings = append(standings, &models.Standing{
			TournamentID: tournamentID,
			EntryID:      r.Entry.ID,
			DisplayName:  r.Entry.DisplayName,
			Seed:         r.Entry.Seed,
			Rank:         r.Rank,
			Wins:         r.Wins,
			SetsWon:      r.SetsWon,
			SetsLost:     r.SetsLost,
			GamesWon:     r.GamesWon,
			GamesLost:    r.GamesLost,
			CreatedAt:    now,
		})
	}
	return standings
}

func rowHasEntry(row *models.Match, entryID string) bool {
	if row.Entry1ID != nil && *row.Entry1ID == entryID {
		return true
	}
	return row.Entry2ID != nil && *row.Entry2ID == entryID
}

func encodeScore(score *brackets.Score) string {
	encoded, err := score.Encode()
	if err != nil {
		// Score was just parsed from JSON, re-encoding cannot fail.
		return "{}"
	}
	return encoded
}

// mapEngineError translates engine sentinels into the service error
// vocabulary so handlers map them to consistent HTTP statuses.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchNotFound):
		return fmt.Errorf("%w: %v", ErrMatchNotFound, err)
	case errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrMatchAlreadyCompleted):
		return fmt.Errorf("%w: %v", ErrMatchNotSubmittable, err)
	case errors.Is(err, brackets.ErrWinnerNotInMatch):
		return fmt.Errorf("%w: %v", ErrWinnerNotInMatch, err)
	}
	return err
}
