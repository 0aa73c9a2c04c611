package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodseed1/Lightning-Pickleball-sub009/brackets"
	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
)

type stubTournamentRepo struct {
	repositories.TournamentRepository
	tournament *models.Tournament
}

func (s *stubTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if s.tournament == nil || s.tournament.ID != id {
		return nil, repositories.ErrTournamentNotFound
	}
	return s.tournament, nil
}

type stubMatchRepo struct {
	repositories.MatchRepository
	rows    []*models.Match
	deleted bool
}

func (s *stubMatchRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	return len(s.rows), nil
}

func (s *stubMatchRepo) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0, len(s.rows))
	for _, m := range s.rows {
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *stubMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	s.deleted = true
	s.rows = nil
	return nil
}

func newDeleteFixture(rows []*models.Match) (BracketService, *stubMatchRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	matchRepo := &stubMatchRepo{rows: rows}
	svc := NewBracketService(
		nil,
		nil,
		&stubTournamentRepo{tournament: &models.Tournament{ID: 1, Status: models.StatusRegistration}},
		nil,
		matchRepo,
		brackets.NewHub(logger),
		logger,
	)
	return svc, matchRepo
}

func TestDeleteBracketRemovesMatches(t *testing.T) {
	svc, matchRepo := newDeleteFixture([]*models.Match{
		{ID: 10, TournamentID: 1, BracketUID: "R1M1", Status: models.MatchScheduled},
		{ID: 11, TournamentID: 1, BracketUID: "R2M1", Status: models.MatchPending},
	})

	require.NoError(t, svc.DeleteBracket(context.Background(), 1))
	assert.True(t, matchRepo.deleted)
}

func TestDeleteBracketRejectedAfterResults(t *testing.T) {
	svc, matchRepo := newDeleteFixture([]*models.Match{
		{ID: 10, TournamentID: 1, BracketUID: "R1M1", Status: models.MatchCompleted},
		{ID: 11, TournamentID: 1, BracketUID: "R2M1", Status: models.MatchScheduled},
	})

	err := svc.DeleteBracket(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBracketHasResults)
	assert.False(t, matchRepo.deleted)
}

func TestDeleteBracketNotGenerated(t *testing.T) {
	svc, matchRepo := newDeleteFixture(nil)

	err := svc.DeleteBracket(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBracketNotGenerated)
	assert.False(t, matchRepo.deleted)
}

func TestDeleteBracketUnknownTournament(t *testing.T) {
	svc, _ := newDeleteFixture(nil)

	err := svc.DeleteBracket(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
