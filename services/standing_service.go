package services

import (
	"context"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
)

type StandingService interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Standing, error)
}

type standingService struct {
	tournRepo    repositories.TournamentRepository
	standingRepo repositories.StandingRepository
}

func NewStandingService(tournRepo repositories.TournamentRepository, standingRepo repositories.StandingRepository) StandingService {
	return &standingService{tournRepo: tournRepo, standingRepo: standingRepo}
}

func (s *standingService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	tournament, err := s.tournRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}
	if tournament.Status != models.StatusCompleted {
		return nil, ErrStandingsNotReady
	}
	return s.standingRepo.ListByTournament(ctx, tournamentID)
}
