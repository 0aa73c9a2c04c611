package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
)

type CreateTournamentInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	FormatID    int       `json:"format_id"`
	RegDate     time.Time `json:"reg_date"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    *string   `json:"location,omitempty"`
	MaxEntries  int       `json:"max_entries"`
}

type RegisterForTournamentInput struct {
	// PartnerRegistrationID links a doubles registration to the
	// partner's existing registration. Teams only form when both sides
	// reference each other.
	PartnerRegistrationID *int `json:"partner_registration_id,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	AutoUpdateStatusesByDates(ctx context.Context) error

	Register(ctx context.Context, tournamentID, playerID int, input RegisterForTournamentInput) (*models.Registration, error)
	ConfirmRegistration(ctx context.Context, tournamentID, registrationID int) (*models.Registration, error)
	Withdraw(ctx context.Context, tournamentID, registrationID, playerID int) error
	ListRegistrations(ctx context.Context, tournamentID int, status *models.RegistrationStatus) ([]*models.Registration, error)
}

type tournamentService struct {
	tournRepo  repositories.TournamentRepository
	formatRepo repositories.FormatRepository
	regRepo    repositories.RegistrationRepository
	matchRepo  repositories.MatchRepository
	logger     *slog.Logger
}

func NewTournamentService(
	tournRepo repositories.TournamentRepository,
	formatRepo repositories.FormatRepository,
	regRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournRepo:  tournRepo,
		formatRepo: formatRepo,
		regRepo:    regRepo,
		matchRepo:  matchRepo,
		logger:     logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.MaxEntries <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	if err := validateTournamentDates(input.RegDate, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if _, err := s.formatRepo.GetByID(ctx, input.FormatID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrFormatNotFound, ErrFormatNotFound)
	}

	tournament := &models.Tournament{
		Name:        name,
		Description: input.Description,
		FormatID:    input.FormatID,
		OrganizerID: organizerID,
		RegDate:     input.RegDate,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		Status:      models.StatusSoon,
		MaxEntries:  input.MaxEntries,
	}
	if err := s.tournRepo.Create(ctx, tournament); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, fmt.Errorf("%w: name %q", ErrValidationFailed, name)
		case errors.Is(err, repositories.ErrTournamentFormatFK):
			return nil, ErrFormatNotFound
		}
		return nil, err
	}
	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("organizer_id", organizerID))
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}
	if format, err := s.formatRepo.GetByID(ctx, tournament.FormatID); err == nil {
		tournament.Format = format
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.tournRepo.List(ctx, status, limit, offset)
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	switch status {
	case models.StatusSoon, models.StatusRegistration, models.StatusActive,
		models.StatusCompleted, models.StatusCanceled:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, status)
	}

	tournament, err := s.tournRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}
	if tournament.Status == status {
		return tournament, nil
	}
	if !isValidStatusTransition(tournament.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentStatusTransition, tournament.Status, status)
	}
	if err := s.tournRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	tournament.Status = status
	return tournament, nil
}

// AutoUpdateStatusesByDates advances tournaments along their date
// boundaries: soon -> registration once the registration date passes,
// registration -> active at the start date. Completion is never
// date-driven, the final match result does that.
func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	tournaments, err := s.tournRepo.ListForStatusSweep(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tournaments for status sweep: %w", err)
	}

	now := time.Now()
	for _, t := range tournaments {
		var next models.TournamentStatus
		switch {
		case t.Status == models.StatusSoon && !now.Before(t.RegDate):
			next = models.StatusRegistration
		case t.Status == models.StatusRegistration && !now.Before(t.StartDate):
			next = models.StatusActive
		default:
			continue
		}
		if err := s.tournRepo.UpdateStatus(ctx, nil, t.ID, next); err != nil {
			s.logger.Error("status sweep update failed",
				slog.Int("tournament_id", t.ID),
				slog.String("to", string(next)),
				slog.Any("error", err))
			continue
		}
		s.logger.Info("tournament status advanced",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(next)))
	}
	return nil
}

func (s *tournamentService) Register(ctx context.Context, tournamentID, playerID int, input RegisterForTournamentInput) (*models.Registration, error) {
	tournament, err := s.tournRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}
	if err := s.requireEntriesMutable(ctx, tournamentID); err != nil {
		return nil, err
	}

	active, err := s.countActiveRegistrations(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if active >= tournament.MaxEntries {
		return nil, ErrTournamentFull
	}

	reg := &models.Registration{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		Status:       models.RegistrationPending,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, err
	}

	if input.PartnerRegistrationID != nil {
		if err := s.linkPartner(ctx, tournamentID, reg, *input.PartnerRegistrationID); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// linkPartner points this registration at the partner's. The pairing
// only becomes a team when the partner reciprocates; a one-sided link
// is valid and simply never forms a team.
func (s *tournamentService) linkPartner(ctx context.Context, tournamentID int, reg *models.Registration, partnerRegID int) error {
	partner, err := s.regRepo.GetByID(ctx, partnerRegID)
	if err != nil {
		return mapRepoNotFound(err, repositories.ErrRegistrationNotFound, ErrRegistrationNotFound)
	}
	if partner.TournamentID != tournamentID {
		return ErrPartnerNotInTournament
	}
	if partner.ID == reg.ID {
		return fmt.Errorf("%w: a registration cannot partner itself", ErrValidationFailed)
	}
	if err := s.regRepo.SetPartner(ctx, reg.ID, &partner.ID); err != nil {
		return err
	}
	reg.PartnerID = &partner.ID
	return nil
}

func (s *tournamentService) ConfirmRegistration(ctx context.Context, tournamentID, registrationID int) (*models.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrRegistrationNotFound, ErrRegistrationNotFound)
	}
	if reg.TournamentID != tournamentID {
		return nil, ErrRegistrationNotFound
	}
	if err := s.requireEntriesMutable(ctx, tournamentID); err != nil {
		return nil, err
	}
	if reg.Status == models.RegistrationConfirmed {
		return reg, nil
	}
	if err := s.regRepo.UpdateStatus(ctx, registrationID, models.RegistrationConfirmed); err != nil {
		return nil, err
	}
	reg.Status = models.RegistrationConfirmed
	return reg, nil
}

func (s *tournamentService) Withdraw(ctx context.Context, tournamentID, registrationID, playerID int) error {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return mapRepoNotFound(err, repositories.ErrRegistrationNotFound, ErrRegistrationNotFound)
	}
	if reg.TournamentID != tournamentID {
		return ErrRegistrationNotFound
	}
	if reg.PlayerID != playerID {
		return ErrForbiddenOperation
	}
	if err := s.requireEntriesMutable(ctx, tournamentID); err != nil {
		return err
	}
	return s.regRepo.UpdateStatus(ctx, registrationID, models.RegistrationWithdrawn)
}

func (s *tournamentService) ListRegistrations(ctx context.Context, tournamentID int, status *models.RegistrationStatus) ([]*models.Registration, error) {
	return s.regRepo.ListByTournament(ctx, tournamentID, status, true)
}

// requireEntriesMutable rejects any entry mutation once match rows
// exist. Seeds and entries are frozen at bracket generation.
func (s *tournamentService) requireEntriesMutable(ctx context.Context, tournamentID int) error {
	count, err := s.matchRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEntriesFrozen
	}
	return nil
}

func (s *tournamentService) countActiveRegistrations(ctx context.Context, tournamentID int) (int, error) {
	regs, err := s.regRepo.ListByTournament(ctx, tournamentID, nil, false)
	if err != nil {
		return 0, err
	}
	active := 0
	for _, r := range regs {
		if r.Status != models.RegistrationWithdrawn {
			active++
		}
	}
	return active, nil
}
