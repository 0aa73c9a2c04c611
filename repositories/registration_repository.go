package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationConflict = errors.New("player is already registered for this tournament")
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.RegistrationStatus, withPlayers bool) ([]*models.Registration, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error
	UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error
	SetPartner(ctx context.Context, id int, partnerID *int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, player_id, partner_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.TournamentID, reg.PlayerID, reg.PartnerID, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "registrations_tournament_id_player_id_key" {
			return ErrRegistrationConflict
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, player_id, partner_id, seed, status, created_at
		FROM registrations WHERE id = $1`

	reg := &models.Registration{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.TournamentID, &reg.PlayerID, &reg.PartnerID, &reg.Seed, &reg.Status, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration %d: %w", id, err)
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.RegistrationStatus, withPlayers bool) ([]*models.Registration, error) {
	query := `
		SELECT r.id, r.tournament_id, r.player_id, r.partner_id, r.seed, r.status, r.created_at`
	if withPlayers {
		query += `,
		       p.id, p.first_name, p.last_name, p.nickname, p.rating, p.club_rank, p.win_rate`
	}
	query += `
		FROM registrations r`
	if withPlayers {
		query += `
		JOIN players p ON p.id = r.player_id`
	}
	query += `
		WHERE r.tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND r.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY r.created_at ASC, r.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	regs := make([]*models.Registration, 0)
	for rows.Next() {
		reg := &models.Registration{}
		if withPlayers {
			player := &models.Player{}
			if err := rows.Scan(
				&reg.ID, &reg.TournamentID, &reg.PlayerID, &reg.PartnerID, &reg.Seed, &reg.Status, &reg.CreatedAt,
				&player.ID, &player.FirstName, &player.LastName, &player.Nickname,
				&player.Rating, &player.ClubRank, &player.WinRate,
			); err != nil {
				return nil, fmt.Errorf("failed to scan registration row: %w", err)
			}
			reg.Player = player
		} else {
			if err := rows.Scan(
				&reg.ID, &reg.TournamentID, &reg.PlayerID, &reg.PartnerID, &reg.Seed, &reg.Status, &reg.CreatedAt,
			); err != nil {
				return nil, fmt.Errorf("failed to scan registration row: %w", err)
			}
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return regs, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

// UpdateSeed runs inside the bracket generation transaction so a
// doubles team's seed lands on both member registrations atomically.
func (r *postgresRegistrationRepository) UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error {
	result, err := exec.ExecContext(ctx, `UPDATE registrations SET seed = $1 WHERE id = $2`, seed, id)
	if err != nil {
		return fmt.Errorf("failed to update seed of registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) SetPartner(ctx context.Context, id int, partnerID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE registrations SET partner_id = $1 WHERE id = $2`, partnerID, id)
	if err != nil {
		return fmt.Errorf("failed to set partner of registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
