package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
)

var ErrStandingsNotFound = errors.New("standings not found")

type StandingRepository interface {
	CreateAll(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Standing, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// CreateAll writes the whole standings table in one pass, inside the
// transaction that completes the final match.
func (r *postgresStandingRepository) CreateAll(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error {
	query := `
		INSERT INTO standings
			(tournament_id, entry_id, display_name, seed, rank, wins, sets_won, sets_lost, games_won, games_lost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	for _, s := range standings {
		err := exec.QueryRowContext(ctx, query,
			s.TournamentID, s.EntryID, s.DisplayName, s.Seed, s.Rank,
			s.Wins, s.SetsWon, s.SetsLost, s.GamesWon, s.GamesLost,
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create standing for entry %s: %w", s.EntryID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	query := `
		SELECT id, tournament_id, entry_id, display_name, seed, rank, wins, sets_won, sets_lost, games_won, games_lost, created_at
		FROM standings
		WHERE tournament_id = $1
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s := &models.Standing{}
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.EntryID, &s.DisplayName, &s.Seed, &s.Rank,
			&s.Wins, &s.SetsWon, &s.SetsLost, &s.GamesWon, &s.GamesLost, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}
