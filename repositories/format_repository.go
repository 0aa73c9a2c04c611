package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
)

var ErrFormatNotFound = errors.New("format not found")

type FormatRepository interface {
	GetByID(ctx context.Context, id int) (*models.Format, error)
	List(ctx context.Context) ([]*models.Format, error)
}

type postgresFormatRepository struct {
	db *sql.DB
}

func NewPostgresFormatRepository(db *sql.DB) FormatRepository {
	return &postgresFormatRepository{db: db}
}

func (r *postgresFormatRepository) GetByID(ctx context.Context, id int) (*models.Format, error) {
	query := `SELECT id, name, bracket_type, participant_type, seeding_policy FROM formats WHERE id = $1`
	f := &models.Format{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.BracketType, &f.ParticipantType, &f.SeedingPolicy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormatNotFound
		}
		return nil, fmt.Errorf("failed to scan format %d: %w", id, err)
	}
	return f, nil
}

func (r *postgresFormatRepository) List(ctx context.Context) ([]*models.Format, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, bracket_type, participant_type, seeding_policy FROM formats ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query formats: %w", err)
	}
	defer rows.Close()

	formats := make([]*models.Format, 0)
	for rows.Next() {
		f := &models.Format{}
		if err := rows.Scan(&f.ID, &f.Name, &f.BracketType, &f.ParticipantType, &f.SeedingPolicy); err != nil {
			return nil, fmt.Errorf("failed to scan format row: %w", err)
		}
		formats = append(formats, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during format rows iteration: %w", err)
	}
	return formats, nil
}
