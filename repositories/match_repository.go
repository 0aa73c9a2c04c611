package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchUIDInvalid = errors.New("match bracket uid conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByBracketUIDForUpdate(ctx context.Context, exec SQLExecutor, tournamentID int, uid string) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	RecordResult(ctx context.Context, exec SQLExecutor, id int, score string, winnerEntryID string) error
	FillSlot(ctx context.Context, exec SQLExecutor, id int, slot int, entryID string, status models.MatchStatus) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, bracket_uid, round, position, entry1_id, entry2_id, slot1_bye, slot2_bye, status, winner_entry_id, score, next_match_uid, next_slot, match_time, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, bracket_uid, round, position, entry1_id, entry2_id,
			 slot1_bye, slot2_bye, status, winner_entry_id, score, next_match_uid, next_slot, match_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.BracketUID,
		match.Round,
		match.Position,
		match.Entry1ID,
		match.Entry2ID,
		match.Slot1Bye,
		match.Slot2Bye,
		match.Status,
		match.WinnerID,
		match.Score,
		match.NextMatchUID,
		match.NextSlot,
		match.MatchTime,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "matches_tournament_id_bracket_uid_key" {
			return ErrMatchUIDInvalid
		}
		return fmt.Errorf("failed to create match %s: %w", match.BracketUID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatchRow(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate locks the match row for the duration of the
// surrounding transaction. Result submission locks the match and its
// downstream match; that pair is the entire read and write set.
func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return scanMatchRow(exec.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetByBracketUIDForUpdate(ctx context.Context, exec SQLExecutor, tournamentID int, uid string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 AND bracket_uid = $2 FOR UPDATE`
	return scanMatchRow(exec.QueryRowContext(ctx, query, tournamentID, uid))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY round ASC, position ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match := &models.Match{}
		if err := rows.Scan(
			&match.ID, &match.TournamentID, &match.BracketUID, &match.Round, &match.Position,
			&match.Entry1ID, &match.Entry2ID, &match.Slot1Bye, &match.Slot2Bye,
			&match.Status, &match.WinnerID, &match.Score,
			&match.NextMatchUID, &match.NextSlot, &match.MatchTime, &match.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

// RecordResult completes a match. The WHERE clause guards the
// scheduled -> completed transition so a concurrent or repeated
// submission cannot apply twice.
func (r *postgresMatchRepository) RecordResult(ctx context.Context, exec SQLExecutor, id int, score string, winnerEntryID string) error {
	query := `
		UPDATE matches
		SET score = $1, winner_entry_id = $2, status = $3
		WHERE id = $4 AND status = $5`

	result, err := exec.ExecContext(ctx, query, score, winnerEntryID, models.MatchCompleted, id, models.MatchScheduled)
	if err != nil {
		return fmt.Errorf("failed to record result for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// FillSlot writes an advancing winner into one slot of the downstream
// match. The guard on the slot being NULL turns a double advancement
// into a zero-row update instead of silent data loss.
func (r *postgresMatchRepository) FillSlot(ctx context.Context, exec SQLExecutor, id int, slot int, entryID string, status models.MatchStatus) error {
	var query string
	switch slot {
	case 1:
		query = `UPDATE matches SET entry1_id = $1, status = $2 WHERE id = $3 AND entry1_id IS NULL`
	case 2:
		query = `UPDATE matches SET entry2_id = $1, status = $2 WHERE id = $3 AND entry2_id IS NULL`
	default:
		return fmt.Errorf("invalid slot %d for match %d", slot, id)
	}

	result, err := exec.ExecContext(ctx, query, entryID, status, id)
	if err != nil {
		return fmt.Errorf("failed to fill slot %d of match %d: %w", slot, id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func scanMatchRow(row *sql.Row) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID, &match.TournamentID, &match.BracketUID, &match.Round, &match.Position,
		&match.Entry1ID, &match.Entry2ID, &match.Slot1Bye, &match.Slot2Bye,
		&match.Status, &match.WinnerID, &match.Score,
		&match.NextMatchUID, &match.NextSlot, &match.MatchTime, &match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return match, nil
}
