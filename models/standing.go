package models

import "time"

// Standing is one row of the final placements, written once when the
// final match completes.
type Standing struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	EntryID      string    `json:"entry_id" db:"entry_id"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Seed         int       `json:"seed" db:"seed"`
	Rank         int       `json:"rank" db:"rank"`
	Wins         int       `json:"wins" db:"wins"`
	SetsWon      int       `json:"sets_won" db:"sets_won"`
	SetsLost     int       `json:"sets_lost" db:"sets_lost"`
	GamesWon     int       `json:"games_won" db:"games_won"`
	GamesLost    int       `json:"games_lost" db:"games_lost"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
