package models

import "time"

type MatchStatus string

const (
	// MatchPending means at least one slot still waits for an upstream
	// winner.
	MatchPending MatchStatus = "pending"
	// MatchScheduled means both participants are known.
	MatchScheduled MatchStatus = "scheduled"
	// MatchCompleted is terminal; result corrections are not supported.
	MatchCompleted MatchStatus = "completed"
)

// Match is one persisted bracket match. Entry IDs are the engine's
// composite identities ("p<reg>" for singles, "t<a>-<b>" for doubles
// teams). NextMatchUID and NextSlot are computed by the navigation
// resolver when the bracket is generated; they are stored for display
// and can always be re-derived from the bracket shape.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	BracketUID   string      `json:"bracket_uid" db:"bracket_uid"`
	Round        int         `json:"round" db:"round"`
	Position     int         `json:"position" db:"position"`
	Entry1ID     *string     `json:"entry1_id,omitempty" db:"entry1_id"`
	Entry2ID     *string     `json:"entry2_id,omitempty" db:"entry2_id"`
	Slot1Bye     bool        `json:"slot1_bye" db:"slot1_bye"`
	Slot2Bye     bool        `json:"slot2_bye" db:"slot2_bye"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerID     *string     `json:"winner_id,omitempty" db:"winner_entry_id"`
	Score        *string     `json:"score,omitempty" db:"score"`
	NextMatchUID *string     `json:"next_match_uid,omitempty" db:"next_match_uid"`
	NextSlot     *int        `json:"next_slot,omitempty" db:"next_slot"`
	MatchTime    time.Time   `json:"match_time" db:"match_time"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
