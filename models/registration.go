package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationWithdrawn RegistrationStatus = "withdrawn"
)

// Registration is one player's entry into a tournament. For doubles,
// PartnerID points at the partner's registration; a team only forms
// when both registrations reference each other. Seed is nil until
// seeding runs and is frozen once the bracket is generated.
type Registration struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	PlayerID     int                `json:"player_id" db:"player_id"`
	PartnerID    *int               `json:"partner_id,omitempty" db:"partner_id"`
	Seed         *int               `json:"seed,omitempty" db:"seed"`
	Status       RegistrationStatus `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
