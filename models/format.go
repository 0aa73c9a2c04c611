package models

type FormatParticipantType string

const (
	FormatParticipantSingles FormatParticipantType = "singles"
	FormatParticipantDoubles FormatParticipantType = "doubles"
)

type BracketType string

const (
	BracketSingleElimination BracketType = "single_elimination"
	BracketRoundRobin        BracketType = "round_robin"
)

// Format describes how a tournament is played and seeded.
type Format struct {
	ID              int                   `json:"id" db:"id"`
	Name            string                `json:"name" db:"name"`
	BracketType     BracketType           `json:"bracket_type" db:"bracket_type"`
	ParticipantType FormatParticipantType `json:"participant_type" db:"participant_type"`
	SeedingPolicy   string                `json:"seeding_policy" db:"seeding_policy"`
}
