package models

import "time"

// Player is one club member account. Rating, club rank and win rate
// are maintained externally to the bracket engine and consumed only as
// seeding inputs.
type Player struct {
	ID           int       `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Nickname     *string   `json:"nickname,omitempty" db:"nickname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Rating       float64   `json:"rating" db:"rating"`
	ClubRank     int       `json:"club_rank" db:"club_rank"`
	WinRate      float64   `json:"win_rate" db:"win_rate"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}

func (p *Player) DisplayName() string {
	if p.Nickname != nil && *p.Nickname != "" {
		return *p.Nickname
	}
	name := p.FirstName
	if p.LastName != "" {
		name += " " + p.LastName
	}
	return name
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
