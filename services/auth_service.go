package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
	"github.com/goodseed1/Lightning-Pickleball-sub009/utils"
)

const minPasswordLength = 8

type RegisterPlayerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterPlayerInput) (*models.Player, error)
	Login(ctx context.Context, creds models.Credentials) (string, *models.Player, error)
}

type authService struct {
	playerRepo repositories.PlayerRepository
	jwtSecret  []byte
	logger     *slog.Logger
}

func NewAuthService(playerRepo repositories.PlayerRepository, jwtSecret []byte, logger *slog.Logger) AuthService {
	return &authService{playerRepo: playerRepo, jwtSecret: jwtSecret, logger: logger}
}

func (s *authService) Register(ctx context.Context, input RegisterPlayerInput) (*models.Player, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: minimum %d characters", ErrPasswordTooShort, minPasswordLength)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	player := &models.Player{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         "player",
	}
	if nick := strings.TrimSpace(input.Nickname); nick != "" {
		player.Nickname = &nick
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, err
	}

	s.logger.Info("player registered", slog.Int("player_id", player.ID))
	return player, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (string, *models.Player, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	player, err := s.playerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			// Same error as a wrong password so login probes cannot
			// enumerate accounts.
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !utils.CheckPasswordHash(creds.Password, player.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(player, s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, player, nil
}
