package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/goodseed1/Lightning-Pickleball-sub009/models"
	"github.com/goodseed1/Lightning-Pickleball-sub009/repositories"
	"github.com/goodseed1/Lightning-Pickleball-sub009/storage"
)

type UpdateProfileInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Nickname  *string `json:"nickname,omitempty"`
}

type PlayerService interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.Player, error)
	UploadAvatar(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error)
	DeleteAvatar(ctx context.Context, id int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader, logger: logger}
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrPlayerNotFound, ErrPlayerNotFound)
	}
	s.attachAvatarURL(player)
	return player, nil
}

func (s *playerService) UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrPlayerNotFound, ErrPlayerNotFound)
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrValidationFailed)
		}
		player.FirstName = name
	}
	if input.LastName != nil {
		player.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Nickname != nil {
		nick := strings.TrimSpace(*input.Nickname)
		if nick == "" {
			player.Nickname = nil
		} else {
			player.Nickname = &nick
		}
	}

	if err := s.playerRepo.UpdateProfile(ctx, player); err != nil {
		return nil, err
	}
	s.attachAvatarURL(player)
	return player, nil
}

var allowedAvatarTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func (s *playerService) UploadAvatar(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error) {
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported avatar content type %q", ErrValidationFailed, contentType)
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrPlayerNotFound, ErrPlayerNotFound)
	}

	key := fmt.Sprintf("avatars/%d/%s.%s", id, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := player.AvatarKey
	if err := s.playerRepo.UpdateAvatarKey(ctx, id, &result.Key); err != nil {
		// The DB row still points at the old avatar; remove the
		// orphaned upload instead.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Error("failed to delete orphaned avatar upload",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, err
	}

	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete replaced avatar",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	player.AvatarKey = &result.Key
	s.attachAvatarURL(player)
	return player, nil
}

func (s *playerService) DeleteAvatar(ctx context.Context, id int) error {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoNotFound(err, repositories.ErrPlayerNotFound, ErrPlayerNotFound)
	}
	if player.AvatarKey == nil {
		return nil
	}
	if err := s.playerRepo.UpdateAvatarKey(ctx, id, nil); err != nil {
		return err
	}
	if err := s.uploader.Delete(ctx, *player.AvatarKey); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("failed to delete avatar object",
				slog.String("key", *player.AvatarKey), slog.Any("error", err))
		}
	}
	return nil
}

func (s *playerService) attachAvatarURL(player *models.Player) {
	if player.AvatarKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.AvatarKey)
	player.AvatarURL = &url
}
