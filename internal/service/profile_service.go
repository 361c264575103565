package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/validation"
)

// ProfileStore описывает зависимости сервиса профилей.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// ProfileService отвечает за публичные профили пользователей.
type ProfileService struct {
	repo  ProfileStore
	cache *CacheService
}

// ProfileInput содержит редактируемые поля профиля.
type ProfileInput struct {
	FullName string
	Bio      *string
	Location *string
}

// PublicProfile объединяет профиль с публичными полями учётки.
type PublicProfile struct {
	Profile          *models.Profile `json:"profile"`
	Username         string          `json:"username"`
	UserType         string          `json:"user_type"`
	PhoneVerified    bool            `json:"phone_verified"`
	IdentityVerified bool            `json:"identity_verified"`
}

// TTL публичного профиля в кэше.
const profileCacheTTL = time.Minute

// NewProfileService создаёт сервис профилей. Кэш опционален.
func NewProfileService(repo ProfileStore, cache *CacheService) *ProfileService {
	return &ProfileService{repo: repo, cache: cache}
}

// GetProfile возвращает публичный профиль пользователя.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ProfileCacheKey(userID)); ok {
			if profile, ok := cached.(*PublicProfile); ok {
				return profile, nil
			}
		}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	public := &PublicProfile{
		Profile:          profile,
		Username:         user.Username,
		UserType:         user.Role,
		PhoneVerified:    user.PhoneVerified,
		IdentityVerified: user.IdentityVerified,
	}

	if s.cache != nil {
		s.cache.Set(ProfileCacheKey(userID), public, profileCacheTTL)
	}

	return public, nil
}

// UpdateProfile обновляет собственный профиль пользователя.
// Телефон профиля меняется только через подтверждение кода.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.Profile, error) {
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLocation(in.Location); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	current, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	profile := &models.Profile{
		UserID:   userID,
		FullName: in.FullName,
		Bio:      in.Bio,
		Location: in.Location,
	}
	if current != nil {
		profile.Phone = current.Phone
		profile.AccountStatus = current.AccountStatus
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Delete(ProfileCacheKey(userID))
	}

	return profile, nil
}
