package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/validation"
)

// GigStore описывает зависимости сервиса гигов.
type GigStore interface {
	Create(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	List(ctx context.Context, filter repository.GigFilter) ([]models.Gig, error)
	Update(ctx context.Context, gig *models.Gig) error
	UpdateStatus(ctx context.Context, gigID uuid.UUID, status string) error
}

// GigService отвечает за жизненный цикл гигов.
type GigService struct {
	repo GigStore
}

// GigInput содержит поля создания и редактирования гига.
type GigInput struct {
	Title              string
	Description        string
	Category           string
	Location           string
	BudgetMinCents     *money.Cents
	BudgetMaxCents     *money.Cents
	DurationHours      *int
	IsUrgent           bool
	PreferredStartDate *time.Time
	RequiredSkills     []string
	ContactPhone       *string
}

// NewGigService создаёт сервис гигов.
func NewGigService(repo GigStore) *GigService {
	return &GigService{repo: repo}
}

func validateGigInput(in GigInput) error {
	if err := validation.ValidateGigTitle(in.Title); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateGigDescription(in.Description); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if _, ok := models.GigCategories[in.Category]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "недопустимая категория гига")
	}
	if err := validation.ValidateNonEmpty("местоположение", in.Location); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBudget(in.BudgetMinCents, in.BudgetMaxCents); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDurationHours(in.DurationHours); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateSkills(in.RequiredSkills); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.ContactPhone != nil && *in.ContactPhone != "" {
		if err := validation.ValidatePhone(*in.ContactPhone); err != nil {
			return apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	return nil
}

// CreateGig публикует новый гиг в статусе open.
func (s *GigService) CreateGig(ctx context.Context, posterID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := validateGigInput(in); err != nil {
		return nil, err
	}

	gig := &models.Gig{
		PosterID:           posterID,
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		Location:           in.Location,
		BudgetMinCents:     in.BudgetMinCents,
		BudgetMaxCents:     in.BudgetMaxCents,
		DurationHours:      in.DurationHours,
		IsUrgent:           in.IsUrgent,
		PreferredStartDate: in.PreferredStartDate,
		RequiredSkills:     in.RequiredSkills,
		ContactPhone:       in.ContactPhone,
		Status:             models.GigStatusOpen,
	}

	if err := s.repo.Create(ctx, gig); err != nil {
		return nil, err
	}

	return gig, nil
}

// GetGig возвращает гиг по идентификатору.
func (s *GigService) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, err
	}
	return gig, nil
}

// ListGigs возвращает гиги по фильтру.
func (s *GigService) ListGigs(ctx context.Context, filter repository.GigFilter) ([]models.Gig, error) {
	if filter.Category != "" {
		if _, ok := models.GigCategories[filter.Category]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "недопустимая категория гига")
		}
	}
	if filter.Status != "" {
		if _, ok := models.ValidGigStatuses[filter.Status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус гига")
		}
	}
	return s.repo.List(ctx, filter)
}

// UpdateGig редактирует открытый гиг. Менять гиг может только его автор.
func (s *GigService) UpdateGig(ctx context.Context, gigID, posterID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := validateGigInput(in); err != nil {
		return nil, err
	}

	current, err := s.GetGig(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if current.PosterID != posterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "редактировать гиг может только его автор")
	}
	if current.Status != models.GigStatusOpen {
		return nil, apperror.New(apperror.ErrCodeValidation, "редактировать можно только открытый гиг")
	}

	gig := &models.Gig{
		ID:                 gigID,
		PosterID:           posterID,
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		Location:           in.Location,
		BudgetMinCents:     in.BudgetMinCents,
		BudgetMaxCents:     in.BudgetMaxCents,
		DurationHours:      in.DurationHours,
		IsUrgent:           in.IsUrgent,
		PreferredStartDate: in.PreferredStartDate,
		RequiredSkills:     in.RequiredSkills,
		ContactPhone:       in.ContactPhone,
	}

	if err := s.repo.Update(ctx, gig); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, err
	}

	gig.Status = models.GigStatusOpen
	gig.CreatedAt = current.CreatedAt
	return gig, nil
}

// CancelGig отменяет гиг. Отменить можно open и in_progress гиг,
// завершённый гиг не отменяется.
func (s *GigService) CancelGig(ctx context.Context, gigID, posterID uuid.UUID) error {
	gig, err := s.GetGig(ctx, gigID)
	if err != nil {
		return err
	}
	if gig.PosterID != posterID {
		return apperror.New(apperror.ErrCodeForbidden, "отменить гиг может только его автор")
	}
	if gig.Status == models.GigStatusCompleted || gig.Status == models.GigStatusCancelled {
		return apperror.New(apperror.ErrCodeValidation, "гиг уже завершён или отменён")
	}

	if err := s.repo.UpdateStatus(ctx, gigID, models.GigStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return apperror.ErrGigNotFound
		}
		return err
	}

	return nil
}
