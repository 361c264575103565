package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/validation"
)

// ApplicationStore описывает зависимости сервиса откликов.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error)
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.Application, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.ApplicationWithGig, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Application, error)
	AcceptAndRejectOthers(ctx context.Context, app *models.Application) error
}

// ApplicationGigReader отдаёт гиг для проверок сервиса откликов.
type ApplicationGigReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
}

// ApplicationService отвечает за отклики и их переходы между статусами.
// pending — единственное нетерминальное состояние: принятый, отклонённый
// или отозванный отклик больше не меняется.
type ApplicationService struct {
	repo ApplicationStore
	gigs ApplicationGigReader
}

// ApplyInput содержит данные отклика на гиг.
type ApplyInput struct {
	GigID             uuid.UUID
	Message           *string
	ProposedRateCents *money.Cents
}

// NewApplicationService создаёт сервис откликов.
func NewApplicationService(repo ApplicationStore, gigs ApplicationGigReader) *ApplicationService {
	return &ApplicationService{repo: repo, gigs: gigs}
}

// Apply создаёт отклик исполнителя на открытый гиг.
func (s *ApplicationService) Apply(ctx context.Context, workerID uuid.UUID, in ApplyInput) (*models.Application, error) {
	if err := validation.ValidateApplicationMessage(in.Message); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateProposedRate(in.ProposedRateCents); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	gig, err := s.gigs.GetByID(ctx, in.GigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, err
	}

	if gig.Status != models.GigStatusOpen {
		return nil, apperror.New(apperror.ErrCodeValidation, "откликнуться можно только на открытый гиг")
	}
	if gig.PosterID == workerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя откликнуться на собственный гиг")
	}

	app := &models.Application{
		GigID:             in.GigID,
		WorkerID:          workerID,
		Message:           in.Message,
		ProposedRateCents: in.ProposedRateCents,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrApplicationExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "вы уже откликнулись на этот гиг")
		}
		return nil, err
	}

	return app, nil
}

// ListForGig возвращает отклики на гиг. Полный список видит только
// автор гига.
func (s *ApplicationService) ListForGig(ctx context.Context, gigID, requesterID uuid.UUID) ([]models.Application, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, err
	}

	if gig.PosterID != requesterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отклики видит только автор гига")
	}

	return s.repo.ListByGig(ctx, gigID)
}

// ListForWorker возвращает отклики исполнителя с данными гигов.
func (s *ApplicationService) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]models.ApplicationWithGig, error) {
	return s.repo.ListByWorker(ctx, workerID)
}

// Accept принимает отклик: остальные pending отклики на гиг
// отклоняются, гиг переходит в in_progress.
func (s *ApplicationService) Accept(ctx context.Context, applicationID, posterID uuid.UUID) (*models.Application, error) {
	app, err := s.getPendingForPoster(ctx, applicationID, posterID)
	if err != nil {
		return nil, err
	}

	accepted := &models.Application{ID: app.ID, GigID: app.GigID}
	if err := s.repo.AcceptAndRejectOthers(ctx, accepted); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отклик уже обработан")
		}
		return nil, err
	}

	return accepted, nil
}

// Reject отклоняет отклик.
func (s *ApplicationService) Reject(ctx context.Context, applicationID, posterID uuid.UUID) (*models.Application, error) {
	if _, err := s.getPendingForPoster(ctx, applicationID, posterID); err != nil {
		return nil, err
	}

	app, err := s.repo.UpdateStatus(ctx, applicationID, models.ApplicationStatusRejected)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отклик уже обработан")
		}
		return nil, err
	}

	return app, nil
}

// Withdraw отзывает собственный pending отклик исполнителя.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, workerID uuid.UUID) (*models.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	if app.WorkerID != workerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отозвать можно только собственный отклик")
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, apperror.New(apperror.ErrCodeValidation, "отозвать можно только необработанный отклик")
	}

	updated, err := s.repo.UpdateStatus(ctx, applicationID, models.ApplicationStatusWithdrawn)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отклик уже обработан")
		}
		return nil, err
	}

	return updated, nil
}

// getPendingForPoster проверяет, что отклик pending и принадлежит гигу
// указанного постера.
func (s *ApplicationService) getPendingForPoster(ctx context.Context, applicationID, posterID uuid.UUID) (*models.ApplicationWithGig, error) {
	app, err := s.repo.GetWithGig(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	if app.GigPosterID != posterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "управлять откликами может только автор гига")
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, apperror.New(apperror.ErrCodeValidation, "отклик уже обработан")
	}

	return app, nil
}
