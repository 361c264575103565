package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/validation"
)

// ReviewStore описывает зависимости сервиса отзывов от хранилища.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error)
	ExistsForGig(ctx context.Context, gigID, reviewerID uuid.UUID) (bool, error)
}

// ReviewGigReader отдаёт гиг для проверок сервиса отзывов.
type ReviewGigReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
}

// ReviewApplicationReader отдаёт принятый отклик на гиг.
type ReviewApplicationReader interface {
	GetAcceptedByGig(ctx context.Context, gigID uuid.UUID) (*models.Application, error)
}

// ReviewService отвечает за отзывы после завершённых гигов.
type ReviewService struct {
	repo ReviewStore
	gigs ReviewGigReader
	apps ReviewApplicationReader
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewStore, gigs ReviewGigReader, apps ReviewApplicationReader) *ReviewService {
	return &ReviewService{repo: repo, gigs: gigs, apps: apps}
}

// CreateReview создаёт отзыв по завершённому гигу. Отзыв оставляют
// только участники: постер об исполнителе, исполнитель о постере.
func (s *ReviewService) CreateReview(ctx context.Context, gigID, reviewerID uuid.UUID, rating int, reviewText *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, err
	}

	if gig.Status != models.GigStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeValidation, "отзыв можно оставить только после завершения гига")
	}

	accepted, err := s.apps.GetAcceptedByGig(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.New(apperror.ErrCodeValidation, "по гигу нет принятого отклика")
		}
		return nil, err
	}

	var revieweeID uuid.UUID
	switch reviewerID {
	case gig.PosterID:
		revieweeID = accepted.WorkerID
	case accepted.WorkerID:
		revieweeID = gig.PosterID
	default:
		return nil, apperror.New(apperror.ErrCodeForbidden, "вы не участник этого гига")
	}

	review := &models.Review{
		GigID:      gigID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     rating,
		ReviewText: reviewText,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "вы уже оставили отзыв по этому гигу")
		}
		return nil, err
	}

	return review, nil
}

// GetReview возвращает отзыв по идентификатору.
func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "отзыв не найден")
		}
		return nil, err
	}
	return review, nil
}

// ListUserReviews возвращает отзывы о пользователе.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	return s.repo.ListByReviewee(ctx, userID)
}

// CanLeaveReview проверяет, может ли пользователь оставить отзыв по гигу.
func (s *ReviewService) CanLeaveReview(ctx context.Context, gigID, userID uuid.UUID) (bool, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return false, nil
	}
	if gig.Status != models.GigStatusCompleted {
		return false, nil
	}

	accepted, err := s.apps.GetAcceptedByGig(ctx, gigID)
	if err != nil {
		return false, nil
	}
	if userID != gig.PosterID && userID != accepted.WorkerID {
		return false, nil
	}

	exists, err := s.repo.ExistsForGig(ctx, gigID, userID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
