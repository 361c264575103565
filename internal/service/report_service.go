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

// Суточный лимит жалоб от одного пользователя.
const maxReportsPerDay = 10

// ReportStore описывает зависимости сервиса жалоб.
type ReportStore interface {
	Create(ctx context.Context, report *models.UserReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.UserReport, error)
	CountRecentByReporter(ctx context.Context, reporterID uuid.UUID) (int, error)
}

// ReportService отвечает за жалобы пользователей.
type ReportService struct {
	repo ReportStore
}

// NewReportService создаёт сервис жалоб.
func NewReportService(repo ReportStore) *ReportService {
	return &ReportService{repo: repo}
}

// CreateReport регистрирует жалобу на пользователя.
func (s *ReportService) CreateReport(ctx context.Context, reporterID, reportedUserID uuid.UUID, reportType, description string) (*models.UserReport, error) {
	if _, ok := models.ValidReportTypes[reportType]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый тип жалобы")
	}
	if reporterID == reportedUserID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя пожаловаться на самого себя")
	}
	if err := validation.ValidateReportDescription(description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	recent, err := s.repo.CountRecentByReporter(ctx, reporterID)
	if err != nil {
		return nil, err
	}
	if recent >= maxReportsPerDay {
		return nil, apperror.New(apperror.ErrCodeValidation, "превышен суточный лимит жалоб")
	}

	report := &models.UserReport{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		ReportType:     reportType,
		Description:    description,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// GetReport возвращает жалобу. Видит её только автор.
func (s *ReportService) GetReport(ctx context.Context, id, requesterID uuid.UUID) (*models.UserReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "жалоба не найдена")
		}
		return nil, err
	}

	if report.ReporterID != requesterID {
		return nil, apperror.ErrForbidden
	}

	return report, nil
}

// ListMyReports возвращает жалобы, поданные пользователем.
func (s *ReportService) ListMyReports(ctx context.Context, userID uuid.UUID) ([]models.UserReport, error) {
	return s.repo.ListByReporter(ctx, userID)
}
