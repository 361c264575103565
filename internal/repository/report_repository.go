package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository/common"
)

// ErrReportNotFound возвращается, когда жалоба не найдена.
var ErrReportNotFound = errors.New("report not found")

// ReportRepository отвечает за жалобы пользователей.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository создаёт экземпляр репозитория.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create сохраняет жалобу.
func (r *ReportRepository) Create(ctx context.Context, report *models.UserReport) error {
	query := `
		INSERT INTO user_reports (reporter_id, reported_user_id, report_type, description, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		report.ReporterID, report.ReportedUserID, report.ReportType, report.Description,
	).Scan(&report.ID, &report.Status, &report.CreatedAt); err != nil {
		return fmt.Errorf("report repository: create %w", err)
	}

	return nil
}

// GetByID возвращает жалобу по идентификатору.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	return common.GetByID[models.UserReport](ctx, r.db, "user_reports", id, ErrReportNotFound)
}

// ListByReporter возвращает жалобы, поданные пользователем.
func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.UserReport, error) {
	var reports []models.UserReport
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM user_reports WHERE reporter_id = $1 ORDER BY created_at DESC
	`, reporterID)
	if err != nil {
		return nil, fmt.Errorf("report repository: list by reporter %w", err)
	}
	return reports, nil
}

// CountRecentByReporter считает жалобы пользователя за последние сутки.
func (r *ReportRepository) CountRecentByReporter(ctx context.Context, reporterID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM user_reports WHERE reporter_id = $1 AND created_at > NOW() - INTERVAL '24 hours'
	`, reporterID)
	if err != nil {
		return 0, fmt.Errorf("report repository: count recent %w", err)
	}
	return count, nil
}
