package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository/common"
)

// Ошибки репозитория откликов.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

// ApplicationRepository отвечает за работу с таблицей gig_applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository создаёт экземпляр репозитория.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create создаёт отклик. Уникальный индекс (gig_id, worker_id) не даёт
// откликнуться на один гиг дважды.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO gig_applications (gig_id, worker_id, message, proposed_rate_cents, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		app.GigID, app.WorkerID, app.Message, app.ProposedRateCents,
	).Scan(&app.ID, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrApplicationExists
		}
		return fmt.Errorf("application repository: create %w", err)
	}

	return nil
}

// GetByID возвращает отклик по идентификатору.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return common.GetByID[models.Application](ctx, r.db, "gig_applications", id, ErrApplicationNotFound)
}

// GetWithGig возвращает отклик вместе с данными гига.
func (r *ApplicationRepository) GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error) {
	var app models.ApplicationWithGig
	query := `
		SELECT a.*, g.poster_id AS gig_poster_id, g.title AS gig_title, g.status AS gig_status
		FROM gig_applications a
		JOIN gigs g ON g.id = a.gig_id
		WHERE a.id = $1
	`

	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: get with gig %w", err)
	}

	return &app, nil
}

// ListByGig возвращает отклики на гиг от новых к старым.
func (r *ApplicationRepository) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.SelectContext(ctx, &apps, `
		SELECT * FROM gig_applications WHERE gig_id = $1 ORDER BY created_at DESC
	`, gigID)
	if err != nil {
		return nil, fmt.Errorf("application repository: list by gig %w", err)
	}
	return apps, nil
}

// ListByWorker возвращает отклики исполнителя вместе с данными гигов.
func (r *ApplicationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.ApplicationWithGig, error) {
	var apps []models.ApplicationWithGig
	err := r.db.SelectContext(ctx, &apps, `
		SELECT a.*, g.poster_id AS gig_poster_id, g.title AS gig_title, g.status AS gig_status
		FROM gig_applications a
		JOIN gigs g ON g.id = a.gig_id
		WHERE a.worker_id = $1
		ORDER BY a.created_at DESC
	`, workerID)
	if err != nil {
		return nil, fmt.Errorf("application repository: list by worker %w", err)
	}
	return apps, nil
}

// GetAcceptedByGig возвращает принятый отклик на гиг.
func (r *ApplicationRepository) GetAcceptedByGig(ctx context.Context, gigID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.GetContext(ctx, &app, `
		SELECT * FROM gig_applications WHERE gig_id = $1 AND status = 'accepted'
	`, gigID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: get accepted by gig %w", err)
	}
	return &app, nil
}

// UpdateStatus переводит отклик из pending в новый статус.
// pending — единственное нетерминальное состояние, поэтому условие
// status = 'pending' защищает от повторных переходов.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Application, error) {
	var app models.Application
	query := `
		UPDATE gig_applications
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING *
	`

	if err := r.db.QueryRowxContext(ctx, query, id, status).StructScan(&app); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: update status %w", err)
	}

	return &app, nil
}

// AcceptAndRejectOthers в одной транзакции принимает отклик, отклоняет
// остальные pending отклики на тот же гиг и переводит гиг в in_progress.
func (r *ApplicationRepository) AcceptAndRejectOthers(ctx context.Context, app *models.Application) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE gig_applications
			SET status = 'accepted', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		`
		if err := tx.QueryRowxContext(ctx, query, app.ID).StructScan(app); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("application repository: accept %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE gig_applications
			SET status = 'rejected', updated_at = NOW()
			WHERE gig_id = $1 AND id <> $2 AND status = 'pending'
		`, app.GigID, app.ID)
		if err != nil {
			return fmt.Errorf("application repository: reject others %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE gigs SET status = 'in_progress', updated_at = NOW() WHERE id = $1 AND status = 'open'
		`, app.GigID)
		if err != nil {
			return fmt.Errorf("application repository: move gig to in_progress %w", err)
		}

		return nil
	})
}
