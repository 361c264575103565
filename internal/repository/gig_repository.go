package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository/common"
)

// ErrGigNotFound возвращается, когда гиг не найден.
var ErrGigNotFound = errors.New("gig not found")

// GigFilter задаёт параметры выборки списка гигов.
type GigFilter struct {
	Category string
	Location string
	Status   string
	PosterID *uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

// GigRepository отвечает за работу с таблицей gigs.
type GigRepository struct {
	db *sqlx.DB
}

// NewGigRepository создаёт экземпляр репозитория.
func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

// Create создаёт новый гиг.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (
			poster_id, title, description, category, location,
			budget_min_cents, budget_max_cents, duration_hours, is_urgent,
			preferred_start_date, required_skills, contact_phone, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		gig.PosterID,
		gig.Title,
		gig.Description,
		gig.Category,
		gig.Location,
		gig.BudgetMinCents,
		gig.BudgetMaxCents,
		gig.DurationHours,
		gig.IsUrgent,
		gig.PreferredStartDate,
		pq.Array([]string(gig.RequiredSkills)),
		gig.ContactPhone,
		gig.Status,
	).Scan(&gig.ID, &gig.CreatedAt, &gig.UpdatedAt); err != nil {
		return fmt.Errorf("gig repository: create %w", err)
	}

	return nil
}

// GetByID возвращает гиг по идентификатору.
func (r *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	return common.GetByID[models.Gig](ctx, r.db, "gigs", id, ErrGigNotFound)
}

// List возвращает гиги по фильтру, отсортированные от новых к старым.
func (r *GigRepository) List(ctx context.Context, filter GigFilter) ([]models.Gig, error) {
	var (
		conds []string
		args  []interface{}
	)

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Location != "" {
		add("location ILIKE $%d", "%"+filter.Location+"%")
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.PosterID != nil {
		add("poster_id = $%d", *filter.PosterID)
	}
	if filter.Search != "" {
		add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	query := `SELECT * FROM gigs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY is_urgent DESC, created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var gigs []models.Gig
	if err := r.db.SelectContext(ctx, &gigs, query, args...); err != nil {
		return nil, fmt.Errorf("gig repository: list %w", err)
	}

	return gigs, nil
}

// Update обновляет редактируемые поля гига. Обновление проходит только
// пока гиг в статусе open и принадлежит указанному постеру.
func (r *GigRepository) Update(ctx context.Context, gig *models.Gig) error {
	query := `
		UPDATE gigs
		SET title = $3,
			description = $4,
			category = $5,
			location = $6,
			budget_min_cents = $7,
			budget_max_cents = $8,
			duration_hours = $9,
			is_urgent = $10,
			preferred_start_date = $11,
			required_skills = $12,
			contact_phone = $13,
			updated_at = NOW()
		WHERE id = $1 AND poster_id = $2 AND status = 'open'
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		gig.ID,
		gig.PosterID,
		gig.Title,
		gig.Description,
		gig.Category,
		gig.Location,
		gig.BudgetMinCents,
		gig.BudgetMaxCents,
		gig.DurationHours,
		gig.IsUrgent,
		gig.PreferredStartDate,
		pq.Array([]string(gig.RequiredSkills)),
		gig.ContactPhone,
	).Scan(&gig.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGigNotFound
		}
		return fmt.Errorf("gig repository: update %w", err)
	}

	return nil
}

// UpdateStatus переводит гиг в новый статус.
func (r *GigRepository) UpdateStatus(ctx context.Context, gigID uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE gigs SET status = $2, updated_at = NOW() WHERE id = $1`, gigID, status)
	if err != nil {
		return fmt.Errorf("gig repository: update status %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("gig repository: update status rows affected %w", err)
	}
	if affected == 0 {
		return ErrGigNotFound
	}

	return nil
}

// CountOpenByPoster возвращает количество открытых гигов постера.
func (r *GigRepository) CountOpenByPoster(ctx context.Context, posterID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM gigs WHERE poster_id = $1 AND status = 'open'`, posterID)
	if err != nil {
		return 0, fmt.Errorf("gig repository: count open by poster %w", err)
	}
	return count, nil
}
