package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository/common"
)

// Ошибки репозитория отзывов.
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists")
)

// ReviewRepository отвечает за отзывы и пересчёт рейтинга.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт экземпляр репозитория.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв и пересчитывает средний рейтинг получателя
// в одной транзакции. Уникальный индекс (gig_id, reviewer_id) не даёт
// оставить два отзыва по одному гигу.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO reviews (gig_id, reviewer_id, reviewee_id, rating, review_text)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, review.GigID, review.ReviewerID, review.RevieweeID, review.Rating, review.ReviewText).
			Scan(&review.ID, &review.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrReviewExists
			}
			return fmt.Errorf("review repository: create %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE profiles
			SET rating = (SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE reviewee_id = $1),
				updated_at = NOW()
			WHERE user_id = $1
		`, review.RevieweeID)
		if err != nil {
			return fmt.Errorf("review repository: recalculate rating %w", err)
		}

		return nil
	})
}

// GetByID возвращает отзыв по идентификатору.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return common.GetByID[models.Review](ctx, r.db, "reviews", id, ErrReviewNotFound)
}

// ListByReviewee возвращает отзывы о пользователе от новых к старым.
func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE reviewee_id = $1 ORDER BY created_at DESC
	`, revieweeID)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by reviewee %w", err)
	}
	return reviews, nil
}

// ExistsForGig сообщает, оставлял ли рецензент отзыв по гигу.
func (r *ReviewRepository) ExistsForGig(ctx context.Context, gigID, reviewerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE gig_id = $1 AND reviewer_id = $2)
	`, gigID, reviewerID)
	if err != nil {
		return false, fmt.Errorf("review repository: exists for gig %w", err)
	}
	return exists, nil
}
