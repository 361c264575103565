package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gigzone/backend/internal/models"
)

// Ошибки репозитория верификации.
var (
	ErrVerificationNotFound = errors.New("verification not found")
	ErrCodeNotFound         = errors.New("verification code not found")
)

// VerificationRepository отвечает за коды подтверждения телефона,
// заявки на проверку SA ID и загруженные документы.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository создаёт экземпляр репозитория.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// CreatePhoneCode сохраняет новый код подтверждения, гася предыдущие
// неиспользованные коды пользователя.
func (r *VerificationRepository) CreatePhoneCode(ctx context.Context, pv *models.PhoneVerification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("verification repository: begin tx %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE phone_verifications SET used = TRUE WHERE user_id = $1 AND used = FALSE
	`, pv.UserID)
	if err != nil {
		return fmt.Errorf("verification repository: expire old codes %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO phone_verifications (user_id, phone, code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, pv.UserID, pv.Phone, pv.Code, pv.ExpiresAt).Scan(&pv.ID, &pv.CreatedAt)
	if err != nil {
		return fmt.Errorf("verification repository: insert code %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("verification repository: commit %w", err)
	}

	return nil
}

// GetActivePhoneCode возвращает действующий код пользователя.
func (r *VerificationRepository) GetActivePhoneCode(ctx context.Context, userID uuid.UUID) (*models.PhoneVerification, error) {
	var pv models.PhoneVerification
	err := r.db.GetContext(ctx, &pv, `
		SELECT * FROM phone_verifications
		WHERE user_id = $1 AND used = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("verification repository: get active code %w", err)
	}
	return &pv, nil
}

// IncrementCodeAttempts увеличивает счётчик неверных вводов кода.
func (r *VerificationRepository) IncrementCodeAttempts(ctx context.Context, codeID uuid.UUID) (int, error) {
	var attempts int
	err := r.db.GetContext(ctx, &attempts, `
		UPDATE phone_verifications SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts
	`, codeID)
	if err != nil {
		return 0, fmt.Errorf("verification repository: increment attempts %w", err)
	}
	return attempts, nil
}

// MarkCodeUsed помечает код использованным.
func (r *VerificationRepository) MarkCodeUsed(ctx context.Context, codeID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE phone_verifications SET used = TRUE WHERE id = $1`, codeID)
	if err != nil {
		return fmt.Errorf("verification repository: mark code used %w", err)
	}
	return nil
}

// UpsertSAID создаёт или обновляет заявку на проверку SA ID.
// Повторная подача сбрасывает статус в pending.
func (r *VerificationRepository) UpsertSAID(ctx context.Context, v *models.SAIDVerification) error {
	query := `
		INSERT INTO said_verifications (user_id, id_number, date_of_birth, gender, citizenship, verification_status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		ON CONFLICT (user_id) DO UPDATE
		SET id_number = EXCLUDED.id_number,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			citizenship = EXCLUDED.citizenship,
			verification_status = 'pending',
			verification_score = NULL,
			verification_notes = NULL,
			reviewed_at = NULL,
			updated_at = NOW()
		RETURNING *
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		v.UserID, v.IDNumber, v.DateOfBirth, v.Gender, v.Citizenship,
	).StructScan(v); err != nil {
		return fmt.Errorf("verification repository: upsert said %w", err)
	}

	return nil
}

// GetSAIDByUser возвращает заявку пользователя на проверку SA ID.
func (r *VerificationRepository) GetSAIDByUser(ctx context.Context, userID uuid.UUID) (*models.SAIDVerification, error) {
	var v models.SAIDVerification
	err := r.db.GetContext(ctx, &v, `SELECT * FROM said_verifications WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("verification repository: get said %w", err)
	}
	return &v, nil
}

// ReviewSAID фиксирует решение по заявке на проверку SA ID.
func (r *VerificationRepository) ReviewSAID(ctx context.Context, userID uuid.UUID, status string, score *int, notes *string) (*models.SAIDVerification, error) {
	var v models.SAIDVerification
	query := `
		UPDATE said_verifications
		SET verification_status = $2,
			verification_score = $3,
			verification_notes = $4,
			reviewed_at = $5,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING *
	`

	if err := r.db.QueryRowxContext(ctx, query, userID, status, score, notes, time.Now()).StructScan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("verification repository: review said %w", err)
	}

	return &v, nil
}

// CreateDocument сохраняет метаданные загруженного документа.
func (r *VerificationRepository) CreateDocument(ctx context.Context, doc *models.VerificationDocument) error {
	query := `
		INSERT INTO verification_documents (user_id, document_type, file_path, file_size, mime_type, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, status, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		doc.UserID, doc.DocumentType, doc.FilePath, doc.FileSize, doc.MimeType,
	).Scan(&doc.ID, &doc.Status, &doc.CreatedAt); err != nil {
		return fmt.Errorf("verification repository: create document %w", err)
	}

	return nil
}

// ListDocuments возвращает документы пользователя.
func (r *VerificationRepository) ListDocuments(ctx context.Context, userID uuid.UUID) ([]models.VerificationDocument, error) {
	var docs []models.VerificationDocument
	err := r.db.SelectContext(ctx, &docs, `
		SELECT * FROM verification_documents WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("verification repository: list documents %w", err)
	}
	return docs, nil
}
