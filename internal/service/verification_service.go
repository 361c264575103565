package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/logger"
	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/said"
	"github.com/gigzone/backend/internal/validation"
)

const (
	phoneCodeTTL      = 10 * time.Minute
	maxPhoneAttempts  = 5
	maxDocumentSizeMB = 10
)

// VerificationStore описывает зависимости сервиса верификации.
type VerificationStore interface {
	CreatePhoneCode(ctx context.Context, pv *models.PhoneVerification) error
	GetActivePhoneCode(ctx context.Context, userID uuid.UUID) (*models.PhoneVerification, error)
	IncrementCodeAttempts(ctx context.Context, codeID uuid.UUID) (int, error)
	MarkCodeUsed(ctx context.Context, codeID uuid.UUID) error
	UpsertSAID(ctx context.Context, v *models.SAIDVerification) error
	GetSAIDByUser(ctx context.Context, userID uuid.UUID) (*models.SAIDVerification, error)
	ReviewSAID(ctx context.Context, userID uuid.UUID, status string, score *int, notes *string) (*models.SAIDVerification, error)
	CreateDocument(ctx context.Context, doc *models.VerificationDocument) error
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]models.VerificationDocument, error)
}

// VerificationUserStore обновляет флаги верификации пользователя.
type VerificationUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SetPhoneVerified(ctx context.Context, userID uuid.UUID) error
	SetIdentityVerified(ctx context.Context, userID uuid.UUID, verified bool) error
	UpdateVerificationLevel(ctx context.Context, userID uuid.UUID, level int) error
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// DocumentStorage сохраняет загруженные документы.
type DocumentStorage interface {
	Save(userID uuid.UUID, filename string, data []byte) (path string, mimeType string, err error)
}

// VerificationService отвечает за подтверждение телефона, проверку
// SA ID и документы. Уровень верификации: 0 базовый, +1 телефон,
// +1 одобренный SA ID.
type VerificationService struct {
	repo    VerificationStore
	users   VerificationUserStore
	storage DocumentStorage
}

// VerificationStatus агрегирует состояние проверок пользователя.
type VerificationStatus struct {
	EmailVerified     bool                     `json:"email_verified"`
	PhoneVerified     bool                     `json:"phone_verified"`
	IdentityVerified  bool                     `json:"identity_verified"`
	VerificationLevel int                      `json:"verification_level"`
	SAID              *models.SAIDVerification `json:"said_verification,omitempty"`
}

// NewVerificationService создаёт сервис верификации.
func NewVerificationService(repo VerificationStore, users VerificationUserStore, storage DocumentStorage) *VerificationService {
	return &VerificationService{repo: repo, users: users, storage: storage}
}

// SendPhoneCode выпускает код подтверждения телефона.
// Код возвращается вызывающему, отправка SMS за пределами сервиса.
func (s *VerificationService) SendPhoneCode(ctx context.Context, userID uuid.UUID, phone string) (*models.PhoneVerification, error) {
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	pv := &models.PhoneVerification{
		UserID:    userID,
		Phone:     phone,
		Code:      generateCode(),
		ExpiresAt: time.Now().Add(phoneCodeTTL),
	}

	if err := s.repo.CreatePhoneCode(ctx, pv); err != nil {
		return nil, err
	}

	return pv, nil
}

// VerifyPhoneCode проверяет введённый код. После подтверждения телефон
// сохраняется в профиле и пересчитывается уровень верификации.
func (s *VerificationService) VerifyPhoneCode(ctx context.Context, userID uuid.UUID, code string) error {
	pv, err := s.repo.GetActivePhoneCode(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return apperror.New(apperror.ErrCodeValidation, "код не найден или истёк")
		}
		return err
	}

	if pv.Code != code {
		attempts, aerr := s.repo.IncrementCodeAttempts(ctx, pv.ID)
		if aerr != nil {
			return aerr
		}
		if attempts >= maxPhoneAttempts {
			if merr := s.repo.MarkCodeUsed(ctx, pv.ID); merr != nil {
				return merr
			}
			return apperror.New(apperror.ErrCodeValidation, "превышено число попыток, запросите новый код")
		}
		return apperror.New(apperror.ErrCodeValidation, "неверный код")
	}

	if err := s.repo.MarkCodeUsed(ctx, pv.ID); err != nil {
		return err
	}

	if err := s.users.SetPhoneVerified(ctx, userID); err != nil {
		return err
	}

	if profile, perr := s.users.GetProfile(ctx, userID); perr == nil {
		profile.Phone = &pv.Phone
		if uerr := s.users.UpsertProfile(ctx, profile); uerr != nil {
			if logger.Log != nil {
				logger.Log.WithFields(map[string]interface{}{
					"user_id": userID,
					"error":   uerr.Error(),
				}).Warn("verification service: не удалось сохранить телефон в профиле")
			}
		}
	}

	return s.RecalculateLevel(ctx, userID)
}

// SubmitSAID принимает номер SA ID, валидирует его локально и создаёт
// заявку на проверку. Пол, дата рождения и гражданство извлекаются из
// самого номера.
func (s *VerificationService) SubmitSAID(ctx context.Context, userID uuid.UUID, idNumber string) (*models.SAIDVerification, error) {
	info, err := said.Extract(idNumber)
	if err != nil {
		switch {
		case errors.Is(err, said.ErrInvalidLength), errors.Is(err, said.ErrInvalidDigits):
			return nil, apperror.New(apperror.ErrCodeValidation, "номер SA ID должен состоять из 13 цифр")
		case errors.Is(err, said.ErrInvalidDate):
			return nil, apperror.New(apperror.ErrCodeValidation, "номер SA ID содержит некорректную дату рождения")
		case errors.Is(err, said.ErrInvalidChecksum):
			return nil, apperror.New(apperror.ErrCodeValidation, "контрольная цифра SA ID не сходится")
		}
		return nil, err
	}

	if info.Age < 18 {
		return nil, apperror.New(apperror.ErrCodeValidation, "для верификации нужно быть старше 18 лет")
	}

	v := &models.SAIDVerification{
		UserID:      userID,
		IDNumber:    idNumber,
		DateOfBirth: info.DateOfBirth,
		Gender:      string(info.Gender),
		Citizenship: string(info.Citizenship),
	}

	if err := s.repo.UpsertSAID(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// ReviewSAID фиксирует решение модератора по заявке. Одобрение
// поднимает уровень верификации, отклонение после одобрения снимает его.
func (s *VerificationService) ReviewSAID(ctx context.Context, userID uuid.UUID, status string, score *int, notes *string) (*models.SAIDVerification, error) {
	switch status {
	case models.VerificationStatusInReview, models.VerificationStatusApproved, models.VerificationStatusRejected:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус проверки")
	}

	v, err := s.repo.ReviewSAID(ctx, userID, status, score, notes)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "заявка на проверку не найдена")
		}
		return nil, err
	}

	approved := status == models.VerificationStatusApproved
	if err := s.users.SetIdentityVerified(ctx, userID, approved); err != nil {
		return nil, err
	}

	if err := s.RecalculateLevel(ctx, userID); err != nil {
		return nil, err
	}

	return v, nil
}

// UploadDocument сохраняет документ для проверки личности.
func (s *VerificationService) UploadDocument(ctx context.Context, userID uuid.UUID, documentType, filename string, data []byte) (*models.VerificationDocument, error) {
	switch documentType {
	case "id_document", "proof_of_address", "selfie":
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый тип документа")
	}

	if len(data) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "файл пустой")
	}
	if len(data) > maxDocumentSizeMB<<20 {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("файл больше %d МБ", maxDocumentSizeMB))
	}

	path, mimeType, err := s.storage.Save(userID, filename, data)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	doc := &models.VerificationDocument{
		UserID:       userID,
		DocumentType: documentType,
		FilePath:     path,
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// ListDocuments возвращает документы пользователя.
func (s *VerificationService) ListDocuments(ctx context.Context, userID uuid.UUID) ([]models.VerificationDocument, error) {
	return s.repo.ListDocuments(ctx, userID)
}

// GetStatus возвращает сводку по верификации пользователя.
func (s *VerificationService) GetStatus(ctx context.Context, userID uuid.UUID) (*VerificationStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	status := &VerificationStatus{
		EmailVerified:    user.EmailVerified,
		PhoneVerified:    user.PhoneVerified,
		IdentityVerified: user.IdentityVerified,
	}

	if profile, err := s.users.GetProfile(ctx, userID); err == nil {
		status.VerificationLevel = profile.VerificationLevel
	}

	if v, err := s.repo.GetSAIDByUser(ctx, userID); err == nil {
		status.SAID = v
	}

	return status, nil
}

// RecalculateLevel пересчитывает уровень верификации по флагам
// пользователя.
func (s *VerificationService) RecalculateLevel(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	level := 0
	if user.PhoneVerified {
		level++
	}
	if user.IdentityVerified {
		level++
	}

	return s.users.UpdateVerificationLevel(ctx, userID, level)
}

// generateCode выпускает шестизначный код подтверждения.
func generateCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", binary.BigEndian.Uint32(b[:])%1000000)
}
