package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/validation"
)

// ConversationStore описывает зависимости чат-сервиса от хранилища.
type ConversationStore interface {
	GetOrCreate(ctx context.Context, gigID, posterID, workerID uuid.UUID) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, before *uuid.UUID, limit int) ([]models.Message, error)
}

// ConversationApplicationReader отдаёт отклик с данными гига.
type ConversationApplicationReader interface {
	GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error)
}

// MessagePublisher рассылает сообщение подписчикам беседы.
// Доставка best-effort: сообщение уже сохранено, рассылка идёт после
// коммита.
type MessagePublisher interface {
	Publish(conversationID uuid.UUID, message *models.Message)
}

// ConversationService отвечает за беседы и сообщения.
type ConversationService struct {
	repo      ConversationStore
	apps      ConversationApplicationReader
	publisher MessagePublisher
}

// NewConversationService создаёт чат-сервис.
func NewConversationService(repo ConversationStore, apps ConversationApplicationReader, publisher MessagePublisher) *ConversationService {
	return &ConversationService{repo: repo, apps: apps, publisher: publisher}
}

// StartForApplication открывает беседу по отклику между постером гига
// и исполнителем. Повторный вызов возвращает существующую беседу.
func (s *ConversationService) StartForApplication(ctx context.Context, requesterID, applicationID uuid.UUID) (*models.Conversation, error) {
	app, err := s.apps.GetWithGig(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	if requesterID != app.GigPosterID && requesterID != app.WorkerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "беседа доступна только участникам отклика")
	}

	return s.repo.GetOrCreate(ctx, app.GigID, app.GigPosterID, app.WorkerID)
}

// GetConversation возвращает беседу участнику.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID, userID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, err
	}

	if !conv.IsParticipant(userID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "беседа доступна только её участникам")
	}

	return conv, nil
}

// ListConversations возвращает беседы пользователя.
func (s *ConversationService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SendMessage сохраняет сообщение и рассылает его подписчикам беседы.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content, messageType string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if messageType == "" {
		messageType = "text"
	}
	if messageType != "text" && messageType != "system" {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый тип сообщения")
	}

	if _, err := s.GetConversation(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    messageType,
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(conversationID, msg)
	}

	return msg, nil
}

// ListMessages возвращает сообщения беседы участнику.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, userID uuid.UUID, before *uuid.UUID, limit int) ([]models.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, conversationID, before, limit)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "сообщение не найдено")
		}
		return nil, err
	}

	return msgs, nil
}

// CanSubscribe проверяет право пользователя на подписку на беседу.
func (s *ConversationService) CanSubscribe(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := s.GetConversation(ctx, conversationID, userID)
	return err
}
