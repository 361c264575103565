package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/repository"
)

type mockConversationStore struct {
	mock.Mock
}

func (m *mockConversationStore) GetOrCreate(ctx context.Context, gigID, posterID, workerID uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, gigID, posterID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *mockConversationStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockConversationStore) ListMessages(ctx context.Context, conversationID uuid.UUID, before *uuid.UUID, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, before, limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

// spyPublisher запоминает опубликованные сообщения.
type spyPublisher struct {
	conversationID uuid.UUID
	message        *models.Message
	calls          int
}

func (p *spyPublisher) Publish(conversationID uuid.UUID, message *models.Message) {
	p.conversationID = conversationID
	p.message = message
	p.calls++
}

func conversationBetween(posterID, workerID uuid.UUID) *models.Conversation {
	return &models.Conversation{
		ID:       uuid.New(),
		GigID:    uuid.New(),
		PosterID: posterID,
		WorkerID: workerID,
	}
}

func TestConversationService_StartForApplication_OnlyParticipants(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	svc := NewConversationService(repo, apps, nil)
	ctx := context.Background()

	app := &models.ApplicationWithGig{
		Application: models.Application{
			ID:       uuid.New(),
			GigID:    uuid.New(),
			WorkerID: uuid.New(),
			Status:   models.ApplicationStatusAccepted,
		},
		GigPosterID: uuid.New(),
	}

	apps.On("GetWithGig", ctx, app.ID).Return(app, nil)

	_, err := svc.StartForApplication(ctx, uuid.New(), app.ID)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	conv := conversationBetween(app.GigPosterID, app.WorkerID)
	repo.On("GetOrCreate", ctx, app.GigID, app.GigPosterID, app.WorkerID).Return(conv, nil)

	got, err := svc.StartForApplication(ctx, app.WorkerID, app.ID)
	assert.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestConversationService_StartForApplication_NotFound(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	svc := NewConversationService(repo, apps, nil)
	ctx := context.Background()
	applicationID := uuid.New()

	apps.On("GetWithGig", ctx, applicationID).Return(nil, repository.ErrApplicationNotFound)

	_, err := svc.StartForApplication(ctx, uuid.New(), applicationID)
	assert.ErrorIs(t, err, apperror.ErrApplicationNotFound)
}

func TestConversationService_SendMessage_PublishesAfterSave(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	pub := &spyPublisher{}
	svc := NewConversationService(repo, apps, pub)
	ctx := context.Background()
	senderID := uuid.New()

	conv := conversationBetween(senderID, uuid.New())
	repo.On("GetByID", ctx, conv.ID).Return(conv, nil)
	repo.On("CreateMessage", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	msg, err := svc.SendMessage(ctx, conv.ID, senderID, "  Добрый день, когда удобно начать?  ", "")
	assert.NoError(t, err)
	assert.Equal(t, "Добрый день, когда удобно начать?", msg.Content)
	assert.Equal(t, "text", msg.MessageType)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, conv.ID, pub.conversationID)
	assert.Equal(t, msg, pub.message)
	repo.AssertExpectations(t)
}

func TestConversationService_SendMessage_EmptyContent(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	pub := &spyPublisher{}
	svc := NewConversationService(repo, apps, pub)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, uuid.New(), uuid.New(), "   ", "text")
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, pub.calls)
}

func TestConversationService_SendMessage_InvalidType(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	svc := NewConversationService(repo, apps, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, uuid.New(), uuid.New(), "привет", "voice")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "недопустимый тип сообщения")
}

func TestConversationService_SendMessage_NotParticipant(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	pub := &spyPublisher{}
	svc := NewConversationService(repo, apps, pub)
	ctx := context.Background()

	conv := conversationBetween(uuid.New(), uuid.New())
	repo.On("GetByID", ctx, conv.ID).Return(conv, nil)

	_, err := svc.SendMessage(ctx, conv.ID, uuid.New(), "привет", "text")
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Equal(t, 0, pub.calls)
}

func TestConversationService_ListMessages_MembershipRequired(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	svc := NewConversationService(repo, apps, nil)
	ctx := context.Background()
	userID := uuid.New()

	conv := conversationBetween(userID, uuid.New())
	repo.On("GetByID", ctx, conv.ID).Return(conv, nil)

	_, err := svc.ListMessages(ctx, conv.ID, uuid.New(), nil, 50)
	assert.True(t, apperror.IsForbidden(err))

	repo.On("ListMessages", ctx, conv.ID, (*uuid.UUID)(nil), 50).
		Return([]models.Message{{ConversationID: conv.ID}}, nil)

	msgs, err := svc.ListMessages(ctx, conv.ID, userID, nil, 50)
	assert.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestConversationService_CanSubscribe(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	svc := NewConversationService(repo, apps, nil)
	ctx := context.Background()
	userID := uuid.New()

	conv := conversationBetween(uuid.New(), userID)
	repo.On("GetByID", ctx, conv.ID).Return(conv, nil)

	assert.NoError(t, svc.CanSubscribe(ctx, conv.ID, userID))
	assert.Error(t, svc.CanSubscribe(ctx, conv.ID, uuid.New()))
}

func TestConversationService_GetConversation_NotFound(t *testing.T) {
	repo := new(mockConversationStore)
	apps := new(mockApplicationReader)
	svc := NewConversationService(repo, apps, nil)
	ctx := context.Background()
	conversationID := uuid.New()

	repo.On("GetByID", ctx, conversationID).Return(nil, repository.ErrConversationNotFound)

	_, err := svc.GetConversation(ctx, conversationID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrConversationNotFound)
}
