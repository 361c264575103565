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

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewStore) ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	args := m.Called(ctx, revieweeID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewStore) ExistsForGig(ctx context.Context, gigID, reviewerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, gigID, reviewerID)
	return args.Bool(0), args.Error(1)
}

type mockAcceptedApplicationReader struct {
	mock.Mock
}

func (m *mockAcceptedApplicationReader) GetAcceptedByGig(ctx context.Context, gigID uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, gigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func completedGigFixture() (*models.Gig, *models.Application) {
	gig := &models.Gig{
		ID:       uuid.New(),
		PosterID: uuid.New(),
		Status:   models.GigStatusCompleted,
	}
	accepted := &models.Application{
		ID:       uuid.New(),
		GigID:    gig.ID,
		WorkerID: uuid.New(),
		Status:   models.ApplicationStatusAccepted,
	}
	return gig, accepted
}

func TestReviewService_CreateReview_PosterReviewsWorker(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, accepted := completedGigFixture()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	apps.On("GetAcceptedByGig", ctx, gig.ID).Return(accepted, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := svc.CreateReview(ctx, gig.ID, gig.PosterID, 5, nil)
	assert.NoError(t, err)
	assert.Equal(t, gig.PosterID, review.ReviewerID)
	assert.Equal(t, accepted.WorkerID, review.RevieweeID)
	repo.AssertExpectations(t)
}

func TestReviewService_CreateReview_WorkerReviewsPoster(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, accepted := completedGigFixture()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	apps.On("GetAcceptedByGig", ctx, gig.ID).Return(accepted, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := svc.CreateReview(ctx, gig.ID, accepted.WorkerID, 4, nil)
	assert.NoError(t, err)
	assert.Equal(t, gig.PosterID, review.RevieweeID)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, uuid.New(), uuid.New(), 0, nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.CreateReview(ctx, uuid.New(), uuid.New(), 6, nil)
	assert.Error(t, err)
}

func TestReviewService_CreateReview_GigNotCompleted(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, _ := completedGigFixture()
	gig.Status = models.GigStatusInProgress

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.CreateReview(ctx, gig.ID, gig.PosterID, 5, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "после завершения гига")
}

func TestReviewService_CreateReview_NotParticipant(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, accepted := completedGigFixture()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	apps.On("GetAcceptedByGig", ctx, gig.ID).Return(accepted, nil)

	_, err := svc.CreateReview(ctx, gig.ID, uuid.New(), 5, nil)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, accepted := completedGigFixture()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	apps.On("GetAcceptedByGig", ctx, gig.ID).Return(accepted, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(repository.ErrReviewExists)

	_, err := svc.CreateReview(ctx, gig.ID, gig.PosterID, 5, nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "уже оставили отзыв")
}

func TestReviewService_CanLeaveReview(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, accepted := completedGigFixture()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	apps.On("GetAcceptedByGig", ctx, gig.ID).Return(accepted, nil)
	repo.On("ExistsForGig", ctx, gig.ID, gig.PosterID).Return(false, nil)

	can, err := svc.CanLeaveReview(ctx, gig.ID, gig.PosterID)
	assert.NoError(t, err)
	assert.True(t, can)

	// Посторонний пользователь отзыв оставить не может.
	can, err = svc.CanLeaveReview(ctx, gig.ID, uuid.New())
	assert.NoError(t, err)
	assert.False(t, can)
}

func TestReviewService_CanLeaveReview_AlreadyReviewed(t *testing.T) {
	repo := new(mockReviewStore)
	gigs := new(mockGigReader)
	apps := new(mockAcceptedApplicationReader)
	svc := NewReviewService(repo, gigs, apps)
	ctx := context.Background()
	gig, accepted := completedGigFixture()

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	apps.On("GetAcceptedByGig", ctx, gig.ID).Return(accepted, nil)
	repo.On("ExistsForGig", ctx, gig.ID, accepted.WorkerID).Return(true, nil)

	can, err := svc.CanLeaveReview(ctx, gig.ID, accepted.WorkerID)
	assert.NoError(t, err)
	assert.False(t, can)
}
