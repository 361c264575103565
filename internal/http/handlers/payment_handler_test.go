package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigzone/backend/internal/http/middleware"
	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/service"
)

// stubPaymentWallets имитирует кошельки: существующая оплата и ошибка
// транзакции настраиваются полями.
type stubPaymentWallets struct {
	existing   *models.GigPayment
	processErr error
}

func (s *stubPaymentWallets) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return &models.Wallet{UserID: userID}, nil
}

func (s *stubPaymentWallets) Purchase(ctx context.Context, purchase *models.CreditPurchase) (*models.CreditTransaction, error) {
	return &models.CreditTransaction{}, nil
}

func (s *stubPaymentWallets) ProcessGigPayment(ctx context.Context, payment *models.GigPayment) error {
	return s.processErr
}

func (s *stubPaymentWallets) GetPaymentByApplication(ctx context.Context, applicationID uuid.UUID) (*models.GigPayment, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, repository.ErrPaymentNotFound
}

func (s *stubPaymentWallets) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	return nil, nil
}

type stubApplicationReader struct {
	app *models.ApplicationWithGig
}

func (s *stubApplicationReader) GetWithGig(ctx context.Context, id uuid.UUID) (*models.ApplicationWithGig, error) {
	return s.app, nil
}

type stubGigUpdater struct{}

func (stubGigUpdater) UpdateStatus(ctx context.Context, gigID uuid.UUID, status string) error {
	return nil
}

type stubProfileUpdater struct{}

func (stubProfileUpdater) IncrementJobsCompleted(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func newPaymentTestRouter(wallets *stubPaymentWallets, app *models.ApplicationWithGig, callerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	payments := service.NewPaymentService(wallets, &stubApplicationReader{app: app}, stubGigUpdater{}, stubProfileUpdater{})
	handler := NewPaymentHandler(payments)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserIDKey, callerID) })
	r.POST("/payments/gig", handler.Pay)
	return r
}

func acceptedApplicationFixture(posterID uuid.UUID) *models.ApplicationWithGig {
	return &models.ApplicationWithGig{
		Application: models.Application{
			ID:       uuid.New(),
			GigID:    uuid.New(),
			WorkerID: uuid.New(),
			Status:   models.ApplicationStatusAccepted,
		},
		GigPosterID: posterID,
	}
}

func payRequestBody(applicationID uuid.UUID, amount float64) *strings.Reader {
	return strings.NewReader(fmt.Sprintf(`{"application_id":%q,"amount":%v}`, applicationID, amount))
}

func TestPaymentHandler_GetWallet_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.GET("/wallet", handler.GetWallet)

	req, _ := http.NewRequest("GET", "/wallet", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_Purchase_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/wallet/purchase", handler.Purchase)

	req, _ := http.NewRequest("POST", "/wallet/purchase", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_Pay_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/payments/gig", handler.Pay)

	req, _ := http.NewRequest("POST", "/payments/gig", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_Pay_DuplicateReturnsBadRequest(t *testing.T) {
	posterID := uuid.New()
	app := acceptedApplicationFixture(posterID)
	wallets := &stubPaymentWallets{existing: &models.GigPayment{ApplicationID: app.ID}}
	r := newPaymentTestRouter(wallets, app, posterID)

	req, _ := http.NewRequest("POST", "/payments/gig", payRequestBody(app.ID, 100))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "уже проведена")
}

func TestPaymentHandler_Pay_InsufficientFundsReturnsBadRequest(t *testing.T) {
	posterID := uuid.New()
	app := acceptedApplicationFixture(posterID)
	wallets := &stubPaymentWallets{processErr: repository.ErrInsufficientFunds}
	r := newPaymentTestRouter(wallets, app, posterID)

	req, _ := http.NewRequest("POST", "/payments/gig", payRequestBody(app.ID, 100))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "недостаточно средств")
}

func TestPaymentHandler_Pay_InvalidBodyReturnsEnvelope(t *testing.T) {
	posterID := uuid.New()
	app := acceptedApplicationFixture(posterID)
	r := newPaymentTestRouter(&stubPaymentWallets{}, app, posterID)

	req, _ := http.NewRequest("POST", "/payments/gig", strings.NewReader(`{"amount":100}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestPaymentHandler_ListTransactions_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.GET("/wallet/transactions", handler.ListTransactions)

	req, _ := http.NewRequest("GET", "/wallet/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
