package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gigzone/backend/internal/dto"
	"github.com/gigzone/backend/internal/http/handlers/common"
	"github.com/gigzone/backend/internal/money"
	"github.com/gigzone/backend/internal/pkg/apperror"
	"github.com/gigzone/backend/internal/service"
)

// PaymentHandler отвечает за кошелёк, пополнения и оплату гигов.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler создаёт платёжный хэндлер.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// GetWallet GET /api/wallet
func (h *PaymentHandler) GetWallet(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	wallet, err := h.payments.GetWallet(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWalletResponse(wallet))
}

// Purchase POST /api/wallet/purchase
func (h *PaymentHandler) Purchase(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.PurchaseCreditsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	amount, err := money.FromRands(req.Amount)
	if err != nil {
		common.RespondBadRequest(c, "некорректная сумма пополнения")
		return
	}

	entry, err := h.payments.PurchaseCredits(c.Request.Context(), userID, amount)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	bonus := money.PurchaseBonus(amount)
	c.JSON(http.StatusCreated, dto.PurchaseResponse{
		Transaction: entry,
		Amount:      amount.Rands(),
		Bonus:       bonus.Rands(),
		Credited:    (amount + bonus).Rands(),
	})
}

// Pay POST /api/payments/gig
// Любой отказ предусловий отдаётся как 400 {success:false, error},
// внутренний сбой — 500.
func (h *PaymentHandler) Pay(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.PayGigRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		respondPaymentRejected(c, err.Error())
		return
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		respondPaymentRejected(c, "некорректный идентификатор отклика")
		return
	}

	amount, err := money.FromRands(req.Amount)
	if err != nil {
		respondPaymentRejected(c, "некорректная сумма оплаты")
		return
	}

	result, err := h.payments.PayForApplication(c.Request.Context(), userID, applicationID, amount)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			respondPaymentRejected(c, appErr.Message)
			return
		}
		c.JSON(http.StatusInternalServerError, dto.GigPaymentError{Error: "внутренняя ошибка сервера"})
		return
	}

	c.JSON(http.StatusOK, dto.NewGigPaymentResponse(result.GrossAmount, result.ServiceFee, result.NetAmount))
}

// respondPaymentRejected отдаёт отказ оплаты в формате платёжного эндпоинта.
func respondPaymentRejected(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.GigPaymentError{Error: message})
}

// GetPayment GET /api/applications/:id/payment
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	if _, err := common.CurrentUserID(c); err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	applicationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.GetPaymentByApplication(c.Request.Context(), applicationID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListTransactions GET /api/wallet/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	entries, err := h.payments.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}
