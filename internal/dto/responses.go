package dto

import (
	"github.com/gigzone/backend/internal/models"
	"github.com/gigzone/backend/internal/money"
)

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse — стандартный успешный ответ.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse — ответ регистрации и входа.
type AuthResponse struct {
	User         *models.User    `json:"user"`
	Profile      *models.Profile `json:"profile,omitempty"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
}

// GigPaymentResponse — ответ на оплату принятого отклика.
// Суммы отдаются в рандах.
type GigPaymentResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	GrossAmount float64 `json:"grossAmount"`
	ServiceFee  float64 `json:"serviceFee"`
	NetAmount   float64 `json:"netAmount"`
}

// NewGigPaymentResponse формирует ответ оплаты из сумм в центах.
func NewGigPaymentResponse(gross, fee, net money.Cents) *GigPaymentResponse {
	return &GigPaymentResponse{
		Success:     true,
		Message:     "Payment processed successfully",
		GrossAmount: gross.Rands(),
		ServiceFee:  fee.Rands(),
		NetAmount:   net.Rands(),
	}
}

// GigPaymentError — отказ оплаты гига. Success всегда false.
type GigPaymentError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WalletResponse — кошелёк с суммами в рандах и в центах.
type WalletResponse struct {
	*models.Wallet
	Balance     float64 `json:"balance"`
	TotalEarned float64 `json:"total_earned"`
	TotalSpent  float64 `json:"total_spent"`
}

// NewWalletResponse формирует ответ кошелька.
func NewWalletResponse(wallet *models.Wallet) *WalletResponse {
	return &WalletResponse{
		Wallet:      wallet,
		Balance:     wallet.BalanceCents.Rands(),
		TotalEarned: wallet.TotalEarnedCents.Rands(),
		TotalSpent:  wallet.TotalSpentCents.Rands(),
	}
}

// PurchaseResponse — ответ на пополнение кошелька.
type PurchaseResponse struct {
	Transaction *models.CreditTransaction `json:"transaction"`
	Amount      float64                   `json:"amount"`
	Bonus       float64                   `json:"bonus"`
	Credited    float64                   `json:"credited"`
}

// WithdrawalResponse — заявка на вывод с суммами в рандах.
type WithdrawalResponse struct {
	*models.WithdrawalRequest
	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	NetAmount float64 `json:"net_amount"`
}

// NewWithdrawalResponse формирует ответ заявки на вывод.
func NewWithdrawalResponse(req *models.WithdrawalRequest) *WithdrawalResponse {
	return &WithdrawalResponse{
		WithdrawalRequest: req,
		Amount:            req.AmountCents.Rands(),
		Fee:               req.WithdrawalFeeCents.Rands(),
		NetAmount:         req.NetAmountCents.Rands(),
	}
}

// MessageListResponse — сообщения беседы.
type MessageListResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []models.Message `json:"messages"`
}
