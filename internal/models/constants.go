package models

// GigStatus константы статусов гигов
const (
	GigStatusOpen       = "open"
	GigStatusInProgress = "in_progress"
	GigStatusCompleted  = "completed"
	GigStatusCancelled  = "cancelled"
)

// ApplicationStatus константы статусов откликов.
// pending — единственное нетерминальное состояние.
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// PaymentStatus константы статусов оплаты гига.
// completed и failed терминальны, возврата в pending нет.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// TransactionType типы записей в журнале кошелька
const (
	TransactionTypePurchase   = "purchase"
	TransactionTypeGigPayment = "gig_payment"
	TransactionTypeServiceFee = "service_fee"
	TransactionTypeWithdrawal = "withdrawal"
)

// WithdrawalStatus константы статусов заявок на вывод
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusRejected   = "rejected"
)

// VerificationStatus константы статусов проверки личности
const (
	VerificationStatusPending  = "pending"
	VerificationStatusInReview = "in_review"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// UserType роли пользователей платформы
const (
	UserTypeJobPoster = "job_poster"
	UserTypeGigWorker = "gig_worker"
	UserTypeBoth      = "both"
)

// GigCategories список валидных категорий гигов
var GigCategories = map[string]struct{}{
	"cleaning":     {},
	"moving":       {},
	"delivery":     {},
	"handyman":     {},
	"gardening":    {},
	"tech_support": {},
	"tutoring":     {},
	"pet_care":     {},
	"event_help":   {},
	"other":        {},
}

// ValidGigStatuses список валидных статусов гигов
var ValidGigStatuses = map[string]struct{}{
	GigStatusOpen:       {},
	GigStatusInProgress: {},
	GigStatusCompleted:  {},
	GigStatusCancelled:  {},
}

// ValidUserTypes список валидных ролей
var ValidUserTypes = map[string]struct{}{
	UserTypeJobPoster: {},
	UserTypeGigWorker: {},
	UserTypeBoth:      {},
}

// ValidReportTypes список валидных типов жалоб
var ValidReportTypes = map[string]struct{}{
	"harassment":       {},
	"fraud":            {},
	"fake_profile":     {},
	"payment_issue":    {},
	"unsafe_behaviour": {},
	"other":            {},
}
