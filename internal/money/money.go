package money

import (
	"errors"
	"fmt"
	"math"
)

// Cents хранит денежную сумму в центах ранда (ZAR).
// Вся арифметика целочисленная, чтобы исключить дрейф округления.
type Cents int64

var ErrNegativeAmount = errors.New("money: сумма не может быть отрицательной")

// Ставки комиссий платформы.
const (
	// ServiceFeePercent — комиссия платформы с оплаты гига, в процентах.
	ServiceFeePercent = 3
	// WithdrawalFeePercent — процентная комиссия за вывод средств.
	WithdrawalFeePercent = 2
	// WithdrawalFeeFlat — минимальная фиксированная комиссия за вывод (R5.00).
	WithdrawalFeeFlat Cents = 500
	// MinWithdrawal — минимальная сумма вывода (R10.00).
	MinWithdrawal Cents = 1000
	// MinPurchase — минимальная сумма пополнения (R1.00).
	MinPurchase Cents = 100
	// PurchaseBonusThreshold — пополнения от R100.00 получают бонусные кредиты.
	PurchaseBonusThreshold Cents = 10000
	// PurchaseBonusPercent — размер бонуса при пополнении, в процентах.
	PurchaseBonusPercent = 5
)

// FromRands переводит сумму в рандах в центы.
// Округление к ближайшему центу, половина — от нуля.
func FromRands(amount float64) (Cents, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	cents := math.Round(amount * 100)
	if cents > math.MaxInt64 {
		return 0, fmt.Errorf("money: сумма %f слишком велика", amount)
	}
	return Cents(cents), nil
}

// Rands возвращает сумму в рандах для внешнего API.
func (c Cents) Rands() float64 {
	return float64(c) / 100
}

// String форматирует сумму как "R1234.56".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%sR%d.%02d", sign, v/100, v%100)
}

// percentHalfUp вычисляет pct% от суммы с округлением half-up до цента.
func percentHalfUp(amount Cents, pct int64) Cents {
	return Cents((int64(amount)*pct + 50) / 100)
}

// ServiceFee возвращает комиссию платформы с валовой суммы оплаты гига.
// Округление half-up: R33.33 -> R1.00.
func ServiceFee(gross Cents) Cents {
	return percentHalfUp(gross, ServiceFeePercent)
}

// SplitGigPayment раскладывает валовую сумму на комиссию и чистую выплату.
// Инвариант: gross == fee + net без потерь на округлении.
func SplitGigPayment(gross Cents) (fee, net Cents) {
	fee = ServiceFee(gross)
	net = gross - fee
	return fee, net
}

// WithdrawalFee возвращает комиссию за вывод: R5.00 или 2%, что больше.
func WithdrawalFee(amount Cents) Cents {
	pct := percentHalfUp(amount, WithdrawalFeePercent)
	if pct > WithdrawalFeeFlat {
		return pct
	}
	return WithdrawalFeeFlat
}

// PurchaseBonus возвращает бонусные кредиты за пополнение: 5% от суммы,
// целыми рандами, только для пополнений от R100.00.
func PurchaseBonus(amount Cents) Cents {
	if amount < PurchaseBonusThreshold {
		return 0
	}
	bonusRands := int64(amount) * PurchaseBonusPercent / 100 / 100
	return Cents(bonusRands * 100)
}
