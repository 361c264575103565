package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRands(t *testing.T) {
	c, err := FromRands(33.33)
	assert.NoError(t, err)
	assert.Equal(t, Cents(3333), c)

	c, err = FromRands(1000)
	assert.NoError(t, err)
	assert.Equal(t, Cents(100000), c)

	_, err = FromRands(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestServiceFee(t *testing.T) {
	// R1000.00 -> комиссия R30.00
	assert.Equal(t, Cents(3000), ServiceFee(100000))
	// R33.33 -> 99.99 цента, half-up -> R1.00
	assert.Equal(t, Cents(100), ServiceFee(3333))
	// R0.01 -> 0.03 цента -> 0
	assert.Equal(t, Cents(0), ServiceFee(1))
	// ровно половина цента округляется вверх: R0.50 * 3% = 1.5 цента -> 2
	assert.Equal(t, Cents(2), ServiceFee(50))
}

func TestSplitGigPayment_Conservation(t *testing.T) {
	for _, gross := range []Cents{1, 50, 3333, 100000, 999999, 12345678} {
		fee, net := SplitGigPayment(gross)
		assert.Equal(t, gross, fee+net, "gross = fee + net должно выполняться точно")
		assert.GreaterOrEqual(t, int64(fee), int64(0))
		assert.GreaterOrEqual(t, int64(net), int64(0))
	}

	fee, net := SplitGigPayment(100000)
	assert.Equal(t, Cents(3000), fee)
	assert.Equal(t, Cents(97000), net)

	fee, net = SplitGigPayment(3333)
	assert.Equal(t, Cents(100), fee)
	assert.Equal(t, Cents(3233), net)
}

func TestWithdrawalFee(t *testing.T) {
	// ниже порога действует фиксированная комиссия R5.00
	assert.Equal(t, Cents(500), WithdrawalFee(1000))
	assert.Equal(t, Cents(500), WithdrawalFee(25000))
	// на границе: 2% от R250.00 = R5.00
	assert.Equal(t, Cents(500), WithdrawalFee(25000))
	// выше порога берётся 2%
	assert.Equal(t, Cents(600), WithdrawalFee(30000))
	assert.Equal(t, Cents(2000), WithdrawalFee(100000))
}

func TestPurchaseBonus(t *testing.T) {
	// меньше R100 — без бонуса
	assert.Equal(t, Cents(0), PurchaseBonus(9999))
	// R100 -> бонус R5, целыми рандами
	assert.Equal(t, Cents(500), PurchaseBonus(10000))
	// R119.99 -> 5% = R5.9995, floor до целого ранда -> R5
	assert.Equal(t, Cents(500), PurchaseBonus(11999))
	// R200 -> R10
	assert.Equal(t, Cents(1000), PurchaseBonus(20000))
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "R12.34", Cents(1234).String())
	assert.Equal(t, "-R0.05", Cents(-5).String())
	assert.Equal(t, "R0.00", Cents(0).String())
}

func TestCentsRands(t *testing.T) {
	assert.InDelta(t, 33.33, Cents(3333).Rands(), 1e-9)
}
