package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func activeCoupon() Coupon {
	return Coupon{
		Code:           "SAVE10",
		DiscountType:   DiscountPercentage,
		DiscountValue:  dec("10"),
		MinOrderAmount: dec("150"),
		UsageLimit:     100,
		UsageCount:     0,
		IsActive:       true,
	}
}

func TestDiscountForPercentage(t *testing.T) {
	// Cart of 2 x 100 with SAVE10 (10% off, min 150): discount 20, final 180.
	c := activeCoupon()

	discount, err := c.DiscountFor(dec("200"))
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("20")), "got %s", discount)
	assert.True(t, dec("200").Sub(discount).Equal(dec("180")))
}

func TestDiscountForFlat(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = DiscountFlat
	c.DiscountValue = dec("50")

	discount, err := c.DiscountFor(dec("200"))
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("50")), "got %s", discount)
}

func TestDiscountForCapsAtOrderAmount(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = DiscountFlat
	c.DiscountValue = dec("500")
	c.MinOrderAmount = dec("0")

	discount, err := c.DiscountFor(dec("120"))
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("120")), "discount must never exceed the order amount, got %s", discount)
}

func TestDiscountForMinimumNotMet(t *testing.T) {
	c := activeCoupon()

	_, err := c.DiscountFor(dec("149.99"))
	assert.ErrorIs(t, err, ErrCouponMinimum)
}

func TestDiscountForUsageLimitReached(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = 1
	c.UsageCount = 1

	_, err := c.DiscountFor(dec("200"))
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestDiscountForUnlimitedUsage(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = 0
	c.UsageCount = 9999

	_, err := c.DiscountFor(dec("200"))
	assert.NoError(t, err)
}

func TestDiscountForInactive(t *testing.T) {
	c := activeCoupon()
	c.IsActive = false

	_, err := c.DiscountFor(dec("200"))
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestDiscountForIsPure(t *testing.T) {
	// Validating twice must give the same result and not touch the count.
	c := activeCoupon()

	first, err := c.DiscountFor(dec("200"))
	require.NoError(t, err)
	second, err := c.DiscountFor(dec("200"))
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 0, c.UsageCount)
}

func TestDiscountForRounding(t *testing.T) {
	c := activeCoupon()
	c.MinOrderAmount = dec("0")
	c.DiscountValue = dec("15")

	discount, err := c.DiscountFor(dec("99.99"))
	require.NoError(t, err)
	// 15% of 99.99 = 14.9985, rounded to cents.
	assert.True(t, discount.Equal(dec("15.00")), "got %s", discount)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, true},

		{StatusPending, StatusDelivered, false}, // no skipping ahead
		{StatusDelivered, StatusProcessing, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusProcessing, StatusPending, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransitionOrderStatus(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(StatusPending))
	assert.True(t, ValidOrderStatus(StatusCancelled))
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestCartSubtotal(t *testing.T) {
	lines := []CartLine{
		{Quantity: 2, Price: dec("100")},
		{Quantity: 1, Price: dec("49.50")},
		{Quantity: 3, Price: dec("0.99")},
	}

	subtotal := CartSubtotal(lines)
	assert.True(t, subtotal.Equal(dec("252.47")), "got %s", subtotal)
}

func TestCartSubtotalEmpty(t *testing.T) {
	assert.True(t, CartSubtotal(nil).IsZero())
}
