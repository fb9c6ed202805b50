package controllers

import (
	"encoding/json"
	"testing"

	"grocer/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponRequestDistinguishesZeroFromAbsent(t *testing.T) {
	// An admin must be able to set usage_limit back to 0 (unlimited) and
	// min_order_amount to 0; absent fields stay untouched.
	var explicit couponRequest
	require.NoError(t, json.Unmarshal([]byte(`{"usage_limit":0,"min_order_amount":0}`), &explicit))
	require.NotNil(t, explicit.UsageLimit)
	assert.Equal(t, 0, *explicit.UsageLimit)
	require.NotNil(t, explicit.MinOrderAmount)
	assert.True(t, explicit.MinOrderAmount.IsZero())

	var absent couponRequest
	require.NoError(t, json.Unmarshal([]byte(`{"code":"SAVE10"}`), &absent))
	assert.Nil(t, absent.UsageLimit)
	assert.Nil(t, absent.MinOrderAmount)
}

func TestValidateCouponFields(t *testing.T) {
	limit := 5
	negLimit := -1
	minAmount := decimal.NewFromInt(150)
	negAmount := decimal.NewFromInt(-1)

	valid := couponRequest{
		Code:           "SAVE10",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		MinOrderAmount: &minAmount,
		UsageLimit:     &limit,
	}
	assert.NoError(t, validateCouponFields(valid))

	// Limit and minimum are optional.
	valid.MinOrderAmount = nil
	valid.UsageLimit = nil
	assert.NoError(t, validateCouponFields(valid))

	cases := []struct {
		name   string
		mutate func(*couponRequest)
	}{
		{"empty code", func(r *couponRequest) { r.Code = "  " }},
		{"bad discount type", func(r *couponRequest) { r.DiscountType = "bogo" }},
		{"zero discount value", func(r *couponRequest) { r.DiscountValue = decimal.Zero }},
		{"percentage over 100", func(r *couponRequest) { r.DiscountValue = decimal.NewFromInt(150) }},
		{"negative minimum", func(r *couponRequest) { r.MinOrderAmount = &negAmount }},
		{"negative usage limit", func(r *couponRequest) { r.UsageLimit = &negLimit }},
	}
	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		assert.Error(t, validateCouponFields(req), tc.name)
	}
}
