package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemCouponQueryGuards(t *testing.T) {
	query, args, err := redeemCouponQuery("SAVE10")
	require.NoError(t, err)

	// The increment must re-check the limit at commit time; two concurrent
	// checkouts cannot both get past a one-use-left coupon.
	assert.Contains(t, query, "usage_count = usage_count + 1")
	assert.Contains(t, query, "usage_limit = 0 OR usage_count < usage_limit")
	assert.Contains(t, query, "is_active")
	assert.Contains(t, args, "SAVE10")
}

func TestRedeemCouponQueryUsesDollarPlaceholders(t *testing.T) {
	query, _, err := redeemCouponQuery("SAVE10")
	require.NoError(t, err)

	assert.Contains(t, query, "$1")
	assert.NotContains(t, query, "?")
}

func TestUpdateOrderPaymentStatusRejectsUnknownStatus(t *testing.T) {
	for _, status := range []string{"refunded", "failed", ""} {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/orders/some-order/payment-status",
			strings.NewReader(`{"paymentStatus":"`+status+`"}`))
		r.SetPathValue("id", uuid.New().String())
		UpdateOrderPaymentStatus(rec, r)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "status %q must be rejected", status)
		assert.Contains(t, rec.Body.String(), "pending or completed")
	}
}

func TestUpdateOrderPaymentStatusRequiresOrderID(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/orders//payment-status",
		strings.NewReader(`{"paymentStatus":"completed"}`))
	UpdateOrderPaymentStatus(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
