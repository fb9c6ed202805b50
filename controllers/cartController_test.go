package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartQueryMergesOnConflict(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	query, args, err := addToCartQuery(uuid.New(), userID, productID, 3, time.Now())
	require.NoError(t, err)

	// Repeated adds for the same (user, product) must collapse into one row
	// with the quantities summed, atomically.
	assert.Contains(t, query, "ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity")
	assert.Contains(t, query, "INSERT INTO cart_items")
	assert.Contains(t, query, "RETURNING id, user_id, product_id, quantity, created_at, updated_at")
	assert.Contains(t, args, userID)
	assert.Contains(t, args, productID)
	assert.Contains(t, args, 3)
}

func TestAddToCartQueryUsesDollarPlaceholders(t *testing.T) {
	query, _, err := addToCartQuery(uuid.New(), uuid.New(), uuid.New(), 1, time.Now())
	require.NoError(t, err)

	assert.Contains(t, query, "$1")
	assert.NotContains(t, query, "?")
}

func TestAddToCartRejectsNegativeQuantity(t *testing.T) {
	body := fmt.Sprintf(`{"productId":%q,"quantity":-2}`, uuid.New().String())

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body))
	AddToCart(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCartItemRejectsNonPositiveQuantity(t *testing.T) {
	for _, quantity := range []int{0, -1, -50} {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/cart/some-item",
			strings.NewReader(fmt.Sprintf(`{"quantity":%d}`, quantity)))
		r.SetPathValue("id", uuid.New().String())
		UpdateCartItem(rec, r)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "quantity %d must be rejected, not applied", quantity)
		assert.Contains(t, rec.Body.String(), "at least 1")
	}
}
