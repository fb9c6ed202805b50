package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Coupon validation failures. Handlers surface these messages to the customer
// as-is, so keep them readable.
var (
	ErrCouponInactive  = errors.New("this coupon is no longer active")
	ErrCouponExhausted = errors.New("this coupon has reached its usage limit")
	ErrCouponMinimum   = errors.New("order amount is below the coupon minimum")
	ErrInvalidStatus   = errors.New("invalid order status")
)

var hundred = decimal.NewFromInt(100)

// DiscountFor checks the coupon against an order amount and computes the
// discount. It is a pure check: usage_count is only ever incremented inside
// the checkout transaction, never here, so validating an abandoned checkout
// does not burn a use.
func (c Coupon) DiscountFor(orderAmount decimal.Decimal) (decimal.Decimal, error) {
	if !c.IsActive {
		return decimal.Zero, ErrCouponInactive
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return decimal.Zero, ErrCouponExhausted
	}
	if orderAmount.LessThan(c.MinOrderAmount) {
		return decimal.Zero, ErrCouponMinimum
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = orderAmount.Mul(c.DiscountValue).Div(hundred).Round(2)
	default: // flat
		discount = c.DiscountValue
	}

	// A coupon can never push the total below zero.
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	return discount, nil
}

// statusTransitions is the forward-only order state machine: an order moves
// pending -> processing -> delivered, and can be cancelled while it has not
// shipped. Delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CartSubtotal sums current price times quantity over the cart lines. The
// subtotal is always computed, never persisted.
func CartSubtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
