package controllers

import (
	"net/http"
	"os"

	"grocer/utils"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

type createPaymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreatePaymentIntent asks Stripe for a payment intent covering the given
// amount and hands the client secret back to the frontend, which confirms the
// payment there. The order itself is only created afterwards, with the intent
// id as the confirmation token.
func CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req createPaymentIntentRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		utils.HandleError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		utils.HandleError(w, http.StatusInternalServerError, "Payment gateway is not configured")
		return
	}

	// Stripe wants the smallest currency unit.
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		// Surface the gateway's own message; the client shows it verbatim.
		if stripeErr, ok := err.(*stripe.Error); ok {
			utils.HandleError(w, http.StatusPaymentRequired, stripeErr.Msg)
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create payment intent")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"clientSecret": pi.ClientSecret,
	})
}
