package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"grocer/models"
	"grocer/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type validateCouponRequest struct {
	Code        string          `json:"code"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

// couponRequest uses pointers for fields where an explicit zero is legal
// (limit 0 means unlimited, minimum 0 means none) so updates can tell "set to
// zero" apart from "leave unchanged".
type couponRequest struct {
	Code           string           `json:"code"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	UsageLimit     *int             `json:"usage_limit"`
	IsActive       *bool            `json:"is_active"`
}

// ValidateCoupon is the side-effect-free check used during checkout: it never
// touches usage_count, so a validated-then-abandoned checkout does not consume
// a use. The count is incremented only inside the order transaction.
func ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		utils.HandleError(w, http.StatusBadRequest, "Coupon code is required")
		return
	}

	var coupon models.Coupon
	query, args, err := QB.Select(couponColumns...).
		From("coupons").
		Where(squirrel.Eq{"code": code, "is_active": true}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.Get(&coupon, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Invalid coupon code")
		return
	}

	discount, err := coupon.DiscountFor(req.OrderAmount)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"coupon":         coupon,
		"discountAmount": discount,
	})
}

func GetCoupons(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select(couponColumns...).
		From("coupons").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	coupons := []models.Coupon{}
	if err := db.Select(&coupons, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch coupons")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, coupons)
}

func CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateCouponFields(req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return
	}

	coupon := models.Coupon{
		ID:             uuid.New(),
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: decimal.Zero,
		UsageLimit:     0,
		UsageCount:     0,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	query, args, err := QB.Insert("coupons").
		Columns("id", "code", "discount_type", "discount_value", "min_order_amount", "usage_limit", "usage_count", "is_active", "created_at", "updated_at").
		Values(coupon.ID, coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.MinOrderAmount, coupon.UsageLimit, coupon.UsageCount, coupon.IsActive, coupon.CreatedAt, coupon.UpdatedAt).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(couponColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&coupon); err != nil {
		utils.HandleError(w, http.StatusConflict, "A coupon with this code already exists")
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, coupon)
}

func UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	couponID := r.PathValue("id")
	if couponID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Coupon ID is required")
		return
	}

	var req couponRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var coupon models.Coupon
	query, args, err := QB.Select(couponColumns...).From("coupons").Where(squirrel.Eq{"id": couponID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&coupon, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	if req.Code != "" {
		coupon.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	}
	if req.DiscountType != "" {
		if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFlat {
			utils.HandleError(w, http.StatusBadRequest, "Discount type must be percentage or flat")
			return
		}
		coupon.DiscountType = req.DiscountType
	}
	if !req.DiscountValue.IsZero() {
		if !req.DiscountValue.IsPositive() {
			utils.HandleError(w, http.StatusBadRequest, "Discount value must be positive")
			return
		}
		coupon.DiscountValue = req.DiscountValue
	}
	if req.MinOrderAmount != nil {
		if req.MinOrderAmount.IsNegative() {
			utils.HandleError(w, http.StatusBadRequest, "Minimum order amount cannot be negative")
			return
		}
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < 0 {
			utils.HandleError(w, http.StatusBadRequest, "Usage limit cannot be negative")
			return
		}
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	query, args, err = QB.Update("coupons").
		Set("code", coupon.Code).
		Set("discount_type", coupon.DiscountType).
		Set("discount_value", coupon.DiscountValue).
		Set("min_order_amount", coupon.MinOrderAmount).
		Set("usage_limit", coupon.UsageLimit).
		Set("is_active", coupon.IsActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": couponID}).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(couponColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&coupon); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update coupon")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, coupon)
}

func validateCouponFields(req couponRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return errors.New("coupon code is required")
	}
	if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFlat {
		return errors.New("discount type must be percentage or flat")
	}
	if !req.DiscountValue.IsPositive() {
		return errors.New("discount value must be positive")
	}
	if req.DiscountType == models.DiscountPercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percentage discount cannot exceed 100")
	}
	if req.MinOrderAmount != nil && req.MinOrderAmount.IsNegative() {
		return errors.New("minimum order amount cannot be negative")
	}
	if req.UsageLimit != nil && *req.UsageLimit < 0 {
		return errors.New("usage limit cannot be negative")
	}
	return nil
}
