package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"grocer/middleware"
	"grocer/models"
	"grocer/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var orderLineColumns = []string{
	"order_items.id", "order_items.order_id", "order_items.product_id",
	"order_items.quantity", "order_items.price",
	"products.name AS product_name", "products.img AS product_img",
}

type createOrderRequest struct {
	DeliveryType    string  `json:"deliveryType"`
	PaymentMethod   string  `json:"paymentMethod"`
	DeliveryAddress *string `json:"deliveryAddress"`
	CouponCode      *string `json:"couponCode"`
	PaymentIntentID *string `json:"paymentIntentId"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus   string  `json:"paymentStatus"`
	PaymentIntentID *string `json:"paymentIntentId"`
}

// CreateOrder materializes the authenticated user's cart into an order. The
// whole write sequence runs in one transaction: coupon redeem, order header,
// line items with price snapshots, cart clear. Any failure rolls back all of
// it, so a half-created order is never visible.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req createOrderRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DeliveryType != models.DeliveryHome && req.DeliveryType != models.DeliveryPickup {
		utils.HandleError(w, http.StatusBadRequest, "Delivery type must be home or pickup")
		return
	}
	if req.DeliveryType == models.DeliveryHome && (req.DeliveryAddress == nil || strings.TrimSpace(*req.DeliveryAddress) == "") {
		utils.HandleError(w, http.StatusBadRequest, "Delivery address is required for home delivery")
		return
	}
	switch req.PaymentMethod {
	case models.PaymentCard, models.PaymentUPI, models.PaymentCOD:
	default:
		utils.HandleError(w, http.StatusBadRequest, "Payment method must be card, upi or cod")
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to start transaction")
		utils.LogError(err)
		return
	}
	defer tx.Rollback()

	// Rebuild the cart snapshot server-side: prices come from the catalog at
	// this moment, not from the client.
	lines, err := cartLinesFor(tx, userID)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch cart")
		utils.LogError(err)
		return
	}
	if len(lines) == 0 {
		utils.HandleError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	subtotal := models.CartSubtotal(lines)
	discount := decimal.Zero

	var couponCode *string
	if req.CouponCode != nil && strings.TrimSpace(*req.CouponCode) != "" {
		code := strings.ToUpper(strings.TrimSpace(*req.CouponCode))
		discount, err = redeemCoupon(tx, code, subtotal)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, sql.ErrNoRows) {
				status = http.StatusNotFound
				err = errors.New("invalid coupon code")
			}
			utils.HandleError(w, status, err.Error())
			return
		}
		couponCode = &code
	}

	total := subtotal.Sub(discount)

	// COD stays pending until delivery; card/upi is completed once the gateway
	// confirmed the payment intent.
	paymentStatus := models.PaymentPending
	if req.PaymentMethod != models.PaymentCOD && req.PaymentIntentID != nil {
		paymentStatus = models.PaymentCompleted
	}

	now := time.Now()
	order := models.Order{
		ID:              uuid.New(),
		OrderNumber:     utils.GenerateOrderNumber(),
		UserID:          userID,
		TotalAmount:     total,
		DiscountAmount:  discount,
		DeliveryType:    req.DeliveryType,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatus,
		PaymentIntentID: req.PaymentIntentID,
		Status:          models.StatusPending,
		CouponCode:      couponCode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	query, args, err := QB.Insert("orders").
		Columns("id", "order_number", "user_id", "total_amount", "discount_amount", "delivery_type", "delivery_address", "payment_method", "payment_status", "payment_intent_id", "status", "coupon_code", "created_at", "updated_at").
		Values(order.ID, order.OrderNumber, order.UserID, order.TotalAmount, order.DiscountAmount, order.DeliveryType, order.DeliveryAddress, order.PaymentMethod, order.PaymentStatus, order.PaymentIntentID, order.Status, order.CouponCode, order.CreatedAt, order.UpdatedAt).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(orderColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := tx.QueryRowx(query, args...).StructScan(&order); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		utils.LogError(err)
		return
	}

	// Snapshot every cart line: the stored price is frozen here and never
	// recomputed from the catalog.
	itemsBuilder := QB.Insert("order_items").
		Columns("id", "order_id", "product_id", "quantity", "price")
	for _, line := range lines {
		itemsBuilder = itemsBuilder.Values(uuid.New(), order.ID, line.ProductID, line.Quantity, line.Price)
	}
	query, args, err = itemsBuilder.ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order items")
		utils.LogError(err)
		return
	}

	// Final transactional step: the cart is gone once the order exists.
	query, args, err = QB.Delete("cart_items").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to clear cart")
		utils.LogError(err)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to commit order")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, order)
}

// redeemCoupon re-validates the coupon inside the checkout transaction and
// increments its usage count. Trusting the earlier /coupons/validate call
// would let two concurrent checkouts both slip past a one-use-left coupon, so
// the increment carries its own usage_count < usage_limit guard and the whole
// thing happens under the transaction's row lock.
func redeemCoupon(tx *sqlx.Tx, code string, orderAmount decimal.Decimal) (decimal.Decimal, error) {
	query, args, err := QB.Select(couponColumns...).
		From("coupons").
		Where(squirrel.Eq{"code": code, "is_active": true}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var coupon models.Coupon
	if err := tx.Get(&coupon, query, args...); err != nil {
		return decimal.Zero, err
	}

	discount, err := coupon.DiscountFor(orderAmount)
	if err != nil {
		return decimal.Zero, err
	}

	query, args, err = redeemCouponQuery(code)
	if err != nil {
		return decimal.Zero, err
	}
	res, err := tx.Exec(query, args...)
	if err != nil {
		return decimal.Zero, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return decimal.Zero, models.ErrCouponExhausted
	}

	return discount, nil
}

// redeemCouponQuery builds the guarded increment. A usage_limit of 0 means
// unlimited.
func redeemCouponQuery(code string) (string, []interface{}, error) {
	return QB.Update("coupons").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"code": code, "is_active": true}).
		Where(squirrel.Expr("(usage_limit = 0 OR usage_count < usage_limit)")).
		ToSql()
}

func cartLinesFor(q sqlx.Queryer, userID uuid.UUID) ([]models.CartLine, error) {
	query, args, err := QB.Select(cartLineColumns...).
		From("cart_items").
		Join("products ON products.id = cart_items.product_id").
		Where(squirrel.Eq{"cart_items.user_id": userID, "products.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	lines := []models.CartLine{}
	if err := sqlx.Select(q, &lines, query, args...); err != nil {
		return nil, err
	}
	return lines, nil
}

// GetOrders lists the caller's orders, newest first, each with its line
// items. Admins see every order.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	builder := QB.Select(orderColumns...).From("orders").OrderBy("created_at DESC")
	if middleware.Role(r) != models.RoleAdmin {
		builder = builder.Where(squirrel.Eq{"user_id": middleware.UserID(r)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	orders := []models.Order{}
	if err := db.Select(&orders, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		utils.LogError(err)
		return
	}

	result := make([]models.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := orderLinesFor(order.ID)
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch order items")
			utils.LogError(err)
			return
		}
		result = append(result, models.OrderWithItems{Order: order, Items: items})
	}

	utils.SendJSONResponse(w, http.StatusOK, result)
}

func GetOrderById(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	var order models.Order
	query, args, err := QB.Select(orderColumns...).From("orders").Where(squirrel.Eq{"id": orderID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&order, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Order not found")
		return
	}

	// Customers can only see their own orders.
	if middleware.Role(r) != models.RoleAdmin && order.UserID != middleware.UserID(r) {
		utils.HandleError(w, http.StatusNotFound, "Order not found")
		return
	}

	items, err := orderLinesFor(order.ID)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch order items")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, models.OrderWithItems{Order: order, Items: items})
}

// UpdateOrderStatus moves an order through the forward-only state machine.
// Skipping ahead or moving a delivered order back is rejected.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	var req updateStatusRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		utils.HandleError(w, http.StatusBadRequest, models.ErrInvalidStatus.Error())
		return
	}

	var order models.Order
	query, args, err := QB.Select(orderColumns...).From("orders").Where(squirrel.Eq{"id": orderID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&order, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !models.CanTransitionOrderStatus(order.Status, req.Status) {
		utils.HandleError(w, http.StatusBadRequest,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, req.Status))
		return
	}

	builder := QB.Update("orders").
		Set("status", req.Status).
		Set("updated_at", time.Now())
	// A delivered COD order has been paid on the doorstep.
	if req.Status == models.StatusDelivered && order.PaymentMethod == models.PaymentCOD {
		builder = builder.Set("payment_status", models.PaymentCompleted)
	}

	query, args, err = builder.
		Where(squirrel.Eq{"id": orderID}).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(orderColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&order); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update order status")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, order)
}

// UpdateOrderPaymentStatus records the outcome of an out-of-band payment,
// e.g. a card order created before the gateway confirmation landed, or a
// reconciliation against the gateway dashboard. It can also attach the
// payment intent id after the fact.
func UpdateOrderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	var req updatePaymentStatusRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PaymentStatus != models.PaymentPending && req.PaymentStatus != models.PaymentCompleted {
		utils.HandleError(w, http.StatusBadRequest, "Payment status must be pending or completed")
		return
	}

	builder := QB.Update("orders").
		Set("payment_status", req.PaymentStatus).
		Set("updated_at", time.Now())
	if req.PaymentIntentID != nil {
		builder = builder.Set("payment_intent_id", req.PaymentIntentID)
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": orderID}).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(orderColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	var order models.Order
	if err := db.QueryRowx(query, args...).StructScan(&order); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Order not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, order)
}

func orderLinesFor(orderID uuid.UUID) ([]models.OrderLine, error) {
	query, args, err := QB.Select(orderLineColumns...).
		From("order_items").
		Join("products ON products.id = order_items.product_id").
		Where(squirrel.Eq{"order_items.order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	items := []models.OrderLine{}
	if err := db.Select(&items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
