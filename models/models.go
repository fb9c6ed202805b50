package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User roles stored in the users.role column.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Img       string    `json:"img,omitempty" db:"img"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Img       string    `json:"img,omitempty" db:"img"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Product struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	CategoryID    uuid.UUID        `json:"category_id" db:"category_id"`
	Name          string           `json:"name" db:"name"`
	Description   string           `json:"description,omitempty" db:"description"`
	Img           string           `json:"img,omitempty" db:"img"`
	Price         decimal.Decimal  `json:"price" db:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" db:"original_price"`
	Stock         int              `json:"stock" db:"stock"`
	Unit          string           `json:"unit,omitempty" db:"unit"`
	IsActive      bool             `json:"is_active" db:"is_active"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartLine is a cart row joined with its product's current catalog snapshot.
type CartLine struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	ProductName string          `json:"product_name" db:"product_name"`
	ProductImg  string          `json:"product_img" db:"product_img"`
	Unit        string          `json:"unit" db:"unit"`
	Price       decimal.Decimal `json:"price" db:"price"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Order delivery types.
const (
	DeliveryHome   = "home"
	DeliveryPickup = "pickup"
)

// Order payment methods.
const (
	PaymentCard = "card"
	PaymentUPI  = "upi"
	PaymentCOD  = "cod"
)

// Order payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	DeliveryType    string          `json:"delivery_type" db:"delivery_type"`
	DeliveryAddress *string         `json:"delivery_address,omitempty" db:"delivery_address"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	PaymentStatus   string          `json:"payment_status" db:"payment_status"`
	PaymentIntentID *string         `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	Status          string          `json:"status" db:"status"`
	CouponCode      *string         `json:"coupon_code,omitempty" db:"coupon_code"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// OrderLine is an order item joined with the product it referenced. The price
// on the line is the checkout-time snapshot, not the product's current price.
type OrderLine struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ProductName string          `json:"product_name" db:"product_name"`
	ProductImg  string          `json:"product_img" db:"product_img"`
}

// OrderWithItems is the shape returned by the order read endpoints.
type OrderWithItems struct {
	Order
	Items []OrderLine `json:"items"`
}

// Coupon discount rule kinds.
const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

type Coupon struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Code           string          `json:"code" db:"code"`
	DiscountType   string          `json:"discount_type" db:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value" db:"discount_value"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" db:"min_order_amount"`
	UsageLimit     int             `json:"usage_limit" db:"usage_limit"`
	UsageCount     int             `json:"usage_count" db:"usage_count"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

type Feedback struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	OrderID   *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	Rating    int        `json:"rating" db:"rating"`
	Comment   string     `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// FeedbackWithUser is the admin listing shape.
type FeedbackWithUser struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	OrderID   *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	Rating    int        `json:"rating" db:"rating"`
	Comment   string     `json:"comment,omitempty" db:"comment"`
	UserName  string     `json:"user_name" db:"user_name"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalOrders    int             `json:"totalOrders" db:"total_orders"`
	TodayRevenue   decimal.Decimal `json:"todayRevenue" db:"today_revenue"`
	ActiveProducts int             `json:"activeProducts" db:"active_products"`
	ActiveUsers    int             `json:"activeUsers" db:"active_users"`
}
