package controllers

import (
	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var (
	db *sqlx.DB
	QB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	userColumns     = []string{"id", "name", "email", "password", "phone", "img", "role", "created_at", "updated_at"}
	categoryColumns = []string{"id", "name", "slug", "img", "is_active", "created_at", "updated_at"}
	productColumns  = []string{"id", "category_id", "name", "description", "img", "price", "original_price", "stock", "unit", "is_active", "created_at", "updated_at"}
	orderColumns    = []string{"id", "order_number", "user_id", "total_amount", "discount_amount", "delivery_type", "delivery_address", "payment_method", "payment_status", "payment_intent_id", "status", "coupon_code", "created_at", "updated_at"}
	couponColumns   = []string{"id", "code", "discount_type", "discount_value", "min_order_amount", "usage_limit", "usage_count", "is_active", "created_at", "updated_at"}
)

func SetDB(database *sqlx.DB) {
	db = database
}
