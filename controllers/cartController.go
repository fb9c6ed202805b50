package controllers

import (
	"net/http"
	"time"

	"grocer/middleware"
	"grocer/models"
	"grocer/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var cartLineColumns = []string{
	"cart_items.id", "cart_items.user_id", "cart_items.product_id", "cart_items.quantity",
	"products.name AS product_name", "products.img AS product_img", "products.unit",
	"products.price", "cart_items.updated_at",
}

type addToCartRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the user's cart lines joined with the current product
// snapshot, plus the computed subtotal.
func GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	lines, err := cartLinesFor(db, userID)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch cart")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"items":    lines,
		"subtotal": models.CartSubtotal(lines),
	})
}

// AddToCart merges a repeated add into the existing row: one cart row per
// (user, product), quantities summed. The upsert is a single statement so two
// concurrent adds from the same user cannot race each other into duplicates.
func AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req addToCartRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		utils.HandleError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	// The product has to exist and still be purchasable.
	var product models.Product
	query, args, err := QB.Select("id", "name").From("products").
		Where(squirrel.Eq{"id": req.ProductID, "is_active": true}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&product, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Product not found")
		return
	}

	item := models.CartItem{}
	query, args, err = addToCartQuery(uuid.New(), userID, req.ProductID, req.Quantity, time.Now())
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&item); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to add to cart")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, item)
}

// addToCartQuery builds the merge-add upsert. The whole add is one statement,
// so two concurrent adds for the same (user, product) sum their quantities
// instead of racing a check-then-insert into duplicate rows.
func addToCartQuery(id, userID, productID uuid.UUID, quantity int, now time.Time) (string, []interface{}, error) {
	return QB.Insert("cart_items").
		Columns("id", "user_id", "product_id", "quantity", "created_at", "updated_at").
		Values(id, userID, productID, quantity, now, now).
		Suffix("ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at RETURNING id, user_id, product_id, quantity, created_at, updated_at").
		ToSql()
}

// UpdateCartItem sets an absolute quantity. Anything below 1 is rejected; the
// client removes the row instead.
func UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	itemID := r.PathValue("id")
	if itemID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Cart item ID is required")
		return
	}

	var req updateCartRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		utils.HandleError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	item := models.CartItem{}
	query, args, err := QB.Update("cart_items").
		Set("quantity", req.Quantity).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": itemID, "user_id": userID}).
		Suffix("RETURNING id, user_id, product_id, quantity, created_at, updated_at").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&item); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Cart item not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, item)
}

func RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	itemID := r.PathValue("id")
	if itemID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Cart item ID is required")
		return
	}

	query, args, err := QB.Delete("cart_items").
		Where(squirrel.Eq{"id": itemID, "user_id": userID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to remove cart item")
		utils.LogError(err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.HandleError(w, http.StatusNotFound, "Cart item not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Item removed from cart",
	})
}

// ClearCart empties the user's cart.
func ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	query, args, err := QB.Delete("cart_items").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to clear cart")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Cart cleared",
	})
}
