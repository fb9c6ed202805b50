package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"grocer/models"
	"grocer/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetCategories lists active categories, alphabetically.
func GetCategories(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	categories := []models.Category{}
	if err := db.Select(&categories, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch categories")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, categories)
}

func GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var category models.Category
	query, args, err := QB.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"slug": slug, "is_active": true}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.Get(&category, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, category)
}

func CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := r.FormValue("name")
	slug := r.FormValue("slug")
	if name == "" || slug == "" {
		utils.HandleError(w, http.StatusBadRequest, "Name and slug are required")
		return
	}

	var imgURI string
	file, handler, err := r.FormFile("img")
	if err == nil {
		defer file.Close()
		imgPath, err := utils.SaveImageFile(file, "categories", handler.Filename)
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to save image")
			utils.LogError(err)
			return
		}
		imgURI = fmt.Sprintf("/%s", strings.ReplaceAll(imgPath, "\\", "/"))
	}

	category := models.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Img:       imgURI,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query, args, err := QB.Insert("categories").
		Columns("id", "name", "slug", "img", "is_active", "created_at", "updated_at").
		Values(category.ID, category.Name, category.Slug, category.Img, category.IsActive, category.CreatedAt, category.UpdatedAt).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(categoryColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&category); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating category")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, category)
}

func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var category models.Category
	query, args, err := QB.Select(categoryColumns...).From("categories").Where(squirrel.Eq{"id": categoryID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&category, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Category not found")
		return
	}

	if name := r.FormValue("name"); name != "" {
		category.Name = name
	}
	if slug := r.FormValue("slug"); slug != "" {
		category.Slug = slug
	}

	file, handler, err := r.FormFile("img")
	if err == nil {
		defer file.Close()
		if category.Img != "" {
			// Best effort: a missing old file should not block the update.
			_ = utils.DeleteImageFile(strings.TrimPrefix(category.Img, "/"))
		}
		imgPath, err := utils.SaveImageFile(file, "categories", handler.Filename)
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to save image")
			utils.LogError(err)
			return
		}
		category.Img = fmt.Sprintf("/%s", strings.ReplaceAll(imgPath, "\\", "/"))
	}

	query, args, err = QB.Update("categories").
		Set("name", category.Name).
		Set("slug", category.Slug).
		Set("img", category.Img).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": categoryID}).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(categoryColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&category); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update category")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, category)
}

// DeleteCategory soft-deletes: the row stays referenceable by historical
// orders, it just disappears from customer-facing reads.
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	query, args, err := QB.Update("categories").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete category")
		utils.LogError(err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.HandleError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}

// GetProducts lists active products, optionally filtered by category slug or a
// name search.
func GetProducts(w http.ResponseWriter, r *http.Request) {
	builder := QB.Select(
		"products.id", "products.category_id", "products.name", "products.description",
		"products.img", "products.price", "products.original_price", "products.stock",
		"products.unit", "products.is_active", "products.created_at", "products.updated_at").
		From("products").
		Where(squirrel.Eq{"products.is_active": true}).
		OrderBy("products.created_at DESC")

	if slug := r.URL.Query().Get("category"); slug != "" {
		builder = builder.
			Join("categories ON categories.id = products.category_id").
			Where(squirrel.Eq{"categories.slug": slug, "categories.is_active": true})
	}
	if search := r.URL.Query().Get("search"); search != "" {
		builder = builder.Where(squirrel.ILike{"products.name": "%" + search + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	products := []models.Product{}
	if err := db.Select(&products, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch products")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, products)
}

func GetProductById(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")

	var product models.Product
	query, args, err := QB.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"id": productID, "is_active": true}).
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

	utils.SendJSONResponse(w, http.StatusOK, product)
}

func CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := r.FormValue("name")
	categoryID := r.FormValue("category_id")
	priceRaw := r.FormValue("price")
	if name == "" || categoryID == "" || priceRaw == "" {
		utils.HandleError(w, http.StatusBadRequest, "Name, category and price are required")
		return
	}

	price, err := decimal.NewFromString(priceRaw)
	if err != nil || price.IsNegative() {
		utils.HandleError(w, http.StatusBadRequest, "Invalid price")
		return
	}

	var originalPrice *decimal.Decimal
	if raw := r.FormValue("original_price"); raw != "" {
		op, err := decimal.NewFromString(raw)
		if err != nil || op.IsNegative() {
			utils.HandleError(w, http.StatusBadRequest, "Invalid original price")
			return
		}
		originalPrice = &op
	}

	stock := 0
	if raw := r.FormValue("stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			utils.HandleError(w, http.StatusBadRequest, "Invalid stock")
			return
		}
	}

	catID, err := uuid.Parse(categoryID)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var imgURI string
	file, handler, err := r.FormFile("img")
	if err == nil {
		defer file.Close()
		imgPath, err := utils.SaveImageFile(file, "products", handler.Filename)
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to save image")
			utils.LogError(err)
			return
		}
		imgURI = fmt.Sprintf("/%s", strings.ReplaceAll(imgPath, "\\", "/"))
	}

	product := models.Product{
		ID:            uuid.New(),
		CategoryID:    catID,
		Name:          name,
		Description:   r.FormValue("description"),
		Img:           imgURI,
		Price:         price,
		OriginalPrice: originalPrice,
		Stock:         stock,
		Unit:          r.FormValue("unit"),
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	query, args, err := QB.Insert("products").
		Columns("id", "category_id", "name", "description", "img", "price", "original_price", "stock", "unit", "is_active", "created_at", "updated_at").
		Values(product.ID, product.CategoryID, product.Name, product.Description, product.Img, product.Price, product.OriginalPrice, product.Stock, product.Unit, product.IsActive, product.CreatedAt, product.UpdatedAt).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(productColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&product); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating product")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var product models.Product
	query, args, err := QB.Select(productColumns...).From("products").Where(squirrel.Eq{"id": productID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&product, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Product not found")
		return
	}

	if name := r.FormValue("name"); name != "" {
		product.Name = name
	}
	if desc := r.FormValue("description"); desc != "" {
		product.Description = desc
	}
	if unit := r.FormValue("unit"); unit != "" {
		product.Unit = unit
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			utils.HandleError(w, http.StatusBadRequest, "Invalid price")
			return
		}
		product.Price = price
	}
	if raw := r.FormValue("original_price"); raw != "" {
		op, err := decimal.NewFromString(raw)
		if err != nil || op.IsNegative() {
			utils.HandleError(w, http.StatusBadRequest, "Invalid original price")
			return
		}
		product.OriginalPrice = &op
	}
	if raw := r.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			utils.HandleError(w, http.StatusBadRequest, "Invalid stock")
			return
		}
		product.Stock = stock
	}
	if raw := r.FormValue("category_id"); raw != "" {
		catID, err := uuid.Parse(raw)
		if err != nil {
			utils.HandleError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		product.CategoryID = catID
	}

	file, handler, err := r.FormFile("img")
	if err == nil {
		defer file.Close()
		if product.Img != "" {
			_ = utils.DeleteImageFile(strings.TrimPrefix(product.Img, "/"))
		}
		imgPath, err := utils.SaveImageFile(file, "products", handler.Filename)
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to save image")
			utils.LogError(err)
			return
		}
		product.Img = fmt.Sprintf("/%s", strings.ReplaceAll(imgPath, "\\", "/"))
	}

	query, args, err = QB.Update("products").
		Set("category_id", product.CategoryID).
		Set("name", product.Name).
		Set("description", product.Description).
		Set("img", product.Img).
		Set("price", product.Price).
		Set("original_price", product.OriginalPrice).
		Set("stock", product.Stock).
		Set("unit", product.Unit).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": productID}).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(productColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&product); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update product")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, product)
}

// DeleteProduct soft-deletes, keeping the row for historical order items.
func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	query, args, err := QB.Update("products").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete product")
		utils.LogError(err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.HandleError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Product deleted successfully",
	})
}
