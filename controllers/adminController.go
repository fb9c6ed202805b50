package controllers

import (
	"net/http"
	"time"

	"grocer/models"
	"grocer/utils"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// GetDashboardStats returns the admin dashboard counters: lifetime order
// count, revenue since local midnight, and active product/user counts.
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats := models.DashboardStats{TodayRevenue: decimal.Zero}

	query, args, err := QB.Select("COUNT(*)").From("orders").ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&stats.TotalOrders, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch stats")
		utils.LogError(err)
		return
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	query, args, err = QB.Select("COALESCE(SUM(total_amount), 0)").
		From("orders").
		Where(squirrel.GtOrEq{"created_at": midnight}).
		Where(squirrel.NotEq{"status": models.StatusCancelled}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&stats.TodayRevenue, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch stats")
		utils.LogError(err)
		return
	}

	query, args, err = QB.Select("COUNT(*)").From("products").Where(squirrel.Eq{"is_active": true}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&stats.ActiveProducts, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch stats")
		utils.LogError(err)
		return
	}

	query, args, err = QB.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}
	if err := db.Get(&stats.ActiveUsers, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch stats")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, stats)
}
