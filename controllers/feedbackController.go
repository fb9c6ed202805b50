package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"grocer/middleware"
	"grocer/models"
	"grocer/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var feedbackColumns = []string{"id", "user_id", "order_id", "rating", "comment", "created_at"}

type feedbackRequest struct {
	OrderID *uuid.UUID `json:"orderId"`
	Rating  int        `json:"rating"`
	Comment string     `json:"comment"`
}

func CreateFeedback(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req feedbackRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.HandleError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	// If feedback targets an order, it has to be this user's order.
	if req.OrderID != nil {
		var order models.Order
		query, args, err := QB.Select("id", "user_id").From("orders").Where(squirrel.Eq{"id": req.OrderID}).ToSql()
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
			utils.LogError(err)
			return
		}
		if err := db.Get(&order, query, args...); err != nil || order.UserID != userID {
			utils.HandleError(w, http.StatusNotFound, "Order not found")
			return
		}
	}

	fb := models.Feedback{
		ID:        uuid.New(),
		UserID:    userID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	query, args, err := QB.Insert("feedback").
		Columns("id", "user_id", "order_id", "rating", "comment", "created_at").
		Values(fb.ID, fb.UserID, fb.OrderID, fb.Rating, fb.Comment, fb.CreatedAt).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(feedbackColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&fb); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to submit feedback")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, fb)
}

// GetAllFeedback is the admin listing, joined with the author's name.
func GetAllFeedback(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select(
		"feedback.id", "feedback.user_id", "feedback.order_id", "feedback.rating",
		"feedback.comment", "users.name AS user_name", "feedback.created_at").
		From("feedback").
		Join("users ON users.id = feedback.user_id").
		OrderBy("feedback.created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	feedbacks := []models.FeedbackWithUser{}
	if err := db.Select(&feedbacks, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch feedback")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, feedbacks)
}
