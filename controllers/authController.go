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

func Signup(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(10 << 20) // Limit to 10 MB
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	phone := r.FormValue("phone")
	password := r.FormValue("password")

	if username == "" || password == "" || email == "" {
		utils.HandleError(w, http.StatusBadRequest, "Make sure you fill all fields")
		return
	}

	// Check if the user is already signed up
	query, args, err := QB.Select("id", "email").From("users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	existingUser := models.User{}
	if err := db.Get(&existingUser, query, args...); err == nil {
		utils.HandleError(w, http.StatusConflict, "User with this email already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to hash password")
		utils.LogError(err)
		return
	}

	// Handle the optional profile image upload
	var imgURI string
	file, handler, err := r.FormFile("img")
	if err == nil {
		defer file.Close()

		imgPath, err := utils.SaveImageFile(file, "users", handler.Filename)
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to save image")
			utils.LogError(err)
			return
		}
		imgURI = fmt.Sprintf("/%s", strings.ReplaceAll(imgPath, "\\", "/"))
	}

	user := models.User{
		ID:        uuid.New(),
		Name:      username,
		Email:     email,
		Phone:     phone,
		Password:  hashedPassword,
		Img:       imgURI,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query, args, err = QB.Insert("users").
		Columns("id", "name", "email", "password", "phone", "img", "role", "created_at", "updated_at").
		Values(user.ID, user.Name, user.Email, user.Password, user.Phone, user.Img, user.Role, user.CreatedAt, user.UpdatedAt).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(userColumns, ", "))).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.QueryRowx(query, args...).StructScan(&user); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating user")
		utils.LogError(err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to issue token")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		utils.HandleError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.User
	query, args, err := QB.Select(userColumns...).From("users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.Get(&user, query, args...); err != nil {
		utils.HandleError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		utils.HandleError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to issue token")
		utils.LogError(err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetCurrentUser returns the profile of the authenticated user.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var user models.User
	query, args, err := QB.Select(userColumns...).From("users").Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to build query")
		utils.LogError(err)
		return
	}

	if err := db.Get(&user, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, user)
}
