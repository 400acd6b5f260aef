package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/services/auth-service/models"
	"cyber-incident-desk/services/auth-service/utils"

	"gorm.io/gorm"
)

// createAdminHandler provisions a staff account with its single role.
// Callers must hold the super_admin role. The response shape mirrors the
// function-endpoint contract: {success, userId, email, role} or {error}.
func createAdminHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid request payload"})
		return
	}

	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	if input.Email == "" || input.Password == "" || input.Role == "" {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Missing required fields: email, password, role"})
		return
	}
	if !isValidEmail(input.Email) {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid email format"})
		return
	}
	if valid, msg := isValidPassword(input.Password); !valid {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": msg})
		return
	}
	if !models.ValidRole(input.Role) {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid role"})
		return
	}

	if input.FullName == "" {
		input.FullName = input.Email
	}

	var existing models.Profile
	if result := db.Where("email = ?", input.Email).First(&existing); result.Error == nil {
		response.JSON(w, http.StatusConflict, map[string]interface{}{"error": "Email already registered"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		response.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Failed to create account"})
		return
	}

	profile := models.Profile{
		Email:    input.Email,
		Password: hashed,
		FullName: input.FullName,
		Active:   true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: profile.ID, Role: input.Role}).Error
	})
	if err != nil {
		log.Printf("[ERROR] Failed to create staff account: %v", err)
		response.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Failed to create account"})
		return
	}

	log.Printf("[OK] Staff account created - ID: %s, Role: %s", profile.ID, input.Role)

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"userId":  profile.ID,
		"email":   profile.Email,
		"role":    input.Role,
	})
}
