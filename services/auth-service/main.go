package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	"cyber-incident-desk/pkg/database"
	"cyber-incident-desk/pkg/middleware"
	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/services/auth-service/models"
	"cyber-incident-desk/services/auth-service/utils"

	"gorm.io/gorm"
)

var db *gorm.DB

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 100 {
		return false, "Password too long"
	}
	return true, ""
}

func main() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_PORT"),
	)

	if os.Getenv("POSTGRES_HOST") == "" {
		dsn = "host=localhost user=admin password=password dbname=auth_db port=5434 sslmode=disable TimeZone=UTC"
	}

	var err error
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	log.Println("🔄 Running Auto Migration...")
	err = db.AutoMigrate(&models.Profile{}, &models.UserRole{})
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Migration success!")

	seedSuperAdmin()

	middleware.RegisterMetrics()

	http.HandleFunc("/api/auth/login", middleware.LoggerMiddleware(http.HandlerFunc(loginHandler)).ServeHTTP)
	http.HandleFunc("/api/auth/me", middleware.LoggerMiddleware(middleware.AuthMiddleware(meHandler)).ServeHTTP)
	http.HandleFunc("/api/auth/create-admin", middleware.CORSMiddleware(
		middleware.LoggerMiddleware(
			middleware.AuthMiddleware(
				middleware.RequireRole(middleware.RoleSuperAdmin)(createAdminHandler),
			),
		),
	).ServeHTTP)

	http.HandleFunc("/health", healthCheckHandler)
	http.Handle("/metrics", middleware.GetMetricsHandler())

	port := os.Getenv("AUTH_PORT")
	if port == "" {
		port = "8081"
	}

	log.Printf("🚀 Auth Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// seedSuperAdmin creates the first super_admin from ADMIN_EMAIL /
// ADMIN_PASSWORD when no super_admin exists yet. Without it there is no way
// to reach the create-admin endpoint.
func seedSuperAdmin() {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.UserRole{}).Where("role = ?", models.RoleSuperAdmin).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("[ERROR] Failed to hash bootstrap password: %v", err)
		return
	}

	profile := models.Profile{
		Email:    email,
		Password: hashed,
		FullName: "Super Admin",
		Active:   true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: profile.ID, Role: models.RoleSuperAdmin}).Error
	})
	if err != nil {
		log.Printf("[ERROR] Failed to seed super admin: %v", err)
		return
	}

	log.Printf("[OK] Seeded super admin account - ID: %s", profile.ID)
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid login request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if input.Email == "" || input.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and Password are required", "")
		return
	}

	var profile models.Profile
	if err := db.Where("email = ?", input.Email).First(&profile).Error; err != nil {
		log.Printf("[WARN] Failed login attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid email or password", "")
		return
	}

	if !profile.Active || !utils.CheckPasswordHash(input.Password, profile.Password) {
		log.Printf("[WARN] Invalid password attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid email or password", "")
		return
	}

	// A staff account with no assigned role is access-denied, not merely
	// unauthenticated: valid credentials do not grant a session.
	var role models.UserRole
	if err := db.Where("user_id = ?", profile.ID).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[WARN] Login without role - ID: %s", profile.ID)
			response.Error(w, http.StatusForbidden, "Access denied", "No staff role assigned")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to resolve role", "")
		return
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Email, profile.FullName, role.Role)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for user id: %s", profile.ID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token", "")
		return
	}

	log.Printf("[OK] Staff logged in - ID: %s, Role: %s", profile.ID, role.Role)

	response.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"id":    profile.ID,
		"token": token,
		"name":  profile.FullName,
		"role":  role.Role,
	})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*middleware.StaffClaims)
	if !ok {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve user context", "")
		return
	}

	var profile models.Profile
	if err := db.First(&profile, "id = ?", claims.UserID).Error; err != nil {
		response.NotFound(w, "User not found")
		return
	}

	response.Success(w, http.StatusOK, "User profile fetched", map[string]interface{}{
		"id":        profile.ID,
		"email":     profile.Email,
		"full_name": profile.FullName,
		"role":      claims.Role,
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "UP",
		"service": "auth-service",
	}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		health["status"] = "DOWN"
		health["database"] = "disconnected"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		health["database"] = "connected"
		w.WriteHeader(http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
