package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"cyber-incident-desk/pkg/database"
	"cyber-incident-desk/pkg/mailer"
	"cyber-incident-desk/pkg/middleware"
	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/services/notify-service/notifier"
	"cyber-incident-desk/services/report-service/models"

	"gorm.io/gorm"
)

var (
	db      *gorm.DB
	service *notifier.Service
)

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
		dsn = "host=localhost user=admin password=password dbname=incident_db port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to database: %v", err)
	}

	log.Println("🔄 Running Auto Migration...")
	if err := db.AutoMigrate(&models.NotificationLog{}); err != nil {
		log.Fatalf("[ERROR] Migration failed: %v", err)
	}
	log.Println("✅ Migration success!")

	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		log.Fatal("[ERROR] RESEND_API_KEY is required")
	}

	from := os.Getenv("NOTIFY_FROM_EMAIL")
	if from == "" {
		from = "Genxdual Cyber <desk@genxdual.example>"
	}

	adminEmail := os.Getenv("ADMIN_NOTIFICATION_EMAIL")
	if adminEmail == "" {
		adminEmail = "ops@genxdual.example"
	}

	service = notifier.New(mailer.NewResendClient(apiKey), from, adminEmail)

	middleware.RegisterMetrics()

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.CORSMiddleware(
			middleware.TraceMiddleware(
				middleware.MetricsMiddleware(
					middleware.LoggerMiddleware(h),
				),
			),
		).ServeHTTP
	}

	http.HandleFunc("/functions/notify-incident", wrap(notifyIncidentHandler))
	http.HandleFunc("/functions/notify-status-change", wrap(notifyStatusChangeHandler))

	http.HandleFunc("/health", healthHandler)
	http.Handle("/metrics", middleware.GetMetricsHandler())

	port := os.Getenv("NOTIFY_PORT")
	if port == "" {
		port = "8083"
	}

	log.Printf("🚀 Notify Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

// notifyIncidentHandler alerts the operators channel about a fresh report and
// confirms receipt to the reporter when they left an email. Partial delivery
// still counts as success; the results block says which sub-send failed.
func notifyIncidentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.JSON(w, http.StatusMethodNotAllowed, map[string]interface{}{"error": "Method not allowed"})
		return
	}

	var req notifier.NewIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}

	results, err := service.DispatchNewIncident(r.Context(), req)

	recordDelivery(req.TicketCode, results.Admin)
	if results.Reporter != nil {
		recordDelivery(req.TicketCode, *results.Reporter)
	}

	if err != nil {
		log.Printf("[ERROR] Incident notification failed for %s: %v", req.TicketCode, err)
		response.JSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "Failed to send notifications",
			"results": results,
		})
		return
	}

	log.Printf("[OK] Incident notification dispatched for %s", req.TicketCode)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// notifyStatusChangeHandler mails the reporter about a status transition.
func notifyStatusChangeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.JSON(w, http.StatusMethodNotAllowed, map[string]interface{}{"error": "Method not allowed"})
		return
	}

	var req notifier.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}

	result, err := service.DispatchStatusChange(r.Context(), req)
	recordDelivery(req.TicketCode, result)

	if err != nil {
		log.Printf("[ERROR] Status notification failed for %s: %v", req.TicketCode, err)
		response.JSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  "Failed to send notification",
			"result": result,
		})
		return
	}

	log.Printf("[OK] Status notification dispatched for %s (%s)", req.TicketCode, req.NewStatus)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// recordDelivery appends a notification_logs row. Best-effort: a log write
// failure never fails the request.
func recordDelivery(ticketCode string, result notifier.SendResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := "sent"
	if !result.Sent {
		status = "failed"
	}

	entry := models.NotificationLog{
		TicketCode: ticketCode,
		Channel:    models.ChannelEmail,
		Recipient:  result.Recipient,
		Status:     status,
	}

	var complaint models.Complaint
	err := db.WithContext(ctx).Select("id").Where("ticket_code = ?", ticketCode).First(&complaint).Error
	if err == nil {
		entry.ComplaintID = &complaint.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[WARN] Failed to resolve complaint for %s: %v", ticketCode, err)
	}

	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("[WARN] Failed to record notification log for %s: %v", ticketCode, err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "UP",
		"service": "notify-service",
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
