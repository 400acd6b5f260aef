package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"cyber-incident-desk/pkg/audit"
	"cyber-incident-desk/pkg/middleware"
	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/pkg/security"
	"cyber-incident-desk/services/report-service/models"

	"gorm.io/gorm"
)

// staffComplaintView adds the decrypted reporter identifier to a complaint
// for authenticated staff detail views.
type staffComplaintView struct {
	models.Complaint
	UserIdentifier string `json:"user_identifier,omitempty"`
}

func staffView(c models.Complaint) staffComplaintView {
	view := staffComplaintView{Complaint: c}
	if c.UserIdentifier != "" {
		plain, err := security.DecryptString(c.UserIdentifier)
		if err != nil {
			log.Printf("[WARN] Failed to decrypt reporter identifier for %s: %v", c.TicketCode, err)
		} else {
			view.UserIdentifier = plain
		}
	}
	view.Complaint.UserIdentifier = ""
	return view
}

func listIncidentsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var complaints []models.Complaint
	query := db.WithContext(ctx).Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&complaints).Error; err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch incidents", "")
		return
	}

	views := make([]staffComplaintView, 0, len(complaints))
	for _, c := range complaints {
		views = append(views, staffView(c))
	}

	response.Success(w, http.StatusOK, "Incidents fetched successfully", views)
}

// staffIncidentRouter dispatches /api/staff/incidents/{id}[/notes|/status].
func staffIncidentRouter(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/staff/incidents/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		response.Error(w, http.StatusBadRequest, "Missing incident ID", "")
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		getIncidentHandler(w, r, id)
	case len(parts) == 2 && parts[1] == "notes" && r.Method == http.MethodGet:
		listNotesHandler(w, r, id)
	case len(parts) == 2 && parts[1] == "notes" && r.Method == http.MethodPost:
		middleware.RequireWriter(func(w http.ResponseWriter, r *http.Request) {
			addNoteHandler(w, r, id)
		})(w, r)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPut:
		middleware.RequireWriter(func(w http.ResponseWriter, r *http.Request) {
			updateStatusHandler(w, r, id)
		})(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

func loadComplaint(w http.ResponseWriter, id string, preloadAttachments bool) (*models.Complaint, bool) {
	ctx, cancel := dbCtx()
	defer cancel()

	query := db.WithContext(ctx)
	if preloadAttachments {
		query = query.Preload("Attachments")
	}

	var complaint models.Complaint
	if err := query.First(&complaint, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w, "Incident not found")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch incident", "")
		}
		return nil, false
	}
	return &complaint, true
}

func getIncidentHandler(w http.ResponseWriter, r *http.Request, id string) {
	complaint, ok := loadComplaint(w, id, true)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, "Incident fetched successfully", staffView(*complaint))
}

func listNotesHandler(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := dbCtx()
	defer cancel()

	var notes []models.IncidentNote
	err := db.WithContext(ctx).
		Where("complaint_id = ?", id).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch notes", "")
		return
	}

	response.Success(w, http.StatusOK, "Notes fetched successfully", notes)
}

func addNoteHandler(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*middleware.StaffClaims)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		response.Error(w, http.StatusBadRequest, "Note content is required", "")
		return
	}

	complaint, ok := loadComplaint(w, id, false)
	if !ok {
		return
	}

	note := models.IncidentNote{
		ComplaintID: complaint.ID,
		AuthorID:    claims.UserID,
		AuthorName:  claims.Name,
		Content:     content,
	}

	ctx, cancel := dbCtx()
	defer cancel()
	if err := db.WithContext(ctx).Create(&note).Error; err != nil {
		log.Printf("[ERROR] Failed to save note: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to add note", "")
		return
	}

	auditLog.Record(audit.ActionNoteAdded, complaint.ID, complaint.TicketCode, claims.UserID, nil)

	response.Success(w, http.StatusCreated, "Note added", note)
}

func updateStatusHandler(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*middleware.StaffClaims)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if !models.ValidStatus(input.Status) {
		response.Error(w, http.StatusBadRequest, "Invalid status", "")
		return
	}

	complaint, ok := loadComplaint(w, id, false)
	if !ok {
		return
	}

	oldStatus := complaint.Status

	ctx, cancel := dbCtx()
	defer cancel()
	if err := db.WithContext(ctx).Model(complaint).Update("status", input.Status).Error; err != nil {
		log.Printf("[ERROR] Failed to update status: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to update status", "")
		return
	}

	log.Printf("[OK] Status updated - Ticket: %s, %s -> %s", complaint.TicketCode, oldStatus, input.Status)

	auditLog.Record(audit.ActionStatusChanged, complaint.ID, complaint.TicketCode, claims.UserID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": input.Status,
	})

	// Notification is decoupled from the write: the update above stands
	// whether or not the job can be queued.
	queueStatusNotification(publisher, complaint, oldStatus, input.Status)

	response.Success(w, http.StatusOK, "Status updated", map[string]interface{}{
		"ticket_code": complaint.TicketCode,
		"old_status":  oldStatus,
		"new_status":  input.Status,
	})
}

func statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var total, newCount, escalated, closed int64
	if err := db.WithContext(ctx).Model(&models.Complaint{}).Count(&total).Error; err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to compute stats", "")
		return
	}
	db.WithContext(ctx).Model(&models.Complaint{}).Where("status = ?", models.StatusNew).Count(&newCount)
	db.WithContext(ctx).Model(&models.Complaint{}).Where("status = ?", models.StatusEscalated).Count(&escalated)
	db.WithContext(ctx).Model(&models.Complaint{}).Where("status IN ?", []string{models.StatusResolved, models.StatusClosed}).Count(&closed)

	response.Success(w, http.StatusOK, "Stats computed", map[string]interface{}{
		"total":     total,
		"new":       newCount,
		"escalated": escalated,
		"closed":    closed,
	})
}
