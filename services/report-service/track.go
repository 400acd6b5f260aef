package main

import (
	"errors"
	"net/http"
	"strings"

	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/pkg/ticket"
	"cyber-incident-desk/services/report-service/models"

	"gorm.io/gorm"
)

// trackHandler is the public tracking flow. It accepts the ticket code in the
// path ("/api/track/gcx-0001-aaaa") case-insensitively and returns only the
// restricted projection, never reporter fields.
func trackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/track/")
	if code == "" {
		code = r.URL.Query().Get("code")
	}

	code = ticket.Normalize(code)
	if !ticket.Valid(code) {
		response.Error(w, http.StatusBadRequest, "Invalid ticket code format", "")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var complaint models.Complaint
	err := db.WithContext(ctx).Where("ticket_code = ?", code).First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w, "No report found for this ticket code")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to look up ticket", "")
		return
	}

	response.Success(w, http.StatusOK, "Ticket found", complaint.Public())
}
