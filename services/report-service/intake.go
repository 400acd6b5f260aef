package main

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"cyber-incident-desk/pkg/audit"
	"cyber-incident-desk/pkg/queue"
	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/pkg/security"
	"cyber-incident-desk/pkg/storage"
	"cyber-incident-desk/pkg/ticket"
	"cyber-incident-desk/services/report-service/models"

	"gorm.io/gorm"
)

// createIncidentHandler is the public intake flow: multipart form with the
// report fields plus up to five "attachments" parts.
func createIncidentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart payload", "")
		return
	}

	sub := models.Submission{
		FullName:       r.FormValue("fullName"),
		UserIdentifier: r.FormValue("userId"),
		Phone:          r.FormValue("phone"),
		Email:          r.FormValue("email"),
		IssueType:      r.FormValue("issueType"),
		Description:    r.FormValue("description"),
		Consent:        r.FormValue("consent") == "true",
	}

	if err := sub.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	// Everything is validated before a single byte is uploaded anywhere.
	files := models.CapFiles(r.MultipartForm.File["attachments"])
	for _, header := range files {
		if err := models.ValidateUpload(header); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error(), "")
			return
		}
	}

	// Priority comes from the fixed issue-type mapping unless the triage
	// assistant supplied an override from the same closed set.
	priority := models.PriorityFor(sub.IssueType)
	if override := r.FormValue("priority"); models.ValidPriority(override) {
		priority = override
	}

	encryptedID, err := security.EncryptString(sub.UserIdentifier)
	if err != nil {
		log.Printf("[ERROR] Failed to encrypt reporter identifier: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to submit report. Please try again.", "")
		return
	}

	complaint, err := insertWithFreshTicket(sub, encryptedID, priority)
	if err != nil {
		log.Printf("[ERROR] Failed to save incident report: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to submit report. Please try again.", "")
		return
	}

	log.Printf("[OK] Incident saved - Ticket: %s, Priority: %s", complaint.TicketCode, complaint.Priority)

	uploadAttachments(complaint, files)

	auditLog.Record(audit.ActionIncidentCreated, complaint.ID, complaint.TicketCode, "public", map[string]interface{}{
		"issue_type": complaint.IssueType,
		"priority":   complaint.Priority,
	})

	// Fire-and-forget: the submitter gets their ticket code whether or not
	// the notification job makes it onto the queue.
	job := newIncidentJob(complaint)
	if err := publisher.Publish(queue.NotificationQueue, job); err != nil {
		log.Printf("[WARN] Incident saved but failed to queue notification: %v", err)
	} else {
		log.Printf("[INFO] Queued %s job for %s", job.Type, complaint.TicketCode)
	}

	response.Success(w, http.StatusCreated, "Incident report submitted", map[string]interface{}{
		"ticket_code": complaint.TicketCode,
	})
}

// insertWithFreshTicket generates a candidate code and inserts, retrying on a
// ticket-code collision. The unique index on complaints.ticket_code is the
// arbiter; after MaxGenerateAttempts collisions the submission fails.
func insertWithFreshTicket(sub models.Submission, encryptedID, priority string) (*models.Complaint, error) {
	ctx, cancel := dbCtx()
	defer cancel()

	for attempt := 0; attempt < ticket.MaxGenerateAttempts; attempt++ {
		code, err := ticket.Generate()
		if err != nil {
			return nil, err
		}

		complaint := models.Complaint{
			TicketCode:           code,
			FullName:             sub.FullName,
			UserIdentifier:       encryptedID,
			Phone:                sub.Phone,
			Email:                sub.Email,
			IssueType:            sub.IssueType,
			Priority:             priority,
			Status:               models.StatusNew,
			Description:          sub.Description,
			ConsentNotifications: sub.Consent,
		}

		err = db.WithContext(ctx).Create(&complaint).Error
		if err == nil {
			return &complaint, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[WARN] Ticket code collision on %s, retrying (%d)", code, attempt+1)
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("could not allocate a unique ticket code after %d attempts", ticket.MaxGenerateAttempts)
}

// uploadAttachments stores each file independently. One failed upload is
// logged and skipped; it never rolls back the report or the other files.
func uploadAttachments(complaint *models.Complaint, files []*multipart.FileHeader) {
	for _, header := range files {
		src, err := header.Open()
		if err != nil {
			log.Printf("[WARN] Failed to open attachment %s: %v", header.Filename, err)
			continue
		}

		objectName := fmt.Sprintf("%s/%d-%s", complaint.TicketCode, time.Now().UnixNano(), header.Filename)
		contentType := models.UploadContentType(header)

		ctx, cancel := dbCtx()
		fileURL, err := storage.UploadObject(ctx, objectStore, storage.AttachmentsBucket, objectName, src, header.Size, contentType)
		cancel()
		src.Close()

		if err != nil {
			log.Printf("[WARN] Failed to upload attachment %s: %v", header.Filename, err)
			continue
		}

		attachment := models.Attachment{
			ComplaintID: complaint.ID,
			FileName:    header.Filename,
			FileSize:    header.Size,
			MimeType:    contentType,
			FileURL:     fileURL,
		}

		ctx, cancel = dbCtx()
		if err := db.WithContext(ctx).Create(&attachment).Error; err != nil {
			log.Printf("[WARN] Uploaded %s but failed to record attachment: %v", header.Filename, err)
		}
		cancel()
	}
}
