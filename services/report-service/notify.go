package main

import (
	"log"
	"time"

	"cyber-incident-desk/pkg/queue"
	"cyber-incident-desk/services/report-service/models"
)

func newIncidentJob(c *models.Complaint) queue.NotificationJob {
	return queue.NotificationJob{
		Type:        queue.JobIncidentCreated,
		TicketCode:  c.TicketCode,
		FullName:    c.FullName,
		IssueType:   c.IssueType,
		Priority:    c.Priority,
		Email:       c.Email,
		Phone:       c.Phone,
		Description: c.Description,
		QueuedAt:    time.Now().UTC(),
	}
}

func statusChangeJob(c *models.Complaint, oldStatus, newStatus string) queue.NotificationJob {
	return queue.NotificationJob{
		Type:       queue.JobStatusChanged,
		TicketCode: c.TicketCode,
		FullName:   c.FullName,
		Email:      c.Email,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		QueuedAt:   time.Now().UTC(),
	}
}

// queueStatusNotification publishes exactly one status-change job when the
// report carries a reporter email, and none otherwise. Publish failures are
// logged and swallowed; the status update has already been committed.
func queueStatusNotification(pub queue.Publisher, c *models.Complaint, oldStatus, newStatus string) bool {
	if c.Email == "" {
		return false
	}

	job := statusChangeJob(c, oldStatus, newStatus)
	if err := pub.Publish(queue.NotificationQueue, job); err != nil {
		log.Printf("[WARN] Status updated but failed to queue notification for %s: %v", c.TicketCode, err)
		return true
	}

	log.Printf("[INFO] Queued %s job for %s (%s -> %s)", job.Type, c.TicketCode, oldStatus, newStatus)
	return true
}
