package queue

import "time"

// Queue drained by the dispatcher service.
const NotificationQueue = "notification_jobs"

// Job types carried on the notification queue.
const (
	JobIncidentCreated = "incident.created"
	JobStatusChanged   = "status.changed"
)

// NotificationJob is the fire-and-forget unit of work queued after a core
// write. Field names match the notify-service request payloads so the
// dispatcher can forward the job body as-is.
type NotificationJob struct {
	Type        string    `json:"type"`
	TicketCode  string    `json:"ticketCode"`
	FullName    string    `json:"fullName"`
	IssueType   string    `json:"issueType,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	OldStatus   string    `json:"oldStatus,omitempty"`
	NewStatus   string    `json:"newStatus,omitempty"`
	QueuedAt    time.Time `json:"queuedAt"`
}
