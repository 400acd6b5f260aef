package models

import (
	"time"
)

// Issue types accepted on intake. Closed set; anything else is rejected at
// the boundary.
const (
	IssueScam              = "scam"
	IssuePhishing          = "phishing"
	IssueOnlineFraud       = "online_fraud"
	IssueHackingAttempt    = "hacking_attempt"
	IssueMalware           = "malware"
	IssueSocialMediaThreat = "social_media_threat"
	IssueOther             = "other"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusEscalated  = "escalated"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

var validIssueTypes = map[string]bool{
	IssueScam:              true,
	IssuePhishing:          true,
	IssueOnlineFraud:       true,
	IssueHackingAttempt:    true,
	IssueMalware:           true,
	IssueSocialMediaThreat: true,
	IssueOther:             true,
}

var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

var validStatuses = map[string]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusEscalated:  true,
	StatusResolved:   true,
	StatusClosed:     true,
}

func ValidIssueType(s string) bool { return validIssueTypes[s] }
func ValidPriority(s string) bool  { return validPriorities[s] }
func ValidStatus(s string) bool    { return validStatuses[s] }

// PriorityFor derives the triage priority from the issue type. Pure mapping;
// the triage assistant may override it with another value from the same set.
func PriorityFor(issueType string) string {
	switch issueType {
	case IssueScam, IssuePhishing, IssueOnlineFraud:
		return PriorityHigh
	case IssueHackingAttempt:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

type Complaint struct {
	ID         string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TicketCode string `gorm:"uniqueIndex;not null" json:"ticket_code"`
	FullName   string `gorm:"not null" json:"full_name"`
	// UserIdentifier stores the reporter-supplied identifier encrypted
	// (AES-GCM). Staff detail views decrypt it on read.
	UserIdentifier       string       `gorm:"not null" json:"-"`
	Phone                string       `json:"phone,omitempty"`
	Email                string       `json:"email,omitempty"`
	IssueType            string       `gorm:"not null" json:"issue_type"`
	Priority             string       `gorm:"default:'low'" json:"priority"`
	Status               string       `gorm:"default:'new'" json:"status"`
	Description          string       `gorm:"not null" json:"description"`
	ConsentNotifications bool         `json:"consent_notifications"`
	AssignedTo           *string      `json:"assigned_to,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
	Attachments          []Attachment `gorm:"constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

type Attachment struct {
	ID          string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:uuid;index;not null" json:"complaint_id"`
	FileName    string    `gorm:"not null" json:"file_name"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type,omitempty"`
	FileURL     string    `gorm:"not null" json:"file_url"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// IncidentNote is append-only: the exposed flows never edit or delete notes.
type IncidentNote struct {
	ID          string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:uuid;index;not null" json:"complaint_id"`
	AuthorID    string    `gorm:"not null" json:"author_id"`
	AuthorName  string    `json:"author_name,omitempty"`
	Content     string    `gorm:"not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationLog records one dispatch attempt against a complaint.
type NotificationLog struct {
	ID          string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ComplaintID *string   `gorm:"type:uuid;index" json:"complaint_id,omitempty"`
	TicketCode  string    `gorm:"index" json:"ticket_code"`
	Channel     string    `gorm:"not null" json:"channel"`
	Recipient   string    `gorm:"not null" json:"recipient"`
	Status      string    `gorm:"default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicView is the restricted projection returned by the unauthenticated
// tracking flow. Reporter personal fields never appear here.
type PublicView struct {
	TicketCode string    `json:"ticket_code"`
	Status     string    `json:"status"`
	IssueType  string    `json:"issue_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Complaint) Public() PublicView {
	return PublicView{
		TicketCode: c.TicketCode,
		Status:     c.Status,
		IssueType:  c.IssueType,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
