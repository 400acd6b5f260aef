package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cyber-incident-desk/pkg/mailer"
)

// NewIncidentRequest is the notify-incident payload.
type NewIncidentRequest struct {
	TicketCode  string `json:"ticketCode"`
	FullName    string `json:"fullName"`
	IssueType   string `json:"issueType"`
	Priority    string `json:"priority"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Description string `json:"description"`
}

func (r *NewIncidentRequest) Validate() error {
	if r.TicketCode == "" || r.FullName == "" || r.IssueType == "" {
		return errors.New("Missing required fields: ticketCode, fullName, issueType")
	}
	return nil
}

// StatusChangeRequest is the notify-status-change payload.
type StatusChangeRequest struct {
	TicketCode string `json:"ticketCode"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	OldStatus  string `json:"oldStatus"`
	NewStatus  string `json:"newStatus"`
}

func (r *StatusChangeRequest) Validate() error {
	if r.TicketCode == "" || r.Email == "" || r.NewStatus == "" {
		return errors.New("Missing required fields: ticketCode, email, newStatus")
	}
	return nil
}

// SendResult reports the outcome of one sub-send.
type SendResult struct {
	Sent      bool   `json:"sent"`
	Recipient string `json:"recipient"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewIncidentResults reports both sub-sends of a new-incident notification.
// Partial success is a success: the caller sees which sub-send failed.
type NewIncidentResults struct {
	Admin    SendResult  `json:"admin"`
	Reporter *SendResult `json:"reporter,omitempty"`
}

// Service builds and dispatches help desk notification emails.
type Service struct {
	sender     mailer.Sender
	from       string
	adminEmail string
}

func New(sender mailer.Sender, from, adminEmail string) *Service {
	return &Service{
		sender:     sender,
		from:       from,
		adminEmail: adminEmail,
	}
}

func (s *Service) send(ctx context.Context, to, subject, html string) SendResult {
	id, err := s.sender.Send(ctx, mailer.Message{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return SendResult{Recipient: to, Error: err.Error()}
	}
	return SendResult{Sent: true, Recipient: to, MessageID: id}
}

// DispatchNewIncident sends the operator alert and, when the reporter left an
// email, their confirmation. The returned error is non-nil only when every
// attempted sub-send failed.
func (s *Service) DispatchNewIncident(ctx context.Context, req NewIncidentRequest) (NewIncidentResults, error) {
	results := NewIncidentResults{}

	results.Admin = s.send(ctx, s.adminEmail,
		adminAlertSubject(req),
		adminAlertBody(req),
	)

	if req.Email != "" {
		reporter := s.send(ctx, req.Email,
			fmt.Sprintf("Your Incident Report %s - Genxdual Cyber", req.TicketCode),
			reporterConfirmationBody(req),
		)
		results.Reporter = &reporter
	}

	if !results.Admin.Sent && (results.Reporter == nil || !results.Reporter.Sent) {
		return results, errors.New("all notification sends failed")
	}
	return results, nil
}

// DispatchStatusChange sends one status update email to the reporter.
func (s *Service) DispatchStatusChange(ctx context.Context, req StatusChangeRequest) (SendResult, error) {
	label := StatusLabel(req.NewStatus)

	result := s.send(ctx, req.Email,
		fmt.Sprintf("Status Update: %s — %s", req.TicketCode, label),
		statusChangeBody(req, label),
	)
	if !result.Sent {
		return result, errors.New("status change notification failed")
	}
	return result, nil
}

// FormatIssueType humanizes an enum value for email copy.
func FormatIssueType(issueType string) string {
	return strings.ReplaceAll(issueType, "_", " ")
}
