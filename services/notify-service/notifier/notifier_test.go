package notifier_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cyber-incident-desk/pkg/mailer"
	"cyber-incident-desk/services/notify-service/notifier"

	"github.com/m-mizutani/gt"
)

type fakeSender struct {
	sent    []mailer.Message
	failFor map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) (string, error) {
	if len(msg.To) == 1 && f.failFor[msg.To[0]] {
		return "", errors.New("provider rejected message")
	}
	f.sent = append(f.sent, msg)
	return "msg-id-1", nil
}

func newService(fake *fakeSender) *notifier.Service {
	return notifier.New(fake, "desk@genxdual.example", "ops@genxdual.example")
}

func TestNewIncidentRequestValidate(t *testing.T) {
	req := notifier.NewIncidentRequest{TicketCode: "GCX-AAAA-1111", FullName: "Jo", IssueType: "scam"}
	gt.NoError(t, req.Validate())

	gt.Error(t, (&notifier.NewIncidentRequest{FullName: "Jo", IssueType: "scam"}).Validate())
	gt.Error(t, (&notifier.NewIncidentRequest{TicketCode: "GCX-AAAA-1111", IssueType: "scam"}).Validate())
	gt.Error(t, (&notifier.NewIncidentRequest{TicketCode: "GCX-AAAA-1111", FullName: "Jo"}).Validate())
}

func TestStatusChangeRequestValidate(t *testing.T) {
	req := notifier.StatusChangeRequest{TicketCode: "GCX-AAAA-1111", Email: "jo@example.com", NewStatus: "resolved"}
	gt.NoError(t, req.Validate())

	gt.Error(t, (&notifier.StatusChangeRequest{Email: "jo@example.com", NewStatus: "resolved"}).Validate())
	gt.Error(t, (&notifier.StatusChangeRequest{TicketCode: "GCX-AAAA-1111", NewStatus: "resolved"}).Validate())
	gt.Error(t, (&notifier.StatusChangeRequest{TicketCode: "GCX-AAAA-1111", Email: "jo@example.com"}).Validate())
}

func TestDispatchNewIncidentWithReporterEmail(t *testing.T) {
	fake := &fakeSender{}
	svc := newService(fake)

	results, err := svc.DispatchNewIncident(context.Background(), notifier.NewIncidentRequest{
		TicketCode:  "GCX-AAAA-1111",
		FullName:    "Jo Reporter",
		IssueType:   "online_fraud",
		Priority:    "high",
		Email:       "jo@example.com",
		Description: "Someone drained my account",
	})
	gt.NoError(t, err)
	gt.Equal(t, len(fake.sent), 2)

	gt.True(t, results.Admin.Sent)
	gt.Equal(t, results.Admin.Recipient, "ops@genxdual.example")
	gt.NotNil(t, results.Reporter)
	gt.True(t, results.Reporter.Sent)
	gt.Equal(t, results.Reporter.Recipient, "jo@example.com")

	adminMsg := fake.sent[0]
	gt.True(t, strings.Contains(adminMsg.Subject, "[HIGH]"))
	gt.True(t, strings.Contains(adminMsg.Subject, "GCX-AAAA-1111"))
	gt.True(t, strings.Contains(adminMsg.Subject, "online fraud"))

	reporterMsg := fake.sent[1]
	gt.True(t, strings.Contains(reporterMsg.Subject, "GCX-AAAA-1111"))
	gt.True(t, strings.Contains(reporterMsg.HTML, "GCX-AAAA-1111"))
}

func TestDispatchNewIncidentWithoutReporterEmail(t *testing.T) {
	fake := &fakeSender{}
	svc := newService(fake)

	results, err := svc.DispatchNewIncident(context.Background(), notifier.NewIncidentRequest{
		TicketCode: "GCX-BBBB-2222",
		FullName:   "Anonymous Reporter",
		IssueType:  "phishing",
		Priority:   "high",
	})
	gt.NoError(t, err)
	gt.Equal(t, len(fake.sent), 1)
	gt.True(t, results.Admin.Sent)
	gt.True(t, results.Reporter == nil)
}

func TestDispatchNewIncidentPartialFailure(t *testing.T) {
	fake := &fakeSender{failFor: map[string]bool{"jo@example.com": true}}
	svc := newService(fake)

	results, err := svc.DispatchNewIncident(context.Background(), notifier.NewIncidentRequest{
		TicketCode: "GCX-CCCC-3333",
		FullName:   "Jo Reporter",
		IssueType:  "scam",
		Priority:   "high",
		Email:      "jo@example.com",
	})
	gt.NoError(t, err)
	gt.True(t, results.Admin.Sent)
	gt.NotNil(t, results.Reporter)
	gt.False(t, results.Reporter.Sent)
	gt.NotEqual(t, results.Reporter.Error, "")
}

func TestDispatchNewIncidentTotalFailure(t *testing.T) {
	fake := &fakeSender{failFor: map[string]bool{
		"ops@genxdual.example": true,
		"jo@example.com":       true,
	}}
	svc := newService(fake)

	results, err := svc.DispatchNewIncident(context.Background(), notifier.NewIncidentRequest{
		TicketCode: "GCX-DDDD-4444",
		FullName:   "Jo Reporter",
		IssueType:  "scam",
		Priority:   "high",
		Email:      "jo@example.com",
	})
	gt.Error(t, err)
	gt.False(t, results.Admin.Sent)
	gt.False(t, results.Reporter.Sent)
}

func TestDispatchStatusChangeProgress(t *testing.T) {
	fake := &fakeSender{}
	svc := newService(fake)

	result, err := svc.DispatchStatusChange(context.Background(), notifier.StatusChangeRequest{
		TicketCode: "GCX-EEEE-5555",
		FullName:   "Jo Reporter",
		Email:      "jo@example.com",
		OldStatus:  "new",
		NewStatus:  "in_progress",
	})
	gt.NoError(t, err)
	gt.True(t, result.Sent)
	gt.Equal(t, len(fake.sent), 1)

	msg := fake.sent[0]
	gt.True(t, strings.Contains(msg.Subject, "In Progress"))
	gt.True(t, strings.Contains(msg.HTML, "working on your case"))
}

func TestDispatchStatusChangeTerminal(t *testing.T) {
	fake := &fakeSender{}
	svc := newService(fake)

	result, err := svc.DispatchStatusChange(context.Background(), notifier.StatusChangeRequest{
		TicketCode: "GCX-FFFF-6666",
		Email:      "jo@example.com",
		OldStatus:  "in_progress",
		NewStatus:  "resolved",
	})
	gt.NoError(t, err)
	gt.True(t, result.Sent)

	msg := fake.sent[0]
	gt.True(t, strings.Contains(msg.Subject, "Resolved"))
	gt.True(t, strings.Contains(msg.HTML, "concluded"))
}

func TestDispatchStatusChangeSendFailure(t *testing.T) {
	fake := &fakeSender{failFor: map[string]bool{"jo@example.com": true}}
	svc := newService(fake)

	result, err := svc.DispatchStatusChange(context.Background(), notifier.StatusChangeRequest{
		TicketCode: "GCX-GGGG-7777",
		Email:      "jo@example.com",
		NewStatus:  "escalated",
	})
	gt.Error(t, err)
	gt.False(t, result.Sent)
}

func TestStatusLabel(t *testing.T) {
	gt.Equal(t, notifier.StatusLabel("new"), "New — Under Review")
	gt.Equal(t, notifier.StatusLabel("in_progress"), "In Progress")
	gt.Equal(t, notifier.StatusLabel("escalated"), "Escalated")
	gt.Equal(t, notifier.StatusLabel("resolved"), "Resolved")
	gt.Equal(t, notifier.StatusLabel("closed"), "Closed")
	gt.Equal(t, notifier.StatusLabel("something_else"), "something_else")
}

func TestFormatIssueType(t *testing.T) {
	gt.Equal(t, notifier.FormatIssueType("social_media_threat"), "social media threat")
	gt.Equal(t, notifier.FormatIssueType("scam"), "scam")
}
