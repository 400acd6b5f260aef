package notifier

import (
	"fmt"
	"html"
	"strings"
)

var statusLabels = map[string]string{
	"new":         "New — Under Review",
	"in_progress": "In Progress",
	"escalated":   "Escalated",
	"resolved":    "Resolved",
	"closed":      "Closed",
}

// StatusLabel maps a status enum value to its human-readable label. Unknown
// values pass through unchanged so a new status never breaks the email copy.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func isTerminalStatus(status string) bool {
	return status == "resolved" || status == "closed"
}

func adminAlertSubject(req NewIncidentRequest) string {
	return fmt.Sprintf("[%s] New Incident: %s - %s",
		strings.ToUpper(req.Priority), req.TicketCode, FormatIssueType(req.IssueType))
}

func adminAlertBody(req NewIncidentRequest) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	b.WriteString(`<h2 style="color: #dc2626;">New Incident Report</h2>`)
	b.WriteString(`<table style="border-collapse: collapse; width: 100%;">`)
	writeRow(&b, "Ticket", req.TicketCode)
	writeRow(&b, "Reporter", req.FullName)
	writeRow(&b, "Issue Type", FormatIssueType(req.IssueType))
	writeRow(&b, "Priority", strings.ToUpper(req.Priority))
	if req.Email != "" {
		writeRow(&b, "Email", req.Email)
	}
	if req.Phone != "" {
		writeRow(&b, "Phone", req.Phone)
	}
	b.WriteString(`</table>`)
	if req.Description != "" {
		b.WriteString(`<h3>Description</h3>`)
		b.WriteString(fmt.Sprintf(`<p style="background: #f3f4f6; padding: 12px; border-radius: 6px;">%s</p>`, htmlEscape(req.Description)))
	}
	b.WriteString(`<p>Review this incident in the staff dashboard.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func reporterConfirmationBody(req NewIncidentRequest) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	b.WriteString(fmt.Sprintf(`<h2>Hi %s,</h2>`, htmlEscape(req.FullName)))
	b.WriteString(`<p>We have received your incident report and our team is reviewing it.</p>`)
	b.WriteString(fmt.Sprintf(
		`<p style="font-size: 20px; font-weight: bold; letter-spacing: 2px; background: #f3f4f6; padding: 12px; border-radius: 6px; text-align: center;">%s</p>`,
		req.TicketCode))
	b.WriteString(`<p>Keep this ticket code safe. You can use it to check the status of your report at any time.</p>`)
	b.WriteString(`<p>— Genxdual Cyber Incident Response Team</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func statusChangeBody(req StatusChangeRequest, label string) string {
	name := req.FullName
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	b.WriteString(fmt.Sprintf(`<h2>Hi %s,</h2>`, htmlEscape(name)))
	b.WriteString(fmt.Sprintf(`<p>The status of your incident report <strong>%s</strong> has been updated.</p>`, req.TicketCode))
	b.WriteString(fmt.Sprintf(
		`<p style="font-size: 18px; font-weight: bold; background: #f3f4f6; padding: 12px; border-radius: 6px; text-align: center;">%s</p>`,
		htmlEscape(label)))
	if isTerminalStatus(req.NewStatus) {
		b.WriteString(`<p>Your case has been concluded. Thank you for reporting — if you have further concerns, you are welcome to submit a new report.</p>`)
	} else {
		b.WriteString(`<p>Our team is working on your case. We will notify you again when there is further progress.</p>`)
	}
	b.WriteString(`<p>— Genxdual Cyber Incident Response Team</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func writeRow(b *strings.Builder, key, value string) {
	b.WriteString(fmt.Sprintf(
		`<tr><td style="padding: 6px; border: 1px solid #e5e7eb; font-weight: bold;">%s</td><td style="padding: 6px; border: 1px solid #e5e7eb;">%s</td></tr>`,
		key, htmlEscape(value)))
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
