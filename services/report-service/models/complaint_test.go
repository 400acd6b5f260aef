package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"cyber-incident-desk/services/report-service/models"

	"github.com/m-mizutani/gt"
)

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		issueType string
		want      string
	}{
		{models.IssueScam, models.PriorityHigh},
		{models.IssuePhishing, models.PriorityHigh},
		{models.IssueOnlineFraud, models.PriorityHigh},
		{models.IssueHackingAttempt, models.PriorityMedium},
		{models.IssueMalware, models.PriorityLow},
		{models.IssueSocialMediaThreat, models.PriorityLow},
		{models.IssueOther, models.PriorityLow},
	}

	for _, tc := range cases {
		t.Run(tc.issueType, func(t *testing.T) {
			gt.Equal(t, models.PriorityFor(tc.issueType), tc.want)
		})
	}
}

func TestValidEnums(t *testing.T) {
	gt.True(t, models.ValidIssueType("phishing"))
	gt.False(t, models.ValidIssueType("ransomware"))
	gt.False(t, models.ValidIssueType(""))

	gt.True(t, models.ValidStatus("in_progress"))
	gt.False(t, models.ValidStatus("pending"))

	gt.True(t, models.ValidPriority("medium"))
	gt.False(t, models.ValidPriority("urgent"))
}

func TestPublicViewOmitsReporterFields(t *testing.T) {
	c := models.Complaint{
		ID:             "0c7a6a67-2f3b-4f9f-9e2f-5a01ce3a6f10",
		TicketCode:     "GCX-0001-AAAA",
		FullName:       "Jamie Reporter",
		UserIdentifier: "encrypted-blob",
		Phone:          "+1555000000",
		Email:          "jamie@example.edu",
		IssueType:      models.IssuePhishing,
		Priority:       models.PriorityHigh,
		Status:         models.StatusNew,
		Description:    "I clicked a link in a suspicious email",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	data, err := json.Marshal(c.Public())
	gt.NoError(t, err)

	var fields map[string]interface{}
	gt.NoError(t, json.Unmarshal(data, &fields))

	gt.Equal(t, len(fields), 5)
	for _, forbidden := range []string{"full_name", "phone", "email", "user_identifier", "description", "id"} {
		_, present := fields[forbidden]
		gt.False(t, present)
	}
	gt.Equal(t, fields["ticket_code"], "GCX-0001-AAAA")
	gt.Equal(t, fields["status"], "new")
	gt.Equal(t, fields["issue_type"], "phishing")
}

func validSubmission() models.Submission {
	return models.Submission{
		FullName:       "Jamie Reporter",
		UserIdentifier: "STU-2024-1187",
		Phone:          "+15550001111",
		Email:          "jamie@example.edu",
		IssueType:      models.IssuePhishing,
		Description:    "Received an email asking for my campus password.",
		Consent:        true,
	}
}

func TestSubmissionValidateOK(t *testing.T) {
	s := validSubmission()
	gt.NoError(t, s.Validate())

	// Optional fields may be empty.
	s = validSubmission()
	s.Phone = ""
	s.Email = ""
	gt.NoError(t, s.Validate())
}

func TestSubmissionValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.Submission)
	}{
		{"empty name", func(s *models.Submission) { s.FullName = "   " }},
		{"name too long", func(s *models.Submission) { s.FullName = strings.Repeat("a", 101) }},
		{"empty identifier", func(s *models.Submission) { s.UserIdentifier = "" }},
		{"identifier too long", func(s *models.Submission) { s.UserIdentifier = strings.Repeat("x", 51) }},
		{"phone too long", func(s *models.Submission) { s.Phone = strings.Repeat("1", 21) }},
		{"bad email", func(s *models.Submission) { s.Email = "not-an-email" }},
		{"email too long", func(s *models.Submission) { s.Email = strings.Repeat("a", 250) + "@example.com" }},
		{"unknown issue type", func(s *models.Submission) { s.IssueType = "ransomware" }},
		{"description too short", func(s *models.Submission) { s.Description = "too short" }},
		{"description too long", func(s *models.Submission) { s.Description = strings.Repeat("d", 5001) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubmission()
			tc.mutate(&s)
			gt.Error(t, s.Validate())
		})
	}
}

func TestSubmissionValidateTrims(t *testing.T) {
	s := validSubmission()
	s.FullName = "  Jamie Reporter  "
	s.UserIdentifier = " STU-2024-1187 "
	gt.NoError(t, s.Validate())
	gt.Equal(t, s.FullName, "Jamie Reporter")
	gt.Equal(t, s.UserIdentifier, "STU-2024-1187")
}
