package models

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	MaxFiles    = 5
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Submission carries the intake form fields before persistence.
type Submission struct {
	FullName       string
	UserIdentifier string
	Phone          string
	Email          string
	IssueType      string
	Description    string
	Consent        bool
}

// Validate enforces the intake field bounds. Returned errors are field-level
// messages safe to show the submitter.
func (s *Submission) Validate() error {
	s.FullName = strings.TrimSpace(s.FullName)
	s.UserIdentifier = strings.TrimSpace(s.UserIdentifier)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = strings.TrimSpace(s.Email)
	s.Description = strings.TrimSpace(s.Description)

	if s.FullName == "" {
		return errors.New("Full name is required")
	}
	if len(s.FullName) > 100 {
		return errors.New("Full name must be at most 100 characters")
	}
	if s.UserIdentifier == "" {
		return errors.New("Student ID / User ID is required")
	}
	if len(s.UserIdentifier) > 50 {
		return errors.New("Student ID / User ID must be at most 50 characters")
	}
	if len(s.Phone) > 20 {
		return errors.New("Phone must be at most 20 characters")
	}
	if s.Email != "" {
		if len(s.Email) > 255 {
			return errors.New("Email must be at most 255 characters")
		}
		if !emailRegex.MatchString(s.Email) {
			return errors.New("Invalid email format")
		}
	}
	if !ValidIssueType(s.IssueType) {
		return errors.New("Invalid issue type")
	}
	if len(s.Description) < 10 {
		return errors.New("Please describe the incident in at least 10 characters")
	}
	if len(s.Description) > 5000 {
		return errors.New("Description must be at most 5000 characters")
	}

	return nil
}

// UploadContentType resolves the MIME type of an uploaded part, falling back
// to the file extension when the part carries no Content-Type.
func UploadContentType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// ValidateUpload checks one attachment before any byte leaves the request:
// size cap and the fixed MIME allow-list (JPEG, PNG, WEBP, PDF).
func ValidateUpload(header *multipart.FileHeader) error {
	if header.Size > MaxFileSize {
		return fmt.Errorf("%s: File exceeds 10MB limit", header.Filename)
	}
	if !allowedMimeTypes[UploadContentType(header)] {
		return fmt.Errorf("%s: Unsupported file type", header.Filename)
	}
	return nil
}

// CapFiles silently truncates a selection to the first MaxFiles entries.
func CapFiles(files []*multipart.FileHeader) []*multipart.FileHeader {
	if len(files) > MaxFiles {
		return files[:MaxFiles]
	}
	return files
}
