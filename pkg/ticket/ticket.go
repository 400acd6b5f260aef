package ticket

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// Public ticket codes look like GCX-7F2K-9QZ3: fixed prefix plus two groups of
// four characters. The code is the only identifier reporters ever see.
const (
	Prefix = "GCX"

	// MaxGenerateAttempts bounds insert retries when a generated code collides
	// with the unique index on complaints.ticket_code.
	MaxGenerateAttempts = 5
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^` + Prefix + `-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Generate returns a new candidate ticket code. Uniqueness is not guaranteed
// here; the caller relies on the store's unique constraint and retries.
func Generate() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	chars := make([]byte, 8)
	for i, b := range buf {
		chars[i] = alphabet[int(b)%len(alphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", Prefix, chars[:4], chars[4:]), nil
}

// Normalize prepares user input for lookup: trims whitespace and uppercases.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether a normalized code matches the public ticket format.
func Valid(code string) bool {
	return codePattern.MatchString(code)
}
