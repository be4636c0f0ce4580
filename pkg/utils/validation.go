package utils

import (
	"regexp"
	"strings"

	"github.com/msrishav-28/penpal/pkg/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	isbnRegex     = regexp.MustCompile(`^(97[89])?\d{9}[\dXx]$`)
)

// ValidateUsername checks if username meets account requirements
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateBookTitle validates a book title
func ValidateBookTitle(title string) error {
	if len(strings.TrimSpace(title)) < 1 {
		return models.ErrInvalidInput
	}
	if len(title) > 500 {
		return models.ErrInvalidInput
	}
	return nil
}

// NormalizeISBN strips separators and validates the result.
// Returns "" for inputs that are not ISBN-10 or ISBN-13.
func NormalizeISBN(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '"', '=':
			return -1
		}
		return r
	}, raw)
	if cleaned == "" || !isbnRegex.MatchString(cleaned) {
		return ""
	}
	return strings.ToUpper(cleaned)
}
