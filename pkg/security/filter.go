package security

import (
	"errors"
	"strings"
	"unicode"
)

const (
	// MaxFilterLength defines the maximum allowed length for a search filter term
	MaxFilterLength = 100
)

// ValidateFilterTerm validates and trims a single search filter term before
// it is handed to the repository layer.
func ValidateFilterTerm(term string) (string, error) {
	if term == "" {
		return "", nil
	}

	if len(term) > MaxFilterLength {
		return "", errors.New("search filter too long")
	}

	term = strings.TrimSpace(term)

	for _, char := range term {
		if !isValidFilterChar(char) {
			return "", errors.New("search filter contains invalid characters")
		}
	}

	return term, nil
}

// isValidFilterChar checks if a character is safe for search filter terms
func isValidFilterChar(char rune) bool {
	// Allow letters, numbers, spaces, and common punctuation found in
	// titles and author names
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		char == ' ' || char == '-' || char == '_' || char == '.' ||
		char == '\'' || char == ',' || char == ':' || char == '&' ||
		char == '(' || char == ')' || char == '@' || char == '+'
}

// EscapeLike prepares a filter term for LIKE/ILIKE operations by escaping
// SQL wildcards so a literal % or _ in a title does not act as one.
func EscapeLike(term string) string {
	if term == "" {
		return ""
	}

	term = strings.ReplaceAll(term, "\\", "\\\\")
	term = strings.ReplaceAll(term, "%", "\\%")
	term = strings.ReplaceAll(term, "_", "\\_")

	return term
}
