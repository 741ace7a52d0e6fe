package dialog

import (
	"strings"
	"unicode/utf8"

	apperrors "ledgerbot/internal/errors"
)

const (
	minNameLength        = 2
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// ValidateName trims raw and checks it is between 2 and 100 characters.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		return "", apperrors.ErrInvalidName
	}
	return name, nil
}

// ParseDescription interprets a free-text note. Empty input, "skip" and "-"
// mean no description.
func ParseDescription(raw string) (*string, error) {
	text := strings.TrimSpace(raw)
	switch strings.ToLower(text) {
	case "", "skip", "-":
		return nil, nil
	}
	if utf8.RuneCountInString(text) > maxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}
	return &text, nil
}
