package entity

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// NormalizeTitle trims a title and checks it against the length limits
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewValidationError("title", MsgTitleRequired)
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", NewValidationError("title", MsgTitleTooLong)
	}
	return trimmed, nil
}

// NormalizeDescription trims a description. Blank descriptions become nil.
func NormalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return nil, NewValidationError("description", MsgDescriptionTooLong)
	}
	return &trimmed, nil
}
