package model

import (
	"strings"
	"time"
)

// Item is a single donation listing.
type Item struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Claimed     bool       `json:"claimed"`
	CreatedAt   time.Time  `json:"created_at"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
}

// Matches reports whether the title or description contains term, ignoring case.
// An empty term matches every item.
func (i Item) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(i.Title), term) ||
		strings.Contains(strings.ToLower(i.Description), term)
}

// ValidateSubmission checks a post-item form and returns the trimmed title and
// description. Either field being blank yields ErrInvalidSubmission.
func ValidateSubmission(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return "", "", ErrInvalidSubmission
	}
	return title, description, nil
}
