package model

import (
	"errors"
	"testing"
)

func TestItemMatches(t *testing.T) {
	fan := Item{Title: "Electric Fan", Description: "Working condition, just upgraded."}

	tests := []struct {
		term     string
		expected bool
	}{
		{"", true},
		{"fan", true},
		{"FAN", true},
		{"electric f", true},
		{"upgraded", true},
		{"Working", true},
		{"speaker", false},
		{"fan!", false},
	}

	for _, tt := range tests {
		got := fan.Matches(tt.term)
		if got != tt.expected {
			t.Errorf("Matches(%q) = %v, want %v", tt.term, got, tt.expected)
		}
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		title       string
		description string
		wantErr     bool
	}{
		{"", "", true},
		{"", "desc", true},
		{"title", "", true},
		{"   ", "desc", true},
		{"title", "\t\n", true},
		{"Toaster", "Works fine", false},
		{"  Toaster ", " Works fine  ", false},
	}

	for _, tt := range tests {
		title, desc, err := ValidateSubmission(tt.title, tt.description)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSubmission(%q, %q) error = %v, wantErr %v", tt.title, tt.description, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidSubmission) {
			t.Errorf("ValidateSubmission(%q, %q) error = %v, want ErrInvalidSubmission", tt.title, tt.description, err)
		}
		if err == nil && (title != "Toaster" || desc != "Works fine") {
			t.Errorf("ValidateSubmission(%q, %q) = %q, %q, want trimmed values", tt.title, tt.description, title, desc)
		}
	}
}
