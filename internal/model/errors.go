package model

import "errors"

var (
	// ErrAlreadyClaimed is returned when claiming an item that is already claimed.
	ErrAlreadyClaimed = errors.New("item already claimed")
	// ErrNotFound is returned when an item reference no longer resolves.
	ErrNotFound = errors.New("item not found")
	// ErrNoPendingClaim is returned when confirming with no claim in progress.
	ErrNoPendingClaim = errors.New("no pending claim")
	// ErrInvalidSubmission is returned for a post with an empty title or description.
	ErrInvalidSubmission = errors.New("title and description required")
)
