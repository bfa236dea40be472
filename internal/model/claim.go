package model

import "time"

// Claim records an item being committed to a claimant.
type Claim struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Claimant  string    `json:"claimant"`
	ClaimedAt time.Time `json:"claimed_at"`

	// Joined fields (not always populated).
	ItemTitle string `json:"item_title,omitempty"`
}
