// Package view holds the transient browsing state of one session: the active
// search filter and the item awaiting claim confirmation.
package view

import (
	"context"
	"strings"

	"github.com/erazemk/ewaste/internal/model"
)

// Items is the part of the item store the view state validates against.
type Items interface {
	Get(ctx context.Context, id int64) (*model.Item, error)
	Claim(ctx context.Context, id int64) (*model.Item, error)
}

// State is not safe for concurrent use; the controller serializes access.
type State struct {
	items Items

	filter     string
	pending    int64
	hasPending bool
}

// New returns an empty state with no filter and no pending claim.
func New(items Items) *State {
	return &State{items: items}
}

// SetFilter stores term trimmed and lowercased.
func (s *State) SetFilter(term string) {
	s.filter = strings.ToLower(strings.TrimSpace(term))
}

// Filter returns the active search term. Empty means no filtering.
func (s *State) Filter() string {
	return s.filter
}

// Pending returns the item awaiting confirmation, if any.
func (s *State) Pending() (int64, bool) {
	return s.pending, s.hasPending
}

// BeginClaim marks id as awaiting confirmation. The target must exist and be
// unclaimed right now; otherwise the pending claim is left as it was.
func (s *State) BeginClaim(ctx context.Context, id int64) error {
	if _, err := s.check(ctx, id); err != nil {
		return err
	}
	s.pending, s.hasPending = id, true
	return nil
}

// CancelClaim drops any pending claim.
func (s *State) CancelClaim() {
	s.pending, s.hasPending = 0, false
}

// ResolveClaim commits the pending claim. The target is checked again because
// the store may have changed since BeginClaim. The pending claim is cleared
// whatever the outcome.
func (s *State) ResolveClaim(ctx context.Context) (*model.Item, error) {
	id, ok := s.Pending()
	if !ok {
		return nil, model.ErrNoPendingClaim
	}
	defer s.CancelClaim()

	if _, err := s.check(ctx, id); err != nil {
		return nil, err
	}
	return s.items.Claim(ctx, id)
}

func (s *State) check(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrNotFound
	}
	if item.Claimed {
		return nil, model.ErrAlreadyClaimed
	}
	return item, nil
}
