package store

import (
	"context"
	"fmt"

	"github.com/erazemk/ewaste/internal/model"
)

// ListClaims returns the claim history, newest first.
func (s *Store) ListClaims(ctx context.Context) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.item_id, c.claimant, c.claimed_at, i.title AS item_title
		 FROM claims c
		 JOIN items i ON i.id = c.item_id
		 ORDER BY c.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		if err := rows.Scan(&c.ID, &c.ItemID, &c.Claimant, &c.ClaimedAt, &c.ItemTitle); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
