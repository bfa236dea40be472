package store

import (
	"context"
	"fmt"
	"time"
)

// RevokeTicket marks a claim ticket's JTI as used.
func (s *Store) RevokeTicket(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tickets (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoking ticket: %w", err)
	}

	// Opportunistically clean up expired revocations.
	_, _ = s.db.ExecContext(ctx,
		`DELETE FROM revoked_tickets WHERE expires_at < ?`, time.Now(),
	)

	return nil
}

// IsTicketRevoked checks if a ticket's JTI has already been used.
func (s *Store) IsTicketRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tickets WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking ticket revocation: %w", err)
	}
	return count > 0, nil
}
