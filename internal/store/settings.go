package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TicketSecret returns the key claim tickets are signed with. The first call
// generates and stores it; later calls return the stored value.
// Uses INSERT OR IGNORE + re-SELECT so concurrent first calls agree.
func (s *Store) TicketSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating ticket secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('ticket_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing ticket_secret: %w", err)
	}

	var secret string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'ticket_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying ticket_secret: %w", err)
	}

	return secret, nil
}
