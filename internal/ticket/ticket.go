// Package ticket issues and checks the signed tokens that tie a claim
// confirmation form to the item it was shown for.
package ticket

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the ticket's JWT claims. The subject is the item ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Expiry is how long a confirmation form stays usable.
const Expiry = 15 * time.Minute

const issuer = "ewaste"

// ErrInvalid is returned for tickets that fail to parse or verify.
var ErrInvalid = errors.New("invalid ticket")

// ItemID returns the item the ticket was issued for.
func (c *Claims) ItemID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalid, c.Subject)
	}
	return id, nil
}

// Issue creates a ticket for itemID with a unique JTI.
func Issue(secret string, itemID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(itemID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing ticket: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a ticket, returning its claims.
func Validate(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalid
	}
	if _, err := claims.ItemID(); err != nil {
		return nil, err
	}

	return claims, nil
}
