package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/erazemk/ewaste/internal/ticket"
)

type webContextKey string

const ticketClaimsKey webContextKey = "ticket"

// TicketMiddleware checks the claim ticket posted with a confirmation form.
// The ticket must verify, must not have been used, and must name the item
// currently awaiting confirmation. Accepted tickets are revoked before the
// handler runs so they cannot be replayed. Stale tickets redirect to the page.
func TicketMiddleware(secret string, tickets TicketStore, pending func() (int64, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ticket.Validate(secret, r.FormValue("ticket"))
			if err != nil {
				slog.Warn("rejected claim ticket", "error", err)
				http.Error(w, "invalid ticket", http.StatusBadRequest)
				return
			}

			revoked, err := tickets.IsTicketRevoked(r.Context(), claims.ID)
			if err != nil {
				slog.Error("failed to check ticket revocation", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if revoked {
				slog.Warn("claim ticket replayed", "jti", claims.ID)
				redirectHome(w, r)
				return
			}

			if err := tickets.RevokeTicket(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke ticket", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			itemID, _ := claims.ItemID()
			if id, ok := pending(); !ok || id != itemID {
				slog.Warn("stale claim ticket", "item", itemID, "pending", id)
				redirectHome(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ticketClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTicketClaims retrieves the accepted claim ticket from the request context.
func GetTicketClaims(ctx context.Context) *ticket.Claims {
	claims, _ := ctx.Value(ticketClaimsKey).(*ticket.Claims)
	return claims
}
