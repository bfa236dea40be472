package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/ewaste/internal/model"
)

// ClaimsHandler serves the claim history.
type ClaimsHandler struct {
	Store Store
}

// List handles GET /api/claims.
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Store.ListClaims(r.Context())
	if err != nil {
		slog.Error("failed to list claims", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, claims)
}
