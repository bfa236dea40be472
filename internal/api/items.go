package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/ewaste/internal/model"
)

// ItemsHandler handles item read endpoints.
type ItemsHandler struct {
	Store Store
}

// List handles GET /api/items. The optional q parameter filters like the search box.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.Query(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Store.Get(r.Context(), id)
	if err != nil {
		slog.Error("failed to get item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}
