package api

import (
	"net/http"

	"github.com/erazemk/ewaste/internal/model"
)

// SessionHandler exposes the acting user and what the session currently shows.
type SessionHandler struct {
	Store     Store
	Snapshots Snapshotter
}

type frameResponse struct {
	Items      []model.Item `json:"items"`
	Filter     string       `json:"filter"`
	View       string       `json:"view"`
	DimClaimed bool         `json:"dim_claimed"`
	Suggestion string       `json:"suggestion,omitempty"`
}

type dialogResponse struct {
	Kind    string   `json:"kind"`
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message,omitempty"`
	List    []string `json:"list,omitempty"`
	ItemID  int64    `json:"item_id,omitempty"`
}

type screenResponse struct {
	Profile model.Profile   `json:"profile"`
	Frame   frameResponse   `json:"frame"`
	Dialog  *dialogResponse `json:"dialog"`
	Version uint64          `json:"version"`
}

// Profile handles GET /api/profile.
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Store.Profile())
}

// Screen handles GET /api/screen.
func (h *SessionHandler) Screen(w http.ResponseWriter, r *http.Request) {
	snap := h.Snapshots.Snapshot()

	resp := screenResponse{
		Profile: snap.Profile,
		Frame: frameResponse{
			Items:      snap.Frame.Items,
			Filter:     snap.Frame.Filter,
			View:       string(snap.Frame.View),
			DimClaimed: snap.Frame.DimClaimed,
			Suggestion: snap.Frame.Suggestion,
		},
		Version: snap.Version,
	}
	if resp.Frame.Items == nil {
		resp.Frame.Items = []model.Item{}
	}
	if d := snap.Dialog; d != nil {
		resp.Dialog = &dialogResponse{
			Kind:    d.Kind.String(),
			Title:   d.Title,
			Message: d.Message,
			List:    d.List,
			ItemID:  d.ItemID,
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}
