package api

import (
	"context"
	"net/http"

	"github.com/erazemk/ewaste/internal/model"
	"github.com/erazemk/ewaste/internal/screen"
)

// Store is the read side of the item store.
type Store interface {
	Query(ctx context.Context, term string) ([]model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	ListClaims(ctx context.Context) ([]model.Claim, error)
	Profile() model.Profile
}

// Snapshotter returns what the session currently shows.
type Snapshotter interface {
	Snapshot() screen.Snapshot
}

// NewRouter creates the API router with all endpoints registered.
// The API is read-only; all mutations go through the controller.
func NewRouter(st Store, scr Snapshotter) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Store: st}
	claimsHandler := &ClaimsHandler{Store: st}
	sessionHandler := &SessionHandler{Store: st, Snapshots: scr}

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/claims", claimsHandler.List)
	mux.HandleFunc("GET /api/profile", sessionHandler.Profile)
	mux.HandleFunc("GET /api/screen", sessionHandler.Screen)

	return mux
}
