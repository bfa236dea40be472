package web

import (
	"context"
	"net/http"
	"time"

	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/screen"
	webembed "github.com/erazemk/ewaste/web"
)

// TicketStore remembers which claim tickets have been used.
type TicketStore interface {
	RevokeTicket(ctx context.Context, jti string, expiresAt time.Time) error
	IsTicketRevoked(ctx context.Context, jti string) (bool, error)
}

// Config holds the router's dependencies.
type Config struct {
	Controller   *controller.Controller
	Screen       *screen.Screen
	Tickets      TicketStore
	TicketSecret string

	// Metrics is served at /metrics when set.
	Metrics http.Handler
}

// Server holds all dependencies for page handlers.
type Server struct {
	Controller   *controller.Controller
	Screen       *screen.Screen
	Tickets      TicketStore
	TicketSecret string
	Templates    *Templates
}

// NewRouter creates the web page router with all page routes registered.
// Every action is a POST answered with a redirect to the page.
func NewRouter(cfg Config) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Controller:   cfg.Controller,
		Screen:       cfg.Screen,
		Tickets:      cfg.Tickets,
		TicketSecret: cfg.TicketSecret,
		Templates:    templates,
	}

	mux := http.NewServeMux()
	withTicket := TicketMiddleware(s.TicketSecret, s.Tickets, s.Controller.PendingClaim)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.Index)

	mux.HandleFunc("POST /search", s.Search)
	mux.HandleFunc("GET /find", s.Find)
	mux.HandleFunc("POST /nav/{view}", s.Navigate)

	mux.HandleFunc("POST /items/{id}/claim", s.ClaimRequest)
	mux.Handle("POST /claim/confirm", withTicket(http.HandlerFunc(s.ClaimConfirm)))
	mux.Handle("POST /claim/cancel", withTicket(http.HandlerFunc(s.ClaimCancel)))

	mux.HandleFunc("POST /post", s.PostOpen)
	mux.HandleFunc("POST /items", s.PostSubmit)

	mux.Handle("POST /dialog/confirmation/close", withTicket(http.HandlerFunc(s.ClaimCancel)))
	mux.HandleFunc("POST /dialog/{kind}/close", s.DialogClose)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return mux, nil
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
