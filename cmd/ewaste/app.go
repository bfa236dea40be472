package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/ewaste/internal/api"
	"github.com/erazemk/ewaste/internal/catalog"
	"github.com/erazemk/ewaste/internal/config"
	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/db"
	"github.com/erazemk/ewaste/internal/metrics"
	"github.com/erazemk/ewaste/internal/model"
	"github.com/erazemk/ewaste/internal/screen"
	"github.com/erazemk/ewaste/internal/store"
	"github.com/erazemk/ewaste/internal/web"
)

// app is one session: a volatile item store and the controller that drives it.
type app struct {
	db      *sql.DB
	store   *store.Store
	screen  *screen.Screen
	ctrl    *controller.Controller
	metrics *metrics.Metrics
}

// newApp builds the session described by cfg and renders its first frame.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	entries, err := catalog.Load(cfg.Catalog.Seed)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(db.Memory)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	st := store.New(database, store.Options{
		Profile: model.Profile{
			DisplayName: cfg.Profile.Name,
			AvatarRef:   cfg.Profile.Avatar,
		},
		DefaultImage: cfg.Catalog.DefaultImage,
	})
	if err := st.Seed(ctx, entries); err != nil {
		database.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}
	slog.Info("catalog loaded", "items", len(entries))

	m := metrics.New()
	if err := m.Track(ctx, st); err != nil {
		database.Close()
		return nil, err
	}

	scr := screen.New()
	ctrl := controller.New(st, scr, controller.Options{
		Recorder: m,
		Messages: messagesFrom(cfg),
		Tips:     cfg.Tips,
	})
	ctrl.Start(ctx)

	return &app{db: database, store: st, screen: scr, ctrl: ctrl, metrics: m}, nil
}

// apply pushes the reloadable parts of cfg to the controller.
func (a *app) apply(cfg config.Config) {
	a.ctrl.SetTips(cfg.Tips)
	a.ctrl.SetMessages(messagesFrom(cfg))
}

// handler combines the JSON API and the web pages. API routes take priority.
func (a *app) handler(ctx context.Context) (http.Handler, error) {
	secret, err := a.store.TicketSecret(ctx)
	if err != nil {
		return nil, err
	}

	webRouter, err := web.NewRouter(web.Config{
		Controller:   a.ctrl,
		Screen:       a.screen,
		Tickets:      a.store,
		TicketSecret: secret,
		Metrics:      a.metrics.Handler(),
	})
	if err != nil {
		return nil, fmt.Errorf("setting up web router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(a.store, a.screen))
	mux.Handle("/", webRouter)

	return a.metrics.InstrumentHandler(api.LoggingMiddleware(mux)), nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func messagesFrom(cfg config.Config) controller.Messages {
	return controller.Messages{
		Claimed: cfg.Messages.Claimed,
		Posted:  cfg.Messages.Posted,
	}
}
