package store

import (
	"database/sql"
	"slices"
	"sync"

	"github.com/erazemk/ewaste/internal/model"
)

// DefaultImage is the image reference given to posts that leave it empty.
const DefaultImage = "ElectricFan.jpg"

// Options configures a Store.
type Options struct {
	Profile      model.Profile
	DefaultImage string
}

// Store owns the item collection and the acting user's profile.
type Store struct {
	db           *sql.DB
	profile      model.Profile
	defaultImage string

	mu          sync.Mutex
	subscribers []func(Change)
}

// New creates a store over a migrated database.
func New(db *sql.DB, opts Options) *Store {
	if opts.Profile == (model.Profile{}) {
		opts.Profile = model.DefaultProfile
	}
	if opts.DefaultImage == "" {
		opts.DefaultImage = DefaultImage
	}
	return &Store{db: db, profile: opts.Profile, defaultImage: opts.DefaultImage}
}

// Profile returns the acting user's profile.
func (s *Store) Profile() model.Profile {
	return s.profile
}

// ChangeKind identifies a store mutation.
type ChangeKind int

// Change kinds.
const (
	ChangePosted ChangeKind = iota + 1
	ChangeClaimed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePosted:
		return "posted"
	case ChangeClaimed:
		return "claimed"
	default:
		return "unknown"
	}
}

// Change describes a committed mutation.
type Change struct {
	Kind ChangeKind
	Item model.Item
}

// Subscribe registers fn to be called after every committed mutation.
// Callbacks run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}
