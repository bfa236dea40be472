// Package screen keeps the latest presentation state so that request-driven
// and event-driven front ends can draw from it.
package screen

import (
	"slices"
	"sync"

	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/model"
)

// Snapshot is a copy of everything currently on screen.
type Snapshot struct {
	Profile model.Profile
	Frame   controller.Frame
	Dialog  *controller.Dialog

	// Version increases with every presenter call.
	Version uint64
}

// Screen implements controller.Presenter by recording what it is told.
type Screen struct {
	mu      sync.RWMutex
	profile model.Profile
	frame   controller.Frame
	dialog  *controller.Dialog
	version uint64
}

// New returns an empty screen.
func New() *Screen {
	return &Screen{}
}

// RenderProfile records the user profile.
func (s *Screen) RenderProfile(p model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.version++
}

// Render replaces the visible item list.
func (s *Screen) Render(f controller.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = cloneFrame(f)
	s.version++
}

// ShowDialog opens d, replacing any open dialog.
func (s *Screen) ShowDialog(d controller.Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.List = slices.Clone(d.List)
	s.dialog = &d
	s.version++
}

// DismissDialog closes the open dialog if it is of the given kind.
func (s *Screen) DismissDialog(kind controller.DialogKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog != nil && s.dialog.Kind == kind {
		s.dialog = nil
		s.version++
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Screen) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Profile: s.profile,
		Frame:   cloneFrame(s.frame),
		Version: s.version,
	}
	if s.dialog != nil {
		d := *s.dialog
		d.List = slices.Clone(d.List)
		snap.Dialog = &d
	}
	return snap
}

// DialogOpen reports whether a dialog of the given kind is showing.
func (s Snapshot) DialogOpen(kind controller.DialogKind) bool {
	return s.Dialog != nil && s.Dialog.Kind == kind
}

func cloneFrame(f controller.Frame) controller.Frame {
	f.Items = slices.Clone(f.Items)
	for i := range f.Items {
		if t := f.Items[i].ClaimedAt; t != nil {
			c := *t
			f.Items[i].ClaimedAt = &c
		}
	}
	return f
}
