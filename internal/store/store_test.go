package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/ewaste/internal/catalog"
	"github.com/erazemk/ewaste/internal/db"
	"github.com/erazemk/ewaste/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(db.NewTestDB(t), Options{})
}

// newSeededStore returns a store holding the built-in catalog.
func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	entries, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, s.Seed(context.Background(), entries))
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newTestStore(t)
	require.Equal(t, model.DefaultProfile, s.Profile())
	require.Equal(t, DefaultImage, s.defaultImage)

	custom := New(db.NewTestDB(t), Options{
		Profile:      model.Profile{DisplayName: "Ana", AvatarRef: "ana.png"},
		DefaultImage: "placeholder.png",
	})
	require.Equal(t, "Ana", custom.Profile().DisplayName)
	require.Equal(t, "placeholder.png", custom.defaultImage)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })

	item, err := s.Post(ctx, "Toaster", "Works fine", "")
	require.NoError(t, err)
	_, err = s.Claim(ctx, item.ID)
	require.NoError(t, err)

	// Rejected operations are not announced.
	_, err = s.Claim(ctx, item.ID)
	require.ErrorIs(t, err, model.ErrAlreadyClaimed)
	_, err = s.Post(ctx, "", "desc", "")
	require.ErrorIs(t, err, model.ErrInvalidSubmission)

	require.Len(t, got, 2)
	require.Equal(t, ChangePosted, got[0].Kind)
	require.Equal(t, "Toaster", got[0].Item.Title)
	require.Equal(t, ChangeClaimed, got[1].Kind)
	require.True(t, got[1].Item.Claimed)
	require.Equal(t, "claimed", got[1].Kind.String())
}
