package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/ewaste/internal/db"
	"github.com/erazemk/ewaste/internal/model"
)

func TestListClaimsNewestFirst(t *testing.T) {
	s := New(db.NewTestDB(t), Options{Profile: model.Profile{DisplayName: "Ana"}})
	ctx := context.Background()

	radio, _ := s.Post(ctx, "Radio", "AM/FM", "")
	kettle, _ := s.Post(ctx, "Kettle", "Boils", "")

	_, err := s.Claim(ctx, radio.ID)
	require.NoError(t, err)
	_, err = s.Claim(ctx, kettle.ID)
	require.NoError(t, err)

	claims, err := s.ListClaims(ctx)
	require.NoError(t, err)
	require.Len(t, claims, 2)

	assert.Equal(t, kettle.ID, claims[0].ItemID)
	assert.Equal(t, "Kettle", claims[0].ItemTitle)
	assert.Equal(t, "Ana", claims[0].Claimant)
	assert.Equal(t, "Radio", claims[1].ItemTitle)
}

func TestListClaimsEmpty(t *testing.T) {
	s := newTestStore(t)

	claims, err := s.ListClaims(context.Background())
	require.NoError(t, err)
	assert.Empty(t, claims)
}
