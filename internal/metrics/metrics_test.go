package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/ewaste/internal/catalog"
	"github.com/erazemk/ewaste/internal/db"
	"github.com/erazemk/ewaste/internal/store"
)

func TestActionCounter(t *testing.T) {
	m := New()

	m.Action("claim_confirm", "ok")
	m.Action("claim_confirm", "ok")
	m.Action("post", "rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("claim_confirm", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("post", "rejected")))
}

func TestTrackFollowsStore(t *testing.T) {
	ctx := context.Background()
	s := store.New(db.NewTestDB(t), store.Options{})
	entries, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, entries))

	m := New()
	require.NoError(t, m.Track(ctx, s))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.items))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.claimedItems))

	item, err := s.Post(ctx, "Toaster", "Works fine", "")
	require.NoError(t, err)
	_, err = s.Claim(ctx, item.ID)
	require.NoError(t, err)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.items))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.claimedItems))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Action("search", "ok")

	h := m.InstrumentHandler(m.Handler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `ewaste_actions_total{action="search",result="ok"} 1`))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("get", "200")))
}
