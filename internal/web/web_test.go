package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/ewaste/internal/catalog"
	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/db"
	"github.com/erazemk/ewaste/internal/metrics"
	"github.com/erazemk/ewaste/internal/screen"
	"github.com/erazemk/ewaste/internal/store"
	"github.com/erazemk/ewaste/internal/ticket"
)

const testTicketSecret = "test-secret"

type testEnv struct {
	db     *sql.DB
	server *httptest.Server
	client *http.Client
	store  *store.Store
	ctrl   *controller.Controller
	screen *screen.Screen
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	database := db.NewTestDB(t)
	st := store.New(database, store.Options{})
	entries, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, st.Seed(ctx, entries))

	m := metrics.New()
	scr := screen.New()
	ctrl := controller.New(st, scr, controller.Options{Recorder: m})
	ctrl.Start(ctx)

	router, err := NewRouter(Config{
		Controller:   ctrl,
		Screen:       scr,
		Tickets:      st,
		TicketSecret: testTicketSecret,
		Metrics:      m.Handler(),
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{db: database, server: server, client: client, store: st, ctrl: ctrl, screen: scr}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusSeeOther {
		assert.Equal(t, "/", resp.Header.Get("Location"))
	}
	return resp.StatusCode, string(body)
}

func (e *testEnv) itemID(t *testing.T, title string) int64 {
	t.Helper()
	all, err := e.store.ListAll(context.Background())
	require.NoError(t, err)
	for _, item := range all {
		if item.Title == title {
			return item.ID
		}
	}
	t.Fatalf("no item titled %q", title)
	return 0
}

func (e *testEnv) claimed(t *testing.T, title string) bool {
	t.Helper()
	item, err := e.store.Get(context.Background(), e.itemID(t, title))
	require.NoError(t, err)
	return item.Claimed
}

var ticketPattern = regexp.MustCompile(`name="ticket" value="([^"]+)"`)

// requestClaim asks to claim title and returns the ticket from the page.
func (e *testEnv) requestClaim(t *testing.T, title string) string {
	t.Helper()
	code, _ := e.post(t, "/items/"+strconv.FormatInt(e.itemID(t, title), 10)+"/claim", nil)
	require.Equal(t, http.StatusSeeOther, code)

	_, body := e.get(t, "/")
	m := ticketPattern.FindStringSubmatch(body)
	require.NotNil(t, m, "confirmation dialog has no ticket")
	return m[1]
}

func TestIndexPage(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.get(t, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Hello, User")
	assert.Contains(t, body, "DefaultPfp.jpg")
	for _, title := range []string{"Electric Fan", "Smartphone", "Printer", "Bluetooth Speaker"} {
		assert.Contains(t, body, title)
	}
	assert.Equal(t, 4, strings.Count(body, "Claim Item"))
	assert.NotContains(t, body, "ew-modal")
}

func TestStaticAssets(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.get(t, "/static/app.js")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Search for an item:")

	code, _ = env.get(t, "/static/style.css")
	assert.Equal(t, http.StatusOK, code)
}

func TestSearch(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.post(t, "/search", url.Values{"q": {"Speaker"}})
	require.Equal(t, http.StatusSeeOther, code)

	_, body := env.get(t, "/")
	assert.Contains(t, body, "Bluetooth Speaker")
	assert.NotContains(t, body, "Electric Fan")
	assert.Contains(t, body, `value="speaker"`)
}

func TestSearchSuggestion(t *testing.T) {
	env := setupTestServer(t)

	env.post(t, "/search", url.Values{"q": {"printr"}})

	_, body := env.get(t, "/")
	assert.Contains(t, body, "No items found.")
	assert.Contains(t, body, "Did you mean")
	assert.Contains(t, body, "Printer")
}

func TestFindShortcut(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.get(t, "/find?q=Fan")
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "fan", env.ctrl.Filter())

	// A cancelled prompt keeps the filter.
	env.get(t, "/find")
	assert.Equal(t, "fan", env.ctrl.Filter())

	env.get(t, "/find?q=")
	assert.Equal(t, "", env.ctrl.Filter())
}

func TestClaimFlow(t *testing.T) {
	env := setupTestServer(t)

	tok := env.requestClaim(t, "Electric Fan")
	_, body := env.get(t, "/")
	assert.Contains(t, body, "Do you want to claim &#34;Electric Fan&#34;?")

	code, _ := env.post(t, "/claim/confirm", url.Values{"ticket": {tok}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.True(t, env.claimed(t, "Electric Fan"))

	_, body = env.get(t, "/")
	assert.Contains(t, body, "Item claimed! The owner will contact you soon.")
	assert.Contains(t, body, "disabled>Claimed</button>")

	code, _ = env.post(t, "/dialog/notification/close", nil)
	require.Equal(t, http.StatusSeeOther, code)
	_, body = env.get(t, "/")
	assert.NotContains(t, body, "ew-modal")
}

func TestClaimCancel(t *testing.T) {
	env := setupTestServer(t)

	tok := env.requestClaim(t, "Printer")
	code, _ := env.post(t, "/claim/cancel", url.Values{"ticket": {tok}})
	require.Equal(t, http.StatusSeeOther, code)

	assert.False(t, env.claimed(t, "Printer"))
	_, pending := env.ctrl.PendingClaim()
	assert.False(t, pending)

	_, body := env.get(t, "/")
	assert.NotContains(t, body, "ew-modal")
}

func TestConfirmationCloseButton(t *testing.T) {
	env := setupTestServer(t)

	tok := env.requestClaim(t, "Printer")
	code, _ := env.post(t, "/dialog/confirmation/close", url.Values{"ticket": {tok}})
	require.Equal(t, http.StatusSeeOther, code)
	_, pending := env.ctrl.PendingClaim()
	assert.False(t, pending)

	// Without a ticket the confirmation cannot be closed.
	env.requestClaim(t, "Printer")
	code, _ = env.post(t, "/dialog/confirmation/close", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestClaimTicketReplay(t *testing.T) {
	env := setupTestServer(t)

	first := env.requestClaim(t, "Electric Fan")
	env.post(t, "/claim/confirm", url.Values{"ticket": {first}})
	require.True(t, env.claimed(t, "Electric Fan"))

	env.requestClaim(t, "Smartphone")

	// Reusing the first ticket must not confirm the new claim.
	code, _ := env.post(t, "/claim/confirm", url.Values{"ticket": {first}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.False(t, env.claimed(t, "Smartphone"))

	id, pending := env.ctrl.PendingClaim()
	assert.True(t, pending)
	assert.Equal(t, env.itemID(t, "Smartphone"), id)
}

func TestStaleTicket(t *testing.T) {
	env := setupTestServer(t)

	stale := env.requestClaim(t, "Electric Fan")
	env.requestClaim(t, "Smartphone")

	code, _ := env.post(t, "/claim/confirm", url.Values{"ticket": {stale}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.False(t, env.claimed(t, "Electric Fan"))
	assert.False(t, env.claimed(t, "Smartphone"))
}

func TestInvalidTicket(t *testing.T) {
	env := setupTestServer(t)
	env.requestClaim(t, "Electric Fan")

	code, _ := env.post(t, "/claim/confirm", url.Values{"ticket": {"forged"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.claimed(t, "Electric Fan"))
}

func TestClaimRequestInvalidID(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.post(t, "/items/fan/claim", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.post(t, "/items/9999/claim", nil)
	assert.Equal(t, http.StatusSeeOther, code)
	_, body := env.get(t, "/")
	assert.NotContains(t, body, "ew-modal")
}

func TestPostFlow(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.post(t, "/post", nil)
	require.Equal(t, http.StatusSeeOther, code)
	_, body := env.get(t, "/")
	assert.Contains(t, body, `id="postItemForm"`)

	code, _ = env.post(t, "/items", url.Values{
		"title": {"Toaster"},
		"desc":  {"Works fine"},
		"image": {"img.jpg"},
	})
	require.Equal(t, http.StatusSeeOther, code)

	all, _ := env.store.ListAll(context.Background())
	require.Len(t, all, 5)
	assert.Equal(t, "Toaster", all[0].Title)

	_, body = env.get(t, "/")
	assert.Contains(t, body, "Your item has been posted!")
	assert.NotContains(t, body, `id="postItemForm"`)
	assert.Less(t, strings.Index(body, "Toaster"), strings.Index(body, "Electric Fan"))
}

func TestPostRejected(t *testing.T) {
	env := setupTestServer(t)

	env.post(t, "/post", nil)
	code, body := env.post(t, "/items", url.Values{
		"title": {"Toaster"},
		"desc":  {"   "},
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, `id="postItemForm"`)
	assert.Contains(t, body, `value="Toaster"`)
	assert.Contains(t, body, "Title and description are required.")

	all, _ := env.store.ListAll(context.Background())
	assert.Len(t, all, 4)
}

func TestNavigation(t *testing.T) {
	env := setupTestServer(t)

	tok := env.requestClaim(t, "Printer")
	env.post(t, "/claim/confirm", url.Values{"ticket": {tok}})
	env.post(t, "/dialog/notification/close", nil)

	env.post(t, "/nav/my-items", nil)
	_, body := env.get(t, "/")
	assert.Equal(t, 1, strings.Count(body, "ew-item-card dimmed"))

	env.post(t, "/nav/tips", nil)
	_, body = env.get(t, "/")
	assert.Contains(t, body, "E-Waste Tips:")
	assert.Contains(t, body, "Wipe personal data before giving away devices.")

	env.post(t, "/search", url.Values{"q": {"fan"}})
	env.post(t, "/nav/home", nil)
	assert.Equal(t, "", env.ctrl.Filter())

	code, _ := env.post(t, "/nav/settings", nil)
	assert.Equal(t, http.StatusSeeOther, code)
}

func TestDialogCloseUnknownKind(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.post(t, "/dialog/modal/close", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestServer(t)
	env.post(t, "/search", url.Values{"q": {"fan"}})

	code, body := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `ewaste_actions_total{action="search",result="ok"} 1`)
}

func TestPostStoreFailure(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.post(t, "/post", nil)
	require.Equal(t, http.StatusSeeOther, code)
	require.NoError(t, env.db.Close())

	code, body := env.post(t, "/items", url.Values{
		"title": {"Toaster"}, "desc": {"Works fine"},
	})
	require.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "Could not post the item. Please try again.")
	assert.NotContains(t, body, "Title and description are required.")
	assert.Contains(t, body, `value="Toaster"`)
}

// A confirmation that opened after the ticket was checked must not be
// claimed with that ticket.
func TestConfirmClaimsOnlyTicketItem(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	printer := env.itemID(t, "Printer")
	phone := env.itemID(t, "Smartphone")

	tok, err := ticket.Issue(testTicketSecret, printer)
	require.NoError(t, err)
	claims, err := ticket.Validate(testTicketSecret, tok)
	require.NoError(t, err)

	env.ctrl.OnClaimRequested(ctx, phone)

	srv := &Server{Controller: env.ctrl, Screen: env.screen}
	req := httptest.NewRequest(http.MethodPost, "/claim/confirm", nil)
	req = req.WithContext(context.WithValue(req.Context(), ticketClaimsKey, claims))
	rec := httptest.NewRecorder()
	srv.ClaimConfirm(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, env.claimed(t, "Smartphone"))
	assert.False(t, env.claimed(t, "Printer"))
	pending, ok := env.ctrl.PendingClaim()
	assert.True(t, ok)
	assert.Equal(t, phone, pending)

	rec = httptest.NewRecorder()
	srv.ClaimCancel(rec, req)
	_, ok = env.ctrl.PendingClaim()
	assert.True(t, ok, "cancel for another item must keep the newer confirmation")
}
