// Package controller routes user actions to the item store and view state and
// tells a Presenter what to show afterwards.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/erazemk/ewaste/internal/model"
	"github.com/erazemk/ewaste/internal/view"
)

// Store is the item store as seen by the controller.
type Store interface {
	view.Items
	ListAll(ctx context.Context) ([]model.Item, error)
	Query(ctx context.Context, term string) ([]model.Item, error)
	Post(ctx context.Context, title, description, image string) (*model.Item, error)
	Suggest(ctx context.Context, term string) (string, error)
	Profile() model.Profile
}

// Recorder counts handled actions by outcome.
type Recorder interface {
	Action(action, result string)
}

// Action outcomes passed to a Recorder.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultIgnored  = "ignored"
	ResultError    = "error"
)

type nopRecorder struct{}

func (nopRecorder) Action(string, string) {}

// Messages are the notification texts shown after successful actions.
type Messages struct {
	Claimed   string
	Posted    string
	TipsTitle string
}

// DefaultMessages are used for any Messages field left empty.
var DefaultMessages = Messages{
	Claimed:   "Item claimed! The owner will contact you soon.",
	Posted:    "Your item has been posted!",
	TipsTitle: "E-Waste Tips:",
}

// DefaultTips is shown by the Tips view when none are configured.
var DefaultTips = []string{
	"Donate usable electronics!",
	"Recycle e-waste at certified centers.",
	"Wipe personal data before giving away devices.",
}

// Options configures a Controller.
type Options struct {
	Recorder Recorder
	Messages Messages
	Tips     []string
}

// Controller handles one browsing session. Handlers are serialized: each runs
// to completion, presenter calls included, before the next one starts.
type Controller struct {
	mu sync.Mutex

	store     Store
	state     *view.State
	presenter Presenter
	recorder  Recorder

	messages Messages
	tips     []string

	view ViewName
	open DialogKind
}

// New creates a controller with an empty filter and no open dialog.
func New(store Store, presenter Presenter, opts Options) *Controller {
	c := &Controller{
		store:     store,
		state:     view.New(store),
		presenter: presenter,
		recorder:  opts.Recorder,
		messages:  DefaultMessages,
		tips:      DefaultTips,
		view:      Home,
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	c.setMessages(opts.Messages)
	if len(opts.Tips) > 0 {
		c.tips = slices.Clone(opts.Tips)
	}
	return c
}

// SetTips replaces the Tips view content. An empty list restores the defaults.
func (c *Controller) SetTips(tips []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(tips) == 0 {
		c.tips = DefaultTips
		return
	}
	c.tips = slices.Clone(tips)
}

// SetMessages replaces the notification texts. Empty fields keep their defaults.
func (c *Controller) SetMessages(m Messages) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMessages(m)
}

func (c *Controller) setMessages(m Messages) {
	c.messages = DefaultMessages
	if m.Claimed != "" {
		c.messages.Claimed = m.Claimed
	}
	if m.Posted != "" {
		c.messages.Posted = m.Posted
	}
	if m.TipsTitle != "" {
		c.messages.TipsTitle = m.TipsTitle
	}
}

// PendingClaim returns the item awaiting confirmation, if any.
func (c *Controller) PendingClaim() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Pending()
}

// Filter returns the active search term.
func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filter()
}

// Start draws the profile and the initial item list.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.presenter.RenderProfile(c.store.Profile())
	c.render(ctx)
	c.recorder.Action("start", ResultOK)
}

// OnSearch applies a search term and redraws.
func (c *Controller) OnSearch(ctx context.Context, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SetFilter(raw)
	slog.Debug("search", "filter", c.state.Filter())
	c.render(ctx)
	c.recorder.Action("search", ResultOK)
}

// OnSearchShortcut handles the search prompt opened by the keyboard shortcut.
// When the prompt was dismissed (submitted is false) the filter is unchanged.
func (c *Controller) OnSearchShortcut(ctx context.Context, text string, submitted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := ResultIgnored
	if submitted {
		c.state.SetFilter(text)
		result = ResultOK
	}
	c.render(ctx)
	c.recorder.Action("search_shortcut", result)
}

// OnClaimRequested asks for confirmation before claiming id. Claimed or
// unknown items are ignored.
func (c *Controller) OnClaimRequested(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.BeginClaim(ctx, id); err != nil {
		c.fail("claim_request", err, "id", id)
		return
	}

	item, err := c.store.Get(ctx, id)
	if err == nil && item == nil {
		err = model.ErrNotFound
	}
	if err != nil {
		c.state.CancelClaim()
		c.fail("claim_request", err, "id", id)
		return
	}

	c.show(Dialog{
		Kind:    Confirmation,
		Message: fmt.Sprintf("Do you want to claim \"%s\"?", item.Title),
		ItemID:  item.ID,
	})
	c.recorder.Action("claim_request", ResultOK)
}

// OnClaimCancelled abandons the pending claim.
func (c *Controller) OnClaimCancelled(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelClaim()
	c.recorder.Action("claim_cancel", ResultOK)
}

// OnClaimCancelledFor abandons the pending claim only if it is for id. A
// cancel aimed at an older confirmation leaves a newer one open.
func (c *Controller) OnClaimCancelledFor(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pendingIs(id) {
		slog.Debug("stale claim cancel", "id", id)
		c.recorder.Action("claim_cancel", ResultIgnored)
		return
	}
	c.cancelClaim()
	c.recorder.Action("claim_cancel", ResultOK)
}

// OnClaimConfirmed commits the pending claim. The list is redrawn whatever
// the outcome; only a successful claim produces a notification.
func (c *Controller) OnClaimConfirmed(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.confirmClaim(ctx)
}

// OnClaimConfirmedFor commits the pending claim only if it is for id. When
// another item is pending, or none is, nothing changes.
func (c *Controller) OnClaimConfirmedFor(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pendingIs(id) {
		slog.Debug("stale claim confirmation", "id", id)
		c.recorder.Action("claim_confirm", ResultIgnored)
		return
	}
	c.confirmClaim(ctx)
}

func (c *Controller) pendingIs(id int64) bool {
	pending, ok := c.state.Pending()
	return ok && pending == id
}

func (c *Controller) confirmClaim(ctx context.Context) {
	item, err := c.state.ResolveClaim(ctx)
	c.dismiss(Confirmation)
	c.render(ctx)

	if err != nil {
		c.fail("claim_confirm", err)
		return
	}

	slog.Info("item claimed", "id", item.ID, "title", item.Title)
	c.show(Dialog{Kind: Notification, Message: c.messages.Claimed})
	c.recorder.Action("claim_confirm", ResultOK)
}

// OnPostRequested opens the post form.
func (c *Controller) OnPostRequested(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.show(Dialog{Kind: Post})
	c.recorder.Action("post_request", ResultOK)
}

// OnPostSubmitted posts a new item. A failed submission leaves the form open
// and draws nothing; the error is returned so the form can explain it.
// model.ErrInvalidSubmission means a required field was blank.
func (c *Controller) OnPostSubmitted(ctx context.Context, title, description, image string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.store.Post(ctx, title, description, image)
	if err != nil {
		c.fail("post", err)
		return err
	}

	slog.Info("item posted", "id", item.ID, "title", item.Title)
	c.dismiss(Post)
	c.render(ctx)
	c.show(Dialog{Kind: Notification, Message: c.messages.Posted})
	c.recorder.Action("post", ResultOK)
	return nil
}

// OnNavigate switches to a named view. Unknown names are ignored.
func (c *Controller) OnNavigate(ctx context.Context, name ViewName) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case Home, Browse:
		c.view = name
		c.state.SetFilter("")
		c.render(ctx)
	case MyItems:
		items, err := c.store.ListAll(ctx)
		if err != nil {
			c.fail("navigate", err, "view", name)
			return
		}
		c.presenter.Render(Frame{Items: items, View: MyItems, DimClaimed: true})
	case Tips:
		c.show(Dialog{
			Kind:  Notification,
			Title: c.messages.TipsTitle,
			List:  slices.Clone(c.tips),
		})
	default:
		slog.Debug("unknown view", "view", name)
		c.recorder.Action("navigate", ResultIgnored)
		return
	}
	c.recorder.Action("navigate", ResultOK)
}

// OnDialogClosed handles a dialog being closed without choosing an action,
// such as its close button or a click outside it. Closing the confirmation
// dialog cancels the claim.
func (c *Controller) OnDialogClosed(ctx context.Context, kind DialogKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == Confirmation {
		c.cancelClaim()
	} else {
		c.dismiss(kind)
	}
	c.recorder.Action("dialog_close", ResultOK)
}

func (c *Controller) cancelClaim() {
	c.state.CancelClaim()
	c.dismiss(Confirmation)
}

// render draws the current filter's results.
func (c *Controller) render(ctx context.Context) {
	filter := c.state.Filter()
	items, err := c.store.Query(ctx, filter)
	if err != nil {
		slog.Error("failed to query items", "filter", filter, "error", err)
		return
	}

	frame := Frame{Items: items, Filter: filter, View: c.view}
	if len(items) == 0 && filter != "" {
		suggestion, err := c.store.Suggest(ctx, filter)
		if err != nil {
			slog.Error("failed to suggest item", "filter", filter, "error", err)
		}
		frame.Suggestion = suggestion
	}
	c.presenter.Render(frame)
}

// show opens d, closing any dialog of another kind first.
func (c *Controller) show(d Dialog) {
	if c.open != 0 && c.open != d.Kind {
		if c.open == Confirmation {
			c.state.CancelClaim()
		}
		c.dismiss(c.open)
	}
	c.presenter.ShowDialog(d)
	c.open = d.Kind
}

func (c *Controller) dismiss(kind DialogKind) {
	c.presenter.DismissDialog(kind)
	if c.open == kind {
		c.open = 0
	}
}

// fail logs and counts a handler error. Errors caused by the user's action
// are expected and logged quietly.
func (c *Controller) fail(action string, err error, args ...any) {
	args = append(args, "error", err)
	switch {
	case errors.Is(err, model.ErrAlreadyClaimed),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrNoPendingClaim),
		errors.Is(err, model.ErrInvalidSubmission):
		slog.Debug(action+" rejected", args...)
		c.recorder.Action(action, ResultRejected)
	default:
		slog.Error(action+" failed", args...)
		c.recorder.Action(action, ResultError)
	}
}
