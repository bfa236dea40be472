package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/model"
)

const (
	msgPostInvalid = "Title and description are required."
	msgPostFailed  = "Could not post the item. Please try again."
)

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	s.Controller.OnSearch(r.Context(), r.FormValue("q"))
	redirectHome(w, r)
}

// Find handles GET /find, sent by the Ctrl+F prompt. A missing q means the
// prompt was cancelled.
func (s *Server) Find(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	s.Controller.OnSearchShortcut(r.Context(), query.Get("q"), query.Has("q"))
	redirectHome(w, r)
}

// Navigate handles POST /nav/{view}.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("view")
	v, ok := controller.ParseView(raw)
	if !ok {
		v = controller.ViewName(raw)
	}
	s.Controller.OnNavigate(r.Context(), v)
	redirectHome(w, r)
}

// ClaimRequest handles POST /items/{id}/claim.
func (s *Server) ClaimRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s.Controller.OnClaimRequested(r.Context(), id)
	redirectHome(w, r)
}

// ClaimConfirm handles POST /claim/confirm. Only the item named by the
// ticket can be claimed, even if another confirmation opened meanwhile.
func (s *Server) ClaimConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketItem(r)
	if !ok {
		redirectHome(w, r)
		return
	}
	s.Controller.OnClaimConfirmedFor(r.Context(), id)
	redirectHome(w, r)
}

// ClaimCancel handles POST /claim/cancel and closing the confirmation dialog.
func (s *Server) ClaimCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketItem(r)
	if !ok {
		redirectHome(w, r)
		return
	}
	s.Controller.OnClaimCancelledFor(r.Context(), id)
	redirectHome(w, r)
}

// ticketItem returns the item named by the request's accepted ticket.
func ticketItem(r *http.Request) (int64, bool) {
	t := GetTicketClaims(r.Context())
	if t == nil {
		return 0, false
	}
	id, err := t.ItemID()
	if err != nil {
		return 0, false
	}
	slog.Debug("claim ticket accepted", "jti", t.ID, "item", id)
	return id, true
}

// PostOpen handles POST /post.
func (s *Server) PostOpen(w http.ResponseWriter, r *http.Request) {
	s.Controller.OnPostRequested(r.Context())
	redirectHome(w, r)
}

// PostSubmit handles POST /items. A failed submission redraws the page with
// the form still open and the entered values kept.
func (s *Server) PostSubmit(w http.ResponseWriter, r *http.Request) {
	draft := &postForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("desc"),
		Image:       r.FormValue("image"),
	}

	err := s.Controller.OnPostSubmitted(r.Context(), draft.Title, draft.Description, draft.Image)
	switch {
	case err == nil:
		redirectHome(w, r)
	case errors.Is(err, model.ErrInvalidSubmission):
		s.renderIndex(w, http.StatusUnprocessableEntity, draft, msgPostInvalid)
	default:
		s.renderIndex(w, http.StatusInternalServerError, draft, msgPostFailed)
	}
}

// DialogClose handles POST /dialog/{kind}/close for dialogs that do not carry
// a claim ticket.
func (s *Server) DialogClose(w http.ResponseWriter, r *http.Request) {
	kind, ok := controller.ParseDialogKind(r.PathValue("kind"))
	if !ok || kind == controller.Confirmation {
		http.NotFound(w, r)
		return
	}

	s.Controller.OnDialogClosed(r.Context(), kind)
	redirectHome(w, r)
}
