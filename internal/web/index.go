package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/model"
	"github.com/erazemk/ewaste/internal/ticket"
)

type navLink struct {
	Name   controller.ViewName
	Slug   string
	Active bool
}

type postForm struct {
	Title       string
	Description string
	Image       string
}

type indexData struct {
	PageData
	Profile model.Profile
	Views   []navLink
	Frame   controller.Frame

	Confirm  *controller.Dialog
	Ticket   string
	Notice   *controller.Dialog
	PostForm *postForm
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, nil, "")
}

// renderIndex draws the current screen. draft refills the post form after a
// rejected submission.
func (s *Server) renderIndex(w http.ResponseWriter, status int, draft *postForm, formError string) {
	snap := s.Screen.Snapshot()

	data := indexData{
		PageData: PageData{Title: "E-Waste Marketplace", Error: formError},
		Profile:  snap.Profile,
		Frame:    snap.Frame,
	}

	for _, v := range controller.Views {
		data.Views = append(data.Views, navLink{
			Name:   v,
			Slug:   v.Slug(),
			Active: v == snap.Frame.View,
		})
	}

	if d := snap.Dialog; d != nil {
		switch d.Kind {
		case controller.Confirmation:
			tok, err := ticket.Issue(s.TicketSecret, d.ItemID)
			if err != nil {
				slog.Error("failed to issue claim ticket", "item", d.ItemID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			data.Confirm, data.Ticket = d, tok
		case controller.Notification:
			data.Notice = d
		case controller.Post:
			data.PostForm = draft
			if data.PostForm == nil {
				data.PostForm = &postForm{}
			}
		}
	}

	s.Templates.RenderStatus(w, status, "index.html", data)
}
