package controller

import (
	"fmt"
	"strings"

	"github.com/erazemk/ewaste/internal/model"
)

// Presenter draws what the controller tells it to. Implementations must not
// call back into the controller from these methods.
type Presenter interface {
	RenderProfile(p model.Profile)
	Render(f Frame)
	ShowDialog(d Dialog)
	DismissDialog(kind DialogKind)
}

// ViewName is one of the navigation targets.
type ViewName string

// Navigation targets.
const (
	Home    ViewName = "Home"
	Browse  ViewName = "Browse"
	MyItems ViewName = "My Items"
	Tips    ViewName = "Tips"
)

// Views lists the navigation targets in menu order.
var Views = []ViewName{Home, Browse, MyItems, Tips}

// Slug returns the URL form of the view name, e.g. "my-items".
func (v ViewName) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(v)), " ", "-")
}

// ParseView accepts a view name or its slug, ignoring case.
func ParseView(s string) (ViewName, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Views {
		if strings.EqualFold(s, string(v)) || strings.EqualFold(s, v.Slug()) {
			return v, true
		}
	}
	return "", false
}

// Frame is one rendering of the item collection.
type Frame struct {
	Items  []model.Item
	Filter string
	View   ViewName

	// DimClaimed asks the presenter to de-emphasize claimed items.
	DimClaimed bool

	// Suggestion is a close item title offered when a filter matched nothing.
	Suggestion string
}

// DialogKind identifies a modal dialog.
type DialogKind int

// Dialog kinds.
const (
	Confirmation DialogKind = iota + 1
	Notification
	Post
)

var dialogNames = map[DialogKind]string{
	Confirmation: "confirmation",
	Notification: "notification",
	Post:         "post",
}

func (k DialogKind) String() string {
	if name, ok := dialogNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DialogKind(%d)", int(k))
}

// ParseDialogKind is the inverse of DialogKind.String.
func ParseDialogKind(s string) (DialogKind, bool) {
	for k, name := range dialogNames {
		if strings.EqualFold(s, name) {
			return k, true
		}
	}
	return 0, false
}

// Dialog is the content of a modal dialog. Confirmation dialogs carry the item
// being claimed; notifications carry a message or a titled list.
type Dialog struct {
	Kind    DialogKind
	Title   string
	Message string
	List    []string
	ItemID  int64
}
