// Package tui is a terminal front end over the interaction controller.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/model"
	"github.com/erazemk/ewaste/internal/screen"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptShortcut
)

const (
	fieldTitle = iota
	fieldDescription
	fieldImage
	fieldCount
)

// Options configures the terminal UI.
type Options struct {
	// MarkdownStyle is a glamour standard style name. Empty picks one for the terminal.
	MarkdownStyle string
	Width         int
}

// Model is the bubbletea model. The controller draws into a screen.Screen and
// the model renders the latest snapshot of it.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	screen *screen.Screen
	snap   screen.Snapshot

	cursor int
	width  int

	prompt promptKind
	search textinput.Model

	fields  [fieldCount]textinput.Model
	focus   int
	postErr string

	markdown *glamour.TermRenderer
}

// New creates a model over a started controller that presents to scr.
func New(ctx context.Context, ctrl *controller.Controller, scr *screen.Screen, opts Options) (*Model, error) {
	if opts.Width <= 0 {
		opts.Width = 80
	}

	renderOpts := []glamour.TermRendererOption{glamour.WithWordWrap(opts.Width - 4)}
	if opts.MarkdownStyle == "" {
		renderOpts = append(renderOpts, glamour.WithAutoStyle())
	} else {
		renderOpts = append(renderOpts, glamour.WithStandardStyle(opts.MarkdownStyle))
	}
	md, err := glamour.NewTermRenderer(renderOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		screen:   scr,
		width:    opts.Width,
		markdown: md,
	}

	m.search = textinput.New()
	m.search.Prompt = "Search for an item: "
	m.search.CharLimit = 100

	placeholders := [fieldCount]string{"Title", "Description", "Image (optional)"}
	for i := range m.fields {
		m.fields[i] = textinput.New()
		m.fields[i].Placeholder = placeholders[i]
		m.fields[i].CharLimit = 200
		m.fields[i].Width = 40
	}

	m.refresh()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		if d := m.snap.Dialog; d != nil {
			switch d.Kind {
			case controller.Confirmation:
				return m.updateConfirmation(msg)
			case controller.Post:
				return m.updatePost(msg)
			default:
				return m.updateNotification(msg)
			}
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snap.Frame.Items

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(items) {
			m.ctrl.OnClaimRequested(m.ctx, items[m.cursor].ID)
		}
	case "/":
		return m, m.openPrompt(promptSearch)
	case "ctrl+f":
		return m, m.openPrompt(promptShortcut)
	case "p":
		m.ctrl.OnPostRequested(m.ctx)
		m.refresh()
		return m, m.openPostForm()
	case "1", "2", "3", "4":
		m.ctrl.OnNavigate(m.ctx, controller.Views[msg.String()[0]-'1'])
	}

	m.refresh()
	return m, nil
}

func (m *Model) updateConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.ctrl.OnClaimConfirmed(m.ctx)
	case "n", "esc":
		m.ctrl.OnClaimCancelled(m.ctx)
	}
	m.refresh()
	return m, nil
}

func (m *Model) updateNotification(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.ctrl.OnDialogClosed(m.ctx, m.snap.Dialog.Kind)
	case "q":
		return m, tea.Quit
	}
	m.refresh()
	return m, nil
}

func (m *Model) updatePost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.OnDialogClosed(m.ctx, controller.Post)
		m.refresh()
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		err := m.ctrl.OnPostSubmitted(m.ctx,
			m.fields[fieldTitle].Value(),
			m.fields[fieldDescription].Value(),
			m.fields[fieldImage].Value(),
		)
		m.refresh()
		switch {
		case err == nil:
			m.postErr = ""
			m.cursor = 0
		case errors.Is(err, model.ErrInvalidSubmission):
			m.postErr = "Title and description are required."
		default:
			m.postErr = "Could not post the item. Please try again."
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.prompt == promptShortcut {
			m.ctrl.OnSearchShortcut(m.ctx, m.search.Value(), true)
		} else {
			m.ctrl.OnSearch(m.ctx, m.search.Value())
		}
		m.closePrompt()
		return m, nil
	case "esc":
		if m.prompt == promptShortcut {
			m.ctrl.OnSearchShortcut(m.ctx, "", false)
		}
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.prompt = kind
	m.search.Reset()
	if kind == promptSearch {
		m.search.SetValue(m.snap.Frame.Filter)
		m.search.CursorEnd()
	}
	return m.search.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.search.Blur()
	m.cursor = 0
	m.refresh()
}

func (m *Model) openPostForm() tea.Cmd {
	for i := range m.fields {
		m.fields[i].Reset()
	}
	m.postErr = ""
	return m.focusField(fieldTitle)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = i
	return m.fields[i].Focus()
}

// refresh reads the latest snapshot and keeps the cursor on a visible item.
func (m *Model) refresh() {
	m.snap = m.screen.Snapshot()
	if n := len(m.snap.Frame.Items); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// Run starts the program on the terminal and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}
