package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/erazemk/ewaste/internal/controller"
	"github.com/erazemk/ewaste/internal/model"
)

var (
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2e7d32"))
	navStyle     = lipgloss.NewStyle().Padding(0, 1)
	navActive    = navStyle.Reverse(true)
	profileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	claimedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#66bb6a")).Bold(true)
	dialogStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2e7d32")).
			Padding(0, 2)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c62828"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.prompt != promptNone {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	} else if f := m.snap.Frame.Filter; f != "" {
		b.WriteString(descStyle.Render(fmt.Sprintf("Filter: %q", f)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.itemList())

	if d := m.snap.Dialog; d != nil {
		b.WriteString("\n")
		b.WriteString(dialogStyle.Render(m.dialog(d)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) header() string {
	var nav []string
	for i, v := range controller.Views {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.snap.Frame.View {
			nav = append(nav, navActive.Render(label))
		} else {
			nav = append(nav, navStyle.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		brandStyle.Render("E-Waste Marketplace"),
		"  ",
		strings.Join(nav, ""),
		"  ",
		profileStyle.Render("Hello, "+m.snap.Profile.DisplayName),
	)
}

func (m *Model) itemList() string {
	frame := m.snap.Frame
	if len(frame.Items) == 0 {
		s := "No items found."
		if frame.Suggestion != "" {
			s += fmt.Sprintf(" Did you mean %q?", frame.Suggestion)
		}
		return s + "\n"
	}

	var b strings.Builder
	for i, item := range frame.Items {
		b.WriteString(m.itemLine(i, item, frame.DimClaimed))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) itemLine(i int, item model.Item, dimClaimed bool) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	status := ""
	if item.Claimed {
		status = " " + claimedStyle.Render("[Claimed]")
	}

	line := titleStyle.Render(item.Title) + status + "\n    " + descStyle.Render(item.Description)
	if dimClaimed && item.Claimed {
		line = dimStyle.Render(line)
	}
	return cursor + line
}

func (m *Model) dialog(d *controller.Dialog) string {
	switch d.Kind {
	case controller.Confirmation:
		return d.Message + "\n\n[y] Confirm  [n] Cancel"
	case controller.Post:
		var b strings.Builder
		b.WriteString(titleStyle.Render("Post New Item"))
		b.WriteString("\n\n")
		for _, f := range m.fields {
			b.WriteString(f.View())
			b.WriteString("\n")
		}
		if m.postErr != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.postErr))
			b.WriteString("\n")
		}
		b.WriteString("\n[enter] Post  [tab] Next field  [esc] Close")
		return b.String()
	default:
		return m.notification(d) + "\n[enter] OK"
	}
}

// notification renders a message, or a titled list as markdown.
func (m *Model) notification(d *controller.Dialog) string {
	if len(d.List) == 0 {
		return d.Message + "\n"
	}

	var md strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&md, "**%s**\n\n", d.Title)
	}
	for _, item := range d.List {
		fmt.Fprintf(&md, "- %s\n", item)
	}

	out, err := m.markdown.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.Trim(out, "\n")
}

func (m *Model) help() string {
	switch {
	case m.prompt != promptNone:
		return "enter search • esc cancel"
	case m.snap.Dialog != nil:
		return "ctrl+c quit"
	default:
		return "↑/↓ select • enter claim • / search • ctrl+f find • p post • 1-4 views • q quit"
	}
}
