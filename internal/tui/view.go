package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklists/internal/liststore"
)

const (
	minSidebarWidth = 20
	minTaskWidth    = 40
)

// View implements tea.Model.
func (m Model) View() string {
	sidebarWidth, taskWidth := m.paneWidths()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.paneStyle(paneLists).Width(sidebarWidth).Render(m.renderLists()),
		m.paneStyle(paneTasks).Width(taskWidth).Render(m.renderTasks()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m Model) paneWidths() (int, int) {
	sidebar, tasks := minSidebarWidth, minTaskWidth
	if m.width > sidebar+tasks+4 {
		sidebar = m.width / 4
		if sidebar < minSidebarWidth {
			sidebar = minSidebarWidth
		}
		tasks = m.width - sidebar - 4
	}
	return sidebar, tasks
}

func (m Model) paneStyle(p pane) lipgloss.Style {
	if m.focus == p {
		return m.styles.FocusPane
	}
	return m.styles.Pane
}

func (m Model) renderLists() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Lists"))
	b.WriteString("\n")
	for i, l := range m.state.Lists {
		line := fmt.Sprintf("%s (%d)", displayName(l.Name), len(l.Tasks))
		if l.ID == m.state.ActiveListID {
			line = m.styles.Active.Render(line)
		}
		if m.focus == paneLists && i == m.listCursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderTasks() string {
	active, ok := liststore.ActiveList(m.state)
	if !ok {
		return m.styles.Muted.Render("no active list")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(displayName(active.Name)))
	b.WriteString("\n")
	if len(active.Tasks) == 0 {
		b.WriteString(m.styles.Muted.Render("no tasks yet"))
		return b.String()
	}
	for i, t := range active.Tasks {
		line := t.Text
		if t.Category != "" {
			line += "  " + m.styles.Category.Render("#"+t.Category)
		}
		if t.CreatedAt != "" {
			line += "  " + m.styles.Muted.Render(t.CreatedAt)
		}
		if m.focus == paneTasks && i == m.taskCursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderFooter() string {
	if m.prompt != promptNone {
		return m.styles.PromptText.Render(promptLabel(m.prompt)) + m.input.View()
	}
	if m.status != "" {
		return m.styles.Warning.Render(m.status)
	}
	var parts []string
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Muted.Render(strings.Join(parts, " • "))
}

func promptLabel(kind promptKind) string {
	switch kind {
	case promptAddTask:
		return "New task: "
	case promptNewList:
		return "New list: "
	default:
		return "Rename to: "
	}
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
