package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tasklists/internal/liststore"
	"tasklists/internal/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

// press sends msg and, when it produced an intent, feeds the outcome back.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil || m.prompt != promptNone {
		return m
	}
	if out, ok := cmd().(outcomeMsg); ok {
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

// typeText enters text into an open prompt without running cursor commands.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(runes(s))
	return next.(Model)
}

func newModel(t *testing.T) (Model, *testutil.FlakyBackend) {
	t.Helper()
	backend := testutil.NewFlakyBackend()
	svc := testutil.NewSession(t, backend)
	return New(context.Background(), svc), backend
}

func TestModel_AddTask(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, runes("a"))
	if m.prompt != promptAddTask {
		t.Fatalf("prompt = %v, want add task", m.prompt)
	}
	m = typeText(t, m, "buy milk")
	m = press(t, m, enterKey)

	active, _ := liststore.ActiveList(m.state)
	if len(active.Tasks) != 1 || active.Tasks[0].Text != "buy milk" {
		t.Fatalf("tasks = %+v", active.Tasks)
	}
	if m.prompt != promptNone {
		t.Error("prompt should close after confirm")
	}
}

func TestModel_PromptCancelAndBlank(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, runes("n"))
	m = typeText(t, m, "Work")
	m = press(t, m, escKey)
	if len(m.state.Lists) != 1 {
		t.Errorf("cancelled prompt created a list")
	}

	m = press(t, m, runes("n"))
	m = typeText(t, m, "   ")
	next, cmd := m.Update(enterKey)
	m = next.(Model)
	if cmd != nil {
		t.Error("blank input must not run an intent")
	}
	if len(m.state.Lists) != 1 {
		t.Errorf("blank prompt created a list")
	}
}

func TestModel_ListNavigation(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, runes("n"))
	m = typeText(t, m, "Work")
	m = press(t, m, enterKey)
	if len(m.state.Lists) != 2 || m.state.ActiveListID != m.state.Lists[1].ID {
		t.Fatalf("new list should be active: %+v", m.state)
	}
	if m.listCursor != 1 {
		t.Errorf("cursor should follow the active list, got %d", m.listCursor)
	}

	m = press(t, m, runes("k"))
	m = press(t, m, enterKey)
	if m.state.ActiveListID != m.state.Lists[0].ID {
		t.Errorf("enter should activate the selected list")
	}

	m = press(t, m, runes("k"))
	if m.listCursor != 0 {
		t.Errorf("cursor moved past the top: %d", m.listCursor)
	}
}

func TestModel_RenameAndDeleteList(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, runes("r"))
	if m.input.Value() != liststore.DefaultListName {
		t.Errorf("rename prompt should start with the current name, got %q", m.input.Value())
	}
	m.input.SetValue("")
	m = typeText(t, m, "Home")
	m = press(t, m, enterKey)
	if m.state.Lists[0].Name != "Home" {
		t.Fatalf("rename: %+v", m.state.Lists[0])
	}

	m = press(t, m, runes("D"))
	if len(m.state.Lists) != 1 || m.state.Lists[0].Name != liststore.DefaultListName {
		t.Errorf("deleting the only list should leave a fresh default: %+v", m.state.Lists)
	}
}

func TestModel_DeleteTaskNeedsTaskPane(t *testing.T) {
	m, _ := newModel(t)
	for _, text := range []string{"one", "two"} {
		m = press(t, m, runes("a"))
		m = typeText(t, m, text)
		m = press(t, m, enterKey)
	}

	m = press(t, m, runes("d"))
	if active, _ := liststore.ActiveList(m.state); len(active.Tasks) != 2 {
		t.Fatal("d in the list pane must not delete tasks")
	}

	m = press(t, m, tabKey)
	m = press(t, m, runes("j"))
	m = press(t, m, runes("d"))
	active, _ := liststore.ActiveList(m.state)
	if len(active.Tasks) != 1 || active.Tasks[0].Text != "one" {
		t.Errorf("expected only 'one' to remain, got %+v", active.Tasks)
	}
	if m.taskCursor != 0 {
		t.Errorf("cursor should be clamped, got %d", m.taskCursor)
	}
}

func TestModel_SaveWarning(t *testing.T) {
	m, backend := newModel(t)
	backend.FailWrites(testutil.ErrInjected)

	m = press(t, m, runes("a"))
	m = typeText(t, m, "kept")
	m = press(t, m, enterKey)

	if !strings.Contains(m.status, "state not saved") {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "state not saved") {
		t.Error("warning should be visible")
	}

	backend.FailWrites(nil)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "next")
	m = press(t, m, enterKey)
	if m.status != "" {
		t.Errorf("status should clear after a successful save, got %q", m.status)
	}
}

func TestModel_QuitAndView(t *testing.T) {
	m, _ := newModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"Lists", liststore.DefaultListName, "no tasks yet", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
