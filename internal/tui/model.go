// Package tui provides a Bubble Tea browser for task lists.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklists/internal/liststore"
	"tasklists/internal/service"
)

type pane int

const (
	paneLists pane = iota
	paneTasks
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAddTask
	promptNewList
	promptRename
)

// outcomeMsg carries the result of an intent back into Update.
type outcomeMsg service.Outcome

// Model is the root state of the list browser.
type Model struct {
	ctx    context.Context
	svc    service.Service
	keys   keyMap
	styles styles

	state      liststore.AppState
	focus      pane
	listCursor int
	taskCursor int

	prompt promptKind
	target liststore.ID // list being renamed
	input  textinput.Model

	status string
	width  int
	height int
}

// New creates a model over svc. ctx bounds the saves triggered from the UI.
func New(ctx context.Context, svc service.Service) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.CharLimit = 256

	m := Model{
		ctx:    ctx,
		svc:    svc,
		keys:   defaultKeyMap(),
		styles: defaultStyles(),
		state:  svc.Snapshot(),
		input:  ti,
	}
	m.listCursor = m.activeIndex()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case outcomeMsg:
		m.apply(service.Outcome(msg))
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if m.focus == paneLists {
			m.focus = paneTasks
		} else {
			m.focus = paneLists
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		if m.focus != paneLists {
			return m, nil
		}
		list, ok := m.selectedList()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) service.Outcome {
			return m.svc.SetActiveList(ctx, list.ID)
		})

	case key.Matches(msg, m.keys.AddTask):
		return m.openPrompt(promptAddTask, "")

	case key.Matches(msg, m.keys.NewList):
		return m.openPrompt(promptNewList, "")

	case key.Matches(msg, m.keys.RenameList):
		list, ok := m.selectedList()
		if !ok {
			return m, nil
		}
		m.target = list.ID
		return m.openPrompt(promptRename, list.Name)

	case key.Matches(msg, m.keys.DeleteList):
		list, ok := m.selectedList()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) service.Outcome {
			return m.svc.DeleteList(ctx, list.ID)
		})

	case key.Matches(msg, m.keys.DeleteTask):
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) service.Outcome {
			return m.svc.DeleteTask(ctx, task.ID)
		})
	}
	return m, nil
}

func (m Model) openPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		kind, target := m.prompt, m.target
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) service.Outcome {
			switch kind {
			case promptAddTask:
				return m.svc.AddTask(ctx, value, "")
			case promptNewList:
				return m.svc.CreateList(ctx, value)
			default:
				return m.svc.RenameList(ctx, target, value)
			}
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.target = liststore.NoID
	m.input.Blur()
	m.input.Reset()
}

// run performs an intent off the UI loop and delivers its outcome.
func (m Model) run(intent func(ctx context.Context) service.Outcome) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg(intent(ctx))
	}
}

func (m *Model) apply(o service.Outcome) {
	prevActive := m.state.ActiveListID
	m.state = o.State
	if o.SaveErr != nil {
		m.status = "warning: state not saved: " + o.SaveErr.Error()
	} else {
		m.status = ""
	}
	if m.state.ActiveListID != prevActive {
		m.listCursor = m.activeIndex()
		m.taskCursor = 0
	}
	m.clamp()
}

func (m *Model) move(delta int) {
	if m.focus == paneLists {
		m.listCursor += delta
	} else {
		m.taskCursor += delta
	}
	m.clamp()
}

func (m *Model) clamp() {
	m.listCursor = clampIndex(m.listCursor, len(m.state.Lists))
	active, _ := liststore.ActiveList(m.state)
	m.taskCursor = clampIndex(m.taskCursor, len(active.Tasks))
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m Model) activeIndex() int {
	for i, l := range m.state.Lists {
		if l.ID == m.state.ActiveListID {
			return i
		}
	}
	return 0
}

func (m Model) selectedList() (liststore.List, bool) {
	if m.listCursor < 0 || m.listCursor >= len(m.state.Lists) {
		return liststore.List{}, false
	}
	return m.state.Lists[m.listCursor], true
}

// selectedTask returns the task under the cursor of the active list. Tasks
// can only be deleted from the active list.
func (m Model) selectedTask() (liststore.Task, bool) {
	if m.focus != paneTasks {
		return liststore.Task{}, false
	}
	active, ok := liststore.ActiveList(m.state)
	if !ok || m.taskCursor >= len(active.Tasks) {
		return liststore.Task{}, false
	}
	return active.Tasks[m.taskCursor], true
}

// Run starts the browser on the terminal and blocks until it quits.
func Run(ctx context.Context, svc service.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
