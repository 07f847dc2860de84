package liststore

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultListName is the name of the list created when no other list exists.
const DefaultListName = "Default"

// Clock supplies fresh ids and creation timestamps.
// NextID must never return the same id twice within a process.
type Clock interface {
	NextID() ID
	Now() string
}

// Observer is implemented by clocks that must not hand out ids already in use.
type Observer interface {
	Observe(id ID)
}

// Store computes state transitions. It keeps no state of its own beyond the
// clock; every method returns the next snapshot and leaves its input intact.
// Invalid input and unknown ids are ignored: the input state is returned.
type Store struct {
	clock Clock
}

// New creates a Store that draws ids and timestamps from clock.
func New(clock Clock) *Store {
	return &Store{clock: clock}
}

// Initialize returns persisted when it is usable, otherwise a fresh state
// with a single default list. Damaged entries are dropped and the rest kept;
// a dangling active selection moves to the first list.
func (s *Store) Initialize(persisted *AppState) AppState {
	if persisted != nil {
		if st, ok := s.adopt(*persisted); ok {
			return st
		}
	}
	return s.defaultState()
}

func (s *Store) adopt(st AppState) (AppState, bool) {
	if validateStructure(st) != nil {
		st = salvage(st)
	}
	if len(st.Lists) == 0 {
		return AppState{}, false
	}
	if obs, ok := s.clock.(Observer); ok {
		for _, l := range st.Lists {
			obs.Observe(l.ID)
			for _, t := range l.Tasks {
				obs.Observe(t.ID)
			}
		}
	}
	out := Clone(st)
	if listIndex(out, out.ActiveListID) < 0 {
		out.ActiveListID = out.Lists[0].ID
	}
	return out, true
}

// salvage drops lists without an id or repeating an earlier list's id, and
// tasks without an id, with blank text, or repeating an id within their list.
func salvage(st AppState) AppState {
	out := Clone(st)
	lists := make(map[ID]struct{}, len(out.Lists))
	out.Lists = slices.DeleteFunc(out.Lists, func(l List) bool {
		if _, dup := lists[l.ID]; dup || l.ID == NoID {
			return true
		}
		lists[l.ID] = struct{}{}
		return false
	})
	for i := range out.Lists {
		tasks := make(map[ID]struct{}, len(out.Lists[i].Tasks))
		out.Lists[i].Tasks = slices.DeleteFunc(out.Lists[i].Tasks, func(t Task) bool {
			if _, dup := tasks[t.ID]; dup || t.ID == NoID || strings.TrimSpace(t.Text) == "" {
				return true
			}
			tasks[t.ID] = struct{}{}
			return false
		})
	}
	return out
}

func (s *Store) defaultState() AppState {
	l := s.newList(DefaultListName)
	return AppState{Lists: []List{l}, ActiveListID: l.ID}
}

func (s *Store) newList(name string) List {
	return List{ID: s.clock.NextID(), Name: name, Tasks: []Task{}}
}

// CreateList appends a list and makes it active.
func (s *Store) CreateList(st AppState, name string) AppState {
	name = strings.TrimSpace(name)
	if name == "" {
		return st
	}
	out := Clone(st)
	l := s.newList(name)
	out.Lists = append(out.Lists, l)
	out.ActiveListID = l.ID
	return out
}

// RenameList replaces the name of one list. An empty name keeps the old one.
func (s *Store) RenameList(st AppState, id ID, name string) AppState {
	i := listIndex(st, id)
	name = strings.TrimSpace(name)
	if i < 0 || name == "" || st.Lists[i].Name == name {
		return st
	}
	out := Clone(st)
	out.Lists[i].Name = name
	return out
}

// DeleteList removes a list. When the active list goes, the first remaining
// list becomes active; when none remain, a fresh default list replaces it.
func (s *Store) DeleteList(st AppState, id ID) AppState {
	i := listIndex(st, id)
	if i < 0 {
		return st
	}
	out := Clone(st)
	out.Lists = slices.Delete(out.Lists, i, i+1)

	if len(out.Lists) == 0 {
		l := s.newList(DefaultListName)
		out.Lists = []List{l}
		out.ActiveListID = l.ID
		return out
	}
	if out.ActiveListID == id {
		out.ActiveListID = out.Lists[0].ID
	}
	return out
}

// SetActiveList selects a list that exists.
func (s *Store) SetActiveList(st AppState, id ID) AppState {
	if listIndex(st, id) < 0 || st.ActiveListID == id {
		return st
	}
	out := Clone(st)
	out.ActiveListID = id
	return out
}

// AddTask appends a task to the active list.
func (s *Store) AddTask(st AppState, text, category string) AppState {
	i := listIndex(st, st.ActiveListID)
	text = strings.TrimSpace(text)
	if i < 0 || text == "" {
		return st
	}
	out := Clone(st)
	out.Lists[i].Tasks = append(out.Lists[i].Tasks, Task{
		ID:        s.clock.NextID(),
		Text:      text,
		CreatedAt: s.clock.Now(),
		Category:  strings.TrimSpace(category),
	})
	return out
}

// DeleteTask removes a task from the active list. Other lists are not searched.
func (s *Store) DeleteTask(st AppState, id ID) AppState {
	i := listIndex(st, st.ActiveListID)
	if i < 0 {
		return st
	}
	j := taskIndex(st.Lists[i], id)
	if j < 0 {
		return st
	}
	out := Clone(st)
	out.Lists[i].Tasks = slices.Delete(out.Lists[i].Tasks, j, j+1)
	return out
}

// Draft is a task that has not been given an id yet.
type Draft struct {
	Text      string
	CreatedAt string
	Category  string
}

// ImportList appends a list holding drafts, each assigned a fresh id. Drafts
// with empty text are dropped and a missing timestamp is filled with now.
// A name already taken gets a " (n)" suffix so every list stays resolvable.
// The active selection only changes when nothing was selected.
func (s *Store) ImportList(st AppState, name string, drafts []Draft) AppState {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	name = uniqueName(st, name)
	out := Clone(st)
	l := s.newList(name)
	for _, d := range drafts {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		createdAt := d.CreatedAt
		if createdAt == "" {
			createdAt = s.clock.Now()
		}
		l.Tasks = append(l.Tasks, Task{
			ID:        s.clock.NextID(),
			Text:      text,
			CreatedAt: createdAt,
			Category:  strings.TrimSpace(d.Category),
		})
	}
	out.Lists = append(out.Lists, l)
	if listIndex(out, out.ActiveListID) < 0 {
		out.ActiveListID = l.ID
	}
	return out
}

// uniqueName returns name, or name with the first free " (n)" suffix when a
// list already resolves to it.
func uniqueName(st AppState, name string) string {
	taken := func(candidate string) bool {
		return slices.ContainsFunc(st.Lists, func(l List) bool {
			return strings.EqualFold(strings.TrimSpace(l.Name), candidate)
		})
	}
	if !taken(name) {
		return name
	}
	for n := 2; ; n++ {
		if candidate := fmt.Sprintf("%s (%d)", name, n); !taken(candidate) {
			return candidate
		}
	}
}
