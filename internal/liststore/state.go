// Package liststore holds the list/task data model and the pure state
// transitions that keep it consistent.
package liststore

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
)

// ID identifies a list or a task. The zero value means "no id" and is
// encoded as JSON null.
type ID int64

// NoID is the zero ID.
const NoID ID = 0

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == NoID {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(id), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler. Quoted ids are accepted.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = NoID
		return nil
	}
	parsed, err := ParseID(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID parses the decimal form produced by ID.String.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return NoID, fmt.Errorf("invalid id: %q", s)
	}
	return ID(n), nil
}

// Task is a single to-do entry. Tasks are never edited once created.
type Task struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	Category  string `json:"category,omitempty"`
}

// List is a named, ordered collection of tasks.
type List struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// AppState is one snapshot of everything the user has.
// ActiveListID is NoID or the id of a list in Lists.
type AppState struct {
	Lists        []List `json:"lists"`
	ActiveListID ID     `json:"activeListId"`
}

// Clone returns a deep copy of s. Nil and empty slices are preserved as-is.
func Clone(s AppState) AppState {
	out := AppState{ActiveListID: s.ActiveListID}
	if s.Lists != nil {
		out.Lists = make([]List, len(s.Lists))
		for i, l := range s.Lists {
			out.Lists[i] = List{ID: l.ID, Name: l.Name, Tasks: slices.Clone(l.Tasks)}
		}
	}
	return out
}

// ActiveList returns the currently selected list.
func ActiveList(s AppState) (List, bool) {
	return FindList(s, s.ActiveListID)
}

// FindList returns the list with the given id.
func FindList(s AppState, id ID) (List, bool) {
	i := listIndex(s, id)
	if i < 0 {
		return List{}, false
	}
	return s.Lists[i], true
}

func listIndex(s AppState, id ID) int {
	if id == NoID {
		return -1
	}
	return slices.IndexFunc(s.Lists, func(l List) bool { return l.ID == id })
}

func taskIndex(l List, id ID) int {
	if id == NoID {
		return -1
	}
	return slices.IndexFunc(l.Tasks, func(t Task) bool { return t.ID == id })
}
