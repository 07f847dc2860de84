package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"tasklists/internal/liststore"
)

// ErrUnrecognized is returned by Decode for input that is neither a snapshot
// object nor a legacy list array.
var ErrUnrecognized = errors.New("unrecognized state format")

// wireTask accepts both the current field name and the "time" field written
// by the browser version of the app.
type wireTask struct {
	ID        liststore.ID `json:"id"`
	Text      string       `json:"text"`
	CreatedAt string       `json:"createdAt"`
	Time      string       `json:"time"`
	Category  string       `json:"category"`
}

type wireList struct {
	ID    liststore.ID `json:"id"`
	Name  string       `json:"name"`
	Tasks []wireTask   `json:"tasks"`
}

type wireState struct {
	Lists        []wireList   `json:"lists"`
	ActiveListID liststore.ID `json:"activeListId"`
}

// Encode serializes a snapshot.
func Encode(st liststore.AppState) ([]byte, error) {
	return json.Marshal(st)
}

// Decode parses either a snapshot object or a bare JSON array of lists as
// written by the browser version (its active list is the first one).
func Decode(data []byte) (*liststore.AppState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnrecognized
	}

	var ws wireState
	switch trimmed[0] {
	case '{':
		if err := json.Unmarshal(trimmed, &ws); err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
	case '[':
		if err := json.Unmarshal(trimmed, &ws.Lists); err != nil {
			return nil, fmt.Errorf("decode legacy lists: %w", err)
		}
		if len(ws.Lists) > 0 {
			ws.ActiveListID = ws.Lists[0].ID
		}
	default:
		return nil, ErrUnrecognized
	}

	st := &liststore.AppState{ActiveListID: ws.ActiveListID}
	if ws.Lists != nil {
		st.Lists = make([]liststore.List, 0, len(ws.Lists))
	}
	for _, wl := range ws.Lists {
		l := liststore.List{ID: wl.ID, Name: wl.Name}
		if wl.Tasks != nil {
			l.Tasks = make([]liststore.Task, 0, len(wl.Tasks))
		}
		for _, wt := range wl.Tasks {
			createdAt := wt.CreatedAt
			if createdAt == "" {
				createdAt = wt.Time
			}
			l.Tasks = append(l.Tasks, liststore.Task{
				ID:        wt.ID,
				Text:      wt.Text,
				CreatedAt: createdAt,
				Category:  wt.Category,
			})
		}
		st.Lists = append(st.Lists, l)
	}
	return st, nil
}
