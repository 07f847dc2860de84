package liststore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrListNotFound is returned when no list matches a name.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousList is returned when more than one list matches a name.
	ErrAmbiguousList = errors.New("ambiguous list name")

	// ErrInvalidState is wrapped by Validate.
	ErrInvalidState = errors.New("invalid state")
)

// ResolveList finds a list by name (case-insensitive, trimmed).
func ResolveList(s AppState, name string) (List, error) {
	name = strings.TrimSpace(name)
	var matches []List
	for _, l := range s.Lists {
		if strings.EqualFold(strings.TrimSpace(l.Name), name) {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return List{}, fmt.Errorf("%w: %s", ErrListNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return List{}, fmt.Errorf("%w: %s", ErrAmbiguousList, name)
	}
}

// Validate reports the first invariant s violates.
func Validate(s AppState) error {
	if err := validateStructure(s); err != nil {
		return err
	}
	if s.ActiveListID != NoID && listIndex(s, s.ActiveListID) < 0 {
		return fmt.Errorf("%w: active list %s does not exist", ErrInvalidState, s.ActiveListID)
	}
	return nil
}

// validateStructure checks everything except the active selection, which
// Initialize repairs instead of rejecting.
func validateStructure(s AppState) error {
	seen := make(map[ID]struct{}, len(s.Lists))
	for _, l := range s.Lists {
		if l.ID == NoID {
			return fmt.Errorf("%w: list %q has no id", ErrInvalidState, l.Name)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("%w: duplicate list id %s", ErrInvalidState, l.ID)
		}
		seen[l.ID] = struct{}{}

		tasks := make(map[ID]struct{}, len(l.Tasks))
		for _, t := range l.Tasks {
			if t.ID == NoID {
				return fmt.Errorf("%w: task in list %s has no id", ErrInvalidState, l.ID)
			}
			if _, dup := tasks[t.ID]; dup {
				return fmt.Errorf("%w: duplicate task id %s in list %s", ErrInvalidState, t.ID, l.ID)
			}
			if strings.TrimSpace(t.Text) == "" {
				return fmt.Errorf("%w: task %s has empty text", ErrInvalidState, t.ID)
			}
			tasks[t.ID] = struct{}{}
		}
	}
	return nil
}
