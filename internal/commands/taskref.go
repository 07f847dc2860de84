package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasklists/internal/liststore"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int          // 1-based position in the active list, 0 if ID is set
	ID  liststore.ID // explicit task id, NoID if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

const idRefPrefix = "id:"

// ParseTaskRef parses a task reference from args.
//
// A reference is either the 1-based number printed by list, or
// "id:<id>" naming the task id directly.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", strings.Join(args, " "))
	}

	ref := strings.TrimSpace(args[0])

	if rest, ok := strings.CutPrefix(ref, idRefPrefix); ok {
		id, err := liststore.ParseID(rest)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{ID: id}, nil
	}

	if !isAllDigits(ref) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
	}
	return TaskRef{Num: num}, nil
}

// Resolve finds the referenced task in list.
func (r TaskRef) Resolve(list liststore.List) (liststore.Task, error) {
	if r.ID != liststore.NoID {
		for _, task := range list.Tasks {
			if task.ID == r.ID {
				return task, nil
			}
		}
		return liststore.Task{}, fmt.Errorf("task not found: %s", r.ID)
	}
	if r.Num < 1 || r.Num > len(list.Tasks) {
		return liststore.Task{}, fmt.Errorf("task number out of range: %d", r.Num)
	}
	return list.Tasks[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
