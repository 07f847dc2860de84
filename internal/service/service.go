// Package service defines the interface every front end uses to read and
// change task lists.
package service

import (
	"context"
	"reflect"

	"tasklists/internal/liststore"
)

// Outcome is the result of applying one intent.
type Outcome struct {
	// State is the committed snapshot. It is authoritative even when SaveErr is set.
	State liststore.AppState

	// SaveErr is non-nil when State could not be persisted. The next change retries.
	SaveErr error
}

// Changed reports whether the intent produced a different snapshot than prev.
func (o Outcome) Changed(prev liststore.AppState) bool {
	return !reflect.DeepEqual(prev, o.State)
}

// Transition computes the next snapshot using ops.
// It must be pure: no I/O and no mutation of st.
type Transition func(ops *liststore.Store, st liststore.AppState) liststore.AppState

// Service serializes intents against the current snapshot and persists the
// result. Front ends (CLI commands, the HTTP API, the terminal UI) only talk
// to this interface.
type Service interface {
	// Snapshot returns a copy of the current state.
	Snapshot() liststore.AppState

	// Update applies fn to the current state, commits the result and saves it.
	Update(ctx context.Context, fn Transition) Outcome

	CreateList(ctx context.Context, name string) Outcome
	RenameList(ctx context.Context, listID liststore.ID, name string) Outcome
	DeleteList(ctx context.Context, listID liststore.ID) Outcome
	SetActiveList(ctx context.Context, listID liststore.ID) Outcome
	AddTask(ctx context.Context, text, category string) Outcome
	DeleteTask(ctx context.Context, taskID liststore.ID) Outcome

	// Close releases the storage backend.
	Close() error
}
