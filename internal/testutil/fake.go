// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tasklists/internal/liststore"
	"tasklists/internal/session"
	"tasklists/internal/storage"
)

// StateKey is the storage key used by NewSession.
const StateKey = "todo_lists"

// FixedTime is the timestamp FixedClock stamps on every task.
const FixedTime = "2024-01-02 03:04:05"

// FixedClock hands out ids 1, 2, 3, ... and always reports FixedTime.
type FixedClock struct {
	mu   sync.Mutex
	next liststore.ID
}

// NextID implements liststore.Clock.
func (c *FixedClock) NextID() liststore.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return c.next
}

// Now implements liststore.Clock.
func (c *FixedClock) Now() string { return FixedTime }

// Observe implements liststore.Observer.
func (c *FixedClock) Observe(id liststore.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.next {
		c.next = id
	}
}

// ErrInjected is the default error returned by FlakyBackend.
var ErrInjected = errors.New("injected storage failure")

// FlakyBackend is an in-memory storage.Backend whose reads and writes can be
// made to fail.
type FlakyBackend struct {
	*storage.MemoryBackend

	mu     sync.Mutex
	GetErr error
	SetErr error
	sets   int
}

// NewFlakyBackend returns a working FlakyBackend.
func NewFlakyBackend() *FlakyBackend {
	return &FlakyBackend{MemoryBackend: storage.NewMemory()}
}

// FailWrites makes every Set fail with err (nil restores writes).
func (f *FlakyBackend) FailWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetErr = err
}

// Sets returns the number of successful writes.
func (f *FlakyBackend) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// Get implements storage.Backend.
func (f *FlakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	err := f.GetErr
	f.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	return f.MemoryBackend.Get(ctx, key)
}

// Set implements storage.Backend.
func (f *FlakyBackend) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	err := f.SetErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if err := f.MemoryBackend.Set(ctx, key, value); err != nil {
		return err
	}
	f.mu.Lock()
	f.sets++
	f.mu.Unlock()
	return nil
}

// NewSession opens a session over backend with a FixedClock. A nil backend
// gets a fresh FlakyBackend.
func NewSession(t *testing.T, backend storage.Backend) *session.Session {
	t.Helper()
	if backend == nil {
		backend = NewFlakyBackend()
	}
	s, err := session.Open(context.Background(),
		liststore.New(&FixedClock{}),
		storage.NewAdapter(backend, nil),
		session.Options{Key: StateKey, Closer: backend},
	)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
