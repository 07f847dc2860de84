// Package session hosts the current task-list snapshot for one process.
//
// A Session applies intents one at a time in arrival order, commits each new
// snapshot in memory, and then saves it. Saving happens outside the state
// lock: readers see a committed snapshot immediately, and a slow or failing
// save never rolls it back. Saves are ordered by version so an older
// snapshot never overwrites a newer one.
//
// A session whose initial load failed never saves: the stored record is
// still there and the default state it started from must not replace it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"tasklists/internal/liststore"
	"tasklists/internal/service"
)

// DefaultSaveTimeout bounds a single save.
const DefaultSaveTimeout = 5 * time.Second

// ErrNotLoaded is wrapped by the SaveErr of every change made in a session
// whose saved state could not be loaded.
var ErrNotLoaded = errors.New("saved state could not be loaded, changes are kept in memory only")

// Persister is the storage contract a Session needs.
type Persister interface {
	Load(ctx context.Context, key string) (*liststore.AppState, error)
	Save(ctx context.Context, key string, st liststore.AppState) error
}

// Options configure a Session.
type Options struct {
	Key         string        // storage key, required
	SaveTimeout time.Duration // zero uses DefaultSaveTimeout
	Logger      *slog.Logger  // nil discards
	Closer      io.Closer     // closed by Close, optional
}

// Session implements service.Service.
type Session struct {
	ops     *liststore.Store
	persist Persister
	opts    Options

	mu      sync.Mutex
	state   liststore.AppState
	version uint64
	dirty   bool  // last save of the current version failed
	loadErr error // set when Open could not read the medium

	saveMu sync.Mutex
	saved  uint64
}

var _ service.Service = (*Session)(nil)

// Open loads the snapshot stored under opts.Key and starts a session from it.
// The returned session is always usable. A non-nil error is a storage
// warning: the session started from the default state instead and will not
// save, so the unread record is left as it is.
func Open(ctx context.Context, ops *liststore.Store, persist Persister, opts Options) (*Session, error) {
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{ops: ops, persist: persist, opts: opts}

	persisted, err := persist.Load(ctx, opts.Key)
	if err != nil {
		opts.Logger.Warn("could not load saved state, starting fresh without saving", "err", err)
		s.loadErr = err
		s.state = ops.Initialize(nil)
		return s, err
	}
	s.state = ops.Initialize(persisted)
	if persisted == nil || !reflect.DeepEqual(*persisted, s.state) {
		// Fresh or repaired state has not been written yet.
		s.dirty = true
	}
	return s, err
}

// Snapshot implements service.Service.
func (s *Session) Snapshot() liststore.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return liststore.Clone(s.state)
}

// Update implements service.Service.
func (s *Session) Update(ctx context.Context, fn service.Transition) service.Outcome {
	s.mu.Lock()
	next := fn(s.ops, s.state)
	changed := !reflect.DeepEqual(next, s.state)
	if changed {
		s.state = next
		s.version++
	}
	version, needSave := s.version, changed || s.dirty
	out := service.Outcome{State: liststore.Clone(s.state)}
	s.mu.Unlock()

	switch {
	case !needSave:
	case s.loadErr != nil:
		out.SaveErr = fmt.Errorf("%w: %w", ErrNotLoaded, s.loadErr)
	default:
		out.SaveErr = s.save(ctx, out.State, version)
	}
	return out
}

func (s *Session) save(ctx context.Context, st liststore.AppState, version uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if version < s.saved {
		// A newer snapshot is already on disk.
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.SaveTimeout)
	defer cancel()
	err := s.persist.Save(ctx, s.opts.Key, st)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.dirty = true
		s.opts.Logger.Warn("state not saved", "version", version, "err", err)
		return err
	}
	s.saved = version
	if version == s.version {
		s.dirty = false
	}
	s.opts.Logger.Debug("state saved", "version", version)
	return nil
}

// Flush saves the current snapshot if an earlier save failed or the loaded
// state was never written.
func (s *Session) Flush(ctx context.Context) error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, s.loadErr)
	}
	return s.Update(ctx, func(_ *liststore.Store, st liststore.AppState) liststore.AppState { return st }).SaveErr
}

func (s *Session) CreateList(ctx context.Context, name string) service.Outcome {
	return s.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.CreateList(st, name)
	})
}

func (s *Session) RenameList(ctx context.Context, listID liststore.ID, name string) service.Outcome {
	return s.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.RenameList(st, listID, name)
	})
}

func (s *Session) DeleteList(ctx context.Context, listID liststore.ID) service.Outcome {
	return s.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.DeleteList(st, listID)
	})
}

func (s *Session) SetActiveList(ctx context.Context, listID liststore.ID) service.Outcome {
	return s.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.SetActiveList(st, listID)
	})
}

func (s *Session) AddTask(ctx context.Context, text, category string) service.Outcome {
	return s.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.AddTask(st, text, category)
	})
}

func (s *Session) DeleteTask(ctx context.Context, taskID liststore.ID) service.Outcome {
	return s.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.DeleteTask(st, taskID)
	})
}

// Close implements service.Service.
func (s *Session) Close() error {
	if s.opts.Closer == nil {
		return nil
	}
	return s.opts.Closer.Close()
}
