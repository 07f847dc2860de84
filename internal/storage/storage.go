// Package storage persists AppState snapshots in a key/value medium.
//
// The Adapter owns serialization; a Backend only moves opaque bytes. Load
// treats a missing or unreadable record as "no prior state" and only fails
// when the medium itself fails. An unreadable or damaged record is copied
// to <key>.bak first, since the next save replaces it.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"tasklists/internal/liststore"
)

// Backend kinds accepted by Open.
const (
	KindSQLite = "sqlite"
	KindFile   = "file"
	KindMemory = "memory"
)

// BackupSuffix is appended to the key of a damaged record's copy.
const BackupSuffix = ".bak"

// Error reports a failure of the backing medium or of encoding a snapshot.
type Error struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Backend is a blob store addressed by key.
// Get reports ok=false, with a nil error, when the key has no value.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the backend of the given kind rooted at path.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindSQLite, "":
		return NewSQLite(path)
	case KindFile:
		return NewFile(path)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", kind)
	}
}

// Adapter loads and saves snapshots through a Backend.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// NewAdapter wraps backend. A nil logger discards log output.
func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{backend: backend, logger: logger}
}

// Load returns the snapshot stored under key, or nil when there is none or
// it cannot be decoded.
func (a *Adapter) Load(ctx context.Context, key string) (*liststore.AppState, error) {
	data, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		return nil, &Error{Op: "load", Key: key, Err: err}
	}
	if !ok {
		a.logger.Debug("no saved state", "key", key)
		return nil, nil
	}

	st, err := Decode(data)
	if err != nil {
		a.logger.Warn("discarding unreadable state", "key", key, "err", err)
		a.backup(ctx, key, data)
		return nil, nil
	}
	if err := damaged(*st); err != nil {
		a.logger.Warn("saved state needs repair", "key", key, "err", err)
		a.backup(ctx, key, data)
	}
	a.logger.Debug("loaded state", "key", key, "lists", len(st.Lists))
	return st, nil
}

// damaged reports structural problems in st. A dangling active selection
// is not one: it is repaired without losing anything.
func damaged(st liststore.AppState) error {
	st.ActiveListID = liststore.NoID
	return liststore.Validate(st)
}

func (a *Adapter) backup(ctx context.Context, key string, data []byte) {
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}
	if err := a.backend.Set(ctx, key+BackupSuffix, data); err != nil {
		a.logger.Warn("could not back up saved state", "key", key, "err", err)
		return
	}
	a.logger.Info("backed up saved state", "key", key+BackupSuffix)
}

// Save stores st under key.
func (a *Adapter) Save(ctx context.Context, key string, st liststore.AppState) error {
	data, err := Encode(st)
	if err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	if err := a.backend.Set(ctx, key, data); err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	a.logger.Debug("saved state", "key", key, "bytes", len(data))
	return nil
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
