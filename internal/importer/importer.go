// Package importer copies task lists from outside sources into the state:
// a remote task service or a file in the stored snapshot format.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tasklists/internal/liststore"
	"tasklists/internal/service"
	"tasklists/internal/storage"
)

var (
	// ErrRemoteListNotFound is returned when the requested remote list does
	// not exist.
	ErrRemoteListNotFound = errors.New("remote list not found")

	// ErrNothingToImport is returned when a legacy file holds no lists.
	ErrNothingToImport = errors.New("nothing to import")
)

// RemoteList is a task list as reported by a Source.
type RemoteList struct {
	ID    string
	Title string
}

// RemoteTask is an open task as reported by a Source.
type RemoteTask struct {
	ID      string
	Title   string
	Updated time.Time
}

// Source is a read-only remote task service.
type Source interface {
	// ListLists returns all lists in the service's order.
	ListLists(ctx context.Context) ([]RemoteList, error)

	// ListOpenTasks returns every open task of a list.
	ListOpenTasks(ctx context.Context, listID string) ([]RemoteTask, error)
}

// Options controls FromSource.
type Options struct {
	// List restricts the import to the remote list with this title
	// (case-insensitive). Empty imports every list.
	List string

	// Layout formats remote timestamps. Empty leaves them to the clock.
	Layout string
}

// Summary counts what an import added.
type Summary struct {
	Lists int
	Tasks int
}

func (s Summary) String() string {
	return fmt.Sprintf("imported %d lists, %d tasks", s.Lists, s.Tasks)
}

type pendingList struct {
	name   string
	drafts []liststore.Draft
}

// FromSource copies remote lists into svc as new local lists. Everything is
// fetched before the state changes, so a network failure leaves it untouched
// and a success is committed as one change.
func FromSource(ctx context.Context, svc service.Service, src Source, opts Options) (Summary, service.Outcome, error) {
	remote, err := src.ListLists(ctx)
	if err != nil {
		return Summary{}, service.Outcome{}, fmt.Errorf("list remote lists: %w", err)
	}

	if want := strings.TrimSpace(opts.List); want != "" {
		var matched []RemoteList
		for _, rl := range remote {
			if strings.EqualFold(strings.TrimSpace(rl.Title), want) {
				matched = append(matched, rl)
			}
		}
		if len(matched) == 0 {
			return Summary{}, service.Outcome{}, fmt.Errorf("%w: %s", ErrRemoteListNotFound, want)
		}
		remote = matched
	}

	pending := make([]pendingList, 0, len(remote))
	for _, rl := range remote {
		tasks, err := src.ListOpenTasks(ctx, rl.ID)
		if err != nil {
			return Summary{}, service.Outcome{}, fmt.Errorf("list tasks of %q: %w", rl.Title, err)
		}
		p := pendingList{name: rl.Title}
		for _, rt := range tasks {
			d := liststore.Draft{Text: rt.Title}
			if opts.Layout != "" && !rt.Updated.IsZero() {
				d.CreatedAt = rt.Updated.Local().Format(opts.Layout)
			}
			p.drafts = append(p.drafts, d)
		}
		pending = append(pending, p)
	}

	return apply(ctx, svc, pending)
}

// FromLegacy imports a file holding a snapshot object or a legacy list array.
// Each list is added as a new list; its ids are reassigned and timestamps
// and categories are kept.
func FromLegacy(ctx context.Context, svc service.Service, data []byte) (Summary, service.Outcome, error) {
	st, err := storage.Decode(data)
	if err != nil {
		return Summary{}, service.Outcome{}, err
	}
	if len(st.Lists) == 0 {
		return Summary{}, service.Outcome{}, ErrNothingToImport
	}

	pending := make([]pendingList, 0, len(st.Lists))
	for _, l := range st.Lists {
		p := pendingList{name: l.Name}
		for _, t := range l.Tasks {
			p.drafts = append(p.drafts, liststore.Draft{
				Text:      t.Text,
				CreatedAt: t.CreatedAt,
				Category:  t.Category,
			})
		}
		pending = append(pending, p)
	}
	return apply(ctx, svc, pending)
}

func apply(ctx context.Context, svc service.Service, pending []pendingList) (Summary, service.Outcome, error) {
	var before liststore.AppState
	o := svc.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		before = st
		for _, p := range pending {
			st = ops.ImportList(st, p.name, p.drafts)
		}
		return st
	})

	sum := Summary{Lists: len(o.State.Lists) - len(before.Lists)}
	for _, l := range o.State.Lists[len(before.Lists):] {
		sum.Tasks += len(l.Tasks)
	}
	return sum, o, nil
}
