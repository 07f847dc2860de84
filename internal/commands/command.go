// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tasklists/internal/config"
	"tasklists/internal/exitcode"
	"tasklists/internal/liststore"
	"tasklists/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsState returns true if the command reads or changes task lists.
	// Commands like help, version, login, logout return false.
	NeedsState() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// svc is nil if NeedsState() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// resolveList looks a list up by name in the current snapshot and reports
// lookup failures as user errors.
func resolveList(svc service.Service, name string, errOut io.Writer) (liststore.List, bool) {
	list, err := liststore.ResolveList(svc.Snapshot(), name)
	switch {
	case err == nil:
		return list, true
	case errors.Is(err, liststore.ErrAmbiguousList):
		fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", name)
	default:
		fmt.Fprintf(errOut, "error: list not found: %s\n", name)
	}
	return liststore.List{}, false
}

// finish reports a committed change: a warning when it was not saved, then
// "ok" unless quiet. The exit code is success either way; the state in
// memory is authoritative and the next change retries the save.
func finish(cfg *config.Config, o service.Outcome, out, errOut io.Writer) int {
	if o.SaveErr != nil {
		fmt.Fprintf(errOut, "warning: state not saved: %v\n", o.SaveErr)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
