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

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task from the active list" }
func (c *RmCmd) Usage() string     { return "rm <n> | rm id:<id>" }
func (c *RmCmd) NeedsState() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	list, ok := liststore.ActiveList(svc.Snapshot())
	if !ok {
		fmt.Fprintln(errOut, "error: no active list")
		return exitcode.UserError
	}

	task, err := ref.Resolve(list)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	return finish(cfg, svc.DeleteTask(ctx, task.ID), out, errOut)
}
