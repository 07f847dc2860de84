package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklists/internal/config"
	"tasklists/internal/exitcode"
	"tasklists/internal/liststore"
	"tasklists/internal/output"
	"tasklists/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklists` (no args) and `tasklists list <list-name>`.
type ListCmd struct {
	all bool
}

// SetAll sets the all flag (for testing).
func (c *ListCmd) SetAll(all bool) {
	c.all = all
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "Print the tasks of a list" }
func (c *ListCmd) Usage() string     { return "list [--all] [list-name]" }
func (c *ListCmd) NeedsState() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	st := svc.Snapshot()

	if c.all {
		if len(args) > 0 {
			fmt.Fprintln(errOut, "error: --all takes no list name")
			return exitcode.UserError
		}
		for _, list := range st.Lists {
			printList(cfg, out, list, list.ID == st.ActiveListID)
		}
		return exitcode.Success
	}

	var list liststore.List
	if name := strings.TrimSpace(strings.Join(args, " ")); name != "" {
		var ok bool
		if list, ok = resolveList(svc, name, errOut); !ok {
			return exitcode.UserError
		}
	} else {
		var ok bool
		if list, ok = liststore.ActiveList(st); !ok {
			fmt.Fprintln(errOut, "error: no active list")
			return exitcode.UserError
		}
	}

	printList(cfg, out, list, list.ID == st.ActiveListID)
	return exitcode.Success
}

// printList prints a list section: header, then its tasks numbered from 1.
func printList(cfg *config.Config, out io.Writer, list liststore.List, active bool) {
	output.FormatListHeader(out, list.Name, active)
	for i, task := range list.Tasks {
		output.FormatTask(out, i+1, task)
	}
	if len(list.Tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks yet")
	}
}
