package commands

import (
	"context"
	"flag"
	"io"

	"tasklists/internal/config"
	"tasklists/internal/exitcode"
	"tasklists/internal/output"
	"tasklists/internal/service"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists, the active one marked with *" }
func (c *ListsCmd) Usage() string     { return "lists" }
func (c *ListsCmd) NeedsState() bool  { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	st := svc.Snapshot()
	for _, list := range st.Lists {
		output.FormatListName(out, list, list.ID == st.ActiveListID)
	}
	return exitcode.Success
}
