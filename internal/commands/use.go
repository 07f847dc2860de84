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
	"tasklists/internal/service"
)

func init() {
	Register(&UseCmd{})
}

// UseCmd implements the use command, which selects the active list.
type UseCmd struct{}

func (c *UseCmd) Name() string      { return "use" }
func (c *UseCmd) Aliases() []string { return []string{"switch"} }
func (c *UseCmd) Synopsis() string  { return "Make a list the active one" }
func (c *UseCmd) Usage() string     { return "use <list-name>" }
func (c *UseCmd) NeedsState() bool  { return true }

func (c *UseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UseCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	list, ok := resolveList(svc, name, errOut)
	if !ok {
		return exitcode.UserError
	}

	return finish(cfg, svc.SetActiveList(ctx, list.ID), out, errOut)
}

// findByName reports whether some list already carries name.
func findByName(svc service.Service, name string) (liststore.List, bool) {
	list, err := liststore.ResolveList(svc.Snapshot(), name)
	return list, err == nil
}
