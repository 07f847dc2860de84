package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklists/internal/config"
	"tasklists/internal/exitcode"
	"tasklists/internal/service"
)

func init() {
	Register(&RenameListCmd{})
}

// RenameListCmd implements the renamelist command.
type RenameListCmd struct {
	to string
}

// SetTo sets the new name (for testing).
func (c *RenameListCmd) SetTo(name string) {
	c.to = name
}

func (c *RenameListCmd) Name() string      { return "renamelist" }
func (c *RenameListCmd) Aliases() []string { return []string{"mvlist"} }
func (c *RenameListCmd) Synopsis() string  { return "Rename a list" }
func (c *RenameListCmd) Usage() string     { return "renamelist --to <new-name> <list-name>" }
func (c *RenameListCmd) NeedsState() bool  { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.to, "to", "", "")
}

func (c *RenameListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	newName := strings.TrimSpace(c.to)
	if newName == "" {
		fmt.Fprintln(errOut, "error: new name required (use --to)")
		return exitcode.UserError
	}

	list, ok := resolveList(svc, name, errOut)
	if !ok {
		return exitcode.UserError
	}

	if other, ok := findByName(svc, newName); ok && other.ID != list.ID {
		fmt.Fprintf(errOut, "error: list already exists: %s\n", newName)
		return exitcode.UserError
	}

	return finish(cfg, svc.RenameList(ctx, list.ID, newName), out, errOut)
}
