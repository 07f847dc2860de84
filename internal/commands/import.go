package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tasklists/internal/backend/googletasks"
	"tasklists/internal/config"
	"tasklists/internal/exitcode"
	"tasklists/internal/importer"
	"tasklists/internal/service"
)

// GoogleSource opens the Google Tasks source. Tests replace it.
var GoogleSource = func(ctx context.Context, cfg *config.Config) (importer.Source, error) {
	return googletasks.New(ctx, cfg)
}

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command.
type ImportCmd struct{}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Copy lists from Google Tasks or a saved file" }
func (c *ImportCmd) Usage() string     { return "import google [--list <name>] | import file <path>" }
func (c *ImportCmd) NeedsState() bool  { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: import source required (google or file)")
		return exitcode.UserError
	}

	switch args[0] {
	case "google":
		return c.runGoogle(ctx, cfg, svc, args[1:], out, errOut)
	case "file":
		return c.runFile(ctx, cfg, svc, args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown import source: %s\n", args[0])
		return exitcode.UserError
	}
}

func (c *ImportCmd) runGoogle(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("import google", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	listName := fs.String("list", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", fs.Arg(0))
		return exitcode.UserError
	}

	src, err := GoogleSource(ctx, cfg)
	if err != nil {
		if errors.Is(err, googletasks.ErrNotLoggedIn) {
			fmt.Fprintf(errOut, "error: %v\n", err)
		} else {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		}
		return exitcode.AuthError
	}

	sum, o, err := importer.FromSource(ctx, svc, src, importer.Options{
		List:   *listName,
		Layout: cfg.TimestampFormat,
	})
	switch {
	case errors.Is(err, importer.ErrRemoteListNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, googletasks.ErrNotLoggedIn):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case err != nil:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	return reportImport(cfg, sum, o, out, errOut)
}

func (c *ImportCmd) runFile(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	path := strings.TrimSpace(strings.Join(args, " "))
	if path == "" {
		fmt.Fprintln(errOut, "error: file path required")
		return exitcode.UserError
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sum, o, err := importer.FromLegacy(ctx, svc, data)
	if err != nil {
		fmt.Fprintf(errOut, "error: cannot import %s: %v\n", path, err)
		return exitcode.UserError
	}
	return reportImport(cfg, sum, o, out, errOut)
}

func reportImport(cfg *config.Config, sum importer.Summary, o service.Outcome, out, errOut io.Writer) int {
	if o.SaveErr != nil {
		fmt.Fprintf(errOut, "warning: state not saved: %v\n", o.SaveErr)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, sum)
	}
	return exitcode.Success
}
