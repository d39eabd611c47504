package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/gvt/internal/config"
	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/logging"
	"github.com/hpungsan/gvt/internal/mcp"
	"github.com/hpungsan/gvt/internal/ops"
	"github.com/hpungsan/gvt/internal/render"
)

// env is resolved once the global flags are parsed.
type env struct {
	workDir string
	cfg     *config.Config
	log     zerolog.Logger
	json    bool
	stdout  io.Writer
}

// newCLIApp creates the CLI application with all commands.
// globalDir holds the user-wide config.json; it may be empty.
func newCLIApp(globalDir string, stdout, stderr io.Writer) *cli.App {
	e := &env{stdout: stdout, log: zerolog.Nop()}

	app := &cli.App{
		Name:      "gvt",
		Usage:     "Track versions of files in the current directory",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"C"}, Usage: "Working directory (default: current directory)"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error (overrides GVT_LOG_LEVEL and config)"},
			&cli.BoolFlag{Name: "json", Usage: "Print command results as JSON"},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c, globalDir, stderr)
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewUsage(errors.StatusUsage, "Please specify command."))
			}
			return outputError(errors.NewUsage(errors.StatusUsage, fmt.Sprintf("Unknown command %s", c.Args().First())))
		},
		Commands: []*cli.Command{
			initCmd(e),
			addCmd(e),
			commitCmd(e),
			detachCmd(e),
			checkoutCmd(e),
			historyCmd(e),
			versionCmd(e),
			statusCmd(e),
			journalCmd(e),
			mcpCmd(e),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// setup resolves the working directory, loads config and builds the logger.
func (e *env) setup(c *cli.Context, globalDir string, stderr io.Writer) error {
	dir := c.String("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return outputError(errors.NewInternal(err))
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return outputError(errors.NewInternal(err))
	}
	e.workDir = abs

	cfg, err := config.LoadWithRepo(globalDir, abs)
	if err != nil {
		return outputError(errors.NewInvalidRequest(fmt.Sprintf("failed to load config: %v", err)))
	}
	if err := cfg.Validate(); err != nil {
		return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid config: %v", err)))
	}
	e.cfg = cfg
	e.json = c.Bool("json")
	e.log = logging.New(logging.ResolveLevel(c.String("log-level"), cfg.LogLevel), stderr)
	return nil
}

// run opens the workspace for one command.
func run[T any](c *cli.Context, e *env, fn func(context.Context, *ops.Workspace) (T, error)) (T, error) {
	ctx := c.Context
	return ops.Run(ctx, e.workDir, e.cfg, e.log, func(ws *ops.Workspace) (T, error) {
		return fn(ctx, ws)
	})
}

// initCmd creates the init command.
func initCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize version tracking in the working directory",
		Action: func(c *cli.Context) error {
			output, err := ops.Init(c.Context, e.workDir, e.cfg, e.log)
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// messageFlag is the -m flag of the version-creating commands.
func messageFlag() cli.Flag {
	return &cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Version message (replaces the default)"}
}

// addCmd creates the add command.
func addCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Start tracking a file",
		ArgsUsage: "<file> [-m message]",
		Flags:     []cli.Flag{messageFlag()},
		Action: func(c *cli.Context) error {
			output, err := run(c, e, func(ctx context.Context, ws *ops.Workspace) (*ops.MutationOutput, error) {
				return ops.Add(ctx, ws, ops.AddInput{File: c.Args().First(), Message: messageArg(c)})
			})
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// commitCmd creates the commit command.
func commitCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "commit",
		Usage:     "Snapshot the current content of a tracked file",
		ArgsUsage: "<file> [-m message]",
		Flags:     []cli.Flag{messageFlag()},
		Action: func(c *cli.Context) error {
			output, err := run(c, e, func(ctx context.Context, ws *ops.Workspace) (*ops.MutationOutput, error) {
				return ops.Commit(ctx, ws, ops.CommitInput{File: c.Args().First(), Message: messageArg(c)})
			})
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// detachCmd creates the detach command.
func detachCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "detach",
		Usage:     "Stop tracking a file",
		ArgsUsage: "<file> [-m message]",
		Flags:     []cli.Flag{messageFlag()},
		Action: func(c *cli.Context) error {
			output, err := run(c, e, func(ctx context.Context, ws *ops.Workspace) (*ops.MutationOutput, error) {
				return ops.Detach(ctx, ws, ops.DetachInput{File: c.Args().First(), Message: messageArg(c)})
			})
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// checkoutCmd creates the checkout command.
func checkoutCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "checkout",
		Usage:     "Restore working files from a version",
		ArgsUsage: "<version>",
		Action: func(c *cli.Context) error {
			// The repository is checked before the argument.
			output, err := run(c, e, func(ctx context.Context, ws *ops.Workspace) (*ops.CheckoutOutput, error) {
				if c.NArg() == 0 {
					return nil, errors.NewUsage(errors.StatusUsage, "Please specify version to checkout.")
				}
				v, err := ops.ParseVersion(c.Args().First())
				if err != nil {
					return nil, err
				}
				return ops.Checkout(ctx, ws, ops.CheckoutInput{Version: v})
			})
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List versions, most recent first",
		ArgsUsage: "[count]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "last", Aliases: []string{"n"}, Usage: "Number of versions to list"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(render.FormatText), Usage: "Output format: text|markdown|html"},
		},
		Action: func(c *cli.Context) error {
			format, err := render.ParseFormat(c.String("format"))
			if err != nil {
				return outputError(err)
			}

			var input ops.HistoryInput
			raw := c.String("last")
			if raw == "" {
				raw = c.Args().First()
			}
			if raw != "" {
				n, err := ops.ParseCount(raw)
				if err != nil {
					return outputError(err)
				}
				input.Limit = &n
			}

			output, err := run(c, e, func(ctx context.Context, ws *ops.Workspace) (*ops.HistoryOutput, error) {
				return ops.History(ctx, ws, input)
			})
			if err != nil {
				return outputError(err)
			}
			if output.Report, err = render.History(format, output.Entries); err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// versionCmd creates the version command.
func versionCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show the active version and its message",
		Action: func(c *cli.Context) error {
			output, err := run(c, e, ops.Version)
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Compare tracked files with their working copies",
		Action: func(c *cli.Context) error {
			output, err := run(c, e, ops.Status)
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// journalCmd creates the journal command.
func journalCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "List recent mutating commands",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultJournalLimit, Usage: "Maximum entries (max 500)"},
		},
		Action: func(c *cli.Context) error {
			output, err := run(c, e, func(ctx context.Context, ws *ops.Workspace) (*ops.JournalOutput, error) {
				return ops.Journal(ctx, ws, ops.JournalInput{Limit: c.Int("limit")})
			})
			if err != nil {
				return outputError(err)
			}
			return e.output(output, output.Report)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the gvt commands as MCP tools over stdio",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(e.cfg.DisabledTools); len(unknown) > 0 {
				e.log.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
			}
			if err := mcp.Run(e.workDir, e.cfg, e.log, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// messageArg returns the version message from -m, or from a trailing
// "-m <message>" or bare message after the file name.
func messageArg(c *cli.Context) *string {
	if c.IsSet("message") {
		m := c.String("message")
		return &m
	}
	rest := c.Args().Tail()
	if len(rest) == 0 {
		return nil
	}
	if (rest[0] == "-m" || rest[0] == "--message") && len(rest) > 1 {
		return &rest[1]
	}
	if rest[0] == "-m" || rest[0] == "--message" {
		return nil
	}
	return &rest[0]
}

// output prints the report, or the full result as JSON with --json.
func (e *env) output(v any, report string) error {
	if e.json {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(e.stdout, report)
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	if gErr, ok := err.(*errors.GvtError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", gErr.Code, gErr.Message), gErr.Status)
	}
	return cli.Exit(err.Error(), errors.StatusInternal)
}
