package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// globalConfigDir returns the user config directory for gvt (for example
// ~/.config/gvt), or "" when there is none. It never matches a repository
// control directory, so init works in the home directory.
func globalConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gvt")
}

func main() {
	app := newCLIApp(globalConfigDir(), os.Stdout, os.Stderr)
	os.Exit(exitStatus(app, os.Args))
}

// exitStatus runs the app and turns its result into a process status.
// Exit errors carry their own status and message; anything else is internal.
func exitStatus(app *cli.App, args []string) int {
	err := app.Run(args)
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(cli.ExitCoder); ok {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(app.ErrWriter, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintf(app.ErrWriter, "error: %v\n", err)
	return 1
}
