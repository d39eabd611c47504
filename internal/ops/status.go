package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/tracker"
)

// StatusOutput contains the result of the Status operation.
type StatusOutput struct {
	Version int                  `json:"version"`
	Files   []tracker.FileStatus `json:"files"`
	Report  string               `json:"report"`
}

// Status compares the files of the active version with their working copies.
func Status(ctx context.Context, ws *Workspace) (*StatusOutput, error) {
	files, err := ws.Tracker.Status()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	active := ws.Store.Active()
	var b strings.Builder
	fmt.Fprintf(&b, "Version: %d", active)
	if len(files) == 0 {
		b.WriteString("\nNo tracked files.")
	}
	for _, f := range files {
		fmt.Fprintf(&b, "\n%-10s %s", f.State, f.Name)
	}

	return &StatusOutput{Version: active, Files: files, Report: b.String()}, nil
}
