package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/store"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	File    string  // required
	Message *string // optional; replaces the default version message
}

// Add starts tracking a file by snapshotting its current bytes into a new version.
// A file already present in the active version is reported, not re-added.
func Add(ctx context.Context, ws *Workspace, input AddInput) (*MutationOutput, error) {
	name, err := ValidateFileName(input.File, errors.StatusAddUsage, "Please specify file to add")
	if err != nil {
		return nil, err
	}

	if !ws.Tracker.ExistsInWorkingDirectory(name) {
		return nil, errors.NewFileNotFound(errors.StatusAddNotFound, name)
	}

	active := ws.Store.Active()
	if ws.Tracker.ExistsInVersion(active, name) {
		return &MutationOutput{Version: active, Report: fmt.Sprintf(msgAlready, name)}, nil
	}

	report := fmt.Sprintf(msgAdded, name)
	workPath := ws.Tracker.WorkPath(name)
	v, err := ws.mutate(ctx, mutation{
		op:             "add",
		file:           name,
		defaultMessage: report,
		userMessage:    input.Message,
		hashPath:       workPath,
		apply: func(st *store.Stage) error {
			return st.PutFile(name, workPath)
		},
	})
	if err != nil {
		return nil, errors.NewAddFailed(name, err)
	}

	return &MutationOutput{Version: v, Created: true, Report: report}, nil
}
