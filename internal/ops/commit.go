package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/store"
)

// CommitInput contains parameters for the Commit operation.
type CommitInput struct {
	File    string  // required
	Message *string // optional
}

// Commit snapshots the current bytes of a file that was added in some
// earlier version.
func Commit(ctx context.Context, ws *Workspace, input CommitInput) (*MutationOutput, error) {
	name, err := ValidateFileName(input.File, errors.StatusCommitUsage, "Please specify file to commit.")
	if err != nil {
		return nil, err
	}

	if !ws.Tracker.ExistsInWorkingDirectory(name) {
		return nil, errors.NewFileNotFound(errors.StatusCommitNotFound, name)
	}

	if !ws.Tracker.ExistsInAnyVersion(name) {
		return &MutationOutput{Version: ws.Store.Active(), Report: fmt.Sprintf(msgNotAdded, name)}, nil
	}

	report := fmt.Sprintf(msgCommitted, name)
	workPath := ws.Tracker.WorkPath(name)
	v, err := ws.mutate(ctx, mutation{
		op:             "commit",
		file:           name,
		defaultMessage: report,
		userMessage:    input.Message,
		hashPath:       workPath,
		apply: func(st *store.Stage) error {
			return st.PutFile(name, workPath)
		},
	})
	if err != nil {
		return nil, errors.NewCommitFailed(name, err)
	}

	return &MutationOutput{Version: v, Created: true, Report: report}, nil
}
