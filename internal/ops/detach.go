package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/store"
)

// DetachInput contains parameters for the Detach operation.
type DetachInput struct {
	File    string  // required
	Message *string // optional
}

// Detach stops tracking a file from the next version on. Earlier versions
// keep their copies. Only the active snapshot is consulted; the working
// copy is irrelevant.
func Detach(ctx context.Context, ws *Workspace, input DetachInput) (*MutationOutput, error) {
	name, err := ValidateFileName(input.File, errors.StatusDetachUsage, "Please specify file to detach.")
	if err != nil {
		return nil, err
	}

	active := ws.Store.Active()
	if !ws.Tracker.ExistsInVersion(active, name) {
		return &MutationOutput{Version: active, Report: fmt.Sprintf(msgNotAdded, name)}, nil
	}

	report := fmt.Sprintf(msgDetached, name)
	v, err := ws.mutate(ctx, mutation{
		op:             "detach",
		file:           name,
		defaultMessage: report,
		userMessage:    input.Message,
		apply: func(st *store.Stage) error {
			return st.RemoveFile(name)
		},
	})
	if err != nil {
		return nil, errors.NewDetachFailed(name, err)
	}

	return &MutationOutput{Version: v, Created: true, Report: report}, nil
}
