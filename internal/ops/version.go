package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/gvt/internal/errors"
)

// VersionOutput contains the result of the Version operation.
type VersionOutput struct {
	Version int    `json:"version"`
	Message string `json:"message"`
	Report  string `json:"report"`
}

// Version reports the active version and its message.
func Version(ctx context.Context, ws *Workspace) (*VersionOutput, error) {
	active := ws.Store.Active()
	msg, err := ws.Store.ReadMessage(active)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &VersionOutput{
		Version: active,
		Message: msg,
		Report:  fmt.Sprintf("Version: %d\n%s", active, msg),
	}, nil
}
