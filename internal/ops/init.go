package ops

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/hpungsan/gvt/internal/config"
	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/journal"
	"github.com/hpungsan/gvt/internal/store"
)

// Init creates the repository in workDir with an empty version 0.
// It is the only command that runs without an opened Workspace.
func Init(ctx context.Context, workDir string, cfg *config.Config, log zerolog.Logger) (*MutationOutput, error) {
	root := RootPath(workDir, cfg)
	if _, err := os.Stat(root); err == nil {
		return nil, errors.NewAlreadyInitialized()
	}

	if _, err := store.Create(root); err != nil {
		if stderrors.Is(err, store.ErrRootExists) {
			return nil, errors.NewAlreadyInitialized()
		}
		return nil, errors.NewInternal(err)
	}

	jdb, err := journal.Open(ctx, root)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	jdb.Close()

	log.Info().Str("root", root).Msg("repository initialized")
	return &MutationOutput{
		Version: 0,
		Created: true,
		Report:  msgInitialized,
	}, nil
}
