package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hpungsan/gvt/internal/config"
	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/journal"
	"github.com/hpungsan/gvt/internal/lock"
	"github.com/hpungsan/gvt/internal/store"
	"github.com/hpungsan/gvt/internal/tracker"
)

// LockFile is the advisory lock file inside the repository root.
const LockFile = "lock"

// Workspace is an opened repository: the locked store, its tracker and
// journal, for the duration of one command.
type Workspace struct {
	WorkDir string
	Store   *store.Store
	Tracker *tracker.Tracker
	Journal *sql.DB
	Config  *config.Config
	Log     zerolog.Logger

	lock *lock.Lock
}

// RootPath returns the repository root for workDir.
func RootPath(workDir string, cfg *config.Config) string {
	name := config.DefaultRootName
	if cfg != nil && cfg.RootName != "" {
		name = cfg.RootName
	}
	return filepath.Join(workDir, name)
}

// Open locks the repository in workDir, loads the active version and runs
// recovery for any command that was interrupted.
func Open(ctx context.Context, workDir string, cfg *config.Config, log zerolog.Logger) (*Workspace, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	root := RootPath(workDir, cfg)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, errors.NewNotInitialized()
	}

	lk, err := lock.Acquire(filepath.Join(root, LockFile))
	if err != nil {
		if stderrors.Is(err, lock.ErrLocked) {
			return nil, errors.NewLocked()
		}
		return nil, errors.NewInternal(err)
	}

	st, err := store.Open(root)
	if err != nil {
		lk.Release()
		if stderrors.Is(err, store.ErrCorrupt) {
			return nil, errors.NewCorruptState("Active version pointer is missing or corrupt.", err)
		}
		return nil, errors.NewInternal(err)
	}

	jdb, err := journal.Open(ctx, root)
	if err != nil {
		lk.Release()
		return nil, errors.NewInternal(err)
	}

	ws := &Workspace{
		WorkDir: workDir,
		Store:   st,
		Tracker: tracker.New(st, workDir),
		Journal: jdb,
		Config:  cfg,
		Log:     log,
		lock:    lk,
	}

	if err := ws.recover(ctx); err != nil {
		ws.Close()
		return nil, errors.NewInternal(err)
	}
	return ws, nil
}

// Close releases the journal and the lock.
func (ws *Workspace) Close() error {
	var err error
	if ws.Journal != nil {
		err = ws.Journal.Close()
		ws.Journal = nil
	}
	if lerr := ws.lock.Release(); err == nil {
		err = lerr
	}
	return err
}

// Run opens the workspace, calls fn and closes it again.
func Run[T any](ctx context.Context, workDir string, cfg *config.Config, log zerolog.Logger, fn func(*Workspace) (T, error)) (T, error) {
	var zero T
	ws, err := Open(ctx, workDir, cfg, log)
	if err != nil {
		return zero, err
	}
	defer ws.Close()
	return fn(ws)
}
