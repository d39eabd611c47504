package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hpungsan/gvt/internal/config"
	"github.com/hpungsan/gvt/internal/errors"
)

// CheckoutInput contains parameters for the Checkout operation.
type CheckoutInput struct {
	Version int
}

// CheckoutOutput contains the result of the Checkout operation.
type CheckoutOutput struct {
	Version  int      `json:"version"`
	Restored []string `json:"restored"`
	Skipped  []string `json:"skipped,omitempty"`
	Report   string   `json:"report"`
}

// Checkout overwrites working files with their content from a version.
// With checkout_mode "existing" only files already present in the working
// directory are restored; "all" recreates missing ones too. The active
// pointer is never changed.
func Checkout(ctx context.Context, ws *Workspace, input CheckoutInput) (*CheckoutOutput, error) {
	target := input.Version
	if target < 0 || target > ws.Store.Active() {
		return nil, errors.NewInvalidVersion(strconv.Itoa(target))
	}

	names, err := ws.Store.ListFiles(target)
	if err != nil {
		return nil, errors.NewCheckoutFailed(target, err)
	}

	restoreAll := ws.Config.CheckoutMode == config.CheckoutAll
	out := &CheckoutOutput{Version: target, Restored: []string{}}
	for _, name := range names {
		if !restoreAll && !ws.Tracker.ExistsInWorkingDirectory(name) {
			out.Skipped = append(out.Skipped, name)
			continue
		}
		if err := restoreFile(ws.Store.FilePath(target, name), ws.Tracker.WorkPath(name)); err != nil {
			return nil, errors.NewCheckoutFailed(target, fmt.Errorf("restore %s: %w", name, err))
		}
		out.Restored = append(out.Restored, name)
	}

	ws.Log.Info().Int("version", target).Int("restored", len(out.Restored)).Msg("checkout")
	out.Report = fmt.Sprintf(msgCheckout, target)
	return out, nil
}

// restoreFile replaces dst with a copy of src via a temp file and rename.
func restoreFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".gvt-restore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
