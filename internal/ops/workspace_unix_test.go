//go:build !windows

package ops

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hpungsan/gvt/internal/errors"
)

func TestOpen_LockedWhileHeld(t *testing.T) {
	workDir := initRepo(t)
	ws := openWS(t, workDir, nil)

	_, err := Open(context.Background(), workDir, nil, zerolog.Nop())
	if !errors.Is(err, errors.ErrLocked) {
		t.Fatalf("second Open error = %v, want LOCKED", err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	again, err := Open(context.Background(), workDir, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open after Close failed: %v", err)
	}
	again.Close()
}
