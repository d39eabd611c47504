package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/gvt/internal/journal"
)

// recover resolves journal entries left pending by an interrupted command.
// A version that was renamed into place but never pointed at is rolled
// forward; anything that never reached promote is discarded. Staging
// directories with no pending entry are removed.
func (ws *Workspace) recover(ctx context.Context) error {
	pending, err := journal.Pending(ctx, ws.Journal)
	if err != nil {
		return err
	}

	for _, e := range pending {
		log := ws.Log.Warn().Str("id", e.ID).Str("op", e.Op).Int("target", e.TargetVersion)
		active := ws.Store.Active()

		switch {
		case ws.Store.HasVersion(e.TargetVersion) && active == e.TargetVersion-1:
			if err := ws.Store.SetActive(e.TargetVersion); err != nil {
				return fmt.Errorf("roll pointer forward to %d: %w", e.TargetVersion, err)
			}
			if err := journal.MarkRecovered(ctx, ws.Journal, e.ID, "pointer rolled forward"); err != nil {
				return err
			}
			log.Msg("recovered promoted version")

		case ws.Store.HasVersion(e.TargetVersion) && active >= e.TargetVersion:
			if err := journal.MarkRecovered(ctx, ws.Journal, e.ID, "already promoted"); err != nil {
				return err
			}
			log.Msg("closed stale journal entry")

		default:
			if err := ws.Store.RemoveStaging(e.StageDir); err != nil {
				return fmt.Errorf("remove %s: %w", e.StageDir, err)
			}
			if err := journal.Abort(ctx, ws.Journal, e.ID, "interrupted before promote"); err != nil {
				return err
			}
			log.Msg("discarded interrupted version")
		}
	}

	orphans, err := ws.Store.StagingDirs()
	if err != nil {
		return err
	}
	for _, dir := range orphans {
		if err := ws.Store.RemoveStaging(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
		ws.Log.Warn().Str("dir", dir).Msg("removed orphan staging directory")
	}
	return nil
}
