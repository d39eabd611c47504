package ops

import (
	"context"

	"github.com/hpungsan/gvt/internal/journal"
	"github.com/hpungsan/gvt/internal/store"
	"github.com/hpungsan/gvt/internal/tracker"
)

// mutation describes one version-creating change.
type mutation struct {
	op             string
	file           string
	defaultMessage string
	userMessage    *string
	// hashPath, when set, is hashed into the journal entry.
	hashPath string
	apply    func(st *store.Stage) error
}

// mutate creates version active+1: journal, stage a copy of the active
// version, apply the change, set the message, promote. The pointer moves
// only inside Promote, after the new directory is complete.
func (ws *Workspace) mutate(ctx context.Context, m mutation) (int, error) {
	id, err := journal.NewID()
	if err != nil {
		return 0, err
	}

	source := ws.Store.Active()
	entry := &journal.Entry{
		ID:            id,
		Op:            m.op,
		File:          m.file,
		SourceVersion: source,
		TargetVersion: source + 1,
		StageDir:      store.StageDirName(id),
	}
	if m.hashPath != "" {
		if entry.ContentHash, err = tracker.HashFile(m.hashPath); err != nil {
			return 0, err
		}
	}
	if err := journal.Begin(ctx, ws.Journal, entry); err != nil {
		return 0, err
	}

	st, err := ws.Store.Stage(id, source)
	if err != nil {
		ws.abort(ctx, id, err)
		return 0, err
	}

	if err := m.apply(st); err != nil {
		st.Discard()
		ws.abort(ctx, id, err)
		return 0, err
	}

	st.SetMessage(m.defaultMessage)
	if msg, ok := userMessage(m.userMessage); ok {
		st.SetMessage(msg)
	}

	v, err := st.Promote()
	if err != nil {
		if ws.Store.HasVersion(source + 1) {
			// Renamed but the pointer write failed; recovery rolls it forward.
			ws.Log.Error().Err(err).Str("id", id).Int("version", source+1).Msg("pointer update failed after promote")
			return 0, err
		}
		st.Discard()
		ws.abort(ctx, id, err)
		return 0, err
	}

	if err := journal.Complete(ctx, ws.Journal, id); err != nil {
		ws.Log.Warn().Err(err).Str("id", id).Msg("journal completion failed")
	}
	ws.Log.Info().Str("op", m.op).Str("file", m.file).Int("version", v).Msg("version created")
	return v, nil
}

func (ws *Workspace) abort(ctx context.Context, id string, cause error) {
	if err := journal.Abort(ctx, ws.Journal, id, cause.Error()); err != nil {
		ws.Log.Warn().Err(err).Str("id", id).Msg("journal abort failed")
	}
}
