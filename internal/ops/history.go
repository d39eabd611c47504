package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/gvt/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Limit *int // nil: config history_limit (0 = all)
}

// HistoryEntry is one version in the log.
type HistoryEntry struct {
	Version int    `json:"version"`
	Message string `json:"message"`
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Active  int            `json:"active"`
	Entries []HistoryEntry `json:"entries"`
	Report  string         `json:"report"`
}

// History lists versions from the active one downward, most recent first.
// A limit N yields versions active..active-N+1, clipped at 0.
func History(ctx context.Context, ws *Workspace, input HistoryInput) (*HistoryOutput, error) {
	limit := ws.Config.HistoryLimit
	if input.Limit != nil {
		if *input.Limit < 1 {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("history count must be a positive integer: %d", *input.Limit))
		}
		limit = *input.Limit
	}

	active := ws.Store.Active()
	end := -1
	if limit > 0 && active-limit > end {
		end = active - limit
	}

	entries := make([]HistoryEntry, 0, active-end)
	for v := active; v > end; v-- {
		msg, err := ws.Store.ReadMessage(v)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, HistoryEntry{Version: v, Message: msg})
	}

	return &HistoryOutput{
		Active:  active,
		Entries: entries,
		Report:  FormatHistory(entries),
	}, nil
}

// FormatHistory renders entries as "<version>: <message>" lines.
func FormatHistory(entries []HistoryEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", e.Version, e.Message)
	}
	return b.String()
}
