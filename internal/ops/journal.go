package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/journal"
)

// JournalInput contains parameters for the Journal operation.
type JournalInput struct {
	Limit int // default 20, max 500
}

// JournalOutput contains the result of the Journal operation.
type JournalOutput struct {
	Entries []journal.Entry `json:"entries"`
	Report  string          `json:"report"`
}

// Journal lists the most recent mutating commands.
func Journal(ctx context.Context, ws *Workspace, input JournalInput) (*JournalOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	if limit > MaxJournalLimit {
		limit = MaxJournalLimit
	}

	entries, err := journal.Recent(ctx, ws.Journal, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("No journal entries.")
	}
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %-7s %d->%d %-9s %s", e.ID, e.Op, e.SourceVersion, e.TargetVersion, e.State, e.File)
	}

	return &JournalOutput{Entries: entries, Report: b.String()}, nil
}
