// Package render formats version history for the CLI and MCP outputs.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/ops"
)

// Format is a history output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown history format: %s (use text, markdown or html)", s))
	}
}

// History renders entries in the given format.
func History(f Format, entries []ops.HistoryEntry) (string, error) {
	switch f {
	case FormatText, "":
		return ops.FormatHistory(entries), nil
	case FormatMarkdown:
		return Markdown(entries), nil
	case FormatHTML:
		return HTML(entries)
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown history format: %s", f))
	}
}

// Markdown renders entries as a two-column table, most recent first.
func Markdown(entries []ops.HistoryEntry) string {
	var b strings.Builder
	b.WriteString("| Version | Message |\n")
	b.WriteString("| ---: | --- |\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s |\n", e.Version, escapeMarkdown(e.Message))
	}
	return b.String()
}

// HTML converts the Markdown table to an HTML fragment.
func HTML(entries []ops.HistoryEntry) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(entries)), &buf); err != nil {
		return "", errors.NewInternal(err)
	}
	return buf.String(), nil
}

// escapeMarkdown backslash-escapes characters that would otherwise be read
// as markup, so a message always renders as literal text.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()<>#+-.!|~&", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
