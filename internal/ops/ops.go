package ops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/store"
)

// Journal listing limits
const (
	DefaultJournalLimit = 20
	MaxJournalLimit     = 500
)

// Default version messages and reports.
const (
	msgInitialized = "Current directory initialized successfully."
	msgAdded       = "File added successfully. File: %s"
	msgAlready     = "File already added. File: %s"
	msgCommitted   = "File committed successfully. File: %s"
	msgDetached    = "File detached successfully. File: %s"
	msgNotAdded    = "File is not added to gvt. File: %s"
	msgCheckout    = "Checkout successful for version: %d"
)

// MutationOutput is the result of init, add, commit and detach.
// Created is false when a precondition short-circuited the command
// (already added, not added); Version is then the unchanged active version.
type MutationOutput struct {
	Version int    `json:"version"`
	Created bool   `json:"created"`
	Report  string `json:"report"`
}

// ValidateFileName checks a tracked-file name. Names are flat: no path
// separators, no "." or "..", and not the per-version message record.
// An empty name yields a usage error with the command's status and message.
// The name is otherwise kept byte-for-byte; surrounding spaces are part of it.
func ValidateFileName(name string, usageStatus int, usageMsg string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.NewUsage(usageStatus, usageMsg)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.NewInvalidRequest(fmt.Sprintf("file name must be a plain name without path separators: %s", name))
	}
	if name == store.MessageFile {
		return "", errors.NewInvalidRequest(fmt.Sprintf("file name is reserved: %s", name))
	}
	return name, nil
}

// ParseVersion parses a checkout target given as text.
func ParseVersion(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0, errors.NewInvalidVersion(raw)
	}
	return v, nil
}

// ParseCount parses a history count given as text.
func ParseCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("history count must be a positive integer: %s", raw))
	}
	return n, nil
}

// userMessage returns the caller's message if one was supplied.
func userMessage(m *string) (string, bool) {
	if m == nil {
		return "", false
	}
	s := strings.TrimSpace(*m)
	return s, s != ""
}
