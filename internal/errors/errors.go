package errors

import "fmt"

// ErrorCode represents a gvt error code.
type ErrorCode string

const (
	ErrUsage              ErrorCode = "USAGE"               // 1
	ErrNotInitialized     ErrorCode = "NOT_INITIALIZED"     // 2
	ErrInternal           ErrorCode = "INTERNAL"            // 3
	ErrCorruptState       ErrorCode = "CORRUPT_STATE"       // 4
	ErrLocked             ErrorCode = "LOCKED"              // 5
	ErrAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED" // 10
	ErrFileNotFound       ErrorCode = "FILE_NOT_FOUND"      // 21 / 51
	ErrAddFailed          ErrorCode = "ADD_FAILED"          // 22
	ErrDetachFailed       ErrorCode = "DETACH_FAILED"       // 31
	ErrCommitFailed       ErrorCode = "COMMIT_FAILED"       // 52
	ErrInvalidVersion     ErrorCode = "INVALID_VERSION"     // 60
	ErrCheckoutFailed     ErrorCode = "CHECKOUT_FAILED"     // 61
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 70
)

// Exit statuses. Command-specific statuses keep the per-command families
// (2x add, 3x detach, 5x commit, 6x checkout).
const (
	StatusUsage              = 1
	StatusNotInitialized     = 2
	StatusInternal           = 3
	StatusCorruptState       = 4
	StatusLocked             = 5
	StatusAlreadyInitialized = 10
	StatusAddUsage           = 20
	StatusAddNotFound        = 21
	StatusAddFailed          = 22
	StatusDetachUsage        = 30
	StatusDetachFailed       = 31
	StatusCommitUsage        = 50
	StatusCommitNotFound     = 51
	StatusCommitFailed       = 52
	StatusInvalidVersion     = 60
	StatusCheckoutFailed     = 61
	StatusInvalidRequest     = 70
)

// GvtError represents a structured error with code, exit status, and details.
type GvtError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *GvtError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *GvtError) Unwrap() error {
	return e.Err
}

// NewUsage creates a usage error for a missing or malformed argument.
func NewUsage(status int, msg string) *GvtError {
	return &GvtError{
		Code:    ErrUsage,
		Status:  status,
		Message: msg,
	}
}

// NewNotInitialized creates an error for commands run outside a repository.
func NewNotInitialized() *GvtError {
	return &GvtError{
		Code:    ErrNotInitialized,
		Status:  StatusNotInitialized,
		Message: "Current directory is not initialized. Please use init command to initialize.",
	}
}

// NewAlreadyInitialized creates an error for init on an existing repository.
func NewAlreadyInitialized() *GvtError {
	return &GvtError{
		Code:    ErrAlreadyInitialized,
		Status:  StatusAlreadyInitialized,
		Message: "Current directory is already initialized.",
	}
}

// NewFileNotFound creates an error for a file missing from the working directory.
func NewFileNotFound(status int, name string) *GvtError {
	return &GvtError{
		Code:    ErrFileNotFound,
		Status:  status,
		Message: fmt.Sprintf("File not found. File: %s", name),
		Details: map[string]any{"file": name},
	}
}

// NewAddFailed wraps a storage failure during add.
func NewAddFailed(name string, err error) *GvtError {
	return &GvtError{
		Code:    ErrAddFailed,
		Status:  StatusAddFailed,
		Message: fmt.Sprintf("File cannot be added. See ERR for details. File: %s", name),
		Details: map[string]any{"file": name},
		Err:     err,
	}
}

// NewDetachFailed wraps a storage failure during detach.
func NewDetachFailed(name string, err error) *GvtError {
	return &GvtError{
		Code:    ErrDetachFailed,
		Status:  StatusDetachFailed,
		Message: fmt.Sprintf("File cannot be detached, see ERR for details. File: %s", name),
		Details: map[string]any{"file": name},
		Err:     err,
	}
}

// NewCommitFailed wraps a storage failure during commit.
func NewCommitFailed(name string, err error) *GvtError {
	return &GvtError{
		Code:    ErrCommitFailed,
		Status:  StatusCommitFailed,
		Message: fmt.Sprintf("File cannot be committed, see ERR for details. File: %s", name),
		Details: map[string]any{"file": name},
		Err:     err,
	}
}

// NewInvalidVersion creates an error for a checkout target outside [0, active].
func NewInvalidVersion(raw string) *GvtError {
	return &GvtError{
		Code:    ErrInvalidVersion,
		Status:  StatusInvalidVersion,
		Message: fmt.Sprintf("Invalid version number: %s", raw),
		Details: map[string]any{"version": raw},
	}
}

// NewCheckoutFailed wraps a filesystem failure while restoring files.
func NewCheckoutFailed(version int, err error) *GvtError {
	return &GvtError{
		Code:    ErrCheckoutFailed,
		Status:  StatusCheckoutFailed,
		Message: fmt.Sprintf("Checkout failed for version: %d", version),
		Details: map[string]any{"version": version},
		Err:     err,
	}
}

// NewInvalidRequest creates an error for invalid request parameters.
func NewInvalidRequest(msg string) *GvtError {
	return &GvtError{
		Code:    ErrInvalidRequest,
		Status:  StatusInvalidRequest,
		Message: msg,
	}
}

// NewCorruptState creates an error for an unreadable repository state.
func NewCorruptState(msg string, err error) *GvtError {
	return &GvtError{
		Code:    ErrCorruptState,
		Status:  StatusCorruptState,
		Message: msg,
		Err:     err,
	}
}

// NewLocked creates an error when another gvt process holds the repository lock.
func NewLocked() *GvtError {
	return &GvtError{
		Code:    ErrLocked,
		Status:  StatusLocked,
		Message: "repository is locked by another gvt process",
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *GvtError {
	return &GvtError{
		Code:    ErrInternal,
		Status:  StatusInternal,
		Message: "Underlying system problem. See ERR for details.",
		Err:     err,
	}
}

// Is checks if an error is a GvtError with the given code.
func Is(err error, code ErrorCode) bool {
	if gErr, ok := err.(*GvtError); ok {
		return gErr.Code == code
	}
	return false
}
