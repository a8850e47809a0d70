package resource

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind names the three documents an editor session consumes.
type Kind string

const (
	KindSchema  Kind = "schema"
	KindChoices Kind = "choices"
	KindData    Kind = "data"
)

// Cause classifies why a document could not be loaded.
type Cause string

const (
	CauseNotFound   Cause = "not_found"
	CausePermission Cause = "permission"
	CauseMalformed  Cause = "malformed"
	CauseEmpty      Cause = "empty"
	CauseIO         Cause = "io"
)

var (
	// ErrNoPicker is returned when a picker operation is requested but no
	// Picker collaborator was configured.
	ErrNoPicker = errors.New("resource: file picker not configured")
	// ErrNoClipboard is returned by ExportToClipboard without a Clipboard.
	ErrNoClipboard = errors.New("resource: clipboard not configured")
)

// LoadError describes a failed document load.
type LoadError struct {
	Kind  Kind
	Path  string
	Cause Cause
	Err   error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("resource: load %s %q (%s)", e.Kind, e.Path, e.Cause)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CauseOf extracts the Cause carried by err, or "" when err is not a
// *LoadError.
func CauseOf(err error) Cause {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Cause
	}
	return ""
}

func readFailure(kind Kind, path string, err error) *LoadError {
	cause := CauseIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cause = CauseNotFound
	case errors.Is(err, fs.ErrPermission):
		cause = CausePermission
	}
	return &LoadError{Kind: kind, Path: path, Cause: cause, Err: err}
}

func parseFailure(kind Kind, path string, err error) *LoadError {
	cause := CauseMalformed
	if errors.Is(err, errEmptyDocument) {
		cause = CauseEmpty
	}
	return &LoadError{Kind: kind, Path: path, Cause: cause, Err: err}
}
