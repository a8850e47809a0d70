package panel

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

var (
	// ErrLoadInProgress is returned by reload triggers that arrive while a
	// load is running. The trigger is dropped, not queued.
	ErrLoadInProgress = errors.New("panel: load already in progress")
	// ErrDisposed is returned by operations on a disposed panel.
	ErrDisposed = errors.New("panel: panel is disposed")
)

// FatalLoadError aborts initialisation: the schema could not be loaded or the
// form could not be rendered.
type FatalLoadError struct {
	Stage string
	Err   error
}

func (e *FatalLoadError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("panel: %s failed", e.Stage)
	}
	return e.Err.Error()
}

func (e *FatalLoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Cause returns the resource cause when the failure came from loading.
func (e *FatalLoadError) Cause() resource.Cause {
	if e == nil {
		return ""
	}
	return resource.CauseOf(e.Err)
}

// IsFatal reports whether err is a *FatalLoadError.
func IsFatal(err error) bool {
	var target *FatalLoadError
	return errors.As(err, &target)
}
