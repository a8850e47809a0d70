package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

// ErrClipboardUnsupported is returned when no clipboard utility is available.
var ErrClipboardUnsupported = errors.New("native: clipboard not supported on this system")

// Clipboard writes to the system clipboard.
type Clipboard struct {
	write func(string) error
}

// NewClipboard returns the system clipboard sink.
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

var _ resource.Clipboard = (*Clipboard)(nil)

func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("native: clipboard: %w", err)
	}
	return nil
}
