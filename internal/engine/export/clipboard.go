package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var ErrClipboardUnsupported = errors.New("clipboard not supported")

// Clipboard receives copied payload text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// SystemClipboard writes to the desktop clipboard through xclip/xsel,
// pbcopy or the Windows API.
type SystemClipboard struct{}

func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

func (c *SystemClipboard) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return nil
}

// BufferClipboard records copied text in memory; the HTTP API returns it in
// the response body.
type BufferClipboard struct {
	Text string
}

func (c *BufferClipboard) WriteText(_ context.Context, text string) error {
	c.Text = text
	return nil
}
