package form

import (
	"context"
	"errors"
	"fmt"

	"promptqr/internal/engine/export"
	"promptqr/internal/engine/render"
	"promptqr/internal/pkg/i18n"
	"promptqr/internal/pkg/metrics"
)

// snapshot is the part of the form an export works from.
type snapshot struct {
	payload    string
	identifier string
	amount     string
}

// beginExport clears prior messages and returns the current payload, or
// reports missing as the error message when there is none.
func (c *Controller) beginExport(missing i18n.Key) (snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.payload == "" {
		c.failLocked(notice{key: missing})
		return snapshot{}, export.ErrNoPayload
	}
	c.clearMessagesLocked()
	return snapshot{payload: c.payload, identifier: c.identifier, amount: c.amount}, nil
}

// finishExport applies the outcome of an export that ran outside the lock.
func (c *Controller) finishExport(err error, ok, failed i18n.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if !errors.Is(err, export.ErrExportFailure) {
			err = fmt.Errorf("%w: %w", export.ErrExportFailure, err)
		}
		metrics.ExportFailures.Add(1)
		c.log.Warn().Err(err).Msg("export failed")
		c.failLocked(notice{key: failed, args: []any{err.Error()}})
		return err
	}
	c.succeedLocked(notice{key: ok})
	return nil
}

func (c *Controller) symbol(payload string) (*render.Symbol, error) {
	if c.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer configured", export.ErrExportFailure)
	}
	sym, err := c.renderer.Render(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", export.ErrExportFailure, err)
	}
	return sym, nil
}

// DownloadPNG captures the rendered symbol as PNG and hands it to saver.
func (c *Controller) DownloadPNG(ctx context.Context, saver export.Saver) error {
	snap, err := c.beginExport(i18n.NoQRToDownload)
	if err != nil {
		return err
	}

	err = func() error {
		sym, err := c.symbol(snap.payload)
		if err != nil {
			return err
		}
		data, err := export.Await(ctx, c.capturer.Capture(ctx, sym))
		if err != nil {
			return err
		}
		return saver.Save(ctx, export.File{
			Name:        export.Filename(snap.identifier, snap.amount, "png"),
			ContentType: export.ContentTypePNG,
			Data:        data,
		})
	}()

	if err == nil {
		metrics.PNGExports.Add(1)
		c.log.Info().Str("format", "png").Msg("qr exported")
	}
	return c.finishExport(err, i18n.PNGDownloaded, i18n.PNGDownloadFailed)
}

// DownloadSVG wraps the symbol's inline markup in a standalone SVG document
// and hands it to saver.
func (c *Controller) DownloadSVG(ctx context.Context, saver export.Saver) error {
	snap, err := c.beginExport(i18n.NoQRToDownload)
	if err != nil {
		return err
	}

	err = func() error {
		sym, err := c.symbol(snap.payload)
		if err != nil {
			return err
		}
		doc, err := export.SVGDocument(sym.Markup(), sym.Size())
		if err != nil {
			return err
		}
		return saver.Save(ctx, export.File{
			Name:        export.Filename(snap.identifier, snap.amount, "svg"),
			ContentType: export.ContentTypeSVG,
			Data:        doc,
		})
	}()

	if err == nil {
		metrics.SVGExports.Add(1)
		c.log.Info().Str("format", "svg").Msg("qr exported")
	}
	return c.finishExport(err, i18n.SVGDownloaded, i18n.SVGDownloadFailed)
}

// CopyPayload writes the payload text to cb. A nil cb means no clipboard is
// available.
func (c *Controller) CopyPayload(ctx context.Context, cb export.Clipboard) error {
	snap, err := c.beginExport(i18n.NoPayloadToCopy)
	if err != nil {
		return err
	}

	if cb == nil {
		err = export.ErrClipboardUnsupported
	} else {
		err = cb.WriteText(ctx, snap.payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		metrics.Copies.Add(1)
		c.succeedLocked(notice{key: i18n.Copied})
		return nil
	case errors.Is(err, export.ErrClipboardUnsupported):
		c.failLocked(notice{key: i18n.CopyUnsupported})
	default:
		c.log.Warn().Err(err).Msg("clipboard write failed")
		c.failLocked(notice{key: i18n.CopyFailed})
	}
	metrics.ExportFailures.Add(1)
	if !errors.Is(err, export.ErrExportFailure) {
		err = fmt.Errorf("%w: %w", export.ErrExportFailure, err)
	}
	return err
}
