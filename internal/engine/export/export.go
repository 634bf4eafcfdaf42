// Package export turns a rendered QR symbol into files and clipboard text.
package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrExportFailure = errors.New("export failed")
	ErrNoPayload     = errors.New("no payload available")
)

const (
	ContentTypePNG = "image/png"
	ContentTypeSVG = "image/svg+xml"
)

// File is a finished download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Saver hands a finished download to whoever asked for it: a directory for
// the CLI, the HTTP response for the server.
type Saver interface {
	Save(ctx context.Context, file File) error
}

var unsafeFilenameChars = regexp.MustCompile(`[^0-9A-Za-z._-]`)

// Filename builds PromptPay_QR_<identifier>_<amount|no-amount>.<ext>.
func Filename(identifier, amount, ext string) string {
	if amount == "" {
		amount = "no-amount"
	}
	name := fmt.Sprintf("PromptPay_QR_%s_%s", identifier, amount)
	return unsafeFilenameChars.ReplaceAllString(name, "_") + "." + ext
}
