package export

import (
	"fmt"
	"strings"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// SVGDocument wraps the inline markup of a rendered symbol in a standalone
// SVG document of the given size.
func SVGDocument(markup string, size int) ([]byte, error) {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return nil, fmt.Errorf("%w: no markup to serialize", ErrExportFailure)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrExportFailure, size)
	}

	doc := fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="%s">%s</svg>`,
		size, size, size, size, svgNamespace, markup)
	return []byte(doc), nil
}
