package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 260

var ErrEmptyPayload = errors.New("render: empty payload")

// Renderer builds QR symbols with a fixed on-screen size and error
// correction level.
type Renderer struct {
	size   int
	level  qrcode.RecoveryLevel
	border bool
}

func NewRenderer(size int, level string, border bool) (*Renderer, error) {
	// Default size
	if size == 0 {
		size = DefaultSize
	}

	// Validate size
	if size < 128 || size > 2048 {
		return nil, errors.New("invalid size: must be between 128 and 2048")
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return &Renderer{size: size, level: lvl, border: border}, nil
}

// ParseLevel maps a config name onto a go-qrcode recovery level. An empty
// name selects the highest level.
func ParseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "low", "l":
		return qrcode.Low, nil
	case "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h", "":
		return qrcode.Highest, nil
	}
	return qrcode.Highest, fmt.Errorf("unknown error correction level %q", name)
}

func (r *Renderer) Size() int { return r.size }

// Render encodes payload into a symbol. The symbol is immutable and safe to
// share between goroutines.
func (r *Renderer) Render(payload string) (*Symbol, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	qr, err := r.encode(payload)
	if err != nil {
		return nil, err
	}

	return &Symbol{
		renderer: r,
		payload:  payload,
		modules:  qr.Bitmap(),
	}, nil
}

// encode builds a fresh go-qrcode value. Those values pad their data buffer on
// every Bitmap/PNG call, so each output gets its own.
func (r *Renderer) encode(payload string) (*qrcode.QRCode, error) {
	qr, err := qrcode.New(payload, r.level)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	qr.DisableBorder = !r.border
	return qr, nil
}

// Symbol is a rendered QR code.
type Symbol struct {
	renderer *Renderer
	payload  string
	modules  [][]bool
}

func (s *Symbol) Payload() string { return s.payload }

func (s *Symbol) Size() int { return s.renderer.size }

// Modules is the module count along one edge, border included when enabled.
func (s *Symbol) Modules() int { return len(s.modules) }

// Dark reports whether the module at column x, row y is dark.
func (s *Symbol) Dark(x, y int) bool {
	if y < 0 || y >= len(s.modules) || x < 0 || x >= len(s.modules[y]) {
		return false
	}
	return s.modules[y][x]
}

// PNG rasterizes the symbol at its display size.
func (s *Symbol) PNG() ([]byte, error) {
	qr, err := s.renderer.encode(s.payload)
	if err != nil {
		return nil, err
	}
	return qr.PNG(s.renderer.size)
}

// Terminal renders the symbol with half-block characters for a terminal.
func (s *Symbol) Terminal() string {
	qr, err := s.renderer.encode(s.payload)
	if err != nil {
		return ""
	}
	return qr.ToSmallString(false)
}

// Markup returns the inline <svg> element for the symbol. Coordinates are in
// modules; the element scales itself to the display size. Each run of dark
// modules in a row becomes one rectangle in a single path.
func (s *Symbol) Markup() string {
	n := len(s.modules)
	size := s.renderer.size

	var path strings.Builder
	for y, row := range s.modules {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			fmt.Fprintf(&path, "M%d %dh%dv1H%dz", start, y, x-start, start)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg height="%d" width="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size, n, n)
	fmt.Fprintf(&b, `<path fill="#FFFFFF" d="M0,0 h%dv%dH0z"></path>`, n, n)
	fmt.Fprintf(&b, `<path fill="#000000" d="%s"></path>`, path.String())
	b.WriteString(`</svg>`)
	return b.String()
}
