package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode"
)

const testPayload = "00020101021129370016A000000677010111011300668123456785802TH530376463045D82"

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		level   string
		wantErr bool
	}{
		{name: "defaults", size: 0, level: ""},
		{name: "explicit", size: 512, level: "medium"},
		{name: "size too small", size: 100, level: "high", wantErr: true},
		{name: "size too large", size: 5000, level: "high", wantErr: true},
		{name: "bad level", size: 260, level: "ultra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(tt.size, tt.level, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRenderer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]qrcode.RecoveryLevel{
		"L": qrcode.Low, "medium": qrcode.Medium, "q": qrcode.High, "H": qrcode.Highest, "": qrcode.Highest,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(260, "highest", false)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	sym, err := r.Render(testPayload)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if sym.Payload() != testPayload {
		t.Errorf("Payload() = %s, want %s", sym.Payload(), testPayload)
	}
	// version 1 is 21 modules; anything this long needs a larger version
	if sym.Modules() <= 21 {
		t.Errorf("Modules() = %d, want > 21", sym.Modules())
	}
	// finder pattern corner is dark without a border
	if !sym.Dark(0, 0) {
		t.Error("Dark(0,0) = false, want finder pattern module")
	}
	if sym.Dark(-1, 0) || sym.Dark(0, sym.Modules()) {
		t.Error("Dark() out of range should be false")
	}

	data, err := sym.PNG()
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 260 {
		t.Errorf("PNG width = %d, want 260", img.Bounds().Dx())
	}

	if sym.Terminal() == "" {
		t.Error("Terminal() returned empty string")
	}
}

func TestRenderer_RenderEmpty(t *testing.T) {
	r, _ := NewRenderer(0, "", false)
	if _, err := r.Render(""); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Render(\"\") error = %v, want ErrEmptyPayload", err)
	}
}

func TestSymbol_Markup(t *testing.T) {
	r, _ := NewRenderer(260, "highest", false)
	sym, err := r.Render(testPayload)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	markup := sym.Markup()
	if !strings.HasPrefix(markup, `<svg height="260" width="260"`) {
		t.Errorf("Markup() prefix = %.40s", markup)
	}
	if !strings.HasSuffix(markup, "</svg>") {
		t.Error("Markup() not closed")
	}
	if !strings.Contains(markup, `fill="#000000" d="M0 0h7v1H0z`) {
		t.Error("Markup() should start the dark path with the top finder row")
	}
}
