package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"promptqr/internal/api/middleware"
	"promptqr/internal/engine/export"
	"promptqr/internal/engine/form"
	"promptqr/internal/engine/promptpay"
	"promptqr/internal/engine/render"
	"promptqr/internal/pkg/errors"
	"promptqr/internal/pkg/i18n"
	"promptqr/internal/pkg/metrics"
)

// QRHandler generates a payload in one request without touching any session.
type QRHandler struct {
	encoder  promptpay.Encoder
	renderer *render.Renderer
}

func NewQRHandler(encoder promptpay.Encoder, renderer *render.Renderer) *QRHandler {
	return &QRHandler{encoder: encoder, renderer: renderer}
}

// Generate handles GET /api/v1/qr?id=&amount=&format=text|png|svg.
func (h *QRHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, amountText := q.Get("id"), q.Get("amount")

	format := q.Get("format")
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "png" && format != "svg" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "format must be text, png or svg", nil)
		return
	}

	payload, err := h.payload(id, amountText)
	if err != nil {
		metrics.GenerationFailures.Add(1)
		status, code := classify(err)
		key, args := form.MessageFor(err)
		errors.WriteError(w, status, code, localizer(r).Text(key, args...), nil)
		return
	}
	metrics.Generations.Add(1)

	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(payload))
		return
	}

	sym, err := h.renderer.Render(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to render qr")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to render QR code", nil)
		return
	}

	var file export.File
	switch format {
	case "png":
		data, err := sym.PNG()
		if err != nil {
			metrics.ExportFailures.Add(1)
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeExportFailure, err.Error(), nil)
			return
		}
		metrics.PNGExports.Add(1)
		file = export.File{Name: export.Filename(id, amountText, "png"), ContentType: export.ContentTypePNG, Data: data}
	case "svg":
		doc, err := export.SVGDocument(sym.Markup(), sym.Size())
		if err != nil {
			metrics.ExportFailures.Add(1)
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeExportFailure, err.Error(), nil)
			return
		}
		metrics.SVGExports.Add(1)
		file = export.File{Name: export.Filename(id, amountText, "svg"), ContentType: export.ContentTypeSVG, Data: doc}
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition("inline", file.Name))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func (h *QRHandler) payload(id, amountText string) (string, error) {
	digits, err := promptpay.ValidateIdentifier(id)
	if err != nil {
		return "", err
	}
	amount, err := promptpay.ParseAmount(amountText)
	if err != nil {
		return "", err
	}
	return h.encoder.Encode(digits, amount)
}

func localizer(r *http.Request) *i18n.Localizer {
	if loc := middleware.LocalizerFrom(r); loc != nil {
		return loc
	}
	return i18n.New(r.Header.Get("Accept-Language"))
}
