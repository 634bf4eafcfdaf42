package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"promptqr/internal/api/middleware"
	"promptqr/internal/engine/export"
	"promptqr/internal/engine/form"
	"promptqr/internal/pkg/errors"
)

// FormHandler serves the form of the caller's session. Every route runs
// behind the session middleware.
type FormHandler struct{}

func NewFormHandler() *FormHandler {
	return &FormHandler{}
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)
	writeJSON(w, http.StatusOK, s.Form.State())
}

func (h *FormHandler) Generate(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)

	var req form.Input
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.Form.Generate(r.Context(), req)
	h.respond(w, s, err)
}

func (h *FormHandler) BlurIdentifier(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)

	var req struct {
		Identifier string `json:"identifier"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	s.Form.SetIdentifier(req.Identifier)
	err := s.Form.BlurIdentifier(r.Context())
	h.respond(w, s, err)
}

func (h *FormHandler) BlurAmount(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)

	var req struct {
		Amount string `json:"amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	s.Form.SetAmount(req.Amount)
	s.Form.BlurAmount()
	writeJSON(w, http.StatusOK, s.Form.State())
}

func (h *FormHandler) SetRemember(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)

	var req struct {
		Remember *bool `json:"remember"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Remember == nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "remember is required", nil)
		return
	}

	s.Form.SetRemember(*req.Remember)
	writeJSON(w, http.StatusOK, s.Form.State())
}

func (h *FormHandler) DownloadPNG(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)
	saver := &export.MemorySaver{}

	if err := s.Form.DownloadPNG(r.Context(), saver); err != nil {
		h.respond(w, s, err)
		return
	}
	writeFile(w, saver.File)
}

func (h *FormHandler) DownloadSVG(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)
	saver := &export.MemorySaver{}

	if err := s.Form.DownloadSVG(r.Context(), saver); err != nil {
		h.respond(w, s, err)
		return
	}
	writeFile(w, saver.File)
}

// Copy returns the payload as text; the client puts it on its clipboard.
func (h *FormHandler) Copy(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r)
	clip := &export.BufferClipboard{}

	if err := s.Form.CopyPayload(r.Context(), clip); err != nil {
		h.respond(w, s, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(clip.Text))
}

// respond writes the form state, or on failure the error envelope with the
// state as details.
func (h *FormHandler) respond(w http.ResponseWriter, s *middleware.SessionContext, err error) {
	state := s.Form.State()
	if err == nil {
		writeJSON(w, http.StatusOK, state)
		return
	}

	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("session", s.ID).Msg("form request failed")
	}
	errors.WriteError(w, status, code, state.ErrorMessage, state)
}

func writeFile(w http.ResponseWriter, f *export.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition("attachment", f.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}
