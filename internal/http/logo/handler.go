package logo

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/factura/internal/http/apierr"
	"github.com/MrJamesThe3rd/factura/internal/http/auth"
	"github.com/MrJamesThe3rd/factura/internal/logo"
)

type Handler struct {
	svc       *logo.Service
	maxUpload int64
}

// NewHandler serves the per-user logo slot. maxUpload bounds the raw file.
func NewHandler(svc *logo.Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = logo.DefaultMaxRaw
	}

	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/", h.get)
	r.Get("/image", h.image)
	r.Delete("/", h.remove)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	// one extra megabyte for the multipart envelope
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			apierr.Write(w, r, logo.ErrTooLarge)
			return
		}

		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)

		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	asset, err := h.svc.Upload(r.Context(), auth.UserID(r.Context()), header.Filename, raw)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.svc.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// image serves the decoded bytes so the logo can be used as a plain <img> source.
func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	asset, err := h.svc.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	b, err := asset.Bytes()
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", asset.Info.MimeType)
	w.Header().Set("Cache-Control", "private, no-cache")

	if _, err := w.Write(b); err != nil {
		slog.Error("failed to write logo", "error", err)
	}
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), auth.UserID(r.Context())); err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
