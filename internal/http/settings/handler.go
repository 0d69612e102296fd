package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/factura/internal/http/apierr"
	"github.com/MrJamesThe3rd/factura/internal/http/auth"
	"github.com/MrJamesThe3rd/factura/internal/settings"
)

type Handler struct {
	svc *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.save)
	r.Get("/resolved", h.resolved)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var st settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Save(r.Context(), auth.UserID(r.Context()), &st); err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &st)
}

// resolved shows the defaults new documents will be created with.
func (h *Handler) resolved(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Resolve(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
