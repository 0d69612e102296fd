package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
	"github.com/MrJamesThe3rd/factura/internal/http/apierr"
	"github.com/MrJamesThe3rd/factura/internal/http/auth"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Kind      *document.Kind   `json:"kind,omitempty"`
	Status    *document.Status `json:"status,omitempty"`
	StartDate *time.Time       `json:"start_date,omitempty"`
	EndDate   *time.Time       `json:"end_date,omitempty"`
	Template  string           `json:"template,omitempty"`
}

func (req exportRequest) filter(userID string) document.ListFilter {
	return document.ListFilter{
		UserID:    userID,
		Kind:      req.Kind,
		Status:    req.Status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
}

type documentResponse struct {
	ID       uuid.UUID       `json:"id"`
	Kind     document.Kind   `json:"kind"`
	Number   string          `json:"number"`
	Date     string          `json:"date"`
	Customer string          `json:"counterparty"`
	Status   document.Status `json:"status,omitempty"`
	Filename string          `json:"filename"`
}

type exportMetadataResponse struct {
	Documents []documentResponse `json:"documents"`
	Summary   string             `json:"summary"`
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "factura-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), req.filter(auth.UserID(r.Context())), req.Template, tmpDir)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	docs := make([]documentResponse, 0, len(items))
	for _, item := range items {
		docs = append(docs, documentResponse{
			ID:       item.Document.ID,
			Kind:     item.Document.Kind,
			Number:   item.Document.Number,
			Date:     item.Document.Date,
			Customer: item.Document.Counterparty.Name,
			Status:   item.Document.Status,
			Filename: filepath.Base(item.FilePath),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		Documents: docs,
		Summary:   h.svc.GenerateSummary(items),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download streams a zip of every matching PDF. The archive is built in
// memory first so a render failure still yields a clean error response.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if _, err := h.svc.Archive(r.Context(), req.filter(auth.UserID(r.Context())), req.Template, &buf); err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}
