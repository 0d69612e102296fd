package document

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
	"github.com/MrJamesThe3rd/factura/internal/http/apierr"
	"github.com/MrJamesThe3rd/factura/internal/http/auth"
	"github.com/MrJamesThe3rd/factura/internal/importer"
	"github.com/MrJamesThe3rd/factura/internal/render/markup"
	"github.com/MrJamesThe3rd/factura/internal/render/pdf"
)

const maxImportSize = 10 << 20

type Handler struct {
	svc       *document.Service
	exporter  *export.Service
	importer  *importer.Service
	pdf       *pdf.Renderer
	printPDF  *pdf.Renderer
	printHTML *markup.Renderer
}

func NewHandler(svc *document.Service, exporter *export.Service, imp *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		exporter:  exporter,
		importer:  imp,
		pdf:       pdf.New(pdf.Options{}),
		printPDF:  pdf.New(pdf.Options{AutoPrint: true}),
		printHTML: markup.New(markup.Options{AutoPrint: true}),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/paid", h.markPaid)
	r.Get("/{id}/pdf", h.renderPDF)
	r.Get("/{id}/print", h.renderPrint)
	r.Post("/{id}/items/import", h.importItems)
}

type createDocumentRequest struct {
	Kind         document.Kind           `json:"kind"`
	Number       string                  `json:"number,omitempty"`
	Date         string                  `json:"date,omitempty"`
	DueDate      string                  `json:"dueDate,omitempty"`
	DeliveryDate string                  `json:"deliveryDate,omitempty"`
	Counterparty document.Party          `json:"counterparty"`
	Transport    *document.TransportInfo `json:"transport,omitempty"`

	Items         []document.Item         `json:"items,omitempty"`
	DeliveryItems []document.DeliveryItem `json:"deliveryItems,omitempty"`

	GlobalDiscount decimal.Decimal  `json:"globalDiscount"`
	TaxRate        *decimal.Decimal `json:"taxRate,omitempty"`

	Notes    string  `json:"notes,omitempty"`
	Terms    *string `json:"terms,omitempty"`
	Template string  `json:"template,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Create(r.Context(), document.CreateParams{
		UserID:         auth.UserID(r.Context()),
		Kind:           req.Kind,
		Number:         req.Number,
		Date:           req.Date,
		DueDate:        req.DueDate,
		DeliveryDate:   req.DeliveryDate,
		Counterparty:   req.Counterparty,
		Transport:      req.Transport,
		Items:          req.Items,
		DeliveryItems:  req.DeliveryItems,
		GlobalDiscount: req.GlobalDiscount,
		TaxRate:        req.TaxRate,
		Notes:          req.Notes,
		Terms:          req.Terms,
		Template:       req.Template,
	})
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := document.ListFilter{UserID: auth.UserID(r.Context())}

	q := r.URL.Query()

	if s := q.Get("kind"); s != "" {
		filter.Kind = new(document.Kind(s))
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(document.Status(s))
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	docs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(docs))
}

// load fetches the document named in the path, writing the error response
// itself when it fails.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	doc, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		apierr.Write(w, r, err)
		return nil, false
	}

	return doc, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	var doc document.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc.ID = existing.ID
	doc.UserID = existing.UserID
	doc.Kind = existing.Kind
	doc.CreatedAt = existing.CreatedAt

	if err := h.svc.Update(r.Context(), &doc); err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(&doc))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status document.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), auth.UserID(r.Context()), id, req.Status); err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type markPaidRequest struct {
	PaidDate string `json:"paidDate,omitempty"`
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req markPaidRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	doc, err := h.svc.MarkPaid(r.Context(), auth.UserID(r.Context()), id, req.PaidDate)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc))
}

// renderPDF serves the document as a download (default), an inline preview
// (?disposition=inline) or a file that prints itself on open (?print=1).
func (h *Handler) renderPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}

	tree, err := h.exporter.Tree(r.Context(), doc, r.URL.Query().Get("template"))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	renderer := h.pdf
	disposition := "attachment"

	if autoPrint, _ := strconv.ParseBool(r.URL.Query().Get("print")); autoPrint {
		renderer = h.printPDF
		disposition = "inline"
	}

	if r.URL.Query().Get("disposition") == "inline" {
		disposition = "inline"
	}

	b, err := renderer.Bytes(tree)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, export.Filename(doc)))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))

	if _, err := w.Write(b); err != nil {
		slog.Error("failed to write pdf", "error", err)
	}
}

// renderPrint serves a standalone page that opens the print dialog on load.
func (h *Handler) renderPrint(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}

	tree, err := h.exporter.Tree(r.Context(), doc, r.URL.Query().Get("template"))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	page, err := h.printHTML.RenderPage(tree)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write(page); err != nil {
		slog.Error("failed to write page", "error", err)
	}
}

type importItemsResponse struct {
	Imported int              `json:"imported"`
	Document documentResponse `json:"document"`
}

func (h *Handler) importItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importer.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.svc.AppendItems(r.Context(), auth.UserID(r.Context()), id, importer.Items(rows))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, importItemsResponse{Imported: len(rows), Document: toResponse(doc)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
