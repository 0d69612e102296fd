package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
	"github.com/MrJamesThe3rd/factura/internal/http/apierr"
	"github.com/MrJamesThe3rd/factura/internal/http/auth"
	"github.com/MrJamesThe3rd/factura/internal/render/markup"
	"github.com/MrJamesThe3rd/factura/internal/render/pdf"
	"github.com/MrJamesThe3rd/factura/internal/templates"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

// Handler serves the stateless part of the pipeline: the template registry,
// totals computation and rendering of documents sent in the request body.
type Handler struct {
	exporter *export.Service
	pdf      *pdf.Renderer
	html     *markup.Renderer
}

func NewHandler(exporter *export.Service) *Handler {
	return &Handler{
		exporter: exporter,
		pdf:      pdf.New(pdf.Options{}),
		html:     markup.New(markup.Options{}),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/templates", h.listTemplates)
	r.Post("/totals", h.computeTotals)
	r.Post("/render/pdf", h.renderPDF)
	r.Post("/render/html", h.renderHTML)
}

type gradientResponse struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Angle int    `json:"angle"`
}

type templateResponse struct {
	ID             string           `json:"id"`
	DisplayName    string           `json:"displayName"`
	Description    string           `json:"description"`
	ScopeClass     string           `json:"scopeClass"`
	Primary        string           `json:"primary"`
	Secondary      string           `json:"secondary"`
	Accent         string           `json:"accent"`
	Background     string           `json:"background"`
	Text           string           `json:"text"`
	Border         string           `json:"border"`
	HeaderGradient gradientResponse `json:"headerGradient"`
	AccentGradient gradientResponse `json:"accentGradient"`
}

func toTemplateResponse(t templates.Template) templateResponse {
	return templateResponse{
		ID:             t.ID,
		DisplayName:    t.DisplayName,
		Description:    t.Description,
		ScopeClass:     markup.TemplateClass(t.ID),
		Primary:        t.Tokens.Primary,
		Secondary:      t.Tokens.Secondary,
		Accent:         t.Tokens.Accent,
		Background:     t.Tokens.Background,
		Text:           t.Tokens.Text,
		Border:         t.Tokens.Border,
		HeaderGradient: gradientResponse(t.Tokens.HeaderGradient),
		AccentGradient: gradientResponse(t.Tokens.AccentGradient),
	}
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	list := templates.List()

	resp := make([]templateResponse, len(list))
	for i, t := range list {
		resp[i] = toTemplateResponse(t)
	}

	writeJSON(w, http.StatusOK, resp)
}

type totalsItem struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type totalsRequest struct {
	Items          []totalsItem    `json:"items"`
	GlobalDiscount decimal.Decimal `json:"globalDiscount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
}

type totalsResponse struct {
	Subtotal             decimal.Decimal   `json:"subtotal"`
	GlobalDiscountAmount decimal.Decimal   `json:"globalDiscountAmount"`
	TaxAmount            decimal.Decimal   `json:"taxAmount"`
	Total                decimal.Decimal   `json:"total"`
	LineTotals           []decimal.Decimal `json:"lineTotals"`
	Warnings             []string          `json:"warnings,omitempty"`
}

// computeTotals returns the totals rounded for display; it never validates
// the tax rate.
func (h *Handler) computeTotals(w http.ResponseWriter, r *http.Request) {
	var req totalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]document.Item, len(req.Items))
	lines := make([]decimal.Decimal, len(req.Items))

	for i, it := range req.Items {
		items[i] = document.Item{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		items[i].Reprice()
		lines[i] = items[i].Total.Round(totals.DisplayPlaces)
	}

	t := totals.Compute(items, req.GlobalDiscount, req.TaxRate).Rounded()

	writeJSON(w, http.StatusOK, totalsResponse{
		Subtotal:             t.Subtotal,
		GlobalDiscountAmount: t.DiscountAmount,
		TaxAmount:            t.TaxAmount,
		Total:                t.Total,
		LineTotals:           lines,
		Warnings:             t.Warnings(),
	})
}

type renderRequest struct {
	Template string            `json:"template,omitempty"`
	Document document.Document `json:"document"`
}

func (h *Handler) decodeRender(w http.ResponseWriter, r *http.Request) (*renderRequest, bool) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	// the logo and currency always belong to the caller
	req.Document.UserID = auth.UserID(r.Context())

	return &req, true
}

func (h *Handler) renderPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRender(w, r)
	if !ok {
		return
	}

	tree, err := h.exporter.Tree(r.Context(), &req.Document, req.Template)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	b, err := h.pdf.Bytes(tree)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", export.Filename(&req.Document)))

	if _, err := w.Write(b); err != nil {
		slog.Error("failed to write pdf", "error", err)
	}
}

type fragmentResponse struct {
	Scope         string `json:"scope"`
	TemplateClass string `json:"templateClass"`
	Style         string `json:"style"`
	Body          string `json:"body"`
}

// renderHTML returns a full page, or the scoped fragment as JSON when the
// client asks for application/json.
func (h *Handler) renderHTML(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRender(w, r)
	if !ok {
		return
	}

	tree, err := h.exporter.Tree(r.Context(), &req.Document, req.Template)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		f, err := h.html.RenderFragment(tree)
		if err != nil {
			apierr.Write(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, fragmentResponse{
			Scope:         f.Scope,
			TemplateClass: f.TemplateClass,
			Style:         string(f.Style),
			Body:          string(f.Body),
		})

		return
	}

	page, err := h.html.RenderPage(tree)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write(page); err != nil {
		slog.Error("failed to write page", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
