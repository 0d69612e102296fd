package document

import (
	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/export"
)

type documentResponse struct {
	*document.Document
	Filename string   `json:"filename"`
	Warnings []string `json:"warnings,omitempty"`
}

func toResponse(doc *document.Document) documentResponse {
	resp := documentResponse{Document: doc, Filename: export.Filename(doc)}

	if doc.Kind.Priced() {
		resp.Warnings = doc.Totals().Warnings()
	}

	return resp
}

func toResponseList(docs []*document.Document) []documentResponse {
	resp := make([]documentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = toResponse(doc)
	}

	return resp
}
