// Package apierr maps domain errors to HTTP responses.
package apierr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/settings"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

type mapping struct {
	err     error
	status  int
	message string
}

// mappings is checked in order. An empty message reuses the error text.
var mappings = []mapping{
	{document.ErrNotFound, http.StatusNotFound, ""},
	{document.ErrDuplicateNumber, http.StatusConflict, ""},
	{document.ErrUnknownKind, http.StatusBadRequest, ""},
	{document.ErrItemIndex, http.StatusBadRequest, ""},
	{document.ErrUnpriced, http.StatusBadRequest, ""},
	{document.ErrNotInvoice, http.StatusConflict, ""},
	{document.ErrUnknownStatus, http.StatusBadRequest, ""},
	{totals.ErrRateNotAllowed, http.StatusUnprocessableEntity, ""},
	{settings.ErrUnknownTemplate, http.StatusUnprocessableEntity, ""},
	{logo.ErrNoLogo, http.StatusNotFound, ""},
	{logo.ErrUnsupportedType, http.StatusUnsupportedMediaType, "le fichier n'est pas une image prise en charge"},
	{logo.ErrTooLarge, http.StatusRequestEntityTooLarge, "l'image dépasse la taille maximale autorisée"},
	{logo.ErrCompressionExhausted, http.StatusUnprocessableEntity, "l'image ne peut pas être compressée sous la limite de stockage"},
	{logo.ErrStorageQuotaExceeded, http.StatusInsufficientStorage, "espace de stockage insuffisant, le logo précédent est conservé"},
	{render.ErrRenderFailure, http.StatusInternalServerError, "le document n'a pas pu être généré"},
}

// Status returns the HTTP status and the user-facing message for err.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			if m.message == "" {
				return m.status, err.Error()
			}

			return m.status, m.message
		}
	}

	return http.StatusInternalServerError, "internal error"
}

// Write sends err to the client. Server-side failures are logged.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Status(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	http.Error(w, msg, status)
}
