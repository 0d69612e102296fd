package render

import "github.com/MrJamesThe3rd/factura/internal/document"

var titles = map[document.Kind]string{
	document.KindInvoice:       "FACTURE",
	document.KindPurchaseOrder: "BON DE COMMANDE",
	document.KindDeliveryNote:  "BON DE LIVRAISON",
}

var roleLabels = map[document.Role]string{
	document.RoleCompany:   "Entreprise",
	document.RoleCustomer:  "Client",
	document.RoleSupplier:  "Fournisseur",
	document.RoleSender:    "Expéditeur",
	document.RoleRecipient: "Destinataire",
}

var statusBadges = map[document.Status]string{
	document.StatusSent:      "ENVOYÉE",
	document.StatusPaid:      "PAYÉE",
	document.StatusOverdue:   "EN RETARD",
	document.StatusCancelled: "ANNULÉE",
}

const (
	labelNumber       = "N°"
	labelDate         = "Date"
	labelDueDate      = "Échéance"
	labelDeliveryDate = "Date de livraison"
	labelPaidDate     = "Payée le"

	labelDescription = "Description"
	labelQuantity    = "Qté"
	labelUnitPrice   = "Prix unitaire"
	labelLineTotal   = "Total"
	labelReference   = "Référence"
	labelUnit        = "Unité"
	labelNoItems     = "Aucun article"

	labelSubtotal = "Sous-total"
	labelDiscount = "Remise"
	labelTax      = "TVA"
	labelTotal    = "Total"

	labelTransport           = "Transport"
	labelCarrier             = "Transporteur"
	labelTracking            = "N° de suivi"
	labelTransportMethod     = "Mode de transport"
	labelSpecialInstructions = "Instructions particulières"

	labelNotes = "Notes"
	labelTerms = "Conditions"

	labelPage = "Page"

	labelPhone = "Tél."
	labelEmail = "Email"
	labelTaxID = "N° TVA"
)

// Title returns the localized document title.
func Title(k document.Kind) string {
	return titles[k]
}

// RoleLabel returns the localized label for a party role.
func RoleLabel(r document.Role) string {
	return roleLabels[r]
}
