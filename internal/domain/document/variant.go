package document

import (
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/domain/layout"
)

// strategy holds what differs between document variants
type strategy struct {
	title       string
	numberLabel string
	layout      layout.Config
	financial   bool
	signed      bool
}

var strategies = map[enum.DocumentVariant]strategy{
	enum.DocumentVariantQuotation: {
		title:       "Price Quotation",
		numberLabel: "Quotation No",
		layout:      layout.DefaultConfig(),
		financial:   true,
	},
	enum.DocumentVariantInvoice: {
		title:       "Invoice",
		numberLabel: "Invoice No",
		layout:      layout.DefaultConfig(),
		financial:   true,
	},
	enum.DocumentVariantDeliveryNote: {
		title:       "Delivery Note",
		numberLabel: "Delivery No",
		layout:      layout.DeliveryConfig(),
		signed:      true,
	},
}
