package entity

import (
	"github.com/shopspring/decimal"
)

// SubItem is a priced component listed under a line item
type SubItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// LineItem is one priced entry of a quotation or invoice
type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	SubItems []SubItem       `json:"subItems,omitempty"`
}

// DeliveryItem is one unpriced entry of a delivery note
type DeliveryItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// FinancialSummary holds the derived totals of a priced document.
// It is only ever written by an explicit create or update.
type FinancialSummary struct {
	TotalPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"totalPrice"`
	VATAmount   decimal.Decimal `gorm:"column:vat_amount;type:decimal(15,2);not null;default:0" json:"VATAmount"`
	FinalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"finalAmount"`
}
