package request

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the accepted input formats for document dates
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// SubItemRequest is a priced component of a line item
type SubItemRequest struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// LineItemRequest is one priced row of a quotation or invoice
type LineItemRequest struct {
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Price    decimal.Decimal  `json:"price"`
	Image    string           `json:"image"`
	SubItems []SubItemRequest `json:"subItems"`
}

// QuotationRequest represents the create/update quotation body
type QuotationRequest struct {
	QuotationNumber string            `json:"quotationNumber" binding:"required"`
	CompanyName     string            `json:"companyName" binding:"required"`
	Date            string            `json:"date" binding:"required"`
	Items           []LineItemRequest `json:"items"`
	Terms           []string          `json:"terms"`
}

// InvoiceRequest represents the create/update invoice body
type InvoiceRequest struct {
	InvoiceNumber string            `json:"invoiceNumber" binding:"required"`
	CompanyName   string            `json:"companyName" binding:"required"`
	Date          string            `json:"date" binding:"required"`
	Items         []LineItemRequest `json:"items"`
	Terms         []string          `json:"terms"`
}

// DeliveryItemRequest is one unpriced row of a delivery note
type DeliveryItemRequest struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// DeliveryRequest represents the create/update delivery note body
type DeliveryRequest struct {
	DeliveryNumber string                `json:"deliveryNumber" binding:"required"`
	CompanyName    string                `json:"companyName" binding:"required"`
	Date           string                `json:"date" binding:"required"`
	Items          []DeliveryItemRequest `json:"items" binding:"required,min=1"`
}

// ParseDate accepts ISO dates, RFC 3339 timestamps and DD/MM/YYYY
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
