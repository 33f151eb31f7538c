package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DocumentVariant identifies which business document is being produced
type DocumentVariant int

const (
	DocumentVariantQuotation    DocumentVariant = 0
	DocumentVariantInvoice      DocumentVariant = 1
	DocumentVariantDeliveryNote DocumentVariant = 2
)

var documentVariantNames = [...]string{"quotation", "invoice", "delivery_note"}

// DocumentVariants lists every variant in declaration order
func DocumentVariants() []DocumentVariant {
	return []DocumentVariant{DocumentVariantQuotation, DocumentVariantInvoice, DocumentVariantDeliveryNote}
}

func (v DocumentVariant) String() string {
	if v < 0 || int(v) >= len(documentVariantNames) {
		return "unknown"
	}
	return documentVariantNames[v]
}

// IsValid reports whether v is a known variant
func (v DocumentVariant) IsValid() bool {
	return v >= DocumentVariantQuotation && v <= DocumentVariantDeliveryNote
}

// HasFinancials reports whether documents of this variant carry prices and totals
func (v DocumentVariant) HasFinancials() bool {
	return v != DocumentVariantDeliveryNote
}

// ParseDocumentVariant accepts the canonical name plus "delivery" as shorthand
func ParseDocumentVariant(s string) (DocumentVariant, error) {
	if s == "delivery" {
		return DocumentVariantDeliveryNote, nil
	}
	for i, name := range documentVariantNames {
		if name == s {
			return DocumentVariant(i), nil
		}
	}
	return DocumentVariantQuotation, fmt.Errorf("unknown document variant %q", s)
}

func (v DocumentVariant) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *DocumentVariant) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*v = DocumentVariant(i)
		return nil
	}
	parsed, err := ParseDocumentVariant(str)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v DocumentVariant) Value() (driver.Value, error) {
	return int64(v), nil
}

func (v *DocumentVariant) Scan(value interface{}) error {
	if value == nil {
		*v = DocumentVariantQuotation
		return nil
	}
	switch val := value.(type) {
	case int64:
		*v = DocumentVariant(val)
	case int:
		*v = DocumentVariant(val)
	}
	return nil
}
