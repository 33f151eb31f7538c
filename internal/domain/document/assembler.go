// Package document combines header fields, derived totals and the row plan
// into the model a template renders.
package document

import (
	"fmt"
	"time"

	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/domain/finance"
	"github.com/sangkips/docgen-api/internal/domain/layout"
	"github.com/sangkips/docgen-api/pkg/apperror"
	"github.com/sangkips/docgen-api/pkg/numwords"
)

// DateLayout is how document dates are printed
const DateLayout = "02 / 01 / 2006"

// Header carries the non-tabular fields of a document
type Header struct {
	CompanyName    string
	DocumentNumber string
	Date           time.Time
	Terms          []string
	PreparedBy     string
	ReceivedBy     string
	SignatureRef   string
}

// Input is everything needed to assemble one document.
// Delivery notes read DeliveryItems; priced variants read Items.
type Input struct {
	Variant       enum.DocumentVariant
	Header        Header
	Items         []entity.LineItem
	DeliveryItems []entity.DeliveryItem
	// Summary, when set, is used as stored instead of being recomputed
	Summary *entity.FinancialSummary
}

// Totals are the money lines of a priced document
type Totals struct {
	entity.FinancialSummary
	TotalInWords string
	FinalInWords string
}

// Model is the template-ready document
type Model struct {
	Variant     enum.DocumentVariant
	Title       string
	NumberLabel string
	Header      Header
	DateText    string
	Plan        layout.Plan
	// Totals is nil for variants without prices
	Totals *Totals
	Signed bool
}

// Assembler builds models for every variant
type Assembler struct {
	engines map[enum.DocumentVariant]*layout.Engine
}

// NewAssembler creates an assembler with one layout engine per variant
func NewAssembler() *Assembler {
	engines := make(map[enum.DocumentVariant]*layout.Engine, len(strategies))
	for v, s := range strategies {
		engines[v] = layout.NewEngine(s.layout)
	}
	return &Assembler{engines: engines}
}

// Assemble validates the input and produces the document model
func (a *Assembler) Assemble(in Input) (*Model, error) {
	s, ok := strategies[in.Variant]
	if !ok {
		return nil, apperror.NewInvalidInputError("variant", fmt.Sprintf("unsupported document variant %q", in.Variant))
	}
	if in.Header.CompanyName == "" {
		return nil, apperror.NewInvalidInputError("companyName", "is required")
	}
	if in.Header.DocumentNumber == "" {
		return nil, apperror.NewInvalidInputError("documentNumber", "is required")
	}

	model := &Model{
		Variant:     in.Variant,
		Title:       s.title,
		NumberLabel: s.numberLabel,
		Header:      in.Header,
		Signed:      s.signed,
	}
	if !in.Header.Date.IsZero() {
		model.DateText = in.Header.Date.Format(DateLayout)
	}

	items := in.Items
	if !s.financial {
		if err := ValidateDeliveryItems(in.DeliveryItems); err != nil {
			return nil, err
		}
		items = DeliveryLines(in.DeliveryItems)
	} else {
		totals, err := a.totals(in)
		if err != nil {
			return nil, err
		}
		model.Totals = totals
	}

	model.Plan = a.engines[in.Variant].Plan(items)
	return model, nil
}

func (a *Assembler) totals(in Input) (*Totals, error) {
	var summary entity.FinancialSummary
	if in.Summary != nil {
		if err := finance.Validate(in.Items); err != nil {
			return nil, err
		}
		summary = *in.Summary
	} else {
		computed, err := finance.Calculate(in.Items)
		if err != nil {
			return nil, err
		}
		summary = computed
	}

	totalWords, err := numwords.Convert(summary.TotalPrice)
	if err != nil {
		return nil, err
	}
	finalWords, err := numwords.Convert(summary.FinalAmount)
	if err != nil {
		return nil, err
	}

	return &Totals{
		FinancialSummary: summary,
		TotalInWords:     totalWords,
		FinalInWords:     finalWords,
	}, nil
}

// ValidateDeliveryItems rejects empty descriptions and quantities below one
func ValidateDeliveryItems(items []entity.DeliveryItem) error {
	for i, item := range items {
		if item.Description == "" {
			return apperror.NewInvalidInputError(fmt.Sprintf("items[%d].description", i), "is required")
		}
		if item.Quantity < 1 {
			return apperror.NewInvalidInputError(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
	}
	return nil
}

// DeliveryLines maps delivery entries onto unpriced line items
func DeliveryLines(items []entity.DeliveryItem) []entity.LineItem {
	lines := make([]entity.LineItem, len(items))
	for i, item := range items {
		lines[i] = entity.LineItem{Name: item.Description, Quantity: item.Quantity}
	}
	return lines
}
