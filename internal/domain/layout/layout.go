// Package layout turns an ordered item tree into the fixed-rhythm row plan
// that document templates render as a table.
package layout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/finance"
)

const (
	// DefaultMinimumRows is the row count a table is padded up to
	DefaultMinimumRows = 15
	// DefaultSpacerRows follow every item block
	DefaultSpacerRows = 2
)

// RowKind tells the template how to draw a row
type RowKind int

const (
	PrimaryRow RowKind = iota
	SecondaryRow
	SpacerRow
	PaddingRow
)

func (k RowKind) String() string {
	switch k {
	case PrimaryRow:
		return "primary"
	case SecondaryRow:
		return "secondary"
	case SpacerRow:
		return "spacer"
	case PaddingRow:
		return "padding"
	}
	return "unknown"
}

// Row is one table row. Only the fields relevant to its Kind are set.
type Row struct {
	Kind      RowKind
	Index     string
	Letter    string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Image     string
	// Rowspan of the image cell, set on primary rows only
	Rowspan int
}

// Label is the text of the description cell
func (r Row) Label() string {
	if r.Kind == SecondaryRow {
		return r.Letter + ". " + r.Name
	}
	return r.Name
}

// Plan is the ordered row sequence of one document table
type Plan struct {
	Rows    []Row
	Items   int
	Emitted int
	Padding int
}

// Config controls the table rhythm
type Config struct {
	MinimumRows int
	SpacerRows  int
}

// DefaultConfig is used by quotations and invoices
func DefaultConfig() Config {
	return Config{MinimumRows: DefaultMinimumRows, SpacerRows: DefaultSpacerRows}
}

// DeliveryConfig lays out one row per item with no spacers
func DeliveryConfig() Config {
	return Config{MinimumRows: DefaultMinimumRows, SpacerRows: 0}
}

// Engine plans rows. It is stateless and safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine, clamping negative settings to zero
func NewEngine(cfg Config) *Engine {
	if cfg.MinimumRows < 0 {
		cfg.MinimumRows = 0
	}
	if cfg.SpacerRows < 0 {
		cfg.SpacerRows = 0
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine settings
func (e *Engine) Config() Config {
	return e.cfg
}

// Plan builds the row plan for items without modifying them
func (e *Engine) Plan(items []entity.LineItem) Plan {
	rows := make([]Row, 0, e.capacity(items))

	for i, item := range items {
		rows = append(rows, Row{
			Kind:      PrimaryRow,
			Index:     fmt.Sprintf("%02d", i+1),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			LineTotal: finance.LineTotal(item.Quantity, item.Price),
			Image:     item.Image,
			Rowspan:   1 + len(item.SubItems) + e.cfg.SpacerRows,
		})

		for j, sub := range item.SubItems {
			rows = append(rows, Row{
				Kind:      SecondaryRow,
				Letter:    Letter(j),
				Name:      sub.Name,
				Quantity:  sub.Quantity,
				UnitPrice: sub.Price,
				LineTotal: finance.LineTotal(sub.Quantity, sub.Price),
			})
		}

		for s := 0; s < e.cfg.SpacerRows; s++ {
			rows = append(rows, Row{Kind: SpacerRow})
		}
	}

	emitted := len(rows)
	padding := e.cfg.MinimumRows - emitted
	if padding < 0 {
		padding = 0
	}
	for p := 0; p < padding; p++ {
		rows = append(rows, Row{Kind: PaddingRow})
	}

	return Plan{
		Rows:    rows,
		Items:   len(items),
		Emitted: emitted,
		Padding: padding,
	}
}

func (e *Engine) capacity(items []entity.LineItem) int {
	n := 0
	for _, item := range items {
		n += 1 + len(item.SubItems) + e.cfg.SpacerRows
	}
	if n < e.cfg.MinimumRows {
		return e.cfg.MinimumRows
	}
	return n
}

// Letter returns the sub-item prefix for a zero-based position:
// a..z, then aa, ab and so on.
func Letter(i int) string {
	if i < 0 {
		return ""
	}
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('a' + (n-1)%26)}, buf...)
	}
	return string(buf)
}
