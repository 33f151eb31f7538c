package htmlview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
)

type MockAssetResolver struct {
	resolved map[string]string
	err      error
	calls    []string
}

func (m *MockAssetResolver) Resolve(ctx context.Context, ref string) (string, error) {
	m.calls = append(m.calls, ref)
	if m.err != nil {
		return "", m.err
	}
	if url, ok := m.resolved[ref]; ok {
		return url, nil
	}
	return ref, nil
}

func assemble(t *testing.T, in document.Input) *document.Model {
	model, err := document.NewAssembler().Assemble(in)
	require.NoError(t, err)
	return model
}

func TestRender_Quotation(t *testing.T) {
	assets := &MockAssetResolver{resolved: map[string]string{
		"asset://brand/logo.png": "data:image/png;base64,TE9HTw==",
		"asset://items/desk.png": "data:image/png;base64,REVTSw==",
	}}
	r, err := NewRenderer(assets, Branding{LogoRef: "asset://brand/logo.png", CurrencyLabel: "SAR"}, ".document-container")
	require.NoError(t, err)

	model := assemble(t, document.Input{
		Variant: enum.DocumentVariantQuotation,
		Header: document.Header{
			CompanyName:    "Acme <Trading>",
			DocumentNumber: "Q-7",
			Date:           time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Terms:          []string{"Delivery within 2 weeks"},
			PreparedBy:     "Jane",
		},
		Items: []entity.LineItem{{
			Name: "Desk", Quantity: 2, Price: decimal.NewFromInt(1500), Image: "asset://items/desk.png",
			SubItems: []entity.SubItem{{Name: "Drawer", Quantity: 1, Price: decimal.NewFromInt(50)}},
		}},
	})

	html, err := r.Render(context.Background(), model)
	require.NoError(t, err)

	assert.Contains(t, html, `class="page document-container"`)
	assert.Contains(t, html, "Acme &lt;Trading&gt;")
	assert.Contains(t, html, "02 / 01 / 2024")
	assert.Contains(t, html, `rowspan="4"`)
	assert.Contains(t, html, "a. Drawer")
	assert.Contains(t, html, "3,000.00")
	assert.Contains(t, html, "3,050.00")
	assert.Contains(t, html, "Three Thousand Five Hundred Eight")
	assert.Contains(t, html, `src="data:image/png;base64,REVTSw=="`)
	assert.Contains(t, html, `src="data:image/png;base64,TE9HTw=="`)
	assert.Contains(t, html, "15% VAT")
	assert.Equal(t, 2, strings.Count(html, `<tr class="spacer">`))
	assert.Equal(t, 11, strings.Count(html, `<tr class="padding">`))
}

func TestRender_DeliveryNote(t *testing.T) {
	r, err := NewRenderer(nil, Branding{}, ".document-container")
	require.NoError(t, err)

	model := assemble(t, document.Input{
		Variant: enum.DocumentVariantDeliveryNote,
		Header: document.Header{
			CompanyName:    "Acme",
			DocumentNumber: "D-1",
			ReceivedBy:     "John",
			SignatureRef:   "data:image/png;base64,U0lH",
		},
		DeliveryItems: []entity.DeliveryItem{{Description: "Cement", Quantity: 40}},
	})

	html, err := r.Render(context.Background(), model)
	require.NoError(t, err)

	assert.Contains(t, html, "Received by: John")
	assert.Contains(t, html, `src="data:image/png;base64,U0lH"`)
	assert.Contains(t, html, "40 pcs")
	assert.NotContains(t, html, "VAT")
	assert.Equal(t, 14, strings.Count(html, `<tr class="padding">`))
}

func TestRender_AssetFailure(t *testing.T) {
	r, err := NewRenderer(&MockAssetResolver{err: errors.New("missing")}, Branding{LogoRef: "asset://x.png"}, ".document-container")
	require.NoError(t, err)

	model := assemble(t, document.Input{
		Variant: enum.DocumentVariantInvoice,
		Header:  document.Header{CompanyName: "Acme", DocumentNumber: "I-1"},
	})

	_, err = r.Render(context.Background(), model)
	assert.Error(t, err)
}

func TestNewRenderer_RejectsComplexSelector(t *testing.T) {
	_, err := NewRenderer(nil, Branding{}, "div > .page")
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":           "0.00",
		"5.5":         "5.50",
		"999":         "999.00",
		"1000":        "1,000.00",
		"1234567.891": "1,234,567.89",
		"-2500":       "-2,500.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}
