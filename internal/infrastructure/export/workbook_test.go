package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
)

func TestWrite_Quotation(t *testing.T) {
	model, err := document.NewAssembler().Assemble(document.Input{
		Variant: enum.DocumentVariantQuotation,
		Header: document.Header{
			CompanyName:    "Acme",
			DocumentNumber: "Q-9",
			Date:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Terms:          []string{"Prices exclude delivery"},
		},
		Items: []entity.LineItem{{
			Name: "Desk", Quantity: 2, Price: decimal.NewFromInt(100),
			SubItems: []entity.SubItem{{Name: "Drawer", Quantity: 1, Price: decimal.NewFromInt(10)}},
		}},
	})
	require.NoError(t, err)

	data, err := NewWorkbookWriter(nil, zap.NewNop()).Write(context.Background(), model)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "Price Quotation"
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Q-9", get("B3"))
	assert.Equal(t, "01 / 05 / 2024", get("B4"))
	assert.Equal(t, "Description", get("B6"))
	assert.Equal(t, "01", get("A7"))
	assert.Equal(t, "Desk", get("B7"))
	assert.Equal(t, "200.00", get("F7"))
	assert.Equal(t, "a. Drawer", get("B8"))

	merges, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "C7", merges[0].GetStartAxis())
	assert.Equal(t, "C10", merges[0].GetEndAxis())

	// 15 table rows start at row 7, totals follow at 22
	assert.Equal(t, "Total Before VAT", get("E22"))
	assert.Equal(t, "210.00", get("F22"))
	assert.Equal(t, "32.00", get("F23"))
	assert.Equal(t, "242.00", get("F24"))
	assert.Equal(t, "Two Hundred Forty Two", get("B24"))
}

func TestWrite_DeliveryNote(t *testing.T) {
	model, err := document.NewAssembler().Assemble(document.Input{
		Variant:       enum.DocumentVariantDeliveryNote,
		Header:        document.Header{CompanyName: "Acme", DocumentNumber: "D-3"},
		DeliveryItems: []entity.DeliveryItem{{Description: "Cement", Quantity: 40}},
	})
	require.NoError(t, err)

	data, err := NewWorkbookWriter(nil, zap.NewNop()).Write(context.Background(), model)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	qty, err := f.GetCellValue("Delivery Note", "C7")
	require.NoError(t, err)
	assert.Equal(t, "40", qty)

	header, err := f.GetCellValue("Delivery Note", "C6")
	require.NoError(t, err)
	assert.Equal(t, "Quantity", header)
}
