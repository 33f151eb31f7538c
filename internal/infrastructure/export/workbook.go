package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/layout"
	"github.com/sangkips/docgen-api/internal/infrastructure/storage"
)

// ImageResolver turns an image reference into a loadable URL
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// WorkbookWriter writes a document's row plan as a single-sheet spreadsheet
type WorkbookWriter struct {
	images ImageResolver
	logger *zap.Logger
}

// NewWorkbookWriter creates a writer; images may be nil to skip pictures
func NewWorkbookWriter(images ImageResolver, logger *zap.Logger) *WorkbookWriter {
	return &WorkbookWriter{images: images, logger: logger}
}

type column struct {
	header string
	width  float64
}

var pricedColumns = []column{
	{"No.", 6}, {"Description", 40}, {"Image", 16}, {"Quantity", 12}, {"Unit Price", 14}, {"Total Price", 16},
}

var deliveryColumns = []column{
	{"No.", 6}, {"Description", 50}, {"Quantity", 12},
}

// headerRows precede the item table
const headerRows = 5

// Write renders model into xlsx bytes
func (w *WorkbookWriter) Write(ctx context.Context, model *document.Model) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := model.Title
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	columns := pricedColumns
	if model.Totals == nil {
		columns = deliveryColumns
	}

	w.setCell(f, sheet, "A1", model.Title)
	w.setCell(f, sheet, "A2", "Company")
	w.setCell(f, sheet, "B2", model.Header.CompanyName)
	w.setCell(f, sheet, "A3", model.NumberLabel)
	w.setCell(f, sheet, "B3", model.Header.DocumentNumber)
	w.setCell(f, sheet, "A4", "Date")
	w.setCell(f, sheet, "B4", model.DateText)

	for i, col := range columns {
		name := columnName(i)
		w.setCell(f, sheet, fmt.Sprintf("%s%d", name, headerRows+1), col.header)
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	last := columnName(len(columns) - 1)
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return nil, fmt.Errorf("failed to style title: %w", err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRows+1), fmt.Sprintf("%s%d", last, headerRows+1), bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	row := headerRows + 2
	for _, r := range model.Plan.Rows {
		if err := w.writeRow(ctx, f, sheet, row, r, model.Totals != nil); err != nil {
			return nil, err
		}
		row++
	}

	if t := model.Totals; t != nil {
		lines := []struct {
			label string
			words string
			value string
		}{
			{"Total Before VAT", t.TotalInWords, t.TotalPrice.StringFixed(2)},
			{"VAT", "", t.VATAmount.StringFixed(2)},
			{"Total With VAT", t.FinalInWords, t.FinalAmount.StringFixed(2)},
		}
		for _, line := range lines {
			w.setCell(f, sheet, fmt.Sprintf("B%d", row), line.words)
			w.setCell(f, sheet, fmt.Sprintf("E%d", row), line.label)
			w.setCell(f, sheet, fmt.Sprintf("F%d", row), line.value)
			row++
		}
	}

	if len(model.Header.Terms) > 0 {
		row++
		w.setCell(f, sheet, fmt.Sprintf("A%d", row), "Terms")
		for i, term := range model.Header.Terms {
			w.setCell(f, sheet, fmt.Sprintf("B%d", row+i), fmt.Sprintf("%d. %s", i+1, term))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *WorkbookWriter) writeRow(ctx context.Context, f *excelize.File, sheet string, row int, r layout.Row, priced bool) error {
	cell := func(col string) string { return fmt.Sprintf("%s%d", col, row) }

	switch r.Kind {
	case layout.PrimaryRow, layout.SecondaryRow:
	default:
		return nil
	}

	if r.Kind == layout.PrimaryRow {
		w.setCell(f, sheet, cell("A"), r.Index)
	}
	w.setCell(f, sheet, cell("B"), r.Label())

	if !priced {
		w.setCell(f, sheet, cell("C"), r.Quantity)
		return nil
	}

	w.setCell(f, sheet, cell("D"), r.Quantity)
	w.setCell(f, sheet, cell("E"), r.UnitPrice.StringFixed(2))
	w.setCell(f, sheet, cell("F"), r.LineTotal.StringFixed(2))

	if r.Kind == layout.PrimaryRow && r.Rowspan > 1 {
		if err := f.MergeCell(sheet, cell("C"), fmt.Sprintf("C%d", row+r.Rowspan-1)); err != nil {
			return fmt.Errorf("failed to merge image cell: %w", err)
		}
	}
	if r.Kind == layout.PrimaryRow && r.Image != "" {
		w.addImage(ctx, f, sheet, cell("C"), r.Image)
	}
	return nil
}

// addImage embeds inline images; remote URLs and unreadable images are skipped
func (w *WorkbookWriter) addImage(ctx context.Context, f *excelize.File, sheet, cell, ref string) {
	if w.images == nil {
		return
	}
	url, err := w.images.Resolve(ctx, ref)
	if err != nil {
		w.logger.Warn("Skipping item image", zap.String("ref", ref), zap.Error(err))
		return
	}
	if !strings.HasPrefix(url, "data:") {
		return
	}
	content, err := storage.DecodeDataURI(url)
	if err != nil {
		w.logger.Warn("Skipping undecodable item image", zap.String("ref", ref), zap.Error(err))
		return
	}

	ext := extensionOf(url)
	if ext == "" {
		return
	}
	if err := f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ext,
		File:      content,
		Format:    &excelize.GraphicOptions{AutoFit: true},
	}); err != nil {
		w.logger.Warn("Failed to embed item image", zap.String("cell", cell), zap.Error(err))
	}
}

func (w *WorkbookWriter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func columnName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

func extensionOf(dataURI string) string {
	switch {
	case strings.HasPrefix(dataURI, "data:image/png"):
		return ".png"
	case strings.HasPrefix(dataURI, "data:image/jpeg"), strings.HasPrefix(dataURI, "data:image/jpg"):
		return ".jpg"
	case strings.HasPrefix(dataURI, "data:image/gif"):
		return ".gif"
	}
	return ""
}
