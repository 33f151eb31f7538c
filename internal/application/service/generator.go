package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/application/render"
	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/pkg/apperror"
)

// ViewRenderer turns a document model into a standalone HTML page
type ViewRenderer interface {
	Render(ctx context.Context, model *document.Model) (string, error)
}

// PageRenderer exports an HTML page to a content-sized PDF
type PageRenderer interface {
	Render(ctx context.Context, req render.Request) (*render.Result, error)
}

// WorkbookExporter writes a document model as a spreadsheet
type WorkbookExporter interface {
	Write(ctx context.Context, model *document.Model) ([]byte, error)
}

// Rendered is the output of one PDF generation
type Rendered struct {
	Model  *document.Model
	PDF    []byte
	Height int
}

// DocumentGenerator runs assembly, templating and rendering for every variant
type DocumentGenerator struct {
	assembler *document.Assembler
	views     ViewRenderer
	pages     PageRenderer
	workbooks WorkbookExporter
	logger    *zap.Logger
}

// NewDocumentGenerator creates a new document generator
func NewDocumentGenerator(views ViewRenderer, pages PageRenderer, workbooks WorkbookExporter, logger *zap.Logger) *DocumentGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentGenerator{
		assembler: document.NewAssembler(),
		views:     views,
		pages:     pages,
		workbooks: workbooks,
		logger:    logger,
	}
}

// Assemble validates input and builds the document model without rendering
func (g *DocumentGenerator) Assemble(in document.Input) (*document.Model, error) {
	return g.assembler.Assemble(in)
}

// PDF assembles and renders a document. No bytes are returned on failure.
func (g *DocumentGenerator) PDF(ctx context.Context, in document.Input) (*Rendered, error) {
	model, err := g.assembler.Assemble(in)
	if err != nil {
		return nil, err
	}

	page, err := g.views.Render(ctx, model)
	if err != nil {
		return nil, asRenderingError(err)
	}

	result, err := g.pages.Render(ctx, render.Request{
		Variant: model.Variant,
		Name:    model.Header.DocumentNumber,
		HTML:    page,
	})
	if err != nil {
		return nil, asRenderingError(err)
	}

	g.logger.Info("Document rendered",
		zap.String("variant", model.Variant.String()),
		zap.String("number", model.Header.DocumentNumber),
		zap.Int("height", result.Height),
		zap.Int("bytes", len(result.PDF)))

	return &Rendered{Model: model, PDF: result.PDF, Height: result.Height}, nil
}

// Workbook assembles a document and writes it as an xlsx file
func (g *DocumentGenerator) Workbook(ctx context.Context, in document.Input) ([]byte, error) {
	if g.workbooks == nil {
		return nil, apperror.NewBadRequestError("Spreadsheet export is not enabled")
	}
	model, err := g.assembler.Assemble(in)
	if err != nil {
		return nil, err
	}
	content, err := g.workbooks.Write(ctx, model)
	if err != nil {
		return nil, asRenderingError(err)
	}
	return content, nil
}

// asRenderingError keeps classified errors and treats the rest as rendering failures
func asRenderingError(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewRenderingFailure(err)
}
