package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/domain/finance"
	"github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/pkg/apperror"
	"github.com/sangkips/docgen-api/pkg/pagination"
	"github.com/sangkips/docgen-api/pkg/utils"
)

// InvoiceService handles invoice business logic
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	generator   *DocumentGenerator
	logger      *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, generator *DocumentGenerator, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		generator:   generator,
		logger:      logger,
	}
}

// Create validates the invoice, renders its PDF and stores it.
// Nothing is persisted when rendering fails.
func (s *InvoiceService) Create(ctx context.Context, actor Actor, input *PricedDocumentInput) (*Generated[entity.Invoice], error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, apperror.NewPersistenceError("check invoice number", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Invoice number already exists")
	}

	summary, err := finance.Calculate(input.Items)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		Number:           input.Number,
		CompanyName:      input.CompanyName,
		Date:             input.Date,
		Items:            input.Items,
		Terms:            input.Terms,
		CreatedByID:      actor.ID,
		FinancialSummary: summary,
	}

	rendered, err := s.generator.PDF(ctx, invoiceInput(invoice, actor.Name))
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, apperror.NewPersistenceError("save invoice", err)
	}

	s.logger.Info("Invoice created",
		zap.String("id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("created_by", actor.ID.String()))

	return &Generated[entity.Invoice]{
		Document:   invoice,
		PDF:        rendered.PDF,
		PageHeight: rendered.Height,
		Filename:   utils.DocumentFilename("invoice", invoice.Number, ".pdf"),
	}, nil
}

// List returns invoices visible to the actor, newest first
func (s *InvoiceService) List(ctx context.Context, actor Actor, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, &repository.DocumentFilterParams{
		Pagination: params,
		Search:     search,
		OwnerID:    actor.ownerFilter(),
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("list invoices", err)
	}

	return pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Get returns one invoice the actor may see
func (s *InvoiceService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if err := actor.authorize(invoice.CreatedByID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Update replaces the invoice content and recomputes its totals
func (s *InvoiceService) Update(ctx context.Context, actor Actor, id uuid.UUID, input *PricedDocumentInput) (*entity.Invoice, error) {
	invoice, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := input.normalize(); err != nil {
		return nil, err
	}

	if input.Number != invoice.Number {
		existing, err := s.invoiceRepo.GetByNumber(ctx, input.Number)
		if err != nil {
			return nil, apperror.NewPersistenceError("check invoice number", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Invoice number already exists")
		}
	}

	summary, err := finance.Calculate(input.Items)
	if err != nil {
		return nil, err
	}

	invoice.Number = input.Number
	invoice.CompanyName = input.CompanyName
	invoice.Date = input.Date
	invoice.Items = input.Items
	invoice.Terms = input.Terms
	invoice.FinancialSummary = summary

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, apperror.NewPersistenceError("update invoice", err)
	}
	return invoice, nil
}

// Delete removes an invoice
func (s *InvoiceService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError("delete invoice", err)
	}
	return nil
}

// PDF renders a stored invoice using its persisted totals
func (s *InvoiceService) PDF(ctx context.Context, actor Actor, id uuid.UUID) (*File, error) {
	invoice, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.generator.PDF(ctx, invoiceInput(invoice, userName(invoice.CreatedBy)))
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    utils.DocumentFilename("invoice", invoice.Number, ".pdf"),
		ContentType: ContentTypePDF,
		Content:     rendered.PDF,
	}, nil
}

// Workbook exports a stored invoice as a spreadsheet
func (s *InvoiceService) Workbook(ctx context.Context, actor Actor, id uuid.UUID) (*File, error) {
	invoice, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Workbook(ctx, invoiceInput(invoice, userName(invoice.CreatedBy)))
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    utils.DocumentFilename("invoice", invoice.Number, ".xlsx"),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}, nil
}

func invoiceInput(inv *entity.Invoice, createdBy string) document.Input {
	summary := inv.FinancialSummary
	return document.Input{
		Variant: enum.DocumentVariantInvoice,
		Header: document.Header{
			CompanyName:    inv.CompanyName,
			DocumentNumber: inv.Number,
			Date:           inv.Date,
			Terms:          inv.Terms,
			PreparedBy:     createdBy,
		},
		Items:   inv.Items,
		Summary: &summary,
	}
}
