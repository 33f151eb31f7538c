package service

import (
	"context"
	"strings"
	"time"

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

// QuotationService handles quotation business logic
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	generator     *DocumentGenerator
	logger        *zap.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(quotationRepo repository.QuotationRepository, generator *DocumentGenerator, logger *zap.Logger) *QuotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		generator:     generator,
		logger:        logger,
	}
}

// PricedDocumentInput is the editable content of a quotation or invoice
type PricedDocumentInput struct {
	Number      string
	CompanyName string
	Date        time.Time
	Items       []entity.LineItem
	Terms       []string
}

func (in *PricedDocumentInput) normalize() error {
	in.Number = strings.TrimSpace(in.Number)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := requireHeader(in.Number, in.CompanyName, in.Date); err != nil {
		return err
	}
	return finance.Validate(in.Items)
}

// Create validates the quotation, renders its PDF and stores it.
// Nothing is persisted when rendering fails.
func (s *QuotationService) Create(ctx context.Context, actor Actor, input *PricedDocumentInput) (*Generated[entity.Quotation], error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.quotationRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, apperror.NewPersistenceError("check quotation number", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Quotation number already exists")
	}

	summary, err := finance.Calculate(input.Items)
	if err != nil {
		return nil, err
	}

	quotation := &entity.Quotation{
		Number:           input.Number,
		CompanyName:      input.CompanyName,
		Date:             input.Date,
		Items:            input.Items,
		Terms:            input.Terms,
		PreparedByID:     actor.ID,
		FinancialSummary: summary,
	}

	rendered, err := s.generator.PDF(ctx, quotationInput(quotation, actor.Name))
	if err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, apperror.NewPersistenceError("save quotation", err)
	}

	s.logger.Info("Quotation created",
		zap.String("id", quotation.ID.String()),
		zap.String("number", quotation.Number),
		zap.String("prepared_by", actor.ID.String()))

	return &Generated[entity.Quotation]{
		Document:   quotation,
		PDF:        rendered.PDF,
		PageHeight: rendered.Height,
		Filename:   utils.DocumentFilename("quotation", quotation.Number, ".pdf"),
	}, nil
}

// List returns quotations visible to the actor, newest first
func (s *QuotationService) List(ctx context.Context, actor Actor, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Quotation], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	quotations, total, err := s.quotationRepo.List(ctx, &repository.DocumentFilterParams{
		Pagination: params,
		Search:     search,
		OwnerID:    actor.ownerFilter(),
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("list quotations", err)
	}

	return pagination.NewPaginatedResult(quotations, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Get returns one quotation the actor may see
func (s *QuotationService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load quotation", err)
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if err := actor.authorize(quotation.PreparedByID); err != nil {
		return nil, err
	}
	return quotation, nil
}

// Update replaces the quotation content and recomputes its totals
func (s *QuotationService) Update(ctx context.Context, actor Actor, id uuid.UUID, input *PricedDocumentInput) (*entity.Quotation, error) {
	quotation, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := input.normalize(); err != nil {
		return nil, err
	}

	if input.Number != quotation.Number {
		existing, err := s.quotationRepo.GetByNumber(ctx, input.Number)
		if err != nil {
			return nil, apperror.NewPersistenceError("check quotation number", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Quotation number already exists")
		}
	}

	summary, err := finance.Calculate(input.Items)
	if err != nil {
		return nil, err
	}

	quotation.Number = input.Number
	quotation.CompanyName = input.CompanyName
	quotation.Date = input.Date
	quotation.Items = input.Items
	quotation.Terms = input.Terms
	quotation.FinancialSummary = summary

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, apperror.NewPersistenceError("update quotation", err)
	}
	return quotation, nil
}

// Delete removes a quotation
func (s *QuotationService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError("delete quotation", err)
	}
	return nil
}

// PDF renders a stored quotation using its persisted totals
func (s *QuotationService) PDF(ctx context.Context, actor Actor, id uuid.UUID) (*File, error) {
	quotation, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.generator.PDF(ctx, quotationInput(quotation, userName(quotation.PreparedBy)))
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    utils.DocumentFilename("quotation", quotation.Number, ".pdf"),
		ContentType: ContentTypePDF,
		Content:     rendered.PDF,
	}, nil
}

// Workbook exports a stored quotation as a spreadsheet
func (s *QuotationService) Workbook(ctx context.Context, actor Actor, id uuid.UUID) (*File, error) {
	quotation, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Workbook(ctx, quotationInput(quotation, userName(quotation.PreparedBy)))
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    utils.DocumentFilename("quotation", quotation.Number, ".xlsx"),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}, nil
}

func quotationInput(q *entity.Quotation, preparedBy string) document.Input {
	summary := q.FinancialSummary
	return document.Input{
		Variant: enum.DocumentVariantQuotation,
		Header: document.Header{
			CompanyName:    q.CompanyName,
			DocumentNumber: q.Number,
			Date:           q.Date,
			Terms:          q.Terms,
			PreparedBy:     preparedBy,
		},
		Items:   q.Items,
		Summary: &summary,
	}
}

// userName returns the display name of an optional preloaded user
func userName(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}
