package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/pkg/pagination"
)

// DocumentFilterParams contains filtering parameters for document list queries
type DocumentFilterParams struct {
	Pagination *pagination.PaginationParams
	// Search matches the company name or document number, case-insensitively
	Search string
	// OwnerID restricts results to one user; nil lists every document
	OwnerID *uuid.UUID
}

// QuotationRepository defines the interface for quotation data operations
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	GetByNumber(ctx context.Context, number string) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Quotation, int64, error)
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Invoice, int64, error)
}

// DeliveryNoteRepository defines the interface for delivery note data operations
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryNote, error)
	GetByNumber(ctx context.Context, number string) (*entity.DeliveryNote, error)
	Update(ctx context.Context, note *entity.DeliveryNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.DeliveryNote, int64, error)
}
