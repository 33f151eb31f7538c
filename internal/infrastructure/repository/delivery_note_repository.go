package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	domainRepo "github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/pkg/pagination"
	"gorm.io/gorm"
)

type deliveryNoteRepository struct {
	db *gorm.DB
}

// NewDeliveryNoteRepository creates a new delivery note repository
func NewDeliveryNoteRepository(db *gorm.DB) domainRepo.DeliveryNoteRepository {
	return &deliveryNoteRepository{db: db}
}

func (r *deliveryNoteRepository) Create(ctx context.Context, note *entity.DeliveryNote) error {
	return r.db.WithContext(ctx).Omit("PreparedBy").Create(note).Error
}

func (r *deliveryNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryNote, error) {
	var note entity.DeliveryNote
	err := r.db.WithContext(ctx).
		Preload("PreparedBy").
		First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (r *deliveryNoteRepository) GetByNumber(ctx context.Context, number string) (*entity.DeliveryNote, error) {
	var note entity.DeliveryNote
	err := r.db.WithContext(ctx).First(&note, "delivery_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (r *deliveryNoteRepository) Update(ctx context.Context, note *entity.DeliveryNote) error {
	return r.db.WithContext(ctx).Omit("PreparedBy").Save(note).Error
}

func (r *deliveryNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DeliveryNote{}, "id = ?", id).Error
}

func (r *deliveryNoteRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.DeliveryNote, int64, error) {
	var notes []entity.DeliveryNote
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	query := r.db.WithContext(ctx).Model(&entity.DeliveryNote{}).
		Scopes(
			OwnerScope("created_by_id", params.OwnerID),
			SearchScope(params.Search, "company_name", "delivery_number"),
		)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("PreparedBy").
		Order("created_at DESC").
		Find(&notes).Error

	return notes, total, err
}
