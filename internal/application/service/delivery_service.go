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
	"github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/pkg/apperror"
	"github.com/sangkips/docgen-api/pkg/pagination"
	"github.com/sangkips/docgen-api/pkg/utils"
)

// DeliveryService handles delivery note business logic
type DeliveryService struct {
	deliveryRepo repository.DeliveryNoteRepository
	userRepo     repository.UserRepository
	generator    *DocumentGenerator
	logger       *zap.Logger
}

// NewDeliveryService creates a new delivery note service
func NewDeliveryService(
	deliveryRepo repository.DeliveryNoteRepository,
	userRepo repository.UserRepository,
	generator *DocumentGenerator,
	logger *zap.Logger,
) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		generator:    generator,
		logger:       logger,
	}
}

// DeliveryInput is the editable content of a delivery note
type DeliveryInput struct {
	Number      string
	CompanyName string
	Date        time.Time
	Items       []entity.DeliveryItem
}

func (in *DeliveryInput) normalize() error {
	in.Number = strings.TrimSpace(in.Number)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := requireHeader(in.Number, in.CompanyName, in.Date); err != nil {
		return err
	}
	if len(in.Items) == 0 {
		return apperror.NewInvalidInputError("items", "at least one item is required")
	}
	return document.ValidateDeliveryItems(in.Items)
}

// Create stores a delivery note signed by the caller and returns its PDF.
// The caller's current name and signature are recorded as the receiver.
func (s *DeliveryService) Create(ctx context.Context, actor Actor, input *DeliveryInput) (*Generated[entity.DeliveryNote], error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.deliveryRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, apperror.NewPersistenceError("check delivery number", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Delivery number already exists")
	}

	signer, err := s.signer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	note := &entity.DeliveryNote{
		Number:       input.Number,
		CompanyName:  input.CompanyName,
		Date:         input.Date,
		Items:        input.Items,
		ReceivedBy:   signer.Name,
		SignatureRef: signer.SignatureRef,
		CreatedByID:  actor.ID,
		PreparedByID: actor.ID,
		PreparedBy:   signer,
	}

	rendered, err := s.generator.PDF(ctx, deliveryInput(note))
	if err != nil {
		return nil, err
	}

	if err := s.deliveryRepo.Create(ctx, note); err != nil {
		return nil, apperror.NewPersistenceError("save delivery note", err)
	}

	s.logger.Info("Delivery note created",
		zap.String("id", note.ID.String()),
		zap.String("number", note.Number),
		zap.String("created_by", actor.ID.String()))

	return &Generated[entity.DeliveryNote]{
		Document:   note,
		PDF:        rendered.PDF,
		PageHeight: rendered.Height,
		Filename:   utils.DocumentFilename("delivery", note.Number, ".pdf"),
	}, nil
}

// List returns delivery notes visible to the actor, newest first
func (s *DeliveryService) List(ctx context.Context, actor Actor, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.DeliveryNote], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	notes, total, err := s.deliveryRepo.List(ctx, &repository.DocumentFilterParams{
		Pagination: params,
		Search:     search,
		OwnerID:    actor.ownerFilter(),
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("list delivery notes", err)
	}

	return pagination.NewPaginatedResult(notes, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Get returns one delivery note the actor may see
func (s *DeliveryService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*entity.DeliveryNote, error) {
	note, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load delivery note", err)
	}
	if note == nil {
		return nil, apperror.NewNotFoundError("Delivery note")
	}
	if err := actor.authorize(note.CreatedByID); err != nil {
		return nil, err
	}
	return note, nil
}

// Update replaces the note content and re-signs it with the caller's details
func (s *DeliveryService) Update(ctx context.Context, actor Actor, id uuid.UUID, input *DeliveryInput) (*entity.DeliveryNote, error) {
	note, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := input.normalize(); err != nil {
		return nil, err
	}

	if input.Number != note.Number {
		existing, err := s.deliveryRepo.GetByNumber(ctx, input.Number)
		if err != nil {
			return nil, apperror.NewPersistenceError("check delivery number", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Delivery number already exists")
		}
	}

	signer, err := s.signer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	note.Number = input.Number
	note.CompanyName = input.CompanyName
	note.Date = input.Date
	note.Items = input.Items
	note.ReceivedBy = signer.Name
	note.SignatureRef = signer.SignatureRef

	if err := s.deliveryRepo.Update(ctx, note); err != nil {
		return nil, apperror.NewPersistenceError("update delivery note", err)
	}
	return note, nil
}

// Delete removes a delivery note
func (s *DeliveryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.deliveryRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError("delete delivery note", err)
	}
	return nil
}

// PDF renders a stored delivery note
func (s *DeliveryService) PDF(ctx context.Context, actor Actor, id uuid.UUID) (*File, error) {
	note, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.generator.PDF(ctx, deliveryInput(note))
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    utils.DocumentFilename("delivery", note.Number, ".pdf"),
		ContentType: ContentTypePDF,
		Content:     rendered.PDF,
	}, nil
}

// Workbook exports a stored delivery note as a spreadsheet
func (s *DeliveryService) Workbook(ctx context.Context, actor Actor, id uuid.UUID) (*File, error) {
	note, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Workbook(ctx, deliveryInput(note))
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    utils.DocumentFilename("delivery", note.Number, ".xlsx"),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}, nil
}

func (s *DeliveryService) signer(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

func deliveryInput(note *entity.DeliveryNote) document.Input {
	var signature string
	if note.SignatureRef != nil {
		signature = *note.SignatureRef
	}
	return document.Input{
		Variant: enum.DocumentVariantDeliveryNote,
		Header: document.Header{
			CompanyName:    note.CompanyName,
			DocumentNumber: note.Number,
			Date:           note.Date,
			PreparedBy:     userName(note.PreparedBy),
			ReceivedBy:     note.ReceivedBy,
			SignatureRef:   signature,
		},
		DeliveryItems: note.Items,
	}
}
