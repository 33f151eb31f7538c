package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/domain/repository"
	"github.com/sangkips/docgen-api/pkg/apperror"
	"github.com/sangkips/docgen-api/pkg/pagination"
	"github.com/sangkips/docgen-api/pkg/utils"
)

const minPasswordLength = 6

// SignatureStore persists signature images and resolves them back to data URIs
type SignatureStore interface {
	SaveDataURI(ctx context.Context, name, uri string) (string, error)
	Resolve(ctx context.Context, ref string) (string, error)
}

// UserService handles user management, which is restricted to admins
type UserService struct {
	userRepo repository.UserRepository
	store    SignatureStore
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, store SignatureStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo: userRepo,
		store:    store,
		logger:   logger,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.UserRole
}

// UpdateUserInput represents input for updating a user; nil fields are left unchanged
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *enum.UserRole
}

// Create registers a new user
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, apperror.NewInvalidInputError("name", "is required")
	}
	if email == "" {
		return nil, apperror.NewInvalidInputError("email", "is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.NewInvalidInputError("password", "must be at least 6 characters")
	}
	if !input.Role.IsValid() {
		return nil, apperror.NewInvalidInputError("role", "is not a valid role")
	}

	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewPersistenceError("create user", err)
	}

	s.logger.Info("User created", zap.String("id", user.ID.String()), zap.String("role", user.Role.String()))
	return user, nil
}

// List returns users matching search, newest first
func (s *UserService) List(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.NewPersistenceError("list users", err)
	}
	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// Update changes the given user fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewInvalidInputError("name", "is required")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperror.NewInvalidInputError("email", "is required")
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, apperror.NewInvalidInputError("password", "must be at least 6 characters")
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewInvalidInputError("role", "is not a valid role")
		}
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.NewPersistenceError("update user", err)
	}
	return user, nil
}

// Delete removes a user. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.ID == id {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError("delete user", err)
	}
	return nil
}

// SetSignature stores a signature image given as a data URI and links it to the user
func (s *UserService) SetSignature(ctx context.Context, id uuid.UUID, dataURI string) (*entity.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(dataURI, "data:image/") {
		return nil, apperror.NewInvalidInputError("signature", "must be an image data URI")
	}

	ref, err := s.store.SaveDataURI(ctx, "signatures/"+user.ID.String()+".png", dataURI)
	if err != nil {
		return nil, err
	}

	user.SignatureRef = &ref
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.NewPersistenceError("update user", err)
	}
	return user, nil
}

// Signature returns the user's signature as a data URI
func (s *UserService) Signature(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if user.SignatureRef == nil || *user.SignatureRef == "" {
		return "", apperror.NewNotFoundError("Signature")
	}
	return s.store.Resolve(ctx, *user.SignatureRef)
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperror.NewPersistenceError("load user", err)
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Email already registered")
	}
	return nil
}
