package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/pkg/apperror"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID   uuid.UUID
	Name string
	Role enum.UserRole
}

// IsAdmin reports whether the actor may access every document
func (a Actor) IsAdmin() bool {
	return a.Role == enum.UserRoleAdmin
}

// ownerFilter limits listings to the actor's own documents unless they are an admin
func (a Actor) ownerFilter() *uuid.UUID {
	if a.IsAdmin() {
		return nil
	}
	id := a.ID
	return &id
}

// authorize allows admins and the owning user
func (a Actor) authorize(owner uuid.UUID) error {
	if a.IsAdmin() || a.ID == owner {
		return nil
	}
	return apperror.ErrForbidden
}

// File is a named binary attachment such as a PDF or workbook
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Generated is a persisted document together with its freshly rendered PDF
type Generated[T any] struct {
	Document   *T
	PDF        []byte
	PageHeight int
	Filename   string
}

// requireHeader checks the fields every document header needs
func requireHeader(number, company string, date time.Time) error {
	if strings.TrimSpace(number) == "" {
		return apperror.NewInvalidInputError("documentNumber", "is required")
	}
	if strings.TrimSpace(company) == "" {
		return apperror.NewInvalidInputError("companyName", "is required")
	}
	if date.IsZero() {
		return apperror.NewInvalidInputError("date", "is required")
	}
	return nil
}
