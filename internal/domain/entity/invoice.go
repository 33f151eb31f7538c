package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice represents a bill issued to a company
type Invoice struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Number      string     `gorm:"column:invoice_number;size:100;uniqueIndex;not null" json:"invoiceNumber"`
	CompanyName string     `gorm:"size:255;not null;index" json:"companyName"`
	Date        time.Time  `gorm:"type:date;not null" json:"date"`
	Items       []LineItem `gorm:"type:text;serializer:json" json:"items"`
	Terms       []string   `gorm:"type:text;serializer:json" json:"terms"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	FinancialSummary `gorm:"embedded"`

	// Relationships
	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"createdByUser,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// OwnerID returns the user the invoice belongs to
func (i *Invoice) OwnerID() uuid.UUID {
	return i.CreatedByID
}
