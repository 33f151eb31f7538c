package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quotation represents a price quotation issued to a company
type Quotation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Number       string     `gorm:"column:quotation_number;size:100;uniqueIndex;not null" json:"quotationNumber"`
	CompanyName  string     `gorm:"size:255;not null;index" json:"companyName"`
	Date         time.Time  `gorm:"type:date;not null" json:"date"`
	Items        []LineItem `gorm:"type:text;serializer:json" json:"items"`
	Terms        []string   `gorm:"type:text;serializer:json" json:"terms"`
	PreparedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"preparedBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	FinancialSummary `gorm:"embedded"`

	// Relationships
	PreparedBy *User `gorm:"foreignKey:PreparedByID" json:"preparedByUser,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// OwnerID returns the user the quotation belongs to
func (q *Quotation) OwnerID() uuid.UUID {
	return q.PreparedByID
}
