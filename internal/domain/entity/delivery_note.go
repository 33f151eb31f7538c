package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryNote records goods handed over to a company
type DeliveryNote struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Number       string         `gorm:"column:delivery_number;size:100;uniqueIndex;not null" json:"deliveryNumber"`
	CompanyName  string         `gorm:"size:255;not null;index" json:"companyName"`
	Date         time.Time      `gorm:"type:date;not null" json:"date"`
	Items        []DeliveryItem `gorm:"type:text;serializer:json" json:"items"`
	ReceivedBy   string         `gorm:"size:255" json:"receivedBy"`
	SignatureRef *string        `gorm:"type:text" json:"signatureImage,omitempty"`
	CreatedByID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"createdBy"`
	PreparedByID uuid.UUID      `gorm:"type:uuid;not null;index" json:"preparedBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	// Relationships
	PreparedBy *User `gorm:"foreignKey:PreparedByID" json:"preparedByUser,omitempty"`
}

// BeforeCreate generates a UUID before creating a new delivery note
func (d *DeliveryNote) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DeliveryNote model
func (DeliveryNote) TableName() string {
	return "delivery_notes"
}

// OwnerID returns the user the delivery note belongs to
func (d *DeliveryNote) OwnerID() uuid.UUID {
	return d.CreatedByID
}
