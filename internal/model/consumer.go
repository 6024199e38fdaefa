package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ConsumerRegular   = "regular"
	ConsumerCorporate = "corporate"
	ConsumerNew       = "new"
)

// Consumer is a customer. Business fields are only kept for corporate
// consumers; Stats is computed from bookings on read.
type Consumer struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`
	Phone          string           `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	AlternatePhone string           `gorm:"type:varchar(20)" json:"alternatePhone"`
	Email          string           `gorm:"type:varchar(255)" json:"email"`
	Address        string           `gorm:"type:text" json:"address"`
	City           string           `gorm:"type:varchar(100)" json:"city"`
	State          string           `gorm:"type:varchar(100)" json:"state"`
	Pincode        string           `gorm:"type:varchar(10)" json:"pincode"`
	Type           string           `gorm:"type:varchar(20);not null;default:'regular';index" json:"type"`
	Business       ConsumerBusiness `gorm:"embedded" json:"business"`
	CreditLimit    decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"creditLimit"`
	PaymentTerms   int              `gorm:"not null;default:7" json:"paymentTerms"`
	Stats          ConsumerStats    `gorm:"-" json:"stats"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

type ConsumerBusiness struct {
	Company string `gorm:"type:varchar(255)" json:"company"`
	GST     string `gorm:"column:gst;type:varchar(15)" json:"gst"`
	PAN     string `gorm:"column:pan;type:varchar(10)" json:"pan"`
}

type ConsumerStats struct {
	TotalBookings     int64           `json:"totalBookings"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
}
