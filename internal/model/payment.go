package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an invoice raised against a booking. Status is one of
// pending, partial or completed; overdue is derived on read.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoiceNumber"`
	BookingID     *uuid.UUID      `gorm:"type:uuid;index" json:"bookingId,omitempty"`
	BookingNumber string          `gorm:"type:varchar(30);index" json:"bookingNumber"`
	CustomerName  string          `gorm:"type:varchar(255)" json:"customerName"`
	CustomerPhone string          `gorm:"type:varchar(20)" json:"customerPhone"`
	Items         []PaymentItem   `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"subtotal"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"taxPercent"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"taxAmount"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"totalAmount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paidAmount"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DueDate       *time.Time      `gorm:"type:date;index" json:"dueDate"`
	Terms         string          `gorm:"type:text" json:"terms"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

type PaymentItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PaymentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"paymentId"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
}

// PaymentReminder is an unpaid invoice past its due date.
type PaymentReminder struct {
	PaymentID     uuid.UUID       `json:"paymentId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	BookingNumber string          `json:"bookingNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Balance       decimal.Decimal `json:"balance"`
	DueDate       time.Time       `json:"dueDate"`
	DaysOverdue   int             `json:"daysOverdue"`
}
