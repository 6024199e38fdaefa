package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CommissionPercentage = "percentage"
	CommissionFixed      = "fixed"
)

// Vendor supplies vehicles on hire.
type Vendor struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson  string          `gorm:"type:varchar(255)" json:"contactPerson"`
	Phone          string          `gorm:"type:varchar(20);not null" json:"phone"`
	AlternatePhone string          `gorm:"type:varchar(20)" json:"alternatePhone"`
	Email          string          `gorm:"type:varchar(255)" json:"email"`
	Website        string          `gorm:"type:varchar(255)" json:"website"`
	Address        string          `gorm:"type:text" json:"address"`
	City           string          `gorm:"type:varchar(100);index" json:"city"`
	State          string          `gorm:"type:varchar(100)" json:"state"`
	Pincode        string          `gorm:"type:varchar(10)" json:"pincode"`
	Business       VendorBusiness  `gorm:"embedded" json:"business"`
	Agreement      VendorAgreement `gorm:"embedded" json:"agreement"`
	Status         string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

type VendorBusiness struct {
	GST               string `gorm:"column:gst;type:varchar(15)" json:"gst"`
	PAN               string `gorm:"column:pan;type:varchar(10)" json:"pan"`
	BankName          string `gorm:"type:varchar(255)" json:"bankName"`
	AccountNumber     string `gorm:"type:varchar(30)" json:"accountNumber"`
	IFSC              string `gorm:"column:ifsc;type:varchar(11)" json:"ifsc"`
	AccountHolderName string `gorm:"type:varchar(255)" json:"accountHolderName"`
}

type VendorAgreement struct {
	CommissionType  string          `gorm:"type:varchar(20);default:'percentage'" json:"commissionType"`
	CommissionValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"commissionValue"`
	PaymentTerms    int             `gorm:"not null;default:7" json:"paymentTerms"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"creditLimit"`
	Notes           string          `gorm:"type:text" json:"notes"`
}
