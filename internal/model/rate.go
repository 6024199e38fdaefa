package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateCard is a named pricing policy. Only the fields of its Type are
// meaningful; the others are stored as zero.
type RateCard struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Type        string    `gorm:"type:varchar(20);not null;index" json:"type"`
	VehicleType string    `gorm:"type:varchar(20);index" json:"vehicleType"`
	Active      bool      `gorm:"not null;default:true" json:"active"`

	// km_wise
	BaseRate        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"baseRate"`
	MinKmPerDay     int             `gorm:"not null;default:0" json:"minKmPerDay"`
	ExtraKmRate     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"extraKmRate"`
	DriverAllowance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"driverAllowance"`
	NightCharges    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"nightCharges"`
	Outstation      bool            `gorm:"not null;default:false" json:"outstation"`

	// lumpsum
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"totalAmount"`
	Duration    string          `gorm:"type:varchar(100)" json:"duration"`
	Route       string          `gorm:"type:varchar(255)" json:"route"`

	// daily_wages
	DailyRate    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"dailyRate"`
	WorkingHours int             `gorm:"not null;default:0" json:"workingHours"`
	OvertimeRate decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"overtimeRate"`

	Inclusions pq.StringArray `gorm:"type:text[]" json:"inclusions"`
	Exclusions pq.StringArray `gorm:"type:text[]" json:"exclusions"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
