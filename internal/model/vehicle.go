package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	VehicleBus     = "bus"
	VehicleCar     = "car"
	VehicleTempo   = "tempo"
	VehicleMiniBus = "mini-bus"
)

const (
	VehicleAvailable   = "available"
	VehicleBooked      = "booked"
	VehicleMaintenance = "maintenance"
)

const (
	OwnershipOwned  = "owned"
	OwnershipVendor = "vendor"
)

// Vehicle is a fleet vehicle. Vendor is cleared unless Ownership is vendor.
type Vehicle struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number     string            `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	Type       string            `gorm:"type:varchar(20);not null;index" json:"type"`
	Model      string            `gorm:"type:varchar(100)" json:"model"`
	Year       int               `json:"year"`
	Capacity   int               `json:"capacity"`
	FuelType   string            `gorm:"type:varchar(20)" json:"fuelType"`
	Ownership  string            `gorm:"type:varchar(20);not null;default:'owned'" json:"ownership"`
	Status     string            `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Compliance VehicleCompliance `gorm:"embedded;embeddedPrefix:compliance_" json:"compliance"`
	Driver     VehicleDriver     `gorm:"embedded;embeddedPrefix:driver_" json:"driver"`
	Vendor     VehicleVendor     `gorm:"embedded;embeddedPrefix:vendor_" json:"vendor"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// Certificate is one expiring compliance document.
type Certificate struct {
	Number string     `gorm:"type:varchar(50)" json:"number,omitempty"`
	Expiry *time.Time `gorm:"type:date" json:"expiry"`
}

type VehicleCompliance struct {
	RCNumber  string      `gorm:"column:rc_number;type:varchar(50)" json:"rcNumber"`
	Insurance Certificate `gorm:"embedded;embeddedPrefix:insurance_" json:"insurance"`
	Fitness   Certificate `gorm:"embedded;embeddedPrefix:fitness_" json:"fitness"`
	Permit    Certificate `gorm:"embedded;embeddedPrefix:permit_" json:"permit"`
	POC       Certificate `gorm:"embedded;embeddedPrefix:poc_" json:"poc"`
}

type VehicleDriver struct {
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	License string `gorm:"type:varchar(50)" json:"license"`
	Address string `gorm:"type:text" json:"address"`
}

type VehicleVendor struct {
	VendorID    *uuid.UUID      `gorm:"type:uuid" json:"vendorId"`
	VendorRate  decimal.Decimal `gorm:"type:decimal(18,2)" json:"vendorRate"`
	VendorNotes string          `gorm:"type:text" json:"vendorNotes"`
}
