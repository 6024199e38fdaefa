package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ExpenseFuel            = "fuel"
	ExpenseMaintenance     = "maintenance"
	ExpenseDriverAllowance = "driver_allowance"
	ExpenseTollParking     = "toll_parking"
	ExpenseMiscellaneous   = "miscellaneous"
)

// Expense is a cost entry. Fuel fills carry liters and price per liter and
// their Amount is always liters times price.
type Expense struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date            *time.Time      `gorm:"type:date;index" json:"date"`
	Type            string          `gorm:"type:varchar(30);not null;index" json:"type"`
	Description     string          `gorm:"type:text" json:"description"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount"`
	VehicleNumber   string          `gorm:"type:varchar(20);index" json:"vehicleNumber"`
	BookingNumber   string          `gorm:"type:varchar(30)" json:"bookingNumber"`
	VendorID        *uuid.UUID      `gorm:"type:uuid;index" json:"vendorId,omitempty"`
	ReceiptNumber   string          `gorm:"type:varchar(50)" json:"receiptNumber"`
	Liters          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"liters"`
	PricePerLiter   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"pricePerLiter"`
	OdometerReading int             `json:"odometerReading"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}
