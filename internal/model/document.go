package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocCategoryVehicle = "vehicle"
	DocCategoryBooking = "booking"
	DocCategoryVendor  = "vendor"
	DocCategoryOther   = "other"
)

// DocumentTypes lists the legal types per category.
var DocumentTypes = map[string][]string{
	DocCategoryVehicle: {"insurance", "fitness", "permit", "rc", "poc"},
	DocCategoryBooking: {"agreement", "duty_slip", "passenger_list", "tour_program", "invoice"},
	DocCategoryVendor:  {"agreement", "invoice", "gst_certificate"},
	DocCategoryOther:   {"general", "report", "misc"},
}

// Document is an uploaded file plus its metadata. The category decides
// which reference field must be set.
type Document struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category      string         `gorm:"type:varchar(20);not null;index" json:"category"`
	Type          string         `gorm:"type:varchar(30);not null" json:"type"`
	VehicleNumber string         `gorm:"type:varchar(20);index" json:"vehicleNumber"`
	BookingID     string         `gorm:"type:varchar(50);index" json:"bookingId"`
	VendorID      string         `gorm:"type:varchar(50);index" json:"vendorId"`
	ExpiryDate    *time.Time     `gorm:"type:date" json:"expiryDate"`
	Notes         string         `gorm:"type:text" json:"notes"`
	FileName      string         `gorm:"type:varchar(255)" json:"fileName"`
	ContentType   string         `gorm:"type:varchar(100)" json:"contentType"`
	Size          int64          `json:"size"`
	StoragePath   string         `gorm:"type:text" json:"-"`
	UploadedBy    string         `gorm:"type:varchar(100)" json:"uploadedBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsDocumentType reports whether typ is legal for category.
func IsDocumentType(category, typ string) bool {
	for _, t := range DocumentTypes[category] {
		if t == typ {
			return true
		}
	}
	return false
}
