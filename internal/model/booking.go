package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking status values. approved and rejected are accepted on input as
// synonyms of confirmed and cancelled.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Rate types a booking payment can be priced with.
const (
	RateTypeKMWise     = "km_wise"
	RateTypeLumpsum    = "lumpsum"
	RateTypeDailyWages = "daily_wages"
)

// Booking is one trip reservation. Customer, trip, vehicle and payment are
// stored inline with column prefixes.
type Booking struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"bookingNumber"`
	ConsumerID    *uuid.UUID      `gorm:"type:uuid;index" json:"consumerId,omitempty"`
	RateCardID    *uuid.UUID      `gorm:"type:uuid" json:"rateCardId,omitempty"`
	Customer      BookingCustomer `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Trip          BookingTrip     `gorm:"embedded;embeddedPrefix:trip_" json:"trip"`
	Vehicle       BookingVehicle  `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle"`
	Payment       BookingPayment  `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Timeline      []TimelineEntry `gorm:"-" json:"timeline"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

type BookingCustomer struct {
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Phone   string `gorm:"type:varchar(20);index" json:"phone"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Address string `gorm:"type:text" json:"address"`
}

type BookingTrip struct {
	From      string     `gorm:"type:varchar(255)" json:"from"`
	To        string     `gorm:"type:varchar(255)" json:"to"`
	StartDate *time.Time `gorm:"type:date" json:"startDate"`
	EndDate   *time.Time `gorm:"type:date" json:"endDate"`
	TotalDays int        `json:"totalDays"`
	Purpose   string     `gorm:"type:text" json:"purpose"`
}

type BookingVehicle struct {
	Type      string     `gorm:"type:varchar(20)" json:"type"`
	Number    string     `gorm:"type:varchar(20);index" json:"number"`
	Driver    string     `gorm:"type:varchar(255)" json:"driver"`
	VehicleID *uuid.UUID `gorm:"type:uuid" json:"vehicleId,omitempty"`
	DriverID  string     `gorm:"type:varchar(50)" json:"driverId"`
}

// BookingPayment keeps balance = total - advance.
type BookingPayment struct {
	RateType string          `gorm:"type:varchar(20)" json:"rateType"`
	Total    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total"`
	Advance  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"advance"`
	Balance  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	Status   string          `gorm:"type:varchar(20)" json:"status"`
	Notes    string          `gorm:"type:text" json:"notes"`
}

// TimelineEntry is one audit row rendered on a booking.
type TimelineEntry struct {
	Action string    `json:"action"`
	User   string    `json:"user"`
	Time   time.Time `json:"time"`
}
