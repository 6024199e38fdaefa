package database

import (
	"fleetadmin/internal/logger"
	"fleetadmin/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models lists every table the API owns, in migration order.
var Models = []interface{}{
	&model.TeamMember{},
	&model.Consumer{},
	&model.Vendor{},
	&model.Vehicle{},
	&model.RateCard{},
	&model.Booking{},
	&model.Payment{},
	&model.PaymentItem{},
	&model.Expense{},
	&model.Document{},
	&model.ChatThread{},
	&model.ChatMessage{},
	&model.AuditLog{},
}

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.GormLogger()})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models...); err != nil {
		logrus.WithError(err).Warn("Failed to auto-migrate models")
	}

	return db, nil
}
