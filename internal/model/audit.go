package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionUpload       = "UPLOAD"
)

// AuditLog tracks who changed which entity and when. Booking timelines are
// read from it.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Username   string     `gorm:"type:varchar(100)" json:"username"`
	Action     string     `gorm:"type:varchar(30);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(30);not null;index:idx_audit_entity" json:"entityType"`
	EntityID   string     `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entityId"`
	EntityName string     `gorm:"type:varchar(255)" json:"entityName,omitempty"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}
