package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatActive   = "active"
	ChatPending  = "pending"
	ChatResolved = "resolved"
)

const (
	SenderCustomer = "customer"
	SenderAgent    = "agent"
)

// ChatThread is one support conversation with a customer.
type ChatThread struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerName  string        `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerPhone string        `gorm:"type:varchar(20);index" json:"customerPhone"`
	Subject       string        `gorm:"type:varchar(255)" json:"subject"`
	Status        string        `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	LastMessage   string        `gorm:"type:text" json:"lastMessage"`
	Unread        int           `gorm:"not null;default:0" json:"unread"`
	Messages      []ChatMessage `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"index" json:"updatedAt"`
}

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index" json:"threadId"`
	Sender    string    `gorm:"type:varchar(20);not null" json:"sender"`
	Author    string    `gorm:"type:varchar(100)" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
