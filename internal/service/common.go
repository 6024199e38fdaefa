package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Actor is the authenticated user performing a change.
type Actor struct {
	ID       string
	Username string
	Role     string
}

// Event is pushed to connected dashboards when something changes.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Entity  string      `json:"entity"`
	ID      string      `json:"id"`
	Data    interface{} `json:"data,omitempty"`
}

// Notifier fans events out to live clients.
type Notifier interface {
	Publish(event Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// ListQuery is what list endpoints accept.
type ListQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

func (q ListQuery) options() repository.ListOptions {
	return repository.ListOptions{Search: q.Search, Category: q.Category, Page: q.Page, Limit: q.Limit}
}

func parseID(resource, id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ValidationError{Field: "id", Msg: "invalid " + resource + " id", Err: err}
	}
	return uid, nil
}

// auditor writes audit rows for one entity type.
type auditor struct {
	repo       repository.AuditRepository
	entityType string
}

func (a auditor) record(ctx context.Context, actor Actor, action, entityID, entityName string, details interface{}) error {
	if a.repo == nil {
		return nil
	}
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		uid = &parsed
	}
	payload := ""
	switch d := details.(type) {
	case nil:
	case string:
		payload = d
	default:
		b, err := json.Marshal(d)
		if err != nil {
			logrus.WithError(err).Warn("audit details not serializable")
		}
		payload = string(b)
	}
	username := actor.Username
	if username == "" {
		username = "System"
	}
	entry := &model.AuditLog{
		UserID:     uid,
		Username:   username,
		Action:     action,
		EntityType: a.entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := a.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Msg: "is required"}
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return ValidationError{Field: field, Msg: "must not be negative"}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return ValidationError{Field: field, Msg: "must be one of: " + strings.Join(allowed, ", ")}
}

// sequenceNumber formats PREFIX-YYYY-NNN.
func sequenceNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n)
}

// nowFunc is replaced in tests.
var nowFunc = time.Now
