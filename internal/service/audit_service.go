package service

import (
	"context"
	"fmt"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
)

type AuditService interface {
	List(ctx context.Context, q ListQuery) ([]model.AuditLog, int64, error)
	ForEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// List returns audit rows newest first; Category filters by entity type.
func (s *auditService) List(ctx context.Context, q ListQuery) ([]model.AuditLog, int64, error) {
	logs, total, err := s.repo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}

func (s *auditService) ForEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error) {
	logs, err := s.repo.ListForEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, nil
}
