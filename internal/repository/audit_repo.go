package repository

import (
	"context"

	"fleetadmin/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, opts ListOptions) ([]model.AuditLog, int64, error)
	ListForEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, opts ListOptions) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.AuditLog{}).
			Scopes(equalScope("entity_type", opts.Category), searchScope(opts.Search, "entity_name", "username", "action"))
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := opts.paginate(scoped()).Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *auditRepository) ListForEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := GetDB(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at asc").
		Find(&logs).Error
	return logs, err
}
