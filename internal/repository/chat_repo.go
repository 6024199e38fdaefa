package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	CreateThread(ctx context.Context, thread *model.ChatThread) error
	ListThreads(ctx context.Context, opts ListOptions) ([]model.ChatThread, error)
	FindThread(ctx context.Context, id uuid.UUID) (*model.ChatThread, error)
	AddMessage(ctx context.Context, msg *model.ChatMessage) error
	UpdateThread(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateThread(ctx context.Context, thread *model.ChatThread) error {
	return GetDB(ctx, r.db).Create(thread).Error
}

func (r *chatRepository) ListThreads(ctx context.Context, opts ListOptions) ([]model.ChatThread, error) {
	var threads []model.ChatThread
	err := opts.paginate(GetDB(ctx, r.db).Model(&model.ChatThread{}).Scopes(
		equalScope("status", opts.Category),
		searchScope(opts.Search, "customer_name", "customer_phone", "subject"),
	)).Order("updated_at DESC").Find(&threads).Error
	return threads, err
}

func (r *chatRepository) FindThread(ctx context.Context, id uuid.UUID) (*model.ChatThread, error) {
	var thread model.ChatThread
	err := GetDB(ctx, r.db).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&thread, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *chatRepository) AddMessage(ctx context.Context, msg *model.ChatMessage) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

func (r *chatRepository) UpdateThread(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.ChatThread{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
