package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsumerRepository interface {
	Create(ctx context.Context, consumer *model.Consumer) error
	Update(ctx context.Context, consumer *model.Consumer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Consumer, error)
	FindByPhone(ctx context.Context, phone string) (*model.Consumer, error)
	List(ctx context.Context, opts ListOptions) ([]model.Consumer, int64, error)
}

type consumerRepository struct {
	db *gorm.DB
}

func NewConsumerRepository(db *gorm.DB) ConsumerRepository {
	return &consumerRepository{db: db}
}

func (r *consumerRepository) Create(ctx context.Context, consumer *model.Consumer) error {
	return GetDB(ctx, r.db).Create(consumer).Error
}

func (r *consumerRepository) Update(ctx context.Context, consumer *model.Consumer) error {
	return GetDB(ctx, r.db).Save(consumer).Error
}

func (r *consumerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Consumer{}).Error
}

func (r *consumerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Consumer, error) {
	var consumer model.Consumer
	if err := GetDB(ctx, r.db).First(&consumer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &consumer, nil
}

func (r *consumerRepository) FindByPhone(ctx context.Context, phone string) (*model.Consumer, error) {
	var consumer model.Consumer
	if err := GetDB(ctx, r.db).First(&consumer, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &consumer, nil
}

func (r *consumerRepository) List(ctx context.Context, opts ListOptions) ([]model.Consumer, int64, error) {
	var consumers []model.Consumer
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.Consumer{}).Scopes(
			equalScope("type", opts.Category),
			searchScope(opts.Search, "name", "phone", "email", "company", "city"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Order("created_at DESC").Find(&consumers).Error; err != nil {
		return nil, 0, err
	}
	return consumers, total, nil
}
