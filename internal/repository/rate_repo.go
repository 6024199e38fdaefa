package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RateCardRepository interface {
	Create(ctx context.Context, rate *model.RateCard) error
	Update(ctx context.Context, rate *model.RateCard) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RateCard, error)
	List(ctx context.Context, opts ListOptions) ([]model.RateCard, int64, error)
}

type rateRepository struct {
	db *gorm.DB
}

func NewRateCardRepository(db *gorm.DB) RateCardRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Create(ctx context.Context, rate *model.RateCard) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *rateRepository) Update(ctx context.Context, rate *model.RateCard) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *rateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RateCard{}).Error
}

func (r *rateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RateCard, error) {
	var rate model.RateCard
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) List(ctx context.Context, opts ListOptions) ([]model.RateCard, int64, error) {
	var rates []model.RateCard
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.RateCard{}).Scopes(
			equalScope("type", opts.Category),
			searchScope(opts.Search, "name", "route", "vehicle_type"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Order("name ASC").Find(&rates).Error; err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}
