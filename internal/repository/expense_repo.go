package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, opts ListOptions) ([]model.Expense, int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, opts ListOptions) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.Expense{}).Scopes(
			equalScope("type", opts.Category),
			searchScope(opts.Search, "description", "vehicle_number", "booking_number", "receipt_number"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Order("date DESC, created_at DESC").Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}
