package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, opts ListOptions) ([]model.Payment, int64, error)
	ListUnpaid(ctx context.Context) ([]model.Payment, error)
	ListByPhone(ctx context.Context, phone string) ([]model.Payment, error)
	ReplaceItems(ctx context.Context, paymentID uuid.UUID, items []model.PaymentItem) error
	CountNumbersWithPrefix(ctx context.Context, prefix string) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

// Update saves the invoice row only; items go through ReplaceItems.
func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Omit("Items").Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Payment{}).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).Preload("Items").First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// List filters by the stored status. Overdue is derived, so the service
// filters that one in memory.
func (r *paymentRepository) List(ctx context.Context, opts ListOptions) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.Payment{}).Scopes(
			equalScope("status", opts.Category),
			searchScope(opts.Search, "invoice_number", "booking_number", "customer_name", "customer_phone"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Preload("Items").Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepository) ListUnpaid(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := GetDB(ctx, r.db).
		Where("balance > 0 AND due_date IS NOT NULL").
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByPhone(ctx context.Context, phone string) ([]model.Payment, error) {
	var payments []model.Payment
	err := GetDB(ctx, r.db).Where("customer_phone = ?", phone).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ReplaceItems(ctx context.Context, paymentID uuid.UUID, items []model.PaymentItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("payment_id = ?", paymentID).Delete(&model.PaymentItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PaymentID = paymentID
	}
	return db.Create(&items).Error
}

func (r *paymentRepository) CountNumbersWithPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Unscoped().Model(&model.Payment{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Count(&n).Error
	return n, err
}
