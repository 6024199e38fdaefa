package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, opts ListOptions) ([]model.Document, int64, error)
	ListForReference(ctx context.Context, category, reference string) ([]model.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, opts ListOptions) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.Document{}).Scopes(
			equalScope("category", opts.Category),
			searchScope(opts.Search, "file_name", "type", "vehicle_number", "booking_id", "vendor_id"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// ListForReference returns the documents attached to one vehicle, booking or vendor.
func (r *documentRepository) ListForReference(ctx context.Context, category, reference string) ([]model.Document, error) {
	column := ""
	switch category {
	case model.DocCategoryVehicle:
		column = "vehicle_number"
	case model.DocCategoryBooking:
		column = "booking_id"
	case model.DocCategoryVendor:
		column = "vendor_id"
	default:
		return []model.Document{}, nil
	}
	var docs []model.Document
	err := GetDB(ctx, r.db).
		Where("category = ? AND "+column+" = ?", category, reference).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}
