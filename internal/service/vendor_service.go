package service

import (
	"context"
	"fmt"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/google/uuid"
)

type VendorService interface {
	List(ctx context.Context, q ListQuery) ([]model.Vendor, int64, error)
	Get(ctx context.Context, id string) (*model.Vendor, error)
	Create(ctx context.Context, actor Actor, in model.Vendor) (*model.Vendor, error)
	Update(ctx context.Context, actor Actor, id string, in model.Vendor) (*model.Vendor, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type vendorService struct {
	vendorRepo repository.VendorRepository
	txManager  repository.TransactionManager
	audit      auditor
}

func NewVendorService(vendorRepo repository.VendorRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) VendorService {
	return &vendorService{
		vendorRepo: vendorRepo,
		txManager:  txManager,
		audit:      auditor{repo: auditRepo, entityType: "vendor"},
	}
}

func prepareVendor(v *model.Vendor) error {
	if err := requireText("name", v.Name); err != nil {
		return err
	}
	if !validate.Phone(v.Phone) {
		return ValidationError{Field: "phone", Msg: validate.Message("phone")}
	}
	if v.AlternatePhone != "" && !validate.Phone(v.AlternatePhone) {
		return ValidationError{Field: "alternatePhone", Msg: validate.Message("phone")}
	}
	if v.Email != "" && !validate.Email(v.Email) {
		return ValidationError{Field: "email", Msg: validate.Message("email")}
	}
	if v.Business.GST != "" && !validate.GST(v.Business.GST) {
		return ValidationError{Field: "business.gst", Msg: validate.Message("gst")}
	}
	if v.Business.PAN != "" && !validate.PAN(v.Business.PAN) {
		return ValidationError{Field: "business.pan", Msg: validate.Message("pan")}
	}
	if v.Agreement.CommissionType == "" {
		v.Agreement.CommissionType = model.CommissionPercentage
	}
	if err := oneOf("agreement.commissionType", v.Agreement.CommissionType, model.CommissionPercentage, model.CommissionFixed); err != nil {
		return err
	}
	if err := requireNonNegative("agreement.commissionValue", v.Agreement.CommissionValue); err != nil {
		return err
	}
	if err := requireNonNegative("agreement.creditLimit", v.Agreement.CreditLimit); err != nil {
		return err
	}
	if v.Status == "" {
		v.Status = "active"
	}
	return oneOf("status", v.Status, "active", "inactive")
}

func (s *vendorService) List(ctx context.Context, q ListQuery) ([]model.Vendor, int64, error) {
	vendors, total, err := s.vendorRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}
	return vendors, total, nil
}

func (s *vendorService) Get(ctx context.Context, id string) (*model.Vendor, error) {
	uid, err := parseID("vendor", id)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("vendor", err)
	}
	return vendor, nil
}

func (s *vendorService) Create(ctx context.Context, actor Actor, in model.Vendor) (*model.Vendor, error) {
	vendor := in
	vendor.ID = uuid.Nil
	if err := prepareVendor(&vendor); err != nil {
		return nil, err
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Create(txCtx, &vendor); err != nil {
			return fmt.Errorf("failed to create vendor: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, vendor.ID.String(), vendor.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *vendorService) Update(ctx context.Context, actor Actor, id string, in model.Vendor) (*model.Vendor, error) {
	uid, err := parseID("vendor", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.vendorRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("vendor", err)
	}
	vendor := in
	vendor.ID = existing.ID
	vendor.CreatedAt = existing.CreatedAt
	if err := prepareVendor(&vendor); err != nil {
		return nil, err
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Update(txCtx, &vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, vendor.ID.String(), vendor.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *vendorService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("vendor", id)
	if err != nil {
		return err
	}
	vendor, err := s.vendorRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("vendor", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete vendor: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, vendor.ID.String(), vendor.Name, nil)
	})
}
