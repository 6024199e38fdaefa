package service

import (
	"context"
	"errors"
	"fmt"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleService interface {
	List(ctx context.Context, q ListQuery) ([]model.Vehicle, int64, error)
	Get(ctx context.Context, id string) (*model.Vehicle, error)
	Create(ctx context.Context, actor Actor, in model.Vehicle) (*model.Vehicle, error)
	Update(ctx context.Context, actor Actor, id string, in model.Vehicle) (*model.Vehicle, error)
	Delete(ctx context.Context, actor Actor, id string) error
	ComplianceReminders(ctx context.Context) ([]calc.Reminder, error)
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	txManager   repository.TransactionManager
	audit       auditor
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		txManager:   txManager,
		audit:       auditor{repo: auditRepo, entityType: "vehicle"},
	}
}

func prepareVehicle(v *model.Vehicle) error {
	v.Number = validate.NormalizePlate(v.Number)
	if !validate.VehicleNumber(v.Number) {
		return ValidationError{Field: "number", Msg: validate.Message("vehicle_plate")}
	}
	if err := oneOf("type", v.Type, model.VehicleBus, model.VehicleCar, model.VehicleTempo, model.VehicleMiniBus); err != nil {
		return err
	}
	if v.Capacity < 0 {
		return ValidationError{Field: "capacity", Msg: "must not be negative"}
	}
	if v.Ownership == "" {
		v.Ownership = model.OwnershipOwned
	}
	if err := oneOf("ownership", v.Ownership, model.OwnershipOwned, model.OwnershipVendor); err != nil {
		return err
	}
	if v.Ownership != model.OwnershipVendor {
		v.Vendor = model.VehicleVendor{}
	} else if err := requireNonNegative("vendor.vendorRate", v.Vendor.VendorRate); err != nil {
		return err
	}
	if v.Status == "" {
		v.Status = model.VehicleAvailable
	}
	if err := oneOf("status", v.Status, model.VehicleAvailable, model.VehicleBooked, model.VehicleMaintenance); err != nil {
		return err
	}
	if v.Driver.Phone != "" && !validate.Phone(v.Driver.Phone) {
		return ValidationError{Field: "driver.phone", Msg: validate.Message("phone")}
	}
	return nil
}

func (s *vehicleService) ensureUniqueNumber(ctx context.Context, number string, self uuid.UUID) error {
	other, err := s.vehicleRepo.FindByNumber(ctx, number)
	switch {
	case err == nil && other.ID != self:
		return ConflictError{Resource: "vehicle", Msg: "number " + number + " already exists"}
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to check vehicle number: %w", err)
	}
	return nil
}

func (s *vehicleService) List(ctx context.Context, q ListQuery) ([]model.Vehicle, int64, error) {
	vehicles, total, err := s.vehicleRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	return vehicles, total, nil
}

func (s *vehicleService) Get(ctx context.Context, id string) (*model.Vehicle, error) {
	uid, err := parseID("vehicle", id)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("vehicle", err)
	}
	return vehicle, nil
}

func (s *vehicleService) Create(ctx context.Context, actor Actor, in model.Vehicle) (*model.Vehicle, error) {
	vehicle := in
	vehicle.ID = uuid.Nil
	if err := prepareVehicle(&vehicle); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, vehicle.Number, uuid.Nil); err != nil {
		return nil, err
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vehicleRepo.Create(txCtx, &vehicle); err != nil {
			return fmt.Errorf("failed to create vehicle: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, vehicle.ID.String(), vehicle.Number, nil)
	})
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *vehicleService) Update(ctx context.Context, actor Actor, id string, in model.Vehicle) (*model.Vehicle, error) {
	uid, err := parseID("vehicle", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.vehicleRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("vehicle", err)
	}
	vehicle := in
	vehicle.ID = existing.ID
	vehicle.CreatedAt = existing.CreatedAt
	if err := prepareVehicle(&vehicle); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, vehicle.Number, vehicle.ID); err != nil {
		return nil, err
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vehicleRepo.Update(txCtx, &vehicle); err != nil {
			return fmt.Errorf("failed to update vehicle: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, vehicle.ID.String(), vehicle.Number, nil)
	})
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *vehicleService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("vehicle", id)
	if err != nil {
		return err
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("vehicle", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vehicleRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete vehicle: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, vehicle.ID.String(), vehicle.Number, nil)
	})
}

func (s *vehicleService) ComplianceReminders(ctx context.Context) ([]calc.Reminder, error) {
	vehicles, _, err := s.vehicleRepo.List(ctx, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	return calc.ComplianceReminders(Certificates(vehicles), nowFunc()), nil
}

// Certificates flattens the expiring documents of vehicles.
func Certificates(vehicles []model.Vehicle) []calc.Certificate {
	certs := make([]calc.Certificate, 0, len(vehicles)*4)
	for _, v := range vehicles {
		c := v.Compliance
		certs = append(certs,
			calc.Certificate{VehicleNumber: v.Number, Kind: "insurance", Expiry: c.Insurance.Expiry},
			calc.Certificate{VehicleNumber: v.Number, Kind: "fitness", Expiry: c.Fitness.Expiry},
			calc.Certificate{VehicleNumber: v.Number, Kind: "permit", Expiry: c.Permit.Expiry},
			calc.Certificate{VehicleNumber: v.Number, Kind: "poc", Expiry: c.POC.Expiry},
		)
	}
	return certs
}
