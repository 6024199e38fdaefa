package service

import (
	"context"
	"fmt"
	"strings"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type RateService interface {
	List(ctx context.Context, q ListQuery) ([]model.RateCard, int64, error)
	Get(ctx context.Context, id string) (*model.RateCard, error)
	Create(ctx context.Context, actor Actor, in model.RateCard) (*model.RateCard, error)
	Update(ctx context.Context, actor Actor, id string, in model.RateCard) (*model.RateCard, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type rateService struct {
	rateRepo  repository.RateCardRepository
	txManager repository.TransactionManager
	audit     auditor
}

func NewRateService(rateRepo repository.RateCardRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) RateService {
	return &rateService{
		rateRepo:  rateRepo,
		txManager: txManager,
		audit:     auditor{repo: auditRepo, entityType: "rate"},
	}
}

// cleanList trims entries and drops blanks, keeping order.
func cleanList(in pq.StringArray) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// prepareRate zeroes every field outside the selected rate type.
func prepareRate(r *model.RateCard) error {
	if err := requireText("name", r.Name); err != nil {
		return err
	}
	if err := oneOf("type", r.Type, model.RateTypeKMWise, model.RateTypeLumpsum, model.RateTypeDailyWages); err != nil {
		return err
	}
	if r.VehicleType != "" {
		if err := oneOf("vehicleType", r.VehicleType, model.VehicleBus, model.VehicleCar, model.VehicleTempo, model.VehicleMiniBus); err != nil {
			return err
		}
	}

	if r.Type != model.RateTypeKMWise {
		r.BaseRate, r.ExtraKmRate, r.DriverAllowance, r.NightCharges = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
		r.MinKmPerDay = 0
		r.Outstation = false
	}
	if r.Type != model.RateTypeLumpsum {
		r.TotalAmount = decimal.Zero
		r.Duration = ""
		r.Route = ""
	}
	if r.Type != model.RateTypeDailyWages {
		r.DailyRate, r.OvertimeRate = decimal.Zero, decimal.Zero
		r.WorkingHours = 0
	}

	switch r.Type {
	case model.RateTypeKMWise:
		if !r.BaseRate.IsPositive() {
			return ValidationError{Field: "baseRate", Msg: "must be greater than zero"}
		}
	case model.RateTypeLumpsum:
		if !r.TotalAmount.IsPositive() {
			return ValidationError{Field: "totalAmount", Msg: "must be greater than zero"}
		}
	case model.RateTypeDailyWages:
		if !r.DailyRate.IsPositive() {
			return ValidationError{Field: "dailyRate", Msg: "must be greater than zero"}
		}
	}
	for field, v := range map[string]decimal.Decimal{
		"extraKmRate": r.ExtraKmRate, "driverAllowance": r.DriverAllowance,
		"nightCharges": r.NightCharges, "overtimeRate": r.OvertimeRate,
	} {
		if err := requireNonNegative(field, v); err != nil {
			return err
		}
	}

	r.Inclusions = cleanList(r.Inclusions)
	r.Exclusions = cleanList(r.Exclusions)
	return nil
}

func (s *rateService) List(ctx context.Context, q ListQuery) ([]model.RateCard, int64, error) {
	rates, total, err := s.rateRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rate cards: %w", err)
	}
	return rates, total, nil
}

func (s *rateService) Get(ctx context.Context, id string) (*model.RateCard, error) {
	uid, err := parseID("rate card", id)
	if err != nil {
		return nil, err
	}
	rate, err := s.rateRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("rate card", err)
	}
	return rate, nil
}

func (s *rateService) Create(ctx context.Context, actor Actor, in model.RateCard) (*model.RateCard, error) {
	rate := in
	rate.ID = uuid.Nil
	if err := prepareRate(&rate); err != nil {
		return nil, err
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.Create(txCtx, &rate); err != nil {
			return fmt.Errorf("failed to create rate card: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, rate.ID.String(), rate.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *rateService) Update(ctx context.Context, actor Actor, id string, in model.RateCard) (*model.RateCard, error) {
	uid, err := parseID("rate card", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.rateRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("rate card", err)
	}
	rate := in
	rate.ID = existing.ID
	rate.CreatedAt = existing.CreatedAt
	if err := prepareRate(&rate); err != nil {
		return nil, err
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.Update(txCtx, &rate); err != nil {
			return fmt.Errorf("failed to update rate card: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, rate.ID.String(), rate.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *rateService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("rate card", id)
	if err != nil {
		return err
	}
	rate, err := s.rateRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("rate card", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete rate card: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, rate.ID.String(), rate.Name, nil)
	})
}
