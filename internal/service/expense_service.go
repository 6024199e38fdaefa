package service

import (
	"context"
	"fmt"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseService interface {
	List(ctx context.Context, q ListQuery) ([]model.Expense, int64, error)
	Get(ctx context.Context, id string) (*model.Expense, error)
	Create(ctx context.Context, actor Actor, in model.Expense) (*model.Expense, error)
	Update(ctx context.Context, actor Actor, id string, in model.Expense) (*model.Expense, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	txManager   repository.TransactionManager
	audit       auditor
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		txManager:   txManager,
		audit:       auditor{repo: auditRepo, entityType: "expense"},
	}
}

// prepareExpense derives the fuel amount; other types drop the fuel fields.
func prepareExpense(e *model.Expense) error {
	if err := oneOf("type", e.Type, model.ExpenseFuel, model.ExpenseMaintenance, model.ExpenseDriverAllowance, model.ExpenseTollParking, model.ExpenseMiscellaneous); err != nil {
		return err
	}
	if e.Date == nil {
		today := nowFunc()
		e.Date = &today
	}
	if e.VehicleNumber != "" {
		e.VehicleNumber = validate.NormalizePlate(e.VehicleNumber)
	}
	if e.Type == model.ExpenseFuel {
		if err := requireNonNegative("liters", e.Liters); err != nil {
			return err
		}
		if err := requireNonNegative("pricePerLiter", e.PricePerLiter); err != nil {
			return err
		}
		if e.Liters.IsPositive() && e.PricePerLiter.IsPositive() {
			e.Amount = calc.FuelAmount(e.Liters, e.PricePerLiter)
		}
	} else {
		e.Liters = decimal.Zero
		e.PricePerLiter = decimal.Zero
		e.OdometerReading = 0
	}
	if !e.Amount.IsPositive() {
		return ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	return nil
}

func (s *expenseService) List(ctx context.Context, q ListQuery) ([]model.Expense, int64, error) {
	expenses, total, err := s.expenseRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	return expenses, total, nil
}

func (s *expenseService) Get(ctx context.Context, id string) (*model.Expense, error) {
	uid, err := parseID("expense", id)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("expense", err)
	}
	return expense, nil
}

func (s *expenseService) Create(ctx context.Context, actor Actor, in model.Expense) (*model.Expense, error) {
	expense := in
	expense.ID = uuid.Nil
	if err := prepareExpense(&expense); err != nil {
		return nil, err
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, expense.ID.String(), expense.Type, map[string]string{"amount": expense.Amount.String()})
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *expenseService) Update(ctx context.Context, actor Actor, id string, in model.Expense) (*model.Expense, error) {
	uid, err := parseID("expense", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.expenseRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("expense", err)
	}
	expense := in
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt
	if err := prepareExpense(&expense); err != nil {
		return nil, err
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Update(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, expense.ID.String(), expense.Type, map[string]string{"amount": expense.Amount.String()})
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *expenseService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("expense", id)
	if err != nil {
		return err
	}
	expense, err := s.expenseRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("expense", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, expense.ID.String(), expense.Type, nil)
	})
}
