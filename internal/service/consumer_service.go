package service

import (
	"context"
	"errors"
	"fmt"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ConsumerService interface {
	List(ctx context.Context, q ListQuery) ([]model.Consumer, int64, error)
	Get(ctx context.Context, id string) (*model.Consumer, error)
	Create(ctx context.Context, actor Actor, in model.Consumer) (*model.Consumer, error)
	Update(ctx context.Context, actor Actor, id string, in model.Consumer) (*model.Consumer, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Bookings(ctx context.Context, id string) ([]model.Booking, error)
	Payments(ctx context.Context, id string) ([]model.Payment, error)
}

type consumerService struct {
	consumerRepo repository.ConsumerRepository
	bookingRepo  repository.BookingRepository
	paymentRepo  repository.PaymentRepository
	txManager    repository.TransactionManager
	audit        auditor
}

func NewConsumerService(
	consumerRepo repository.ConsumerRepository,
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ConsumerService {
	return &consumerService{
		consumerRepo: consumerRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		txManager:    txManager,
		audit:        auditor{repo: auditRepo, entityType: "consumer"},
	}
}

func prepareConsumer(c *model.Consumer) error {
	if err := requireText("name", c.Name); err != nil {
		return err
	}
	if !validate.Phone(c.Phone) {
		return ValidationError{Field: "phone", Msg: validate.Message("phone")}
	}
	if c.AlternatePhone != "" && !validate.Phone(c.AlternatePhone) {
		return ValidationError{Field: "alternatePhone", Msg: validate.Message("phone")}
	}
	if c.Email != "" && !validate.Email(c.Email) {
		return ValidationError{Field: "email", Msg: validate.Message("email")}
	}
	if c.Type == "" {
		c.Type = model.ConsumerRegular
	}
	if err := oneOf("type", c.Type, model.ConsumerRegular, model.ConsumerCorporate, model.ConsumerNew); err != nil {
		return err
	}
	if c.Type != model.ConsumerCorporate {
		c.Business = model.ConsumerBusiness{}
	} else {
		if err := requireText("business.company", c.Business.Company); err != nil {
			return err
		}
		if c.Business.GST != "" && !validate.GST(c.Business.GST) {
			return ValidationError{Field: "business.gst", Msg: validate.Message("gst")}
		}
		if c.Business.PAN != "" && !validate.PAN(c.Business.PAN) {
			return ValidationError{Field: "business.pan", Msg: validate.Message("pan")}
		}
	}
	if err := requireNonNegative("creditLimit", c.CreditLimit); err != nil {
		return err
	}
	if c.PaymentTerms < 0 {
		return ValidationError{Field: "paymentTerms", Msg: "must not be negative"}
	}
	c.Stats = model.ConsumerStats{}
	return nil
}

func (s *consumerService) withStats(ctx context.Context, c *model.Consumer) error {
	totals, err := s.bookingRepo.TotalsByPhone(ctx, c.Phone)
	if err != nil {
		return err
	}
	c.Stats = model.ConsumerStats{
		TotalBookings:     totals.Count,
		TotalAmount:       totals.Amount,
		OutstandingAmount: totals.Outstanding,
	}
	return nil
}

func (s *consumerService) List(ctx context.Context, q ListQuery) ([]model.Consumer, int64, error) {
	consumers, total, err := s.consumerRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch consumers: %w", err)
	}
	for i := range consumers {
		if err := s.withStats(ctx, &consumers[i]); err != nil {
			return nil, 0, err
		}
	}
	return consumers, total, nil
}

func (s *consumerService) Get(ctx context.Context, id string) (*model.Consumer, error) {
	uid, err := parseID("consumer", id)
	if err != nil {
		return nil, err
	}
	consumer, err := s.consumerRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("consumer", err)
	}
	if err := s.withStats(ctx, consumer); err != nil {
		return nil, err
	}
	return consumer, nil
}

func (s *consumerService) ensureUniquePhone(ctx context.Context, phone string, self uuid.UUID) error {
	other, err := s.consumerRepo.FindByPhone(ctx, phone)
	switch {
	case err == nil && other.ID != self:
		return ConflictError{Resource: "consumer", Msg: "phone " + phone + " is already registered"}
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to check phone: %w", err)
	}
	return nil
}

func (s *consumerService) Create(ctx context.Context, actor Actor, in model.Consumer) (*model.Consumer, error) {
	consumer := in
	consumer.ID = uuid.Nil
	if err := prepareConsumer(&consumer); err != nil {
		return nil, err
	}
	if err := s.ensureUniquePhone(ctx, consumer.Phone, uuid.Nil); err != nil {
		return nil, err
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.consumerRepo.Create(txCtx, &consumer); err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, consumer.ID.String(), consumer.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	consumer.Stats = model.ConsumerStats{TotalAmount: decimal.Zero, OutstandingAmount: decimal.Zero}
	return &consumer, nil
}

func (s *consumerService) Update(ctx context.Context, actor Actor, id string, in model.Consumer) (*model.Consumer, error) {
	uid, err := parseID("consumer", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.consumerRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("consumer", err)
	}
	consumer := in
	consumer.ID = existing.ID
	consumer.CreatedAt = existing.CreatedAt
	if err := prepareConsumer(&consumer); err != nil {
		return nil, err
	}
	if err := s.ensureUniquePhone(ctx, consumer.Phone, consumer.ID); err != nil {
		return nil, err
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.consumerRepo.Update(txCtx, &consumer); err != nil {
			return fmt.Errorf("failed to update consumer: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, consumer.ID.String(), consumer.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	if err := s.withStats(ctx, &consumer); err != nil {
		return nil, err
	}
	return &consumer, nil
}

func (s *consumerService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("consumer", id)
	if err != nil {
		return err
	}
	consumer, err := s.consumerRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("consumer", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.consumerRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete consumer: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, consumer.ID.String(), consumer.Name, nil)
	})
}

func (s *consumerService) Bookings(ctx context.Context, id string) ([]model.Booking, error) {
	consumer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListByPhone(ctx, consumer.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consumer bookings: %w", err)
	}
	return bookings, nil
}

func (s *consumerService) Payments(ctx context.Context, id string) ([]model.Payment, error) {
	consumer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByPhone(ctx, consumer.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consumer payments: %w", err)
	}
	now := nowFunc()
	for i := range payments {
		decoratePayment(&payments[i], now)
	}
	return payments, nil
}

func (s *consumerService) find(ctx context.Context, id string) (*model.Consumer, error) {
	uid, err := parseID("consumer", id)
	if err != nil {
		return nil, err
	}
	consumer, err := s.consumerRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("consumer", err)
	}
	return consumer, nil
}
