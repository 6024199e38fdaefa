package service

import (
	"context"
	"fmt"
	"time"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/internal/report"
	"fleetadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentService interface {
	List(ctx context.Context, q ListQuery) ([]model.Payment, int64, error)
	Get(ctx context.Context, id string) (*model.Payment, error)
	Create(ctx context.Context, actor Actor, in model.Payment) (*model.Payment, error)
	Update(ctx context.Context, actor Actor, id string, in model.Payment) (*model.Payment, error)
	Delete(ctx context.Context, actor Actor, id string) error
	PDF(ctx context.Context, id string) ([]byte, string, error)
	Reminders(ctx context.Context) ([]model.PaymentReminder, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	txManager   repository.TransactionManager
	notifier    Notifier
	audit       auditor
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifierOrNop(notifier),
		audit:       auditor{repo: auditRepo, entityType: "payment"},
	}
}

// decoratePayment folds the derived overdue state into Status.
func decoratePayment(p *model.Payment, now time.Time) {
	p.Status = calc.DisplayStatus(p.Status, p.DueDate, p.Balance, now)
}

// preparePayment recomputes every line amount and total from the inputs.
func preparePayment(p *model.Payment) error {
	if len(p.Items) == 0 {
		return ValidationError{Field: "items", Msg: "at least one line item is required"}
	}
	lines := make([]calc.LineItem, 0, len(p.Items))
	for i := range p.Items {
		it := &p.Items[i]
		if err := requireText(fmt.Sprintf("items[%d].description", i), it.Description); err != nil {
			return err
		}
		if !it.Quantity.IsPositive() {
			return ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Msg: "must be greater than zero"}
		}
		if err := requireNonNegative(fmt.Sprintf("items[%d].rate", i), it.Rate); err != nil {
			return err
		}
		it.ID = uuid.Nil
		it.Amount = it.Quantity.Mul(it.Rate)
		lines = append(lines, calc.LineItem{Quantity: it.Quantity, Rate: it.Rate})
	}
	for field, v := range map[string]decimal.Decimal{"taxPercent": p.TaxPercent, "discount": p.Discount, "paidAmount": p.PaidAmount} {
		if err := requireNonNegative(field, v); err != nil {
			return err
		}
	}
	if p.TaxPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ValidationError{Field: "taxPercent", Msg: "must not exceed 100"}
	}

	totals := calc.Invoice(lines, p.TaxPercent, p.Discount, p.PaidAmount)
	if totals.Total.IsNegative() {
		return ValidationError{Field: "discount", Msg: "must not exceed the invoice amount"}
	}
	p.Subtotal = totals.Subtotal
	p.TaxAmount = totals.TaxAmount
	p.TotalAmount = totals.Total
	p.Balance = totals.Balance
	p.Status = totals.Status
	return nil
}

func (s *paymentService) attachBooking(ctx context.Context, p *model.Payment) error {
	if p.BookingID == nil {
		return nil
	}
	booking, err := s.bookingRepo.FindByID(ctx, *p.BookingID)
	if err != nil {
		return lookupErr("booking", err)
	}
	p.BookingNumber = booking.BookingNumber
	if p.CustomerName == "" {
		p.CustomerName = booking.Customer.Name
	}
	if p.CustomerPhone == "" {
		p.CustomerPhone = booking.Customer.Phone
	}
	return nil
}

func (s *paymentService) List(ctx context.Context, q ListQuery) ([]model.Payment, int64, error) {
	opts := q.options()
	status := opts.Category
	if status != "" && status != "all" {
		// displayed status differs from the stored one once overdue
		opts.Category = ""
		opts.Page, opts.Limit = 0, 0
	}
	payments, total, err := s.paymentRepo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}
	now := nowFunc()
	filtered := payments[:0]
	for i := range payments {
		decoratePayment(&payments[i], now)
		if status == "" || status == "all" || payments[i].Status == status {
			filtered = append(filtered, payments[i])
		}
	}
	if status != "" && status != "all" {
		total = int64(len(filtered))
	}
	return filtered, total, nil
}

func (s *paymentService) Get(ctx context.Context, id string) (*model.Payment, error) {
	uid, err := parseID("payment", id)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("payment", err)
	}
	decoratePayment(payment, nowFunc())
	return payment, nil
}

func (s *paymentService) Create(ctx context.Context, actor Actor, in model.Payment) (*model.Payment, error) {
	payment := in
	payment.ID = uuid.Nil
	if err := preparePayment(&payment); err != nil {
		return nil, err
	}
	if err := s.attachBooking(ctx, &payment); err != nil {
		return nil, err
	}
	if err := requireText("customerName", payment.CustomerName); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		year := nowFunc().Year()
		prefix := fmt.Sprintf("INV-%d-", year)
		if err := s.txManager.Serialize(txCtx, prefix); err != nil {
			return fmt.Errorf("failed to number invoice: %w", err)
		}
		n, err := s.paymentRepo.CountNumbersWithPrefix(txCtx, prefix)
		if err != nil {
			return fmt.Errorf("failed to number invoice: %w", err)
		}
		payment.InvoiceNumber = sequenceNumber("INV", year, n+1)
		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, payment.ID.String(), payment.InvoiceNumber, map[string]string{
			"total":   payment.TotalAmount.String(),
			"booking": payment.BookingNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	decoratePayment(&payment, nowFunc())
	s.notifier.Publish(Event{
		Type:    "payment.created",
		Message: fmt.Sprintf("Invoice %s raised for %s", payment.InvoiceNumber, calc.FormatCurrency(payment.TotalAmount)),
		Entity:  "payment",
		ID:      payment.ID.String(),
	})
	return &payment, nil
}

func (s *paymentService) Update(ctx context.Context, actor Actor, id string, in model.Payment) (*model.Payment, error) {
	uid, err := parseID("payment", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.paymentRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("payment", err)
	}
	payment := in
	payment.ID = existing.ID
	payment.InvoiceNumber = existing.InvoiceNumber
	payment.CreatedAt = existing.CreatedAt
	if err := preparePayment(&payment); err != nil {
		return nil, err
	}
	if err := s.attachBooking(ctx, &payment); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.paymentRepo.Update(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		if err := s.paymentRepo.ReplaceItems(txCtx, payment.ID, payment.Items); err != nil {
			return fmt.Errorf("failed to replace invoice items: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, payment.ID.String(), payment.InvoiceNumber, map[string]string{
			"paid":    payment.PaidAmount.String(),
			"balance": payment.Balance.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	decoratePayment(&payment, nowFunc())
	return &payment, nil
}

func (s *paymentService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("payment", id)
	if err != nil {
		return err
	}
	payment, err := s.paymentRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("payment", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.paymentRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, payment.ID.String(), payment.InvoiceNumber, nil)
	})
}

// PDF returns the rendered invoice and a file name for it.
func (s *paymentService) PDF(ctx context.Context, id string) ([]byte, string, error) {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	out, err := report.Invoice(*payment, nowFunc())
	if err != nil {
		return nil, "", err
	}
	return out, payment.InvoiceNumber + ".pdf", nil
}

func (s *paymentService) Reminders(ctx context.Context) ([]model.PaymentReminder, error) {
	payments, err := s.paymentRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unpaid invoices: %w", err)
	}
	now := nowFunc()
	out := make([]model.PaymentReminder, 0)
	for _, p := range payments {
		if !calc.IsOverdue(p.DueDate, p.Balance, now) {
			continue
		}
		out = append(out, model.PaymentReminder{
			PaymentID:     p.ID,
			InvoiceNumber: p.InvoiceNumber,
			BookingNumber: p.BookingNumber,
			CustomerName:  p.CustomerName,
			CustomerPhone: p.CustomerPhone,
			Balance:       p.Balance,
			DueDate:       *p.DueDate,
			DaysOverdue:   calc.DaysOverdue(*p.DueDate, now),
		})
	}
	return out, nil
}
