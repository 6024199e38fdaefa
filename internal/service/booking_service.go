package service

import (
	"context"
	"fmt"
	"strings"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/google/uuid"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type BookingService interface {
	List(ctx context.Context, q ListQuery) ([]model.Booking, int64, error)
	Get(ctx context.Context, id string) (*model.Booking, error)
	Create(ctx context.Context, actor Actor, in model.Booking) (*model.Booking, error)
	Update(ctx context.Context, actor Actor, id string, in model.Booking) (*model.Booking, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) (*model.Booking, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Timeline(ctx context.Context, id string) ([]model.TimelineEntry, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	consumerRepo repository.ConsumerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     Notifier
	audit        auditor
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	consumerRepo repository.ConsumerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		consumerRepo: consumerRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		notifier:     notifierOrNop(notifier),
		audit:        auditor{repo: auditRepo, entityType: "booking"},
	}
}

var bookingTransitions = map[string][]string{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
}

// NormalizeBookingStatus maps the approved/rejected synonyms onto the stored values.
func NormalizeBookingStatus(status string) string {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case "approved":
		return model.BookingConfirmed
	case "rejected":
		return model.BookingCancelled
	default:
		return s
	}
}

// prepareBooking validates the input and fills every derived field.
func prepareBooking(b *model.Booking) error {
	if err := requireText("customer.name", b.Customer.Name); err != nil {
		return err
	}
	if err := requireText("customer.phone", b.Customer.Phone); err != nil {
		return err
	}
	if !validate.Phone(b.Customer.Phone) {
		return ValidationError{Field: "customer.phone", Msg: validate.Message("phone")}
	}
	if b.Customer.Email != "" && !validate.Email(b.Customer.Email) {
		return ValidationError{Field: "customer.email", Msg: validate.Message("email")}
	}
	if err := requireText("trip.from", b.Trip.From); err != nil {
		return err
	}
	if err := requireText("trip.to", b.Trip.To); err != nil {
		return err
	}
	if b.Trip.StartDate != nil && b.Trip.EndDate != nil {
		if b.Trip.EndDate.Before(*b.Trip.StartDate) {
			return ValidationError{Field: "trip.endDate", Msg: "must not be before the start date"}
		}
		b.Trip.TotalDays = calc.TripDays(*b.Trip.StartDate, *b.Trip.EndDate)
	}
	if b.Vehicle.Number != "" {
		b.Vehicle.Number = validate.NormalizePlate(b.Vehicle.Number)
	}
	if b.Payment.RateType != "" {
		if err := oneOf("payment.rateType", b.Payment.RateType, model.RateTypeKMWise, model.RateTypeLumpsum, model.RateTypeDailyWages); err != nil {
			return err
		}
	}
	if err := requireNonNegative("payment.total", b.Payment.Total); err != nil {
		return err
	}
	if err := requireNonNegative("payment.advance", b.Payment.Advance); err != nil {
		return err
	}
	b.Payment.Balance = calc.Balance(b.Payment.Total, b.Payment.Advance)
	b.Payment.Status = calc.BookingPaymentStatus(b.Payment.Advance)

	b.Status = NormalizeBookingStatus(b.Status)
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	return oneOf("status", b.Status, model.BookingPending, model.BookingConfirmed, model.BookingCompleted, model.BookingCancelled)
}

func (s *bookingService) List(ctx context.Context, q ListQuery) ([]model.Booking, int64, error) {
	q.Category = NormalizeBookingStatus(q.Category)
	bookings, total, err := s.bookingRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, total, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	uid, err := parseID("booking", id)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("booking", err)
	}
	timeline, err := s.timelineFor(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Timeline = timeline
	return booking, nil
}

func (s *bookingService) Create(ctx context.Context, actor Actor, in model.Booking) (*model.Booking, error) {
	booking := in
	booking.ID = uuid.Nil
	if err := prepareBooking(&booking); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		year := nowFunc().Year()
		prefix := fmt.Sprintf("BK-%d-", year)
		if err := s.txManager.Serialize(txCtx, prefix); err != nil {
			return fmt.Errorf("failed to number booking: %w", err)
		}
		n, err := s.bookingRepo.CountNumbersWithPrefix(txCtx, prefix)
		if err != nil {
			return fmt.Errorf("failed to number booking: %w", err)
		}
		booking.BookingNumber = sequenceNumber("BK", year, n+1)

		if consumer, err := s.consumerRepo.FindByPhone(txCtx, booking.Customer.Phone); err == nil {
			booking.ConsumerID = &consumer.ID
		}

		if err := s.bookingRepo.Create(txCtx, &booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, booking.ID.String(), booking.BookingNumber, "Booking created")
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(Event{
		Type:    "booking.created",
		Message: fmt.Sprintf("New booking %s for %s", booking.BookingNumber, booking.Customer.Name),
		Entity:  "booking",
		ID:      booking.ID.String(),
	})
	return &booking, nil
}

func (s *bookingService) Update(ctx context.Context, actor Actor, id string, in model.Booking) (*model.Booking, error) {
	uid, err := parseID("booking", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.bookingRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("booking", err)
	}

	booking := in
	booking.ID = existing.ID
	booking.BookingNumber = existing.BookingNumber
	booking.CreatedAt = existing.CreatedAt
	if booking.ConsumerID == nil {
		booking.ConsumerID = existing.ConsumerID
	}
	if booking.RateCardID == nil {
		booking.RateCardID = existing.RateCardID
	}
	if booking.Vehicle.VehicleID == nil {
		booking.Vehicle.VehicleID = existing.Vehicle.VehicleID
	}
	if booking.Vehicle.DriverID == "" {
		booking.Vehicle.DriverID = existing.Vehicle.DriverID
	}
	if booking.Status == "" {
		booking.Status = existing.Status
	}
	if err := prepareBooking(&booking); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Update(txCtx, &booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, booking.ID.String(), booking.BookingNumber, "Booking updated")
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) (*model.Booking, error) {
	uid, err := parseID("booking", id)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("booking", err)
	}

	next := NormalizeBookingStatus(req.Status)
	allowed := false
	for _, st := range bookingTransitions[booking.Status] {
		if st == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ValidationError{Field: "status", Msg: fmt.Sprintf("cannot move a %s booking to %s", booking.Status, next)}
	}

	detail := fmt.Sprintf("Status changed from %s to %s", booking.Status, next)
	if req.Note != "" {
		detail += ": " + req.Note
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, uid, next); err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionStatusChange, booking.ID.String(), booking.BookingNumber, detail)
	})
	if err != nil {
		return nil, err
	}
	booking.Status = next

	s.notifier.Publish(Event{
		Type:    "booking.status",
		Message: fmt.Sprintf("Booking %s is now %s", booking.BookingNumber, next),
		Entity:  "booking",
		ID:      booking.ID.String(),
	})
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("booking", id)
	if err != nil {
		return err
	}
	booking, err := s.bookingRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("booking", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, booking.ID.String(), booking.BookingNumber, "Booking deleted")
	})
}

func (s *bookingService) Timeline(ctx context.Context, id string) ([]model.TimelineEntry, error) {
	uid, err := parseID("booking", id)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookingRepo.FindByID(ctx, uid); err != nil {
		return nil, lookupErr("booking", err)
	}
	return s.timelineFor(ctx, uid)
}

func (s *bookingService) timelineFor(ctx context.Context, id uuid.UUID) ([]model.TimelineEntry, error) {
	logs, err := s.auditRepo.ListForEntity(ctx, "booking", id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load booking timeline: %w", err)
	}
	timeline := make([]model.TimelineEntry, 0, len(logs))
	for _, l := range logs {
		action := l.Details
		if action == "" {
			action = l.Action
		}
		timeline = append(timeline, model.TimelineEntry{Action: action, User: l.Username, Time: l.CreatedAt})
	}
	return timeline, nil
}
