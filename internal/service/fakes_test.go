package service

import (
	"context"
	"strings"
	"sync"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeTx struct {
	calls  int
	locked []string
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func (f *fakeTx) Serialize(_ context.Context, key string) error {
	f.locked = append(f.locked, key)
	return nil
}

type fakeAudit struct {
	mu   sync.Mutex
	logs []model.AuditLog
}

func (f *fakeAudit) Log(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = nowFunc()
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeAudit) List(_ context.Context, _ repository.ListOptions) ([]model.AuditLog, int64, error) {
	return f.logs, int64(len(f.logs)), nil
}

func (f *fakeAudit) ListForEntity(_ context.Context, entityType, entityID string) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, l := range f.logs {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeNotifier struct{ events []Event }

func (f *fakeNotifier) Publish(e Event) { f.events = append(f.events, e) }

type fakeBookingRepo struct {
	rows map[uuid.UUID]model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: map[uuid.UUID]model.Booking{}}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	b.ID = uuid.New()
	b.CreatedAt = nowFunc()
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (f *fakeBookingRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Booking, int64, error) {
	var out []model.Booking
	for _, b := range f.rows {
		if opts.Category != "" && b.Status != opts.Category {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) ListByPhone(_ context.Context, phone string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.rows {
		if b.Customer.Phone == phone {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) TotalsByPhone(_ context.Context, phone string) (repository.BookingTotals, error) {
	t := repository.BookingTotals{Amount: decimal.Zero, Outstanding: decimal.Zero}
	for _, b := range f.rows {
		if b.Customer.Phone != phone || b.Status == model.BookingCancelled {
			continue
		}
		t.Count++
		t.Amount = t.Amount.Add(b.Payment.Total)
		t.Outstanding = t.Outstanding.Add(b.Payment.Balance)
	}
	return t, nil
}

func (f *fakeBookingRepo) CountNumbersWithPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, b := range f.rows {
		if strings.HasPrefix(b.BookingNumber, prefix) {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	b, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	f.rows[id] = b
	return nil
}

type fakeConsumerRepo struct {
	rows map[uuid.UUID]model.Consumer
}

func newFakeConsumerRepo() *fakeConsumerRepo {
	return &fakeConsumerRepo{rows: map[uuid.UUID]model.Consumer{}}
}

func (f *fakeConsumerRepo) Create(_ context.Context, c *model.Consumer) error {
	c.ID = uuid.New()
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeConsumerRepo) Update(_ context.Context, c *model.Consumer) error {
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeConsumerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeConsumerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Consumer, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeConsumerRepo) FindByPhone(_ context.Context, phone string) (*model.Consumer, error) {
	for _, c := range f.rows {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConsumerRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Consumer, int64, error) {
	var out []model.Consumer
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

type fakePaymentRepo struct {
	rows map[uuid.UUID]model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: map[uuid.UUID]model.Payment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	p.ID = uuid.New()
	f.rows[p.ID] = *p
	return nil
}

func (f *fakePaymentRepo) Update(_ context.Context, p *model.Payment) error {
	f.rows[p.ID] = *p
	return nil
}

func (f *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakePaymentRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range f.rows {
		if opts.Category != "" && p.Status != opts.Category {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePaymentRepo) ListUnpaid(_ context.Context) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.rows {
		if p.Balance.IsPositive() && p.DueDate != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByPhone(_ context.Context, phone string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.rows {
		if p.CustomerPhone == phone {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ReplaceItems(_ context.Context, id uuid.UUID, items []model.PaymentItem) error {
	p := f.rows[id]
	p.Items = items
	f.rows[id] = p
	return nil
}

func (f *fakePaymentRepo) CountNumbersWithPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, p := range f.rows {
		if strings.HasPrefix(p.InvoiceNumber, prefix) {
			n++
		}
	}
	return n, nil
}

type fakeTeamRepo struct {
	rows map[uuid.UUID]model.TeamMember
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{rows: map[uuid.UUID]model.TeamMember{}}
}

func (f *fakeTeamRepo) Create(_ context.Context, m *model.TeamMember) error {
	m.ID = uuid.New()
	f.rows[m.ID] = *m
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*model.TeamMember, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (f *fakeTeamRepo) find(match func(model.TeamMember) bool) (*model.TeamMember, error) {
	for _, m := range f.rows {
		if match(m) {
			m := m
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeamRepo) GetByEmail(_ context.Context, email string) (*model.TeamMember, error) {
	return f.find(func(m model.TeamMember) bool { return m.Email == email })
}

func (f *fakeTeamRepo) GetByUsername(_ context.Context, username string) (*model.TeamMember, error) {
	return f.find(func(m model.TeamMember) bool { return m.Username == username })
}

func (f *fakeTeamRepo) List(_ context.Context, _ repository.ListOptions) ([]model.TeamMember, int64, error) {
	var out []model.TeamMember
	for _, m := range f.rows {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTeamRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, m := range f.rows {
		if m.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeTeamRepo) Update(_ context.Context, m *model.TeamMember) error {
	f.rows[m.ID] = *m
	return nil
}

func (f *fakeTeamRepo) TouchLogin(_ context.Context, id uuid.UUID) error {
	m := f.rows[id]
	now := nowFunc()
	m.LastLoginAt = &now
	f.rows[id] = m
	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}
