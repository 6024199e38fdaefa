package entities

import (
	"context"
	"fmt"
	"strings"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"

	"github.com/shopspring/decimal"
)

var paymentStatuses = []string{calc.PaymentPending, calc.PaymentPartial, calc.PaymentCompleted, calc.PaymentOverdue}

var paymentSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Invoice", Fields: []console.Field{
			{Key: "bookingId", Label: "Booking ID", CreateOnly: true},
			{Key: "bookingNumber", Label: "Booking Number", Placeholder: "BK-2024-001"},
			{Key: "customerName", Label: "Customer Name"},
			{Key: "customerPhone", Label: "Customer Phone", Kind: console.KindPhone, Validator: "phone"},
			{Key: "dueDate", Label: "Due Date", Kind: console.KindDate},
		}},
		{Key: "", Title: "Line Items", Fields: []console.Field{
			{Key: "items", Label: "Items (description | quantity | rate, one per line)", Kind: console.KindList, Required: true},
			{Key: "taxPercent", Label: "Tax %", Kind: console.KindNumber, Default: "18"},
			{Key: "discount", Label: "Discount", Kind: console.KindNumber, Default: "0"},
			{Key: "paidAmount", Label: "Amount Paid", Kind: console.KindNumber, Default: "0"},
		}},
		{Key: "summary", Title: "Summary", Fields: []console.Field{
			{Key: "subtotal", Label: "Subtotal", Kind: console.KindNumber},
			{Key: "total", Label: "Total", Kind: console.KindNumber},
			{Key: "balance", Label: "Balance", Kind: console.KindNumber},
		}},
		{Key: "", Title: "Notes", Fields: []console.Field{
			{Key: "terms", Label: "Terms", Kind: console.KindTextArea},
			{Key: "notes", Label: "Notes", Kind: console.KindTextArea},
		}},
	},
	Derived: []console.Derivation{
		{Target: "summary.subtotal", Inputs: []string{"items"}, Compute: func(v console.Values) (string, bool) {
			t, ok := invoiceTotals(v)
			return t.Subtotal.String(), ok
		}},
		{Target: "summary.total", Inputs: []string{"items", "taxPercent", "discount"}, Compute: func(v console.Values) (string, bool) {
			t, ok := invoiceTotals(v)
			return t.Total.String(), ok
		}},
		{Target: "summary.balance", Inputs: []string{"items", "taxPercent", "discount", "paidAmount"}, Compute: func(v console.Values) (string, bool) {
			t, ok := invoiceTotals(v)
			return t.Balance.String(), ok
		}},
	},
}

// parseItems reads "description | quantity | rate" lines. A line with only
// a description and an amount is one unit at that rate. Fields are taken
// from the right, so a description may itself contain "|".
func parseItems(raw string) ([]model.PaymentItem, error) {
	var items []model.PaymentItem
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cut := strings.LastIndex(line, "|")
		if cut < 0 {
			return nil, fmt.Errorf("line %d must be description | quantity | rate", i+1)
		}
		desc, rate := strings.TrimSpace(line[:cut]), strings.TrimSpace(line[cut+1:])
		q := decimal.NewFromInt(1)
		if cut = strings.LastIndex(desc, "|"); cut >= 0 {
			if n, err := decimal.NewFromString(strings.TrimSpace(desc[cut+1:])); err == nil {
				q, desc = n, strings.TrimSpace(desc[:cut])
			}
		}
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("line %d has an invalid rate", i+1)
		}
		items = append(items, model.PaymentItem{Description: desc, Quantity: q, Rate: r, Amount: q.Mul(r)})
	}
	return items, nil
}

func formatItems(items []model.PaymentItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Description+" | "+it.Quantity.String()+" | "+it.Rate.String())
	}
	return strings.Join(lines, "\n")
}

func invoiceTotals(v console.Values) (calc.InvoiceTotals, bool) {
	items, err := parseItems(v.Get("items"))
	if err != nil || len(items) == 0 {
		return calc.InvoiceTotals{}, false
	}
	lines := make([]calc.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, calc.LineItem{Quantity: it.Quantity, Rate: it.Rate})
	}
	tax, _ := parsedDecimal(v, "taxPercent")
	discount, _ := parsedDecimal(v, "discount")
	paid, _ := parsedDecimal(v, "paidAmount")
	return calc.Invoice(lines, tax, discount, paid), true
}

func encodePayment(p model.Payment) console.Values {
	return console.Values{
		"bookingId":        fmtUUID(p.BookingID),
		"bookingNumber":    p.BookingNumber,
		"customerName":     p.CustomerName,
		"customerPhone":    p.CustomerPhone,
		"dueDate":          fmtDate(p.DueDate),
		"items":            formatItems(p.Items),
		"taxPercent":       fmtDecimal(p.TaxPercent),
		"discount":         fmtDecimal(p.Discount),
		"paidAmount":       fmtDecimal(p.PaidAmount),
		"summary.subtotal": fmtDecimal(p.Subtotal),
		"summary.total":    fmtDecimal(p.TotalAmount),
		"summary.balance":  fmtDecimal(p.Balance),
		"terms":            p.Terms,
		"notes":            p.Notes,
	}
}

func decodePayment(v console.Values) (model.Payment, error) {
	d := newDecoder(v)
	p := model.Payment{
		BookingID:     d.uuid("bookingId"),
		BookingNumber: d.text("bookingNumber"),
		CustomerName:  d.text("customerName"),
		CustomerPhone: d.text("customerPhone"),
		DueDate:       d.date("dueDate"),
		TaxPercent:    d.decimal("taxPercent"),
		Discount:      d.decimal("discount"),
		PaidAmount:    d.decimal("paidAmount"),
		Terms:         d.text("terms"),
		Notes:         d.text("notes"),
	}
	items, err := parseItems(v.Get("items"))
	if err != nil {
		d.fail("items", err.Error())
	}
	p.Items = items
	if p.BookingID == nil && p.CustomerName == "" {
		d.fail("customerName", "Customer Name is required without a booking")
	}
	return p, d.err
}

func paymentCard(p model.Payment) console.Card {
	return console.Card{
		Title:    p.InvoiceNumber,
		Subtitle: p.CustomerName,
		Status:   p.Status,
		Lines: []string{
			orDash(p.BookingNumber),
			"Due " + calc.FormatDate(p.DueDate) + " · balance " + calc.FormatCurrency(p.Balance),
		},
		Amount: calc.FormatCurrency(p.TotalAmount),
		Link:   "/payments/" + p.ID.String() + "/pdf",
	}
}

func paymentTabs() []console.Tab[model.Payment] {
	return []console.Tab[model.Payment]{
		{Key: "invoice", Title: "Invoice", Rows: func(_ context.Context, p model.Payment) ([]console.Row, error) {
			rows := make([]console.Row, 0, len(p.Items)+4)
			for _, it := range p.Items {
				rows = append(rows, row(it.Description, it.Quantity.String()+" × "+calc.FormatAmount(it.Rate)+" = "+calc.FormatCurrency(it.Amount)))
			}
			return append(rows,
				row("Subtotal", calc.FormatCurrency(p.Subtotal)),
				row("Tax ("+p.TaxPercent.String()+"%)", calc.FormatCurrency(p.TaxAmount)),
				row("Discount", calc.FormatCurrency(p.Discount)),
				row("Total", calc.FormatCurrency(p.TotalAmount))), nil
		}},
		{Key: "summary", Title: "Payment", Rows: func(_ context.Context, p model.Payment) ([]console.Row, error) {
			return []console.Row{
				row("Invoice", p.InvoiceNumber),
				row("Booking", orDash(p.BookingNumber)),
				row("Customer", p.CustomerName),
				row("Phone", orDash(calc.FormatPhone(p.CustomerPhone))),
				row("Paid", calc.FormatCurrency(p.PaidAmount)),
				row("Balance", calc.FormatCurrency(p.Balance)),
				row("Status", console.Humanize(p.Status)),
				row("Due Date", calc.FormatDate(p.DueDate)),
				row("Terms", orDash(p.Terms)),
			}, nil
		}},
	}
}

// Payment describes invoices to the console.
func Payment() *console.Entity[model.Payment] {
	return &console.Entity[model.Payment]{
		Key:      "payments",
		Title:    "Payments",
		Singular: "Payment",
		ID:       func(p model.Payment) string { return p.ID.String() },
		Search: func(p model.Payment) []string {
			return []string{p.InvoiceNumber, p.BookingNumber, p.CustomerName, p.CustomerPhone}
		},
		Category:   func(p model.Payment) string { return p.Status },
		Categories: console.Options(paymentStatuses...),
		Schema:     paymentSchema,
		Codec:      console.Codec[model.Payment]{Encode: encodePayment, Decode: decodePayment},
		Tabs:       paymentTabs(),
		Card:       paymentCard,
	}
}
