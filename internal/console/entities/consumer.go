package entities

import (
	"context"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

var consumerTypes = []string{model.ConsumerRegular, model.ConsumerCorporate, model.ConsumerNew}

var consumerSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Basic Information", Fields: []console.Field{
			{Key: "name", Label: "Name", Required: true},
			{Key: "phone", Label: "Phone", Kind: console.KindPhone, Required: true, Validator: "phone"},
			{Key: "alternatePhone", Label: "Alternate Phone", Kind: console.KindPhone, Validator: "phone"},
			{Key: "email", Label: "Email", Kind: console.KindEmail, Validator: "email"},
			{Key: "type", Label: "Customer Type", Kind: console.KindSelect, Required: true, Default: model.ConsumerRegular, Options: console.Options(consumerTypes...)},
		}},
		{Key: "", Title: "Address", Fields: []console.Field{
			{Key: "address", Label: "Address", Kind: console.KindTextArea},
			{Key: "city", Label: "City"},
			{Key: "state", Label: "State"},
			{Key: "pincode", Label: "Pincode"},
		}},
		{Key: "business", Title: "Business Details", ShowWhen: &console.Condition{Field: "type", Values: []string{model.ConsumerCorporate}}, Fields: []console.Field{
			{Key: "company", Label: "Company Name", Required: true},
			{Key: "gst", Label: "GST Number", Validator: "gst", Placeholder: "22AAAAA0000A1Z5"},
			{Key: "pan", Label: "PAN Number", Validator: "pan", Placeholder: "AAAAA0000A"},
		}},
		{Key: "", Title: "Credit", Fields: []console.Field{
			{Key: "creditLimit", Label: "Credit Limit", Kind: console.KindNumber, Default: "0"},
			{Key: "paymentTerms", Label: "Payment Terms (days)", Kind: console.KindNumber, Default: "7"},
		}},
	},
}

func encodeConsumer(c model.Consumer) console.Values {
	return console.Values{
		"name":             c.Name,
		"phone":            c.Phone,
		"alternatePhone":   c.AlternatePhone,
		"email":            c.Email,
		"type":             c.Type,
		"address":          c.Address,
		"city":             c.City,
		"state":            c.State,
		"pincode":          c.Pincode,
		"business.company": c.Business.Company,
		"business.gst":     c.Business.GST,
		"business.pan":     c.Business.PAN,
		"creditLimit":      fmtDecimal(c.CreditLimit),
		"paymentTerms":     fmtInt(c.PaymentTerms),
	}
}

func decodeConsumer(v console.Values) (model.Consumer, error) {
	d := newDecoder(v)
	c := model.Consumer{
		Name:           d.text("name"),
		Phone:          d.text("phone"),
		AlternatePhone: d.text("alternatePhone"),
		Email:          d.text("email"),
		Type:           d.text("type"),
		Address:        d.text("address"),
		City:           d.text("city"),
		State:          d.text("state"),
		Pincode:        d.text("pincode"),
		CreditLimit:    d.decimal("creditLimit"),
		PaymentTerms:   d.int("paymentTerms"),
	}
	if c.Type == model.ConsumerCorporate {
		c.Business = model.ConsumerBusiness{
			Company: d.text("business.company"),
			GST:     d.text("business.gst"),
			PAN:     d.text("business.pan"),
		}
	}
	return c, d.err
}

func consumerCard(c model.Consumer) console.Card {
	sub := calc.FormatPhone(c.Phone)
	if c.Business.Company != "" {
		sub = c.Business.Company + " · " + sub
	}
	return console.Card{
		Title:    c.Name,
		Subtitle: sub,
		Status:   c.Type,
		Lines:    []string{fmtInt(int(c.Stats.TotalBookings)) + " bookings", orDash(c.City)},
		Amount:   calc.FormatCurrency(c.Stats.OutstandingAmount) + " outstanding",
	}
}

func consumerTabs(res *apiclient.Resource[model.Consumer]) []console.Tab[model.Consumer] {
	return []console.Tab[model.Consumer]{
		{Key: "profile", Title: "Profile", Rows: func(_ context.Context, c model.Consumer) ([]console.Row, error) {
			rows := []console.Row{
				row("Name", c.Name),
				row("Phone", calc.FormatPhone(c.Phone)),
				row("Email", orDash(c.Email)),
				row("Type", console.Humanize(c.Type)),
				row("Address", orDash(c.Address)),
				row("City", orDash(c.City)),
				row("Credit Limit", calc.FormatCurrency(c.CreditLimit)),
				row("Payment Terms", fmtInt(c.PaymentTerms)+" days"),
				row("Total Bookings", fmtInt(int(c.Stats.TotalBookings))),
				row("Total Amount", calc.FormatCurrency(c.Stats.TotalAmount)),
				row("Outstanding", calc.FormatCurrency(c.Stats.OutstandingAmount)),
			}
			if c.Type == model.ConsumerCorporate {
				rows = append(rows,
					row("Company", orDash(c.Business.Company)),
					row("GST", orDash(c.Business.GST)),
					row("PAN", orDash(c.Business.PAN)))
			}
			return rows, nil
		}},
		{Key: "bookings", Title: "Bookings", Rows: func(ctx context.Context, c model.Consumer) ([]console.Row, error) {
			bookings, err := apiclient.Related[model.Booking](ctx, res, c.ID.String(), "bookings")
			if err != nil {
				return nil, err
			}
			rows := make([]console.Row, 0, len(bookings))
			for _, b := range bookings {
				rows = append(rows, row(b.BookingNumber, b.Trip.From+" → "+b.Trip.To+" · "+console.Humanize(b.Status)+" · "+calc.FormatCurrency(b.Payment.Total)))
			}
			return rows, nil
		}},
		{Key: "payments", Title: "Payments", Rows: func(ctx context.Context, c model.Consumer) ([]console.Row, error) {
			payments, err := apiclient.Related[model.Payment](ctx, res, c.ID.String(), "payments")
			if err != nil {
				return nil, err
			}
			rows := make([]console.Row, 0, len(payments))
			for _, p := range payments {
				rows = append(rows, row(p.InvoiceNumber, calc.FormatCurrency(p.TotalAmount)+" · balance "+calc.FormatCurrency(p.Balance)+" · "+console.Humanize(p.Status)))
			}
			return rows, nil
		}},
	}
}

// Consumer describes consumers to the console. Related bookings and
// payments are read through res.
func Consumer(res *apiclient.Resource[model.Consumer]) *console.Entity[model.Consumer] {
	return &console.Entity[model.Consumer]{
		Key:      "consumers",
		Title:    "Consumers",
		Singular: "Consumer",
		ID:       func(c model.Consumer) string { return c.ID.String() },
		Search: func(c model.Consumer) []string {
			return []string{c.Name, c.Phone, c.Email, c.City, c.Business.Company}
		},
		Category:   func(c model.Consumer) string { return c.Type },
		Categories: console.Options(consumerTypes...),
		Schema:     consumerSchema,
		Codec:      console.Codec[model.Consumer]{Encode: encodeConsumer, Decode: decodeConsumer},
		Tabs:       consumerTabs(res),
		Card:       consumerCard,
	}
}
