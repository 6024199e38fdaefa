package entities

import (
	"context"
	"strconv"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

var bookingStatuses = []string{model.BookingPending, model.BookingConfirmed, model.BookingCompleted, model.BookingCancelled}

var vehicleTypes = []string{model.VehicleBus, model.VehicleCar, model.VehicleTempo, model.VehicleMiniBus}

var rateTypes = []string{model.RateTypeKMWise, model.RateTypeLumpsum, model.RateTypeDailyWages}

var bookingSchema = console.Schema{
	Sections: []console.Section{
		{Key: "customer", Title: "Customer Information", Fields: []console.Field{
			{Key: "name", Label: "Customer Name", Required: true},
			{Key: "phone", Label: "Phone", Kind: console.KindPhone, Required: true, Validator: "phone", Placeholder: "9876543210"},
			{Key: "email", Label: "Email", Kind: console.KindEmail, Validator: "email"},
			{Key: "address", Label: "Address", Kind: console.KindTextArea},
			{Key: "consumerId", Label: "Consumer ID"},
		}},
		{Key: "trip", Title: "Trip Details", Fields: []console.Field{
			{Key: "from", Label: "From", Required: true},
			{Key: "to", Label: "To", Required: true},
			{Key: "startDate", Label: "Start Date", Kind: console.KindDate, Required: true},
			{Key: "endDate", Label: "End Date", Kind: console.KindDate, Required: true},
			{Key: "totalDays", Label: "Total Days", Kind: console.KindNumber},
			{Key: "purpose", Label: "Purpose", Kind: console.KindTextArea},
		}},
		{Key: "vehicle", Title: "Vehicle", Fields: []console.Field{
			{Key: "type", Label: "Vehicle Type", Kind: console.KindSelect, Options: console.Options(vehicleTypes...)},
			{Key: "number", Label: "Vehicle Number", Validator: "vehicle_plate", Placeholder: "DL01AB1234"},
			{Key: "driver", Label: "Driver"},
			{Key: "vehicleId", Label: "Vehicle ID"},
			{Key: "driverId", Label: "Driver ID"},
		}},
		{Key: "payment", Title: "Payment", Fields: []console.Field{
			{Key: "rateType", Label: "Rate Type", Kind: console.KindSelect, Options: console.Options(rateTypes...)},
			{Key: "rateCardId", Label: "Rate Card ID"},
			{Key: "total", Label: "Total Amount", Kind: console.KindNumber, Required: true},
			{Key: "advance", Label: "Advance", Kind: console.KindNumber},
			{Key: "balance", Label: "Balance", Kind: console.KindNumber},
			{Key: "status", Label: "Payment Status", Kind: console.KindSelect, Default: calc.PaymentPending,
				Options: console.Options(calc.PaymentPending, calc.PaymentPartial, calc.PaymentCompleted)},
			{Key: "notes", Label: "Notes", Kind: console.KindTextArea},
		}},
		{Key: "booking", Title: "Status", Fields: []console.Field{
			{Key: "status", Label: "Booking Status", Kind: console.KindSelect, Default: model.BookingPending, Options: console.Options(bookingStatuses...)},
		}},
	},
	Derived: []console.Derivation{
		{Target: "trip.totalDays", Inputs: []string{"trip.startDate", "trip.endDate"}, Compute: func(v console.Values) (string, bool) {
			start, ok1 := parsedDate(v, "trip.startDate")
			end, ok2 := parsedDate(v, "trip.endDate")
			if !ok1 || !ok2 {
				return "", false
			}
			return strconv.Itoa(calc.TripDays(start, end)), true
		}},
		{Target: "payment.balance", Inputs: []string{"payment.total", "payment.advance"}, Compute: func(v console.Values) (string, bool) {
			total, ok1 := parsedDecimal(v, "payment.total")
			advance, ok2 := parsedDecimal(v, "payment.advance")
			if !ok1 || !ok2 {
				return "", false
			}
			return calc.Balance(total, advance).String(), true
		}},
		{Target: "payment.status", Inputs: []string{"payment.advance"}, Compute: func(v console.Values) (string, bool) {
			advance, ok := parsedDecimal(v, "payment.advance")
			if !ok {
				return "", false
			}
			return calc.BookingPaymentStatus(advance), true
		}},
	},
}

func encodeBooking(b model.Booking) console.Values {
	return console.Values{
		"customer.name":       b.Customer.Name,
		"customer.phone":      b.Customer.Phone,
		"customer.email":      b.Customer.Email,
		"customer.address":    b.Customer.Address,
		"customer.consumerId": fmtUUID(b.ConsumerID),
		"trip.from":           b.Trip.From,
		"trip.to":             b.Trip.To,
		"trip.startDate":      fmtDate(b.Trip.StartDate),
		"trip.endDate":        fmtDate(b.Trip.EndDate),
		"trip.totalDays":      fmtInt(b.Trip.TotalDays),
		"trip.purpose":        b.Trip.Purpose,
		"vehicle.type":        b.Vehicle.Type,
		"vehicle.number":      b.Vehicle.Number,
		"vehicle.driver":      b.Vehicle.Driver,
		"vehicle.vehicleId":   fmtUUID(b.Vehicle.VehicleID),
		"vehicle.driverId":    b.Vehicle.DriverID,
		"payment.rateType":    b.Payment.RateType,
		"payment.rateCardId":  fmtUUID(b.RateCardID),
		"payment.total":       fmtDecimal(b.Payment.Total),
		"payment.advance":     fmtDecimal(b.Payment.Advance),
		"payment.balance":     fmtDecimal(b.Payment.Balance),
		"payment.status":      b.Payment.Status,
		"payment.notes":       b.Payment.Notes,
		"booking.status":      b.Status,
	}
}

func decodeBooking(v console.Values) (model.Booking, error) {
	d := newDecoder(v)
	b := model.Booking{
		Customer: model.BookingCustomer{
			Name:    d.text("customer.name"),
			Phone:   d.text("customer.phone"),
			Email:   d.text("customer.email"),
			Address: d.text("customer.address"),
		},
		Trip: model.BookingTrip{
			From:      d.text("trip.from"),
			To:        d.text("trip.to"),
			StartDate: d.date("trip.startDate"),
			EndDate:   d.date("trip.endDate"),
			TotalDays: d.int("trip.totalDays"),
			Purpose:   d.text("trip.purpose"),
		},
		Vehicle: model.BookingVehicle{
			Type:      d.text("vehicle.type"),
			Number:    d.text("vehicle.number"),
			Driver:    d.text("vehicle.driver"),
			VehicleID: d.uuid("vehicle.vehicleId"),
			DriverID:  d.text("vehicle.driverId"),
		},
		Payment: model.BookingPayment{
			RateType: d.text("payment.rateType"),
			Total:    d.decimal("payment.total"),
			Advance:  d.decimal("payment.advance"),
			Balance:  d.decimal("payment.balance"),
			Status:   d.text("payment.status"),
			Notes:    d.text("payment.notes"),
		},
		Status:     d.text("booking.status"),
		ConsumerID: d.uuid("customer.consumerId"),
		RateCardID: d.uuid("payment.rateCardId"),
	}
	if b.Trip.StartDate != nil && b.Trip.EndDate != nil && b.Trip.EndDate.Before(*b.Trip.StartDate) {
		d.fail("trip.endDate", "must not be before the start date")
	}
	return b, d.err
}

func bookingCard(b model.Booking) console.Card {
	return console.Card{
		Title:    b.BookingNumber,
		Subtitle: b.Customer.Name + " · " + calc.FormatPhone(b.Customer.Phone),
		Status:   b.Status,
		Lines: []string{
			b.Trip.From + " → " + b.Trip.To,
			calc.FormatDate(b.Trip.StartDate) + " - " + calc.FormatDate(b.Trip.EndDate),
		},
		Amount: calc.FormatCurrency(b.Payment.Total),
	}
}

func bookingTabs() []console.Tab[model.Booking] {
	return []console.Tab[model.Booking]{
		{Key: "details", Title: "Details", Rows: func(_ context.Context, b model.Booking) ([]console.Row, error) {
			return []console.Row{
				row("Booking Number", b.BookingNumber),
				row("Customer", b.Customer.Name),
				row("Phone", calc.FormatPhone(b.Customer.Phone)),
				row("Email", orDash(b.Customer.Email)),
				row("Route", b.Trip.From+" → "+b.Trip.To),
				row("Start Date", calc.FormatDate(b.Trip.StartDate)),
				row("End Date", calc.FormatDate(b.Trip.EndDate)),
				row("Total Days", fmtInt(b.Trip.TotalDays)),
				row("Purpose", orDash(b.Trip.Purpose)),
				row("Vehicle", orDash(console.Humanize(b.Vehicle.Type)+" "+b.Vehicle.Number)),
				row("Driver", orDash(b.Vehicle.Driver)),
			}, nil
		}},
		{Key: "payment", Title: "Payment", Rows: func(_ context.Context, b model.Booking) ([]console.Row, error) {
			return []console.Row{
				row("Rate Type", orDash(console.Humanize(b.Payment.RateType))),
				row("Total", calc.FormatCurrency(b.Payment.Total)),
				row("Advance", calc.FormatCurrency(b.Payment.Advance)),
				row("Balance", calc.FormatCurrency(b.Payment.Balance)),
				row("Status", console.Humanize(b.Payment.Status)),
				row("Notes", orDash(b.Payment.Notes)),
			}, nil
		}},
		{Key: "timeline", Title: "Timeline", Rows: func(_ context.Context, b model.Booking) ([]console.Row, error) {
			rows := make([]console.Row, 0, len(b.Timeline))
			for _, e := range b.Timeline {
				at := e.Time
				rows = append(rows, row(calc.FormatDate(&at)+" "+at.Format("15:04"), e.Action+" by "+e.User))
			}
			return rows, nil
		}},
	}
}

// Booking describes bookings to the console.
func Booking() *console.Entity[model.Booking] {
	return &console.Entity[model.Booking]{
		Key:      "bookings",
		Title:    "Bookings",
		Singular: "Booking",
		ID:       func(b model.Booking) string { return b.ID.String() },
		Search: func(b model.Booking) []string {
			return []string{b.BookingNumber, b.Customer.Name, b.Customer.Phone, b.Trip.From, b.Trip.To, b.Vehicle.Number}
		},
		Category:   func(b model.Booking) string { return b.Status },
		Categories: console.Options(bookingStatuses...),
		Schema:     bookingSchema,
		Codec:      console.Codec[model.Booking]{Encode: encodeBooking, Decode: decodeBooking},
		Tabs:       bookingTabs(),
		Card:       bookingCard,
	}
}
