package entities

import (
	"strings"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

var expenseTypes = []string{model.ExpenseFuel, model.ExpenseMaintenance, model.ExpenseDriverAllowance, model.ExpenseTollParking, model.ExpenseMiscellaneous}

var expenseSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Expense", Fields: []console.Field{
			{Key: "date", Label: "Date", Kind: console.KindDate},
			{Key: "type", Label: "Type", Kind: console.KindSelect, Required: true, Default: model.ExpenseFuel, Options: console.Options(expenseTypes...)},
			{Key: "description", Label: "Description", Kind: console.KindTextArea},
			{Key: "amount", Label: "Amount", Kind: console.KindNumber, Required: true},
		}},
		{Key: "fuel", Title: "Fuel Details", ShowWhen: &console.Condition{Field: "type", Values: []string{model.ExpenseFuel}}, Fields: []console.Field{
			{Key: "liters", Label: "Liters", Kind: console.KindNumber},
			{Key: "pricePerLiter", Label: "Price per Liter", Kind: console.KindNumber},
			{Key: "odometerReading", Label: "Odometer Reading", Kind: console.KindNumber},
		}},
		{Key: "", Title: "References", Fields: []console.Field{
			{Key: "vehicleNumber", Label: "Vehicle Number", Validator: "vehicle_plate"},
			{Key: "bookingNumber", Label: "Booking Number"},
			{Key: "vendorId", Label: "Vendor ID"},
			{Key: "receiptNumber", Label: "Receipt Number"},
			{Key: "notes", Label: "Notes", Kind: console.KindTextArea},
		}},
	},
	Derived: []console.Derivation{
		{Target: "amount", Inputs: []string{"type", "fuel.liters", "fuel.pricePerLiter"}, Compute: func(v console.Values) (string, bool) {
			if v.Get("type") != model.ExpenseFuel {
				return "", false
			}
			liters, ok1 := parsedDecimal(v, "fuel.liters")
			price, ok2 := parsedDecimal(v, "fuel.pricePerLiter")
			if !ok1 || !ok2 {
				return "", false
			}
			return calc.FuelAmount(liters, price).String(), true
		}},
	},
}

func encodeExpense(e model.Expense) console.Values {
	return console.Values{
		"date":                 fmtDate(e.Date),
		"type":                 e.Type,
		"description":          e.Description,
		"amount":               fmtDecimal(e.Amount),
		"fuel.liters":          fmtDecimal(e.Liters),
		"fuel.pricePerLiter":   fmtDecimal(e.PricePerLiter),
		"fuel.odometerReading": fmtInt(e.OdometerReading),
		"vehicleNumber":        e.VehicleNumber,
		"bookingNumber":        e.BookingNumber,
		"vendorId":             fmtUUID(e.VendorID),
		"receiptNumber":        e.ReceiptNumber,
		"notes":                e.Notes,
	}
}

func decodeExpense(v console.Values) (model.Expense, error) {
	d := newDecoder(v)
	e := model.Expense{
		Date:          d.date("date"),
		Type:          d.text("type"),
		Description:   d.text("description"),
		Amount:        d.decimal("amount"),
		VehicleNumber: d.text("vehicleNumber"),
		BookingNumber: d.text("bookingNumber"),
		VendorID:      d.uuid("vendorId"),
		ReceiptNumber: d.text("receiptNumber"),
		Notes:         d.text("notes"),
	}
	if e.Type == model.ExpenseFuel {
		e.Liters = d.decimal("fuel.liters")
		e.PricePerLiter = d.decimal("fuel.pricePerLiter")
		e.OdometerReading = d.int("fuel.odometerReading")
	}
	return e, d.err
}

func expenseCard(e model.Expense) console.Card {
	lines := []string{calc.FormatDate(e.Date)}
	if e.VehicleNumber != "" {
		lines = append(lines, e.VehicleNumber)
	}
	if e.Type == model.ExpenseFuel && e.Liters.IsPositive() {
		lines = append(lines, e.Liters.String()+" L @ "+calc.FormatAmount(e.PricePerLiter))
	}
	return console.Card{
		Title:    console.Humanize(e.Type),
		Subtitle: strings.TrimSpace(e.Description),
		Status:   e.Type,
		Lines:    lines,
		Amount:   calc.FormatCurrency(e.Amount),
	}
}

// Expense describes cost entries to the console. It has no details view.
func Expense() *console.Entity[model.Expense] {
	return &console.Entity[model.Expense]{
		Key:      "expenses",
		Title:    "Expenses",
		Singular: "Expense",
		ID:       func(e model.Expense) string { return e.ID.String() },
		Search: func(e model.Expense) []string {
			return []string{e.Description, e.VehicleNumber, e.BookingNumber, e.ReceiptNumber}
		},
		Category:   func(e model.Expense) string { return e.Type },
		Categories: console.Options(expenseTypes...),
		Schema:     expenseSchema,
		Codec:      console.Codec[model.Expense]{Encode: encodeExpense, Decode: decodeExpense},
		Card:       expenseCard,
	}
}
