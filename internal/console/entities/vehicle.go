package entities

import (
	"context"
	"time"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

var vehicleStatuses = []string{model.VehicleAvailable, model.VehicleBooked, model.VehicleMaintenance}

var certificates = []struct{ key, label string }{
	{"insurance", "Insurance"},
	{"fitness", "Fitness"},
	{"permit", "Permit"},
	{"poc", "Pollution (POC)"},
}

func complianceFields() []console.Field {
	fields := []console.Field{{Key: "rcNumber", Label: "RC Number"}}
	for _, c := range certificates {
		fields = append(fields,
			console.Field{Key: c.key + "Number", Label: c.label + " Number"},
			console.Field{Key: c.key + "Expiry", Label: c.label + " Expiry", Kind: console.KindDate},
		)
	}
	return fields
}

var vehicleSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Vehicle Information", Fields: []console.Field{
			{Key: "number", Label: "Vehicle Number", Required: true, Validator: "vehicle_plate", Placeholder: "DL01AB1234"},
			{Key: "type", Label: "Type", Kind: console.KindSelect, Required: true, Default: model.VehicleCar, Options: console.Options(vehicleTypes...)},
			{Key: "model", Label: "Model"},
			{Key: "year", Label: "Year", Kind: console.KindNumber},
			{Key: "capacity", Label: "Seating Capacity", Kind: console.KindNumber},
			{Key: "fuelType", Label: "Fuel Type", Kind: console.KindSelect, Default: "diesel", Options: console.Options("diesel", "petrol", "cng", "electric")},
			{Key: "status", Label: "Status", Kind: console.KindSelect, Default: model.VehicleAvailable, Options: console.Options(vehicleStatuses...)},
			{Key: "ownership", Label: "Ownership", Kind: console.KindSelect, Required: true, Default: model.OwnershipOwned, Options: console.Options(model.OwnershipOwned, model.OwnershipVendor)},
		}},
		{Key: "compliance", Title: "Compliance Documents", Fields: complianceFields()},
		{Key: "driver", Title: "Driver", Fields: []console.Field{
			{Key: "name", Label: "Driver Name"},
			{Key: "phone", Label: "Driver Phone", Kind: console.KindPhone, Validator: "phone"},
			{Key: "license", Label: "License Number"},
			{Key: "address", Label: "Address", Kind: console.KindTextArea},
		}},
		{Key: "vendor", Title: "Vendor", ShowWhen: &console.Condition{Field: "ownership", Values: []string{model.OwnershipVendor}}, Fields: []console.Field{
			{Key: "vendorId", Label: "Vendor ID", Required: true},
			{Key: "vendorRate", Label: "Vendor Rate", Kind: console.KindNumber},
			{Key: "vendorNotes", Label: "Notes", Kind: console.KindTextArea},
		}},
	},
}

func certOf(v *model.VehicleCompliance, key string) *model.Certificate {
	switch key {
	case "insurance":
		return &v.Insurance
	case "fitness":
		return &v.Fitness
	case "permit":
		return &v.Permit
	default:
		return &v.POC
	}
}

func encodeVehicle(v model.Vehicle) console.Values {
	out := console.Values{
		"number":              v.Number,
		"type":                v.Type,
		"model":               v.Model,
		"year":                fmtInt(v.Year),
		"capacity":            fmtInt(v.Capacity),
		"fuelType":            v.FuelType,
		"status":              v.Status,
		"ownership":           v.Ownership,
		"compliance.rcNumber": v.Compliance.RCNumber,
		"driver.name":         v.Driver.Name,
		"driver.phone":        v.Driver.Phone,
		"driver.license":      v.Driver.License,
		"driver.address":      v.Driver.Address,
		"vendor.vendorId":     fmtUUID(v.Vendor.VendorID),
		"vendor.vendorRate":   fmtDecimal(v.Vendor.VendorRate),
		"vendor.vendorNotes":  v.Vendor.VendorNotes,
	}
	for _, c := range certificates {
		cert := certOf(&v.Compliance, c.key)
		out["compliance."+c.key+"Number"] = cert.Number
		out["compliance."+c.key+"Expiry"] = fmtDate(cert.Expiry)
	}
	return out
}

func decodeVehicle(v console.Values) (model.Vehicle, error) {
	d := newDecoder(v)
	out := model.Vehicle{
		Number:    d.text("number"),
		Type:      d.text("type"),
		Model:     d.text("model"),
		Year:      d.int("year"),
		Capacity:  d.int("capacity"),
		FuelType:  d.text("fuelType"),
		Status:    d.text("status"),
		Ownership: d.text("ownership"),
		Compliance: model.VehicleCompliance{
			RCNumber: d.text("compliance.rcNumber"),
		},
		Driver: model.VehicleDriver{
			Name:    d.text("driver.name"),
			Phone:   d.text("driver.phone"),
			License: d.text("driver.license"),
			Address: d.text("driver.address"),
		},
	}
	for _, c := range certificates {
		cert := certOf(&out.Compliance, c.key)
		cert.Number = d.text("compliance." + c.key + "Number")
		cert.Expiry = d.date("compliance." + c.key + "Expiry")
	}
	if out.Ownership == model.OwnershipVendor {
		out.Vendor = model.VehicleVendor{
			VendorID:    d.uuid("vendor.vendorId"),
			VendorRate:  d.decimal("vendor.vendorRate"),
			VendorNotes: d.text("vendor.vendorNotes"),
		}
	}
	return out, d.err
}

func vehicleReminders(v model.Vehicle, now time.Time) []calc.Reminder {
	certs := make([]calc.Certificate, 0, len(certificates))
	for _, c := range certificates {
		cert := certOf(&v.Compliance, c.key)
		certs = append(certs, calc.Certificate{VehicleNumber: v.Number, Kind: c.key, Expiry: cert.Expiry})
	}
	return calc.ComplianceReminders(certs, now)
}

func vehicleCard(v model.Vehicle) console.Card {
	lines := []string{console.Humanize(v.Type) + " · " + fmtInt(v.Capacity) + " seats", orDash(v.Driver.Name)}
	if n := len(vehicleReminders(v, time.Now())); n > 0 {
		lines = append(lines, fmtInt(n)+" compliance renewals due")
	}
	return console.Card{
		Title:    v.Number,
		Subtitle: orDash(v.Model),
		Status:   v.Status,
		Lines:    lines,
		Amount:   console.Humanize(v.Ownership),
	}
}

func vehicleTabs() []console.Tab[model.Vehicle] {
	return []console.Tab[model.Vehicle]{
		{Key: "details", Title: "Details", Rows: func(_ context.Context, v model.Vehicle) ([]console.Row, error) {
			return []console.Row{
				row("Number", v.Number),
				row("Type", console.Humanize(v.Type)),
				row("Model", orDash(v.Model)),
				row("Year", fmtInt(v.Year)),
				row("Capacity", fmtInt(v.Capacity)),
				row("Fuel", console.Humanize(v.FuelType)),
				row("Status", console.Humanize(v.Status)),
				row("Ownership", console.Humanize(v.Ownership)),
			}, nil
		}},
		{Key: "compliance", Title: "Compliance", Rows: func(_ context.Context, v model.Vehicle) ([]console.Row, error) {
			now := time.Now()
			rows := []console.Row{row("RC Number", orDash(v.Compliance.RCNumber))}
			for _, c := range certificates {
				cert := certOf(&v.Compliance, c.key)
				value := "Not recorded"
				if cert.Expiry != nil {
					value = calc.FormatDate(cert.Expiry) + " (" + fmtInt(calc.DaysUntil(*cert.Expiry, now)) + " days)"
				}
				if cert.Number != "" {
					value = cert.Number + " · " + value
				}
				rows = append(rows, row(c.label, value))
			}
			return rows, nil
		}},
		{Key: "driver", Title: "Driver", Rows: func(_ context.Context, v model.Vehicle) ([]console.Row, error) {
			return []console.Row{
				row("Name", orDash(v.Driver.Name)),
				row("Phone", orDash(calc.FormatPhone(v.Driver.Phone))),
				row("License", orDash(v.Driver.License)),
				row("Address", orDash(v.Driver.Address)),
			}, nil
		}},
		{Key: "vendor", Title: "Vendor", Rows: func(_ context.Context, v model.Vehicle) ([]console.Row, error) {
			if v.Ownership != model.OwnershipVendor {
				return []console.Row{row("Ownership", "Owned vehicle")}, nil
			}
			return []console.Row{
				row("Vendor ID", fmtUUID(v.Vendor.VendorID)),
				row("Vendor Rate", calc.FormatCurrency(v.Vendor.VendorRate)),
				row("Notes", orDash(v.Vendor.VendorNotes)),
			}, nil
		}},
	}
}

// Vehicle describes fleet vehicles to the console.
func Vehicle() *console.Entity[model.Vehicle] {
	return &console.Entity[model.Vehicle]{
		Key:      "vehicles",
		Title:    "Vehicles",
		Singular: "Vehicle",
		ID:       func(v model.Vehicle) string { return v.ID.String() },
		Search: func(v model.Vehicle) []string {
			return []string{v.Number, v.Model, v.Driver.Name, v.Type}
		},
		Category:   func(v model.Vehicle) string { return v.Status },
		Categories: console.Options(vehicleStatuses...),
		Schema:     vehicleSchema,
		Codec:      console.Codec[model.Vehicle]{Encode: encodeVehicle, Decode: decodeVehicle},
		Tabs:       vehicleTabs(),
		Card:       vehicleCard,
	}
}
