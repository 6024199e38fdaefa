package entities

import (
	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

func showFor(rateType string) *console.Condition {
	return &console.Condition{Field: "type", Values: []string{rateType}}
}

var rateSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Rate Card", Fields: []console.Field{
			{Key: "name", Label: "Name", Required: true},
			{Key: "type", Label: "Rate Type", Kind: console.KindSelect, Required: true, Default: model.RateTypeKMWise, Options: console.Options(rateTypes...)},
			{Key: "vehicleType", Label: "Vehicle Type", Kind: console.KindSelect, Options: console.Options(vehicleTypes...)},
			{Key: "active", Label: "Active", Kind: console.KindCheckbox, Default: "true"},
		}},
		{Key: "km", Title: "KM Wise Pricing", ShowWhen: showFor(model.RateTypeKMWise), Fields: []console.Field{
			{Key: "baseRate", Label: "Rate per KM", Kind: console.KindNumber, Required: true},
			{Key: "minKmPerDay", Label: "Minimum KM per Day", Kind: console.KindNumber},
			{Key: "extraKmRate", Label: "Extra KM Rate", Kind: console.KindNumber},
			{Key: "driverAllowance", Label: "Driver Allowance", Kind: console.KindNumber},
			{Key: "nightCharges", Label: "Night Charges", Kind: console.KindNumber},
			{Key: "outstation", Label: "Outstation", Kind: console.KindCheckbox, Default: "false"},
		}},
		{Key: "lumpsum", Title: "Lumpsum Pricing", ShowWhen: showFor(model.RateTypeLumpsum), Fields: []console.Field{
			{Key: "totalAmount", Label: "Total Amount", Kind: console.KindNumber, Required: true},
			{Key: "duration", Label: "Duration", Placeholder: "3 days / 2 nights"},
			{Key: "route", Label: "Route"},
		}},
		{Key: "daily", Title: "Daily Wages", ShowWhen: showFor(model.RateTypeDailyWages), Fields: []console.Field{
			{Key: "dailyRate", Label: "Daily Rate", Kind: console.KindNumber, Required: true},
			{Key: "workingHours", Label: "Working Hours", Kind: console.KindNumber},
			{Key: "overtimeRate", Label: "Overtime Rate", Kind: console.KindNumber},
		}},
		{Key: "", Title: "Inclusions & Exclusions", Fields: []console.Field{
			{Key: "inclusions", Label: "Inclusions (one per line)", Kind: console.KindList},
			{Key: "exclusions", Label: "Exclusions (one per line)", Kind: console.KindList},
		}},
	},
}

func encodeRate(r model.RateCard) console.Values {
	return console.Values{
		"name":                r.Name,
		"type":                r.Type,
		"vehicleType":         r.VehicleType,
		"active":              fmtBool(r.Active),
		"km.baseRate":         fmtDecimal(r.BaseRate),
		"km.minKmPerDay":      fmtInt(r.MinKmPerDay),
		"km.extraKmRate":      fmtDecimal(r.ExtraKmRate),
		"km.driverAllowance":  fmtDecimal(r.DriverAllowance),
		"km.nightCharges":     fmtDecimal(r.NightCharges),
		"km.outstation":       fmtBool(r.Outstation),
		"lumpsum.totalAmount": fmtDecimal(r.TotalAmount),
		"lumpsum.duration":    r.Duration,
		"lumpsum.route":       r.Route,
		"daily.dailyRate":     fmtDecimal(r.DailyRate),
		"daily.workingHours":  fmtInt(r.WorkingHours),
		"daily.overtimeRate":  fmtDecimal(r.OvertimeRate),
		"inclusions":          fmtList(r.Inclusions),
		"exclusions":          fmtList(r.Exclusions),
	}
}

// decodeRate only reads the fields of the selected type.
func decodeRate(v console.Values) (model.RateCard, error) {
	d := newDecoder(v)
	r := model.RateCard{
		Name:        d.text("name"),
		Type:        d.text("type"),
		VehicleType: d.text("vehicleType"),
		Active:      d.bool("active"),
		Inclusions:  d.list("inclusions"),
		Exclusions:  d.list("exclusions"),
	}
	switch r.Type {
	case model.RateTypeKMWise:
		r.BaseRate = d.decimal("km.baseRate")
		r.MinKmPerDay = d.int("km.minKmPerDay")
		r.ExtraKmRate = d.decimal("km.extraKmRate")
		r.DriverAllowance = d.decimal("km.driverAllowance")
		r.NightCharges = d.decimal("km.nightCharges")
		r.Outstation = d.bool("km.outstation")
	case model.RateTypeLumpsum:
		r.TotalAmount = d.decimal("lumpsum.totalAmount")
		r.Duration = d.text("lumpsum.duration")
		r.Route = d.text("lumpsum.route")
	case model.RateTypeDailyWages:
		r.DailyRate = d.decimal("daily.dailyRate")
		r.WorkingHours = d.int("daily.workingHours")
		r.OvertimeRate = d.decimal("daily.overtimeRate")
	}
	return r, d.err
}

func rateCard(r model.RateCard) console.Card {
	var price string
	switch r.Type {
	case model.RateTypeKMWise:
		price = calc.FormatCurrency(r.BaseRate) + "/km"
	case model.RateTypeLumpsum:
		price = calc.FormatCurrency(r.TotalAmount)
	case model.RateTypeDailyWages:
		price = calc.FormatCurrency(r.DailyRate) + "/day"
	}
	status := "inactive"
	if r.Active {
		status = "active"
	}
	return console.Card{
		Title:    r.Name,
		Subtitle: console.Humanize(r.Type) + " · " + orDash(console.Humanize(r.VehicleType)),
		Status:   status,
		Lines:    []string{fmtInt(len(r.Inclusions)) + " inclusions", fmtInt(len(r.Exclusions)) + " exclusions"},
		Amount:   price,
	}
}

// Rate describes pricing policies to the console. It has no details view.
func Rate() *console.Entity[model.RateCard] {
	return &console.Entity[model.RateCard]{
		Key:      "rates",
		Title:    "Rate Cards",
		Singular: "Rate Card",
		ID:       func(r model.RateCard) string { return r.ID.String() },
		Search: func(r model.RateCard) []string {
			return []string{r.Name, r.VehicleType, r.Route}
		},
		Category:   func(r model.RateCard) string { return r.Type },
		Categories: console.Options(rateTypes...),
		Schema:     rateSchema,
		Codec:      console.Codec[model.RateCard]{Encode: encodeRate, Decode: decodeRate},
		Card:       rateCard,
	}
}
