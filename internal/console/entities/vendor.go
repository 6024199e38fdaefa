package entities

import (
	"context"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

var vendorStatuses = []string{"active", "inactive"}

var vendorSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Vendor Information", Fields: []console.Field{
			{Key: "name", Label: "Vendor Name", Required: true},
			{Key: "contactPerson", Label: "Contact Person"},
			{Key: "phone", Label: "Phone", Kind: console.KindPhone, Required: true, Validator: "phone"},
			{Key: "alternatePhone", Label: "Alternate Phone", Kind: console.KindPhone, Validator: "phone"},
			{Key: "email", Label: "Email", Kind: console.KindEmail, Validator: "email"},
			{Key: "website", Label: "Website"},
			{Key: "status", Label: "Status", Kind: console.KindSelect, Default: "active", Options: console.Options(vendorStatuses...)},
		}},
		{Key: "", Title: "Address", Fields: []console.Field{
			{Key: "address", Label: "Address", Kind: console.KindTextArea},
			{Key: "city", Label: "City"},
			{Key: "state", Label: "State"},
			{Key: "pincode", Label: "Pincode"},
		}},
		{Key: "business", Title: "Business & Bank Details", Fields: []console.Field{
			{Key: "gst", Label: "GST Number", Validator: "gst"},
			{Key: "pan", Label: "PAN Number", Validator: "pan"},
			{Key: "bankName", Label: "Bank Name"},
			{Key: "accountNumber", Label: "Account Number"},
			{Key: "ifsc", Label: "IFSC"},
			{Key: "accountHolderName", Label: "Account Holder"},
		}},
		{Key: "agreement", Title: "Agreement", Fields: []console.Field{
			{Key: "commissionType", Label: "Commission Type", Kind: console.KindSelect, Default: model.CommissionPercentage,
				Options: console.Options(model.CommissionPercentage, model.CommissionFixed)},
			{Key: "commissionValue", Label: "Commission Value", Kind: console.KindNumber, Default: "0"},
			{Key: "paymentTerms", Label: "Payment Terms (days)", Kind: console.KindNumber, Default: "7"},
			{Key: "creditLimit", Label: "Credit Limit", Kind: console.KindNumber, Default: "0"},
			{Key: "notes", Label: "Notes", Kind: console.KindTextArea},
		}},
	},
}

func encodeVendor(v model.Vendor) console.Values {
	return console.Values{
		"name":                       v.Name,
		"contactPerson":              v.ContactPerson,
		"phone":                      v.Phone,
		"alternatePhone":             v.AlternatePhone,
		"email":                      v.Email,
		"website":                    v.Website,
		"status":                     v.Status,
		"address":                    v.Address,
		"city":                       v.City,
		"state":                      v.State,
		"pincode":                    v.Pincode,
		"business.gst":               v.Business.GST,
		"business.pan":               v.Business.PAN,
		"business.bankName":          v.Business.BankName,
		"business.accountNumber":     v.Business.AccountNumber,
		"business.ifsc":              v.Business.IFSC,
		"business.accountHolderName": v.Business.AccountHolderName,
		"agreement.commissionType":   v.Agreement.CommissionType,
		"agreement.commissionValue":  fmtDecimal(v.Agreement.CommissionValue),
		"agreement.paymentTerms":     fmtInt(v.Agreement.PaymentTerms),
		"agreement.creditLimit":      fmtDecimal(v.Agreement.CreditLimit),
		"agreement.notes":            v.Agreement.Notes,
	}
}

func decodeVendor(v console.Values) (model.Vendor, error) {
	d := newDecoder(v)
	out := model.Vendor{
		Name:           d.text("name"),
		ContactPerson:  d.text("contactPerson"),
		Phone:          d.text("phone"),
		AlternatePhone: d.text("alternatePhone"),
		Email:          d.text("email"),
		Website:        d.text("website"),
		Status:         d.text("status"),
		Address:        d.text("address"),
		City:           d.text("city"),
		State:          d.text("state"),
		Pincode:        d.text("pincode"),
		Business: model.VendorBusiness{
			GST:               d.text("business.gst"),
			PAN:               d.text("business.pan"),
			BankName:          d.text("business.bankName"),
			AccountNumber:     d.text("business.accountNumber"),
			IFSC:              d.text("business.ifsc"),
			AccountHolderName: d.text("business.accountHolderName"),
		},
		Agreement: model.VendorAgreement{
			CommissionType:  d.text("agreement.commissionType"),
			CommissionValue: d.decimal("agreement.commissionValue"),
			PaymentTerms:    d.int("agreement.paymentTerms"),
			CreditLimit:     d.decimal("agreement.creditLimit"),
			Notes:           d.text("agreement.notes"),
		},
	}
	return out, d.err
}

func commission(a model.VendorAgreement) string {
	if a.CommissionType == model.CommissionFixed {
		return calc.FormatCurrency(a.CommissionValue) + " fixed"
	}
	return a.CommissionValue.String() + "%"
}

func vendorCard(v model.Vendor) console.Card {
	return console.Card{
		Title:    v.Name,
		Subtitle: orDash(v.ContactPerson) + " · " + calc.FormatPhone(v.Phone),
		Status:   v.Status,
		Lines:    []string{orDash(v.City), "Commission " + commission(v.Agreement)},
	}
}

func vendorTabs() []console.Tab[model.Vendor] {
	return []console.Tab[model.Vendor]{
		{Key: "details", Title: "Details", Rows: func(_ context.Context, v model.Vendor) ([]console.Row, error) {
			return []console.Row{
				row("Name", v.Name),
				row("Contact Person", orDash(v.ContactPerson)),
				row("Phone", calc.FormatPhone(v.Phone)),
				row("Email", orDash(v.Email)),
				row("Website", orDash(v.Website)),
				row("Address", orDash(v.Address)),
				row("City", orDash(v.City)),
				row("State", orDash(v.State)),
			}, nil
		}},
		{Key: "business", Title: "Business", Rows: func(_ context.Context, v model.Vendor) ([]console.Row, error) {
			return []console.Row{
				row("GST", orDash(v.Business.GST)),
				row("PAN", orDash(v.Business.PAN)),
				row("Bank", orDash(v.Business.BankName)),
				row("Account", orDash(v.Business.AccountNumber)),
				row("IFSC", orDash(v.Business.IFSC)),
				row("Account Holder", orDash(v.Business.AccountHolderName)),
			}, nil
		}},
		{Key: "agreement", Title: "Agreement", Rows: func(_ context.Context, v model.Vendor) ([]console.Row, error) {
			return []console.Row{
				row("Commission", commission(v.Agreement)),
				row("Payment Terms", fmtInt(v.Agreement.PaymentTerms)+" days"),
				row("Credit Limit", calc.FormatCurrency(v.Agreement.CreditLimit)),
				row("Notes", orDash(v.Agreement.Notes)),
			}, nil
		}},
	}
}

// Vendor describes vehicle suppliers to the console.
func Vendor() *console.Entity[model.Vendor] {
	return &console.Entity[model.Vendor]{
		Key:      "vendors",
		Title:    "Vendors",
		Singular: "Vendor",
		ID:       func(v model.Vendor) string { return v.ID.String() },
		Search: func(v model.Vendor) []string {
			return []string{v.Name, v.ContactPerson, v.Phone, v.City, v.Email}
		},
		Category:   func(v model.Vendor) string { return v.Status },
		Categories: console.Options(vendorStatuses...),
		Schema:     vendorSchema,
		Codec:      console.Codec[model.Vendor]{Encode: encodeVendor, Decode: decodeVendor},
		Tabs:       vendorTabs(),
		Card:       vendorCard,
	}
}
