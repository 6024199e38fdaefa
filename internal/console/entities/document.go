package entities

import (
	"bytes"
	"context"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
)

var docCategories = []string{model.DocCategoryVehicle, model.DocCategoryBooking, model.DocCategoryVendor, model.DocCategoryOther}

// documentSections gives every category its own type select and reference
// field, shown only while that category is picked.
func documentSections() []console.Section {
	refs := map[string]console.Field{
		model.DocCategoryVehicle: {Key: "vehicleNumber", Label: "Vehicle Number", Required: true, Validator: "vehicle_plate"},
		model.DocCategoryBooking: {Key: "bookingId", Label: "Booking ID", Required: true},
		model.DocCategoryVendor:  {Key: "vendorId", Label: "Vendor ID", Required: true},
	}
	sections := []console.Section{{Key: "", Title: "Document", Fields: []console.Field{
		{Key: "category", Label: "Category", Kind: console.KindSelect, Required: true, Default: model.DocCategoryVehicle, Options: console.Options(docCategories...)},
	}}}
	for _, cat := range docCategories {
		fields := []console.Field{{Key: "type", Label: "Document Type", Kind: console.KindSelect, Required: true, Options: console.Options(model.DocumentTypes[cat]...)}}
		if ref, ok := refs[cat]; ok {
			fields = append(fields, ref)
		}
		sections = append(sections, console.Section{
			Key:      cat,
			Title:    console.Humanize(cat) + " Document",
			ShowWhen: &console.Condition{Field: "category", Values: []string{cat}},
			Fields:   fields,
		})
	}
	return append(sections, console.Section{Key: "", Title: "Details", Fields: []console.Field{
		{Key: "expiryDate", Label: "Expiry Date", Kind: console.KindDate},
		{Key: "notes", Label: "Notes", Kind: console.KindTextArea},
	}})
}

var documentSchema = console.Schema{Sections: documentSections()}

func encodeDocument(doc model.Document) console.Values {
	v := console.Values{
		"category":   doc.Category,
		"expiryDate": fmtDate(doc.ExpiryDate),
		"notes":      doc.Notes,
	}
	for _, cat := range docCategories {
		v[cat+".type"] = ""
	}
	v[doc.Category+".type"] = doc.Type
	v["vehicle.vehicleNumber"] = doc.VehicleNumber
	v["booking.bookingId"] = doc.BookingID
	v["vendor.vendorId"] = doc.VendorID
	return v
}

func decodeDocument(v console.Values) (model.Document, error) {
	d := newDecoder(v)
	doc := model.Document{
		Category:   d.text("category"),
		ExpiryDate: d.date("expiryDate"),
		Notes:      d.text("notes"),
	}
	doc.Type = d.text(doc.Category + ".type")
	switch doc.Category {
	case model.DocCategoryVehicle:
		doc.VehicleNumber = d.text("vehicle.vehicleNumber")
	case model.DocCategoryBooking:
		doc.BookingID = d.text("booking.bookingId")
	case model.DocCategoryVendor:
		doc.VendorID = d.text("vendor.vendorId")
	}
	return doc, d.err
}

func documentFields(doc model.Document) map[string]string {
	fields := map[string]string{
		"category":      doc.Category,
		"type":          doc.Type,
		"vehicleNumber": doc.VehicleNumber,
		"bookingId":     doc.BookingID,
		"vendorId":      doc.VendorID,
		"notes":         doc.Notes,
	}
	if doc.ExpiryDate != nil {
		fields["expiryDate"] = fmtDate(doc.ExpiryDate)
	}
	for k, val := range fields {
		if val == "" {
			delete(fields, k)
		}
	}
	return fields
}

// documentUploader sends the metadata and the file as one multipart POST.
func documentUploader(res *apiclient.Resource[model.Document]) console.Uploader[model.Document] {
	return func(ctx context.Context, doc model.Document, file console.Attachment) (*model.Document, error) {
		var out model.Document
		if err := res.Client().Upload(ctx, res.Path(), documentFields(doc), file.Name, bytes.NewReader(file.Data), &out); err != nil {
			return nil, err
		}
		return &out, nil
	}
}

func documentReference(doc model.Document) string {
	switch doc.Category {
	case model.DocCategoryVehicle:
		return doc.VehicleNumber
	case model.DocCategoryBooking:
		return doc.BookingID
	case model.DocCategoryVendor:
		return doc.VendorID
	}
	return ""
}

func documentCard(doc model.Document) console.Card {
	lines := []string{orDash(documentReference(doc)), doc.FileName}
	if doc.ExpiryDate != nil {
		lines = append(lines, "Expires "+calc.FormatDate(doc.ExpiryDate))
	}
	return console.Card{
		Title:    console.Humanize(doc.Type),
		Subtitle: console.Humanize(doc.Category) + " · uploaded by " + orDash(doc.UploadedBy),
		Status:   doc.Category,
		Lines:    lines,
		Link:     "/documents/" + doc.ID.String() + "/file",
	}
}

// Document describes uploaded files to the console. Creating one uploads
// its file; editing changes metadata only.
func Document(res *apiclient.Resource[model.Document]) *console.Entity[model.Document] {
	return &console.Entity[model.Document]{
		Key:      "documents",
		Title:    "Documents",
		Singular: "Document",
		ID:       func(doc model.Document) string { return doc.ID.String() },
		Search: func(doc model.Document) []string {
			return []string{doc.Type, doc.FileName, doc.VehicleNumber, doc.BookingID, doc.VendorID, doc.Notes}
		},
		Category:   func(doc model.Document) string { return doc.Category },
		Categories: console.Options(docCategories...),
		Schema:     documentSchema,
		Codec:      console.Codec[model.Document]{Encode: encodeDocument, Decode: decodeDocument},
		Card:       documentCard,
		Upload:     documentUploader(res),
	}
}
