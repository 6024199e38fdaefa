// Package report renders invoices and tabular reports as PDF.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// CompanyName is printed in every header.
var CompanyName = "Fleet Admin"

// core fonts are latin-1, so amounts use Rs. instead of the rupee sign.
func money(d decimal.Decimal) string {
	return "Rs. " + calc.FormatAmount(d)
}

func header(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, CompanyName)
	pdf.Ln(10)
}

// Invoice renders one payment with its line items.
func Invoice(p model.Payment, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+p.InvoiceNumber, false)
	pdf.AddPage()
	header(pdf, "INVOICE")

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Invoice No : " + p.InvoiceNumber,
		"Booking    : " + dash(p.BookingNumber),
		"Date       : " + now.Format("02 Jan 2006"),
		"Due date   : " + dash(calc.FormatDate(p.DueDate)),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed to:")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, dash(p.CustomerName))
	pdf.Ln(6)
	if p.CustomerPhone != "" {
		pdf.Cell(0, 6, calc.FormatPhone(p.CustomerPhone))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{90, 25, 35, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range []string{"Description", "Qty", "Rate", "Amount"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, align(i), true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, it := range p.Items {
		pdf.CellFormat(widths[0], 7, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, it.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(it.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(it.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	totals := [][2]string{
		{"Subtotal", money(p.Subtotal)},
		{fmt.Sprintf("Tax (%s%%)", p.TaxPercent.String()), money(p.TaxAmount)},
		{"Discount", money(p.Discount)},
		{"Total", money(p.TotalAmount)},
		{"Paid", money(p.PaidAmount)},
		{"Balance", money(p.Balance)},
	}
	for _, t := range totals {
		style := ""
		if t[0] == "Total" || t[0] == "Balance" {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(150, 7, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, t[1], "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if p.Terms != "" || p.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, strings.TrimSpace(p.Terms+"\n"+p.Notes), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Table renders a report as a landscape table.
func Table(r model.Report) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(r.Kind+" report", false)
	pdf.AddPage()
	header(pdf, strings.ToUpper(r.Kind)+" REPORT")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s to %s", r.Start.Format("02 Jan 2006"), r.End.Format("02 Jan 2006")))
	pdf.Ln(10)

	if len(r.Columns) > 0 {
		w := 277.0 / float64(len(r.Columns))
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		for _, c := range r.Columns {
			pdf.CellFormat(w, 7, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for _, row := range r.Rows {
			for _, v := range row {
				pdf.CellFormat(w, 6, pdfSafe(v), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if len(r.Totals) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		for _, t := range r.Totals {
			pdf.Cell(0, 6, t.Label+": "+pdfSafe(t.Value))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func align(col int) string {
	if col == 0 {
		return "L"
	}
	return "R"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func pdfSafe(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs. ")
}
