package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
)

// ellipsize shortens cell text to at most max runes, ending with "..."
// when cut. Counting runes keeps multi-byte characters intact.
func ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// RenderInvoicePDF produces an A4 invoice document for download
func RenderInvoicePDF(invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 10, "Khushi Semitronics", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 5, "Electronic Components & Semiconductors", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(95, 7, fmt.Sprintf("Invoice: %s", invoice.InvoiceNumber), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", invoice.CreatedAt.Format("02-Jan-2006")), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Status: %s", invoice.Status), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Customer block
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Bill To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", invoice.CustomerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", invoice.CustomerPhone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", invoice.CustomerEmail), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("GSTIN: %s", invoice.CustomerGST), "RB", 1, "L", false, 0, "")
	if invoice.CustomerAddress != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Address: %s", invoice.CustomerAddress), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Part Number", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, item := range invoice.Items {
		description := ellipsize(item.Description, 48)
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, item.PartNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(75, 6, description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("Rs. %.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("Rs. %.2f", item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(140, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, fmt.Sprintf("Rs. %.2f", invoice.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(140, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, fmt.Sprintf("Tax (%.1f%%):", invoice.TaxRate), "", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, fmt.Sprintf("Rs. %.2f", invoice.TaxAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Total:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, fmt.Sprintf("Rs. %.2f", invoice.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(5)

	if invoice.Notes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(190, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, invoice.Notes, "", "L", false)
		pdf.Ln(2)
	}
	if invoice.Terms != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(190, 6, "Terms & Conditions", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, invoice.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
