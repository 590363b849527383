package models

import (
	"fmt"
	"time"
)

// Invoice represents a generated invoice with its derived totals
type Invoice struct {
	ID              int           `json:"id"`
	InvoiceNumber   string        `json:"invoice_number"`
	CustomerName    string        `json:"customer_name"`
	CustomerAddress string        `json:"customer_address"`
	CustomerPhone   string        `json:"customer_phone"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerGST     string        `json:"customer_gst"`
	Subtotal        float64       `json:"subtotal"`
	TaxRate         float64       `json:"tax_rate"`
	TaxAmount       float64       `json:"tax_amount"`
	Total           float64       `json:"total"`
	Status          string        `json:"status"`
	Notes           string        `json:"notes"`
	Terms           string        `json:"terms"`
	InvoiceDate     time.Time     `json:"invoice_date"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Items           []InvoiceItem `json:"items"`
}

// InvoiceItem is one priced line on an invoice. It carries its own copy of
// part number, description and price so the invoice survives later product
// edits or deletion.
type InvoiceItem struct {
	ID          int       `json:"id"`
	InvoiceID   int       `json:"invoice_id"`
	ProductID   *int      `json:"product_id"`
	PartNumber  string    `json:"part_number"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

// InvoiceItemInput is a line item as submitted by the client
type InvoiceItemInput struct {
	ProductID   *int    `json:"product_id"`
	PartNumber  string  `json:"part_number"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateInvoiceRequest represents the request to create an invoice
type CreateInvoiceRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerAddress string             `json:"customer_address"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerGST     string             `json:"customer_gst"`
	TaxRate         *float64           `json:"tax_rate"`
	Notes           string             `json:"notes"`
	Terms           string             `json:"terms"`
	Items           []InvoiceItemInput `json:"items"`
}

// UpdateInvoiceRequest represents a partial invoice update. Nil fields are
// left unchanged; a non-nil Items slice replaces all line items and the
// totals are recomputed.
type UpdateInvoiceRequest struct {
	CustomerName    *string            `json:"customer_name"`
	CustomerAddress *string            `json:"customer_address"`
	CustomerPhone   *string            `json:"customer_phone"`
	CustomerEmail   *string            `json:"customer_email"`
	CustomerGST     *string            `json:"customer_gst"`
	TaxRate         *float64           `json:"tax_rate"`
	Status          *string            `json:"status"`
	Notes           *string            `json:"notes"`
	Terms           *string            `json:"terms"`
	Items           []InvoiceItemInput `json:"items"`
}

// InvoicePage is the paginated invoice listing response
type InvoicePage struct {
	Invoices   []*Invoice `json:"invoices"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}

// FormatInvoiceNumber renders the invoice number for a year and a per-year
// sequence value, e.g. the 7th invoice of 2025 is INV-2025-0007.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
