package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
)

// DefaultTaxRate is the GST percentage applied when a request omits one
const DefaultTaxRate = 18.0

// Validation failures, each one distinct so callers can tell which rule
// was violated. Item errors are wrapped with the item position.
var (
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrNoItems              = errors.New("invoice must have at least one item")
	ErrItemIdentityRequired = errors.New("all items must have a part number and description")
	ErrItemQuantityInvalid  = errors.New("all items must have a quantity greater than 0")
	ErrItemPriceInvalid     = errors.New("all items must have a non-negative unit price")
)

// InvoiceStore is the persistence surface the service needs
type InvoiceStore interface {
	Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error
	Get(ctx context.Context, id int) (*models.Invoice, error)
	List(ctx context.Context, page, limit int) ([]*models.Invoice, int, error)
	Update(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem, replaceItems bool) error
	Delete(ctx context.Context, id int) error
}

type InvoiceService struct {
	Store InvoiceStore
}

func NewInvoiceService(store InvoiceStore) *InvoiceService {
	return &InvoiceService{Store: store}
}

// InvoiceTotals holds the derived monetary fields, all rounded to 2
// decimal places
type InvoiceTotals struct {
	Subtotal   float64
	TaxAmount  float64
	Total      float64
	LineTotals []float64
}

// ComputeInvoiceTotals derives line totals, subtotal, tax and grand total.
// Each line total is rounded to 2 decimals before summing, the tax is
// computed on the sum of rounded line totals, and every stored figure is
// exact to 2 decimals. Decimal arithmetic keeps repeated sums free of
// float drift.
func ComputeInvoiceTotals(items []models.InvoiceItemInput, taxRate float64) InvoiceTotals {
	subtotal := decimal.Zero
	lineTotals := make([]float64, len(items))

	for i, item := range items {
		line := decimal.NewFromInt(int64(item.Quantity)).
			Mul(decimal.NewFromFloat(item.UnitPrice)).
			Round(2)
		lineTotals[i] = line.InexactFloat64()
		subtotal = subtotal.Add(line)
	}

	tax := subtotal.
		Mul(decimal.NewFromFloat(taxRate)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	total := subtotal.Add(tax).Round(2)

	return InvoiceTotals{
		Subtotal:   subtotal.InexactFloat64(),
		TaxAmount:  tax.InexactFloat64(),
		Total:      total.InexactFloat64(),
		LineTotals: lineTotals,
	}
}

func validateInvoice(customerName string, items []models.InvoiceItemInput) error {
	if strings.TrimSpace(customerName) == "" {
		return ErrCustomerNameRequired
	}
	if len(items) == 0 {
		return ErrNoItems
	}
	for i, item := range items {
		if strings.TrimSpace(item.PartNumber) == "" || strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("item %d: %w", i+1, ErrItemIdentityRequired)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: %w", i+1, ErrItemQuantityInvalid)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("item %d: %w", i+1, ErrItemPriceInvalid)
		}
	}
	return nil
}

func resolveTaxRate(rate *float64) float64 {
	if rate == nil || *rate < 0 {
		return DefaultTaxRate
	}
	return *rate
}

func buildItems(inputs []models.InvoiceItemInput, lineTotals []float64) []models.InvoiceItem {
	items := make([]models.InvoiceItem, len(inputs))
	for i, in := range inputs {
		items[i] = models.InvoiceItem{
			ProductID:   in.ProductID,
			PartNumber:  strings.TrimSpace(in.PartNumber),
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   decimal.NewFromFloat(in.UnitPrice).Round(2).InexactFloat64(),
			Total:       lineTotals[i],
		}
	}
	return items
}

// CreateInvoice validates the request, computes the totals, assigns the
// next per-year invoice number and persists invoice plus items atomically.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := validateInvoice(req.CustomerName, req.Items); err != nil {
		return nil, err
	}

	taxRate := resolveTaxRate(req.TaxRate)
	totals := ComputeInvoiceTotals(req.Items, taxRate)

	invoice := &models.Invoice{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerGST:     req.CustomerGST,
		Subtotal:        totals.Subtotal,
		TaxRate:         taxRate,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
		Status:          "pending",
		Notes:           req.Notes,
		Terms:           req.Terms,
	}

	if err := s.Store.Create(ctx, invoice, buildItems(req.Items, totals.LineTotals)); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	return s.Store.Get(ctx, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context, page, limit int) (*models.InvoicePage, error) {
	page, limit = normalizePage(page, limit)

	invoices, total, err := s.Store.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}
	return &models.InvoicePage{
		Invoices:   invoices,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateInvoice applies a partial update. When items are supplied they
// replace the existing lines and all totals are recomputed; a tax rate
// change alone also recomputes tax and total from the stored subtotal so
// the derived fields stay consistent.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	invoice, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		invoice.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerAddress != nil {
		invoice.CustomerAddress = *req.CustomerAddress
	}
	if req.CustomerPhone != nil {
		invoice.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		invoice.CustomerEmail = *req.CustomerEmail
	}
	if req.CustomerGST != nil {
		invoice.CustomerGST = *req.CustomerGST
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.Terms != nil {
		invoice.Terms = *req.Terms
	}
	if req.TaxRate != nil {
		invoice.TaxRate = resolveTaxRate(req.TaxRate)
	}

	// Validate the invoice as it will be stored, whether or not the
	// request touched the offending field
	replaceItems := req.Items != nil
	effectiveItems := req.Items
	if !replaceItems {
		effectiveItems = inputsFromItems(invoice.Items)
	}
	if err := validateInvoice(invoice.CustomerName, effectiveItems); err != nil {
		return nil, err
	}

	var items []models.InvoiceItem
	if replaceItems {
		totals := ComputeInvoiceTotals(req.Items, invoice.TaxRate)
		invoice.Subtotal = totals.Subtotal
		invoice.TaxAmount = totals.TaxAmount
		invoice.Total = totals.Total
		items = buildItems(req.Items, totals.LineTotals)
	} else if req.TaxRate != nil {
		subtotal := decimal.NewFromFloat(invoice.Subtotal)
		tax := subtotal.Mul(decimal.NewFromFloat(invoice.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
		invoice.TaxAmount = tax.InexactFloat64()
		invoice.Total = subtotal.Add(tax).Round(2).InexactFloat64()
	}

	if err := s.Store.Update(ctx, invoice, items, replaceItems); err != nil {
		return nil, err
	}
	return invoice, nil
}

func inputsFromItems(items []models.InvoiceItem) []models.InvoiceItemInput {
	inputs := make([]models.InvoiceItemInput, len(items))
	for i, item := range items {
		inputs[i] = models.InvoiceItemInput{
			ProductID:   item.ProductID,
			PartNumber:  item.PartNumber,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return inputs
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int) error {
	return s.Store.Delete(ctx, id)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
