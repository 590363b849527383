package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/repositories"
)

type fakeInvoiceStore struct {
	invoices map[int]*models.Invoice
	nextID   int
	nextSeq  int
	lastRepl bool
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{invoices: map[int]*models.Invoice{}}
}

func (f *fakeInvoiceStore) Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error {
	f.nextID++
	f.nextSeq++
	invoice.ID = f.nextID
	invoice.InvoiceNumber = models.FormatInvoiceNumber(time.Now().Year(), f.nextSeq)
	invoice.CreatedAt = time.Now()
	invoice.Items = items
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceStore) Get(ctx context.Context, id int) (*models.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *invoice
	return &clone, nil
}

func (f *fakeInvoiceStore) List(ctx context.Context, page, limit int) ([]*models.Invoice, int, error) {
	out := make([]*models.Invoice, 0, len(f.invoices))
	for _, invoice := range f.invoices {
		out = append(out, invoice)
	}
	return out, len(f.invoices), nil
}

func (f *fakeInvoiceStore) Update(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem, replaceItems bool) error {
	if _, ok := f.invoices[invoice.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.lastRepl = replaceItems
	if replaceItems {
		invoice.Items = items
	}
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.invoices[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.invoices, id)
	return nil
}

func float64Ptr(v float64) *float64 { return &v }

func TestComputeInvoiceTotals(t *testing.T) {
	items := []models.InvoiceItemInput{
		{PartNumber: "LM358", Description: "Op-amp", Quantity: 2, UnitPrice: 10.00},
		{PartNumber: "1N4148", Description: "Diode", Quantity: 1, UnitPrice: 5.50},
	}

	totals := ComputeInvoiceTotals(items, 18)

	assert.Equal(t, 25.50, totals.Subtotal)
	assert.Equal(t, 4.59, totals.TaxAmount)
	assert.Equal(t, 30.09, totals.Total)
	assert.Equal(t, []float64{20.00, 5.50}, totals.LineTotals)
}

func TestComputeInvoiceTotalsRounding(t *testing.T) {
	// 3 x 0.333 = 0.999, rounds to 1.00 per line before summing
	items := []models.InvoiceItemInput{
		{PartNumber: "R1", Description: "Resistor", Quantity: 3, UnitPrice: 0.333},
	}

	totals := ComputeInvoiceTotals(items, 10)

	assert.Equal(t, 1.00, totals.Subtotal)
	assert.Equal(t, 0.10, totals.TaxAmount)
	assert.Equal(t, 1.10, totals.Total)
}

func TestComputeInvoiceTotalsZeroRate(t *testing.T) {
	items := []models.InvoiceItemInput{
		{PartNumber: "C1", Description: "Capacitor", Quantity: 4, UnitPrice: 2.25},
	}

	totals := ComputeInvoiceTotals(items, 0)

	assert.Equal(t, 9.00, totals.Subtotal)
	assert.Equal(t, 0.00, totals.TaxAmount)
	assert.Equal(t, 9.00, totals.Total)
}

func TestCreateInvoiceDefaults(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)

	invoice, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		CustomerName: "Acme Electronics",
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 2, UnitPrice: 10.00},
			{PartNumber: "1N4148", Description: "Diode", Quantity: 1, UnitPrice: 5.50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", invoice.Status)
	assert.Equal(t, DefaultTaxRate, invoice.TaxRate)
	assert.Equal(t, 25.50, invoice.Subtotal)
	assert.Equal(t, 4.59, invoice.TaxAmount)
	assert.Equal(t, 30.09, invoice.Total)
	assert.Len(t, invoice.Items, 2)
	assert.Equal(t, 20.00, invoice.Items[0].Total)
}

func TestCreateInvoiceExplicitZeroTaxRate(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)

	invoice, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		CustomerName: "Acme Electronics",
		TaxRate:      float64Ptr(0),
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, invoice.TaxRate)
	assert.Equal(t, 100.0, invoice.Total)
}

func TestCreateInvoiceNegativeTaxRateFallsBack(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)

	invoice, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		CustomerName: "Acme Electronics",
		TaxRate:      float64Ptr(-5),
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultTaxRate, invoice.TaxRate)
}

func TestCreateInvoiceValidation(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)
	ctx := context.Background()

	validItems := []models.InvoiceItemInput{
		{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: 10},
	}

	tests := []struct {
		name    string
		req     *models.CreateInvoiceRequest
		wantErr error
	}{
		{
			name:    "missing customer name",
			req:     &models.CreateInvoiceRequest{CustomerName: "  ", Items: validItems},
			wantErr: ErrCustomerNameRequired,
		},
		{
			name:    "no items",
			req:     &models.CreateInvoiceRequest{CustomerName: "Acme"},
			wantErr: ErrNoItems,
		},
		{
			name: "missing part number",
			req: &models.CreateInvoiceRequest{CustomerName: "Acme", Items: []models.InvoiceItemInput{
				{Description: "Op-amp", Quantity: 1, UnitPrice: 10},
			}},
			wantErr: ErrItemIdentityRequired,
		},
		{
			name: "missing description",
			req: &models.CreateInvoiceRequest{CustomerName: "Acme", Items: []models.InvoiceItemInput{
				{PartNumber: "LM358", Quantity: 1, UnitPrice: 10},
			}},
			wantErr: ErrItemIdentityRequired,
		},
		{
			name: "zero quantity",
			req: &models.CreateInvoiceRequest{CustomerName: "Acme", Items: []models.InvoiceItemInput{
				{PartNumber: "LM358", Description: "Op-amp", Quantity: 0, UnitPrice: 10},
			}},
			wantErr: ErrItemQuantityInvalid,
		},
		{
			name: "negative unit price",
			req: &models.CreateInvoiceRequest{CustomerName: "Acme", Items: []models.InvoiceItemInput{
				{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: -1},
			}},
			wantErr: ErrItemPriceInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(ctx, tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
	assert.Empty(t, store.invoices)
}

func TestUpdateInvoiceReplacesItems(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)
	ctx := context.Background()

	created, err := svc.CreateInvoice(ctx, &models.CreateInvoiceRequest{
		CustomerName: "Acme",
		TaxRate:      float64Ptr(18),
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: 10},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateInvoice(ctx, created.ID, &models.UpdateInvoiceRequest{
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 2, UnitPrice: 10.00},
			{PartNumber: "1N4148", Description: "Diode", Quantity: 1, UnitPrice: 5.50},
		},
	})
	require.NoError(t, err)

	assert.True(t, store.lastRepl)
	assert.Equal(t, 25.50, updated.Subtotal)
	assert.Equal(t, 4.59, updated.TaxAmount)
	assert.Equal(t, 30.09, updated.Total)
	assert.Len(t, updated.Items, 2)
}

func TestUpdateInvoiceTaxRateOnlyRecomputes(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)
	ctx := context.Background()

	created, err := svc.CreateInvoice(ctx, &models.CreateInvoiceRequest{
		CustomerName: "Acme",
		TaxRate:      float64Ptr(18),
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateInvoice(ctx, created.ID, &models.UpdateInvoiceRequest{
		TaxRate: float64Ptr(5),
	})
	require.NoError(t, err)

	assert.False(t, store.lastRepl)
	assert.Equal(t, 100.0, updated.Subtotal)
	assert.Equal(t, 5.0, updated.TaxAmount)
	assert.Equal(t, 105.0, updated.Total)
}

func TestUpdateInvoiceRejectsEmptyCustomerName(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store)
	ctx := context.Background()

	created, err := svc.CreateInvoice(ctx, &models.CreateInvoiceRequest{
		CustomerName: "Acme",
		Items: []models.InvoiceItemInput{
			{PartNumber: "LM358", Description: "Op-amp", Quantity: 1, UnitPrice: 10},
		},
	})
	require.NoError(t, err)

	// Blanking the name must fail even when the update only carries a tax
	// rate and no items
	empty := ""
	_, err = svc.UpdateInvoice(ctx, created.ID, &models.UpdateInvoiceRequest{
		CustomerName: &empty,
		TaxRate:      float64Ptr(18),
	})
	assert.True(t, errors.Is(err, ErrCustomerNameRequired))

	stored, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.CustomerName)

	// Same rule without the tax rate
	_, err = svc.UpdateInvoice(ctx, created.ID, &models.UpdateInvoiceRequest{
		CustomerName: &empty,
	})
	assert.True(t, errors.Is(err, ErrCustomerNameRequired))
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceStore())

	_, err := svc.UpdateInvoice(context.Background(), 42, &models.UpdateInvoiceRequest{})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-0007", models.FormatInvoiceNumber(2025, 7))
	assert.Equal(t, "INV-2026-0001", models.FormatInvoiceNumber(2026, 1))
	assert.Equal(t, "INV-2025-10001", models.FormatInvoiceNumber(2025, 10001))
}
