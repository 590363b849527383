package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
)

const invoiceColumns = `id, invoice_number, customer_name,
	COALESCE(customer_address, '') as customer_address,
	COALESCE(customer_phone, '') as customer_phone,
	COALESCE(customer_email, '') as customer_email,
	COALESCE(customer_gst, '') as customer_gst,
	subtotal, tax_rate, tax_amount, total, status,
	COALESCE(notes, '') as notes, COALESCE(terms, '') as terms,
	invoice_date, created_at, updated_at`

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// nextInvoiceNumber bumps the per-year counter and formats the invoice
// number. The upsert is atomic, so two concurrent creations always see
// distinct sequence values. Runs inside the caller's transaction.
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx, year int) (string, error) {
	var seq int
	err := tx.QueryRow(ctx,
		`INSERT INTO invoice_sequences(year, last_value) VALUES($1, 1)
		 ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		 RETURNING last_value`, year,
	).Scan(&seq)
	if err != nil {
		return "", err
	}
	return models.FormatInvoiceNumber(year, seq), nil
}

// Create inserts an invoice with its items, assigning the next per-year
// invoice number inside the same transaction.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if invoice.InvoiceNumber == "" {
		number, err := nextInvoiceNumber(ctx, tx, time.Now().Year())
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices(invoice_number, customer_name, customer_address, customer_phone,
		                      customer_email, customer_gst, subtotal, tax_rate, tax_amount,
		                      total, status, notes, terms)
		 VALUES($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
		        $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''))
		 RETURNING id, invoice_date, created_at, updated_at`,
		invoice.InvoiceNumber, invoice.CustomerName, invoice.CustomerAddress,
		invoice.CustomerPhone, invoice.CustomerEmail, invoice.CustomerGST,
		invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Total,
		invoice.Status, invoice.Notes, invoice.Terms,
	).Scan(&invoice.ID, &invoice.InvoiceDate, &invoice.CreatedAt, &invoice.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, invoice.ID, items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	invoice.Items = items
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID int, items []models.InvoiceItem) error {
	for i := range items {
		item := &items[i]
		item.InvoiceID = invoiceID
		err := tx.QueryRow(ctx,
			`INSERT INTO invoice_items(invoice_id, product_id, part_number, description, quantity, unit_price, total)
			 VALUES($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			invoiceID, item.ProductID, item.PartNumber, item.Description,
			item.Quantity, item.UnitPrice, item.Total,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerName,
		&inv.CustomerAddress, &inv.CustomerPhone, &inv.CustomerEmail,
		&inv.CustomerGST, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount,
		&inv.Total, &inv.Status, &inv.Notes, &inv.Terms, &inv.InvoiceDate,
		&inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) loadItems(ctx context.Context, invoiceID int) ([]models.InvoiceItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, product_id, part_number, description, quantity, unit_price, total, created_at
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		err := rows.Scan(&item.ID, &item.InvoiceID, &item.ProductID,
			&item.PartNumber, &item.Description, &item.Quantity,
			&item.UnitPrice, &item.Total, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get retrieves an invoice by ID with its items
func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	invoice, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

// List returns a page of invoices, newest first, with items included
func (r *InvoiceRepository) List(ctx context.Context, page, limit int) ([]*models.Invoice, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 ORDER BY invoice_date DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, inv := range invoices {
		items, err := r.loadItems(ctx, inv.ID)
		if err != nil {
			return nil, 0, err
		}
		inv.Items = items
	}
	return invoices, total, nil
}

// Update rewrites the invoice header and, when replaceItems is set, deletes
// and reinserts all line items in one transaction.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem, replaceItems bool) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE invoices
		 SET customer_name=$1, customer_address=NULLIF($2, ''), customer_phone=NULLIF($3, ''),
		     customer_email=NULLIF($4, ''), customer_gst=NULLIF($5, ''), subtotal=$6,
		     tax_rate=$7, tax_amount=$8, total=$9, status=$10, notes=NULLIF($11, ''),
		     terms=NULLIF($12, ''), updated_at=CURRENT_TIMESTAMP
		 WHERE id=$13`,
		invoice.CustomerName, invoice.CustomerAddress, invoice.CustomerPhone,
		invoice.CustomerEmail, invoice.CustomerGST, invoice.Subtotal,
		invoice.TaxRate, invoice.TaxAmount, invoice.Total, invoice.Status,
		invoice.Notes, invoice.Terms, invoice.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, invoice.ID, items); err != nil {
			return err
		}
		invoice.Items = items
	}

	return tx.Commit(ctx)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
