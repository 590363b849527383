package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
)

const productColumns = `id, part_number, manufacturer, description,
	COALESCE(category, '') as category, price, stock,
	COALESCE(image_url, '') as image_url,
	COALESCE(datasheet_url, '') as datasheet_url,
	COALESCE(mouser_url, '') as mouser_url,
	created_at, updated_at`

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.PartNumber, &p.Manufacturer, &p.Description,
		&p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.DatasheetURL,
		&p.MouserURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of products matching the query filters plus the total
// match count. Search matches part number, manufacturer and description
// case-insensitively.
func (r *ProductRepository) List(ctx context.Context, q models.ProductListQuery) ([]*models.Product, int, error) {
	where := "TRUE"
	args := []interface{}{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (part_number ILIKE $%d OR manufacturer ILIKE $%d OR description ILIKE $%d)`, n, n, n)
	}
	if q.Category != "" {
		args = append(args, q.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	var total int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	return scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) GetByPartNumber(ctx context.Context, partNumber string) (*models.Product, error) {
	return scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE part_number = $1`, partNumber))
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO products(part_number, manufacturer, description, category, price, stock, image_url, datasheet_url, mouser_url)
		 VALUES($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		 RETURNING id, created_at, updated_at`,
		p.PartNumber, p.Manufacturer, p.Description, p.Category, p.Price,
		p.Stock, p.ImageURL, p.DatasheetURL, p.MouserURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products
		 SET part_number=$1, manufacturer=$2, description=$3, category=NULLIF($4, ''),
		     price=$5, stock=$6, image_url=NULLIF($7, ''), datasheet_url=NULLIF($8, ''),
		     mouser_url=NULLIF($9, ''), updated_at=CURRENT_TIMESTAMP
		 WHERE id=$10`,
		p.PartNumber, p.Manufacturer, p.Description, p.Category, p.Price,
		p.Stock, p.ImageURL, p.DatasheetURL, p.MouserURL, p.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts the product or, when the part number already exists,
// refreshes price, description, category, image and listing URL while
// keeping the existing row identity. Empty scraped fields never clobber
// existing values. Returns true when a new row was inserted.
func (r *ProductRepository) Upsert(ctx context.Context, p *models.Product) (bool, error) {
	var inserted bool
	err := r.DB.QueryRow(ctx,
		`INSERT INTO products(part_number, manufacturer, description, category, price, stock, image_url, datasheet_url, mouser_url)
		 VALUES($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		 ON CONFLICT (part_number) DO UPDATE SET
		     price = EXCLUDED.price,
		     description = COALESCE(NULLIF(EXCLUDED.description, ''), products.description),
		     category = COALESCE(EXCLUDED.category, products.category),
		     image_url = COALESCE(EXCLUDED.image_url, products.image_url),
		     mouser_url = COALESCE(EXCLUDED.mouser_url, products.mouser_url),
		     updated_at = CURRENT_TIMESTAMP
		 RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`,
		p.PartNumber, p.Manufacturer, p.Description, p.Category, p.Price,
		p.Stock, p.ImageURL, p.DatasheetURL, p.MouserURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &inserted)
	return inserted, err
}

// Categories returns the distinct non-empty product categories
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT DISTINCT category FROM products
		 WHERE category IS NOT NULL AND category <> ''
		 ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
