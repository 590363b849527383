package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/repositories"
)

type fakeProductStore struct {
	products map[int]*models.Product
	nextID   int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[int]*models.Product{}}
}

func (f *fakeProductStore) List(ctx context.Context, q models.ProductListQuery) ([]*models.Product, int, error) {
	out := make([]*models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductStore) Create(ctx context.Context, p *models.Product) error {
	for _, existing := range f.products {
		if existing.PartNumber == p.PartNumber {
			return repositories.ErrDuplicate
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) Upsert(ctx context.Context, p *models.Product) (bool, error) {
	for _, existing := range f.products {
		if existing.PartNumber == p.PartNumber {
			*existing = *p
			return false, nil
		}
	}
	return true, f.Create(ctx, p)
}

func (f *fakeProductStore) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func validProductRequest() *models.CreateProductRequest {
	return &models.CreateProductRequest{
		PartNumber:   "LM358P",
		Manufacturer: "Texas Instruments",
		Description:  "Dual Op-Amp",
		Category:     "Integrated Circuit",
		Price:        float64Ptr(0.45),
		Stock:        100,
	}
}

func TestCreateProduct(t *testing.T) {
	svc := NewProductService(newFakeProductStore())

	product, err := svc.CreateProduct(context.Background(), validProductRequest())
	require.NoError(t, err)

	assert.NotZero(t, product.ID)
	assert.Equal(t, "LM358P", product.PartNumber)
	assert.Equal(t, 0.45, product.Price)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(newFakeProductStore())
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.CreateProductRequest)
		wantErr error
	}{
		{"missing part number", func(r *models.CreateProductRequest) { r.PartNumber = " " }, ErrProductFieldsRequired},
		{"missing manufacturer", func(r *models.CreateProductRequest) { r.Manufacturer = "" }, ErrProductFieldsRequired},
		{"missing price", func(r *models.CreateProductRequest) { r.Price = nil }, ErrProductFieldsRequired},
		{"negative price", func(r *models.CreateProductRequest) { r.Price = float64Ptr(-1) }, ErrPriceNegative},
		{"negative stock", func(r *models.CreateProductRequest) { r.Stock = -1 }, ErrStockNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProductRequest()
			tt.mutate(req)
			_, err := svc.CreateProduct(ctx, req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestCreateProductZeroPriceAllowed(t *testing.T) {
	svc := NewProductService(newFakeProductStore())

	req := validProductRequest()
	req.Price = float64Ptr(0)
	product, err := svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, product.Price)
}

func TestCreateProductDuplicatePartNumber(t *testing.T) {
	svc := NewProductService(newFakeProductStore())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, validProductRequest())
	assert.True(t, errors.Is(err, ErrProductExists))
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := NewProductService(newFakeProductStore())

	_, err := svc.UpdateProduct(context.Background(), 42, validProductRequest())
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestListProductsNormalizesPaging(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	page, err := svc.ListProducts(ctx, models.ProductListQuery{Page: -3, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestCategoriesFallsBackToStore(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Integrated Circuit"}, categories)
}
