package services

import (
	"context"
	"errors"
	"strings"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/cache"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/repositories"
)

var (
	ErrProductFieldsRequired = errors.New("part number, manufacturer and price are required")
	ErrProductExists         = errors.New("a product with this part number already exists")
	ErrPriceNegative         = errors.New("price cannot be negative")
	ErrStockNegative         = errors.New("stock cannot be negative")
)

// ProductStore is the persistence surface the service needs
type ProductStore interface {
	List(ctx context.Context, q models.ProductListQuery) ([]*models.Product, int, error)
	Get(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
	Upsert(ctx context.Context, p *models.Product) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

type ProductService struct {
	Store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{Store: store}
}

func (s *ProductService) ListProducts(ctx context.Context, q models.ProductListQuery) (*models.ProductPage, error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)

	products, total, err := s.Store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*models.Product{}
	}
	return &models.ProductPage{
		Products:   products,
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages(total, q.Limit),
	}, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Store.Get(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, err
	}
	s.invalidateCategories(ctx)
	return product, nil
}

// UpdateProduct replaces every field with the request values
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *models.CreateProductRequest) (*models.Product, error) {
	product, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.Store.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, err
	}
	s.invalidateCategories(ctx)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCategories(ctx)
	return nil
}

// Categories serves the distinct category list from Redis when a cached
// copy exists, falling back to the database otherwise
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := cache.GetCachedCategories(ctx); ok {
		return cached, nil
	}
	categories, err := s.Store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	cache.CacheCategories(ctx, categories)
	return categories, nil
}

func (s *ProductService) invalidateCategories(ctx context.Context) {
	cache.InvalidateCategories(ctx)
}

func productFromRequest(req *models.CreateProductRequest) (*models.Product, error) {
	partNumber := strings.TrimSpace(req.PartNumber)
	manufacturer := strings.TrimSpace(req.Manufacturer)
	if partNumber == "" || manufacturer == "" || req.Price == nil {
		return nil, ErrProductFieldsRequired
	}
	if *req.Price < 0 {
		return nil, ErrPriceNegative
	}
	if req.Stock < 0 {
		return nil, ErrStockNegative
	}
	return &models.Product{
		PartNumber:   partNumber,
		Manufacturer: manufacturer,
		Description:  strings.TrimSpace(req.Description),
		Category:     strings.TrimSpace(req.Category),
		Price:        *req.Price,
		Stock:        req.Stock,
		ImageURL:     req.ImageURL,
		DatasheetURL: req.DatasheetURL,
		MouserURL:    req.MouserURL,
	}, nil
}
