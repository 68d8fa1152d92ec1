package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// Listing page bounds.
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// ProductRepository defines the persistence operations required by the
// product service.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	ByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

// ProductService implements catalog browsing and the admin product
// management operations.
type ProductService struct {
	repo ProductRepository
}

// NewProductService constructs a ProductService with the provided
// repository.
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductPage is one page of listing results.
type ProductPage struct {
	Items []models.Product
	Total int
	Page  int
	Pages int
}

// List normalizes the filter's pagination and returns the matching page.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) (ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ProductPage{}, err
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	return ProductPage{Items: items, Total: total, Page: filter.Page, Pages: pages}, nil
}

// Get fetches one product.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Categories lists the catalog's distinct categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func validateProduct(p models.Product) error {
	if p.Name == "" {
		return validationError("product name is required")
	}
	if p.Price <= 0 {
		return validationError("price must be greater than zero")
	}
	if p.Category == "" {
		return validationError("category is required")
	}
	if p.Stock < 0 {
		return validationError("stock cannot be negative")
	}
	return nil
}

// Create validates and inserts a new product, assigning its ID.
func (s *ProductService) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update validates and replaces an existing product's fields.
func (s *ProductService) Update(ctx context.Context, id string, p models.Product) (*models.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.ID = id
	found, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
