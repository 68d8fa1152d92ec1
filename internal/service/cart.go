package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// CartRepository defines the persistence operations required by the cart
// service.
type CartRepository interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error)
	RemoveItem(ctx context.Context, userID, productID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

// CartService implements cart operations. Every mutation returns the full
// recomputed snapshot: the server is the single source of truth for
// totals, and clients mirror what it returns.
type CartService struct {
	repo     CartRepository
	products ProductRepository
}

// NewCartService constructs a CartService over the cart and product
// repositories.
func NewCartService(repo CartRepository, products ProductRepository) *CartService {
	return &CartService{repo: repo, products: products}
}

// Cart loads the user's cart and computes its totals.
func (s *CartService) Cart(ctx context.Context, userID string) (models.Cart, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	cart := models.Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	for _, line := range items {
		cart.TotalItems += line.Quantity
		cart.TotalAmount += line.Item.Price * float64(line.Quantity)
	}
	return cart, nil
}

// Add puts quantity units of the product into the cart and returns the
// new snapshot.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, validationError("quantity must be at least 1")
	}
	if _, err := s.products.ByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Cart{}, ErrNotFound
		}
		return models.Cart{}, fmt.Errorf("check product: %w", err)
	}

	if err := s.repo.AddItem(ctx, userID, productID, quantity); err != nil {
		return models.Cart{}, err
	}
	return s.Cart(ctx, userID)
}

// Update sets a line's quantity. Quantity 0 removes the line; a line is
// never stored with quantity below 1.
func (s *CartService) Update(ctx context.Context, userID, productID string, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return models.Cart{}, validationError("quantity cannot be negative")
	}

	var found bool
	var err error
	if quantity == 0 {
		found, err = s.repo.RemoveItem(ctx, userID, productID)
	} else {
		found, err = s.repo.SetQuantity(ctx, userID, productID, quantity)
	}
	if err != nil {
		return models.Cart{}, err
	}
	if !found {
		return models.Cart{}, ErrNotFound
	}
	return s.Cart(ctx, userID)
}

// Remove deletes a line from the cart.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (models.Cart, error) {
	found, err := s.repo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if !found {
		return models.Cart{}, ErrNotFound
	}
	return s.Cart(ctx, userID)
}

// Clear empties the cart and returns the empty snapshot.
func (s *CartService) Clear(ctx context.Context, userID string) (models.Cart, error) {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return models.Cart{}, err
	}
	return s.Cart(ctx, userID)
}
