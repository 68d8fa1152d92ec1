// Package models defines the core data structures shared between the
// storefront client and the development backend.
package models

import "time"

// User represents an authenticated storefront account.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the display name chosen at registration.
	Username string `json:"username"`
	// Email is the login email address.
	Email string `json:"email"`
	// IsAdmin marks accounts allowed to manage products.
	IsAdmin bool `json:"isAdmin"`
	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Product represents a catalog item.
type Product struct {
	// ID is the unique identifier for the product.
	ID string `json:"id"`
	// Name is the product title shown in listings.
	Name string `json:"name"`
	// Description holds the long-form product text.
	Description string `json:"description"`
	// Price is the unit price.
	Price float64 `json:"price"`
	// Category is the catalog category the product belongs to.
	Category string `json:"category"`
	// ImageURL points at the product image.
	ImageURL string `json:"imageUrl"`
	// Stock is the number of units available.
	Stock int `json:"stock"`
	// CreatedAt is the catalog insertion timestamp.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// CartItem is one line of a cart: a product plus the quantity in the cart.
type CartItem struct {
	// Item embeds the product fields needed for display.
	Item Product `json:"item"`
	// Quantity is always >= 1; a line that would drop to 0 is removed
	// by the server, never kept at zero.
	Quantity int `json:"quantity"`
}

// Cart is the authoritative cart snapshot. Totals are computed by the
// server; the client replaces the whole snapshot from responses and never
// accumulates locally.
type Cart struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	TotalItems  int        `json:"totalItems"`
}

// ProductFilter captures the supported catalog query parameters.
type ProductFilter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// Sort keys accepted by the product listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)
