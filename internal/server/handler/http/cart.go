package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/middleware"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// CartService defines the interface for cart operations required by the
// HTTP handlers. Every mutation returns the recomputed snapshot.
type CartService interface {
	Cart(ctx context.Context, userID string) (models.Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) (models.Cart, error)
	Update(ctx context.Context, userID, productID string, quantity int) (models.Cart, error)
	Remove(ctx context.Context, userID, productID string) (models.Cart, error)
	Clear(ctx context.Context, userID string) (models.Cart, error)
}

// CartHandler handles HTTP requests for the authenticated user's cart.
// All routes sit behind BearerAuth.
type CartHandler struct {
	CartService CartService
}

// CartItemRequest is the JSON payload for cart add and update.
type CartItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity *int   `json:"quantity"`
}

func (h *CartHandler) respondCart(w http.ResponseWriter, cart models.Cart, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	cart, err := h.CartService.Cart(r.Context(), user.ID)
	h.respondCart(w, cart, err)
}

// Add handles POST /api/cart/add. An omitted quantity defaults to 1.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	user := middleware.UserFromContext(r.Context())
	cart, err := h.CartService.Add(r.Context(), user.ID, req.ItemID, quantity)
	h.respondCart(w, cart, err)
}

// Update handles PUT /api/cart/update. Quantity 0 removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user := middleware.UserFromContext(r.Context())
	cart, err := h.CartService.Update(r.Context(), user.ID, req.ItemID, *req.Quantity)
	h.respondCart(w, cart, err)
}

// Remove handles DELETE /api/cart/remove/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	cart, err := h.CartService.Remove(r.Context(), user.ID, chi.URLParam(r, "id"))
	h.respondCart(w, cart, err)
}

// Clear handles DELETE /api/cart/clear.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	cart, err := h.CartService.Clear(r.Context(), user.ID)
	h.respondCart(w, cart, err)
}
