package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/middleware"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/service"
)

// ProductService defines the interface for catalog operations required
// by the HTTP handlers.
type ProductService interface {
	List(ctx context.Context, filter models.ProductFilter) (service.ProductPage, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, p models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler handles catalog browsing and the admin product
// management endpoints.
type ProductHandler struct {
	ProductService ProductService
}

// filterFromQuery parses the supported listing parameters. Unparseable
// numeric values are treated as unset.
func filterFromQuery(r *http.Request) models.ProductFilter {
	q := r.URL.Query()
	filter := models.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	return filter
}

// List handles GET /api/items with filtering, sorting, and pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.ProductService.List(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if page.Items == nil {
		page.Items = []models.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": page.Items,
		"total": page.Total,
		"page":  page.Page,
		"pages": page.Pages,
	})
}

// Get handles GET /api/items/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProductService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": p})
}

// Categories handles GET /api/items/categories/list.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ProductService.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// requireAdmin rejects non-admin users with 403 and reports whether the
// request may proceed.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	user := middleware.UserFromContext(r.Context())
	if user == nil || !user.IsAdmin {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

// Create handles POST /api/items (admin only).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.ProductService.Create(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": created})
}

// Update handles PUT /api/items/{id} (admin only).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.ProductService.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": updated})
}

// Delete handles DELETE /api/items/{id} (admin only).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	if err := h.ProductService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
