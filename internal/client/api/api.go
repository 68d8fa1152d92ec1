// Package api is the typed facade over the storefront REST backend. Every
// operation issues exactly one request through the resilient HTTP layer and
// resolves to a uniform Result; nothing is ever raised across this boundary,
// so callers render failures without error-handling boilerplate.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/httpx"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// REST paths the facade depends on.
const (
	PathLogin      = "/api/auth/login"
	PathRegister   = "/api/auth/register"
	PathLogout     = "/api/auth/logout"
	PathMe         = "/api/auth/me"
	PathCart       = "/api/cart"
	PathCartAdd    = "/api/cart/add"
	PathCartUpdate = "/api/cart/update"
	PathCartRemove = "/api/cart/remove/"
	PathCartClear  = "/api/cart/clear"
	PathItems      = "/api/items"
	PathCategories = "/api/items/categories/list"
)

// User-facing messages. The network and auth messages are shared across
// operations; per-operation fallbacks live at the call sites.
const (
	MsgNetworkError  = "Network error. Please check your connection. The app will automatically retry connecting."
	MsgServerError   = "Server error. Please try again later."
	MsgUnauthorized  = "Please login to continue."
	MsgNotFound      = "Resource not found"
	MsgLoginRequired = "Please login to add items to cart"
)

// Result is the uniform outcome contract of every facade operation.
type Result struct {
	Success bool
	Message string
}

// ok is the canonical success result.
func ok() Result { return Result{Success: true} }

func fail(message string) Result { return Result{Success: false, Message: message} }

// AuthResult carries a token and user after login or registration.
type AuthResult struct {
	Result
	Token string
	User  *models.User
}

// UserResult carries the current user.
type UserResult struct {
	Result
	User *models.User
}

// CartResult carries the server's cart snapshot.
type CartResult struct {
	Result
	Cart models.Cart
}

// ProductResult carries one catalog item.
type ProductResult struct {
	Result
	Product models.Product
}

// ProductListResult carries one page of catalog items.
type ProductListResult struct {
	Result
	Items []models.Product
	Total int
	Page  int
	Pages int
}

// CategoriesResult carries the category listing.
type CategoriesResult struct {
	Result
	Categories []string
}

// Caller issues one logical HTTP request; implemented by *httpx.Client.
type Caller interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*httpx.Response, error)
}

// API bundles the domain facades over one shared Caller.
type API struct {
	Auth     *AuthAPI
	Cart     *CartAPI
	Products *ProductsAPI
}

// New constructs the facade. log may be nil.
func New(c Caller, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		Auth:     &AuthAPI{c: c, log: log},
		Cart:     &CartAPI{c: c, log: log},
		Products: &ProductsAPI{c: c, log: log},
	}
}

// serverMessage extracts the backend's {"message": ...} field, if any.
func serverMessage(res *httpx.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// resolve maps a transport outcome to a Result. err non-nil means the
// request never reached the server even after retries. HTTP errors prefer
// the server-provided message where the status makes it trustworthy.
func resolve(res *httpx.Response, err error, fallback string) Result {
	if err != nil {
		return fail(MsgNetworkError)
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return ok()
	}

	msg := serverMessage(res)
	switch res.StatusCode {
	case http.StatusUnauthorized:
		if msg == "" {
			msg = MsgUnauthorized
		}
	case http.StatusBadRequest:
		if msg == "" {
			msg = fallback
		}
	case http.StatusNotFound:
		if msg == "" {
			msg = MsgNotFound
		}
	case http.StatusInternalServerError:
		msg = MsgServerError
	default:
		if msg == "" {
			msg = fallback
		}
	}
	return fail(msg)
}

// decode resolves the transport outcome and, on success, unmarshals the
// body into out. A payload that does not decode is reported as a plain
// fetch failure rather than crashing the calling flow.
func decode(res *httpx.Response, err error, fallback string, out any) Result {
	r := resolve(res, err, fallback)
	if !r.Success {
		return r
	}
	if out != nil {
		if err := res.Decode(out); err != nil {
			return fail(fallback)
		}
	}
	return r
}

// AuthAPI exposes the authentication operations.
type AuthAPI struct {
	c   Caller
	log *zap.Logger
}

// Login authenticates with email and password.
func (a *AuthAPI) Login(ctx context.Context, email, password string) AuthResult {
	res, err := a.c.Do(ctx, http.MethodPost, PathLogin, nil, map[string]string{
		"email":    email,
		"password": password,
	})

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	r := decode(res, err, "Login failed. Please check your credentials.", &payload)
	if !r.Success {
		return AuthResult{Result: r}
	}
	return AuthResult{Result: r, Token: payload.Token, User: payload.User}
}

// Register creates an account and authenticates it.
func (a *AuthAPI) Register(ctx context.Context, username, email, password string) AuthResult {
	res, err := a.c.Do(ctx, http.MethodPost, PathRegister, nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	r := decode(res, err, "Registration failed. Please try again.", &payload)
	if !r.Success {
		return AuthResult{Result: r}
	}
	return AuthResult{Result: r, Token: payload.Token, User: payload.User}
}

// Logout revokes the server-side session. Local state is owned by the
// session store; its teardown never waits on this call.
func (a *AuthAPI) Logout(ctx context.Context) Result {
	res, err := a.c.Do(ctx, http.MethodPost, PathLogout, nil, nil)
	return resolve(res, err, "Logout failed. Please try again.")
}

// CurrentUser fetches the profile for the current token.
func (a *AuthAPI) CurrentUser(ctx context.Context) UserResult {
	res, err := a.c.Do(ctx, http.MethodGet, PathMe, nil, nil)

	var payload struct {
		User *models.User `json:"user"`
	}
	r := decode(res, err, "Failed to get user data", &payload)
	if !r.Success {
		return UserResult{Result: r}
	}
	return UserResult{Result: r, User: payload.User}
}

// CartAPI exposes the cart operations. Every mutation returns the full
// snapshot computed by the server.
type CartAPI struct {
	c   Caller
	log *zap.Logger
}

func (a *CartAPI) cartCall(ctx context.Context, method, path string, body any, fallback string) CartResult {
	res, err := a.c.Do(ctx, method, path, nil, body)

	var payload struct {
		Cart models.Cart `json:"cart"`
	}
	r := decode(res, err, fallback, &payload)
	if !r.Success {
		return CartResult{Result: r}
	}
	return CartResult{Result: r, Cart: payload.Cart}
}

// Get fetches the current cart.
func (a *CartAPI) Get(ctx context.Context) CartResult {
	return a.cartCall(ctx, http.MethodGet, PathCart, nil, "Failed to load cart")
}

// Add puts quantity units of a product into the cart.
func (a *CartAPI) Add(ctx context.Context, itemID string, quantity int) CartResult {
	body := map[string]any{"itemId": itemID, "quantity": quantity}
	return a.cartCall(ctx, http.MethodPost, PathCartAdd, body, "Failed to add item to cart")
}

// Update sets the quantity of a cart line. Quantity 0 removes the line;
// the server decides the resulting snapshot.
func (a *CartAPI) Update(ctx context.Context, itemID string, quantity int) CartResult {
	body := map[string]any{"itemId": itemID, "quantity": quantity}
	return a.cartCall(ctx, http.MethodPut, PathCartUpdate, body, "Failed to update cart")
}

// Remove deletes a cart line.
func (a *CartAPI) Remove(ctx context.Context, itemID string) CartResult {
	return a.cartCall(ctx, http.MethodDelete, PathCartRemove+url.PathEscape(itemID), nil, "Failed to remove item from cart")
}

// Clear empties the cart.
func (a *CartAPI) Clear(ctx context.Context) CartResult {
	return a.cartCall(ctx, http.MethodDelete, PathCartClear, nil, "Failed to clear cart")
}

// ProductsAPI exposes catalog browsing and the admin product operations.
type ProductsAPI struct {
	c   Caller
	log *zap.Logger
}

// List fetches one page of products matching the filter.
func (a *ProductsAPI) List(ctx context.Context, filter models.ProductFilter) ProductListResult {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.MinPrice > 0 {
		query.Set("minPrice", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		query.Set("maxPrice", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Sort != "" {
		query.Set("sort", filter.Sort)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	res, err := a.c.Do(ctx, http.MethodGet, PathItems, query, nil)

	var payload struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
		Page  int              `json:"page"`
		Pages int              `json:"pages"`
	}
	r := decode(res, err, "Failed to load products", &payload)
	if !r.Success {
		return ProductListResult{Result: r}
	}
	return ProductListResult{
		Result: r,
		Items:  payload.Items,
		Total:  payload.Total,
		Page:   payload.Page,
		Pages:  payload.Pages,
	}
}

// Get fetches a single product by ID.
func (a *ProductsAPI) Get(ctx context.Context, id string) ProductResult {
	res, err := a.c.Do(ctx, http.MethodGet, PathItems+"/"+url.PathEscape(id), nil, nil)

	var payload struct {
		Item models.Product `json:"item"`
	}
	r := decode(res, err, "Failed to load product", &payload)
	if !r.Success {
		return ProductResult{Result: r}
	}
	return ProductResult{Result: r, Product: payload.Item}
}

// Categories fetches the list of catalog categories.
func (a *ProductsAPI) Categories(ctx context.Context) CategoriesResult {
	res, err := a.c.Do(ctx, http.MethodGet, PathCategories, nil, nil)

	var payload struct {
		Categories []string `json:"categories"`
	}
	r := decode(res, err, "Failed to load categories", &payload)
	if !r.Success {
		return CategoriesResult{Result: r}
	}
	return CategoriesResult{Result: r, Categories: payload.Categories}
}

// Create adds a product to the catalog (admin only, enforced server-side).
func (a *ProductsAPI) Create(ctx context.Context, p models.Product) ProductResult {
	res, err := a.c.Do(ctx, http.MethodPost, PathItems, nil, p)

	var payload struct {
		Item models.Product `json:"item"`
	}
	r := decode(res, err, "Failed to create product", &payload)
	if !r.Success {
		return ProductResult{Result: r}
	}
	return ProductResult{Result: r, Product: payload.Item}
}

// Update replaces a product's fields (admin only).
func (a *ProductsAPI) Update(ctx context.Context, id string, p models.Product) ProductResult {
	res, err := a.c.Do(ctx, http.MethodPut, PathItems+"/"+url.PathEscape(id), nil, p)

	var payload struct {
		Item models.Product `json:"item"`
	}
	r := decode(res, err, "Failed to update product", &payload)
	if !r.Success {
		return ProductResult{Result: r}
	}
	return ProductResult{Result: r, Product: payload.Item}
}

// Delete removes a product from the catalog (admin only).
func (a *ProductsAPI) Delete(ctx context.Context, id string) Result {
	res, err := a.c.Do(ctx, http.MethodDelete, PathItems+"/"+url.PathEscape(id), nil, nil)
	return resolve(res, err, "Failed to delete product")
}
