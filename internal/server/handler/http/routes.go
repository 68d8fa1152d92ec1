package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the storefront API.
//
// Routes:
//
//	POST   /api/auth/login            → authHandler.Login
//	POST   /api/auth/register         → authHandler.Register
//	POST   /api/auth/logout           → authHandler.Logout   (bearer)
//	GET    /api/auth/me               → authHandler.Me       (bearer)
//	GET    /api/cart                  → cartHandler.Get      (bearer)
//	POST   /api/cart/add              → cartHandler.Add      (bearer)
//	PUT    /api/cart/update           → cartHandler.Update   (bearer)
//	DELETE /api/cart/remove/{id}      → cartHandler.Remove   (bearer)
//	DELETE /api/cart/clear            → cartHandler.Clear    (bearer)
//	GET    /api/items                 → productHandler.List
//	GET    /api/items/{id}            → productHandler.Get
//	GET    /api/items/categories/list → productHandler.Categories
//	POST   /api/items                 → productHandler.Create (bearer, admin)
//	PUT    /api/items/{id}            → productHandler.Update (bearer, admin)
//	DELETE /api/items/{id}            → productHandler.Delete (bearer, admin)
//
// Requests with a body must carry Content-Type: application/json; every
// request is logged through the given zap logger.
func NewRouter(
	authHandler *AuthHandler,
	cartHandler *CartHandler,
	productHandler *ProductHandler,
	users middleware.UserSource,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	bearer := middleware.BearerAuth(users)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)

			// Protected group: requires a valid session token
			r.Group(func(r chi.Router) {
				r.Use(bearer)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(bearer)
			r.Get("/", cartHandler.Get)
			r.Post("/add", cartHandler.Add)
			r.Put("/update", cartHandler.Update)
			r.Delete("/remove/{id}", cartHandler.Remove)
			r.Delete("/clear", cartHandler.Clear)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/categories/list", productHandler.Categories)
			r.Get("/{id}", productHandler.Get)

			// Admin product management
			r.Group(func(r chi.Router) {
				r.Use(bearer)
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})
	})

	return r
}
