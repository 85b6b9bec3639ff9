package router

import (
	"io/fs"
	"net/http"
	"time"

	"shopfront/internal/handler"
	"shopfront/internal/middleware"
	"shopfront/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(15 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Post("/", productHandler.Create)
		r.Get("/search", productHandler.Search)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", productHandler.GetByID)
			r.Patch("/", productHandler.Update)
			r.Delete("/", productHandler.Delete)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", orderHandler.List)
		r.Post("/", orderHandler.Create)
		r.Get("/{id}", orderHandler.GetByID)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "NOT_FOUND", "message": "route not found"}`))
	})

	// Static storefront at the root.
	static, err := fs.Sub(web.Static, "static")
	if err == nil {
		r.Handle("/", http.FileServer(http.FS(static)))
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	return r
}
