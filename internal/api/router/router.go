package router

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *handler.Server, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(loggerMiddleware(logger))

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout/{userID}", func(r chi.Router) {
			r.Get("/preview", server.CheckoutHandler.Preview)
			r.Post("/", server.CheckoutHandler.PlaceOrder)
		})

		r.Route("/carts/{userID}", func(r chi.Router) {
			r.Get("/", server.CartHandler.GetCart)
			r.Delete("/", server.CartHandler.Clear)
			r.Post("/items", server.CartHandler.AddItem)
			r.Put("/items/{productID}", server.CartHandler.ChangeQuantity)
			r.Delete("/items/{productID}", server.CartHandler.RemoveItem)
		})

		r.Get("/orders/{userID}", server.CheckoutHandler.ListOrders)

		r.Route("/products", func(r chi.Router) {
			r.Post("/", server.ProductHandler.Create)
			r.Get("/", server.ProductHandler.List)
			r.Get("/{id}", server.ProductHandler.Get)
			r.Post("/{id}/restock", server.ProductHandler.Restock)
			r.Delete("/{id}", server.ProductHandler.Delete)
		})
	})

	return r
}

func loggerMiddleware(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
