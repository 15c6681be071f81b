package app

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/category"
	catH "github.com/fekuna/omnipos-storefront-service/internal/category/handler"
	"github.com/fekuna/omnipos-storefront-service/internal/notification"
	notifH "github.com/fekuna/omnipos-storefront-service/internal/notification/handler"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	prodH "github.com/fekuna/omnipos-storefront-service/internal/product/handler"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/middleware"
	"github.com/fekuna/omnipos-storefront-service/pkg/response"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the storefront API under /api/v1.
func NewRouter(catUC category.UseCase, prodUC product.UseCase, notifUC notification.UseCase, log logger.ZapLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(auth.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", catH.NewCategoryHandler(catUC, log).Routes)
		r.Route("/products", prodH.NewProductHandler(prodUC, log).Routes)
		r.Route("/notifications", notifH.NewNotificationHandler(notifUC, log).Routes)
	})
	return r
}

func (a *App) Router() http.Handler {
	return NewRouter(a.CategoryUC, a.ProductUC, a.NotificationUC, a.Logger)
}
