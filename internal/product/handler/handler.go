package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/response"
	"github.com/go-chi/chi/v5"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/best-sellers", h.ListBestSellers)
	r.Get("/search", h.SearchProducts)
	r.Get("/{id}", h.GetProduct)
}

func (h *ProductHandler) ListBestSellers(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	products, err := h.uc.FetchBestSellerProducts(r.Context(), limit)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	products, err := h.uc.SearchProducts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, apperror.Validation("limit must be between 1 and 100").
			WithDetails(map[string]any{"limit": raw})
	}
	return limit, nil
}
