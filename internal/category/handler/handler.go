package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/response"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/", h.ListCategories)
	r.Get("/{slug}", h.GetCategory)
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	roots, err := h.uc.FetchCategories(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"categories": roots})
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}
