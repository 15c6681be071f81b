package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/notification"
	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/response"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	uc     notification.UseCase
	logger logger.ZapLogger
}

func NewNotificationHandler(uc notification.UseCase, log logger.ZapLogger) *NotificationHandler {
	return &NotificationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *NotificationHandler) Routes(r chi.Router) {
	r.Get("/", h.ListNotifications)
	r.Post("/", h.CreateNotification)
	r.Patch("/{id}/read", h.MarkRead)
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.ListNotifications(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		response.Error(w, r, h.logger, apperror.Unauthorized("missing user"))
		return
	}

	var input dto.CreateNotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, r, h.logger, apperror.Validation("malformed request body"))
		return
	}
	input.UserID = userID

	n, err := h.uc.CreateNotification(r.Context(), &input)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.uc.MarkRead(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, n)
}
