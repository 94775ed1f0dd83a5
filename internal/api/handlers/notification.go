package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Mitsuky01/shopee-clone-group1/internal/api/middleware"
	"github.com/Mitsuky01/shopee-clone-group1/internal/errors"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	service "github.com/Mitsuky01/shopee-clone-group1/internal/services"
	"github.com/Mitsuky01/shopee-clone-group1/internal/utils"
	"github.com/Mitsuky01/shopee-clone-group1/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: validator.New()}
}

// SendEmail godoc
//	@Summary		Send an email notification
//	@Description	Records and dispatches an email through the configured provider.
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			email	body		models.EmailNotificationRequest	true	"Email payload"
//	@Success		201		{object}	models.Notification				"Recorded notification"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		502		{object}	response.ErrorResponse			"Provider failure"
//	@Security		BearerAuth
//	@Router			/notifications/email [post]
func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.EmailNotificationRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid email notification input")
			return
		}

		notification, err := h.notificationService.SendEmail(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to send email notification", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Email notification sent", slog.String("notificationId", notification.ID.String()))
		response.Success(w, http.StatusCreated, notification)
	}
}

// ListNotifications godoc
//	@Summary		List notifications for a recipient
//	@Tags			Notifications
//	@Produce		json
//	@Param			recipient	query		string						true	"Recipient email"
//	@Param			page		query		int							false	"Page number"	default(1)
//	@Param			size		query		int							false	"Page size"		default(10)
//	@Success		200			{object}	response.APIResponse		"Notification page"
//	@Failure		400			{object}	response.ErrorResponse		"Missing recipient"
//	@Security		BearerAuth
//	@Router			/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		recipient := r.URL.Query().Get("recipient")
		if recipient == "" {
			response.Error(w, errors.BadRequestError("Recipient is required"))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))

		notifications, total, err := h.notificationService.ListNotifications(r.Context(), recipient, page, size)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"notifications": notifications,
			"total":         total,
		})
	}
}
