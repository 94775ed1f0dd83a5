package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Mitsuky01/shopee-clone-group1/internal/api/middleware"
	appErrors "github.com/Mitsuky01/shopee-clone-group1/internal/errors"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	repository "github.com/Mitsuky01/shopee-clone-group1/internal/repositories"
	"github.com/Mitsuky01/shopee-clone-group1/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService interface {
	SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.Notification, error)
	ListNotifications(ctx context.Context, recipient string, page, size int) ([]models.Notification, int, error)
	OrderNotifier
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	email    sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, email sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo, email: email}
}

func (s *notificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.Notification, error) {

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.NotificationStatusPending,
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, appErrors.DatabaseError("Failed to record notification").WithError(err)
	}

	if err := s.email.Send(ctx, req); err != nil {
		notification.Status = models.NotificationStatusFailed
		notification.ErrorMessage = err.Error()

		_ = s.repo.UpdateNotificationStatus(ctx, notification.ID, notification.Status, notification.ErrorMessage)

		return notification, appErrors.ThirdPartyError("Failed to send email").WithError(err)
	}

	notification.Status = models.NotificationStatusSent

	if err := s.repo.UpdateNotificationStatus(ctx, notification.ID, notification.Status, ""); err != nil {
		return nil, appErrors.DatabaseError("Failed to update notification status").WithError(err)
	}

	return notification, nil
}

// SendOrderConfirmation emails the buyer after a successful checkout.
// Best-effort: failures are logged and never surfaced to the checkout
// caller.
func (s *notificationService) SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) {

	logger := middleware.LoggerFromContext(ctx)

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Warn("Order confirmation skipped, user lookup failed", slog.String("error", err.Error()))
		return
	}

	var lines []string
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%dx %s - Rp%d", item.Quantity, item.Name, item.Subtotal()))
	}

	req := &models.EmailNotificationRequest{
		Recipient: user.Email,
		Subject:   fmt.Sprintf("Order %s confirmed", order.ID),
		Content: fmt.Sprintf("Your order has been placed.\n\n%s\n\nTotal: Rp%d",
			strings.Join(lines, "\n"), order.TotalPrice),
	}

	if _, err := s.SendEmail(ctx, req); err != nil {
		logger.Warn("Order confirmation email failed", slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, recipient string, page, size int) ([]models.Notification, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	notifications, total, err := s.repo.ListNotificationsByRecipient(ctx, recipient, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}
