package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"

	"github.com/Mitsuky01/shopee-clone-group1/internal/api/middleware"
	appErrors "github.com/Mitsuky01/shopee-clone-group1/internal/errors"
	"github.com/Mitsuky01/shopee-clone-group1/internal/metrics"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	repository "github.com/Mitsuky01/shopee-clone-group1/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	CheckoutCart(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error)
	BuyNow(ctx context.Context, userID uuid.UUID, req *models.BuyNowRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, userID, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

// OrderNotifier delivers the post-checkout confirmation. Failures are the
// notifier's problem: order creation never fails because of it.
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	guard       repository.CheckoutGuard
	notifier    OrderNotifier
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, guard repository.CheckoutGuard, notifier OrderNotifier) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		guard:       guard,
		notifier:    notifier,
	}
}

// CheckoutCart converts the user's whole cart into an immutable order and
// empties the cart in the same database transaction. The total uses the
// cart's denormalized prices, not live catalog prices.
func (s *orderService) CheckoutCart(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	release, err := s.acquireGuard(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.EmptyCartError("Cannot checkout an empty cart")
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, appErrors.EmptyCartError("Cannot checkout an empty cart")
	}

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Items:          orderItemsFromCart(cart),
		TotalPrice:     cart.Total(),
		Status:         models.OrderStatusCompleted,
		IdempotencyKey: req.IdempotencyKey,
	}

	return s.submit(ctx, order, true)
}

// BuyNow orders a single product directly. Cart state is never touched.
func (s *orderService) BuyNow(ctx context.Context, userID uuid.UUID, req *models.BuyNowRequest) (*models.Order, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	release, err := s.acquireGuard(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Quantity > product.StockQuantity {
		return nil, appErrors.InsufficientStockError("Requested quantity exceeds available stock")
	}

	item := models.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  req.Quantity,
	}

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Items:          []models.OrderItem{item},
		TotalPrice:     item.Price * item.Quantity,
		Status:         models.OrderStatusCompleted,
		IdempotencyKey: req.IdempotencyKey,
	}

	return s.submit(ctx, order, false)
}

func (s *orderService) submit(ctx context.Context, order *models.Order, clearCart bool) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	err := s.orderRepo.CreateOrder(ctx, order, clearCart)
	if err != nil {
		// A replayed idempotency key means the submission already
		// succeeded once, return the original order.
		if errors.Is(err, repository.ErrIdempotencyConflict) {
			existing, getErr := s.orderRepo.GetOrderByIdempotencyKey(ctx, order.IdempotencyKey)
			if getErr != nil {
				return nil, appErrors.DatabaseError("Failed to fetch existing order").WithError(getErr)
			}

			logger.Info("Duplicate checkout submission resolved to existing order", slog.String("orderId", existing.ID.String()))
			return existing, nil
		}

		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	source := "buy_now"
	if clearCart {
		source = "checkout"
	}
	metrics.OrderCreated(source)

	if s.notifier != nil {
		s.notifier.SendOrderConfirmation(ctx, order.UserID, order)
	}

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID, id uuid.UUID) (*models.Order, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		return nil, appErrors.ForbiddenError("Order belongs to another user")
	}

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if userID == uuid.Nil {
		return nil, 0, appErrors.UnauthorizedError("Authentication required")
	}

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) acquireGuard(ctx context.Context, key string) (func(), error) {

	if s.guard == nil {
		return func() {}, nil
	}

	acquired, err := s.guard.TryAcquire(ctx, key)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Checkout guard unavailable").WithError(err)
	}

	if !acquired {
		return nil, appErrors.TooManyRequestsError("A checkout with this key is already in progress")
	}

	logger := middleware.LoggerFromContext(ctx)

	return func() {
		if err := s.guard.Release(ctx, key); err != nil {
			logger.Warn("Failed to release checkout guard", slog.String("error", err.Error()))
		}
	}, nil
}

// orderItemsFromCart snapshots cart line items in a deterministic order.
func orderItemsFromCart(cart *models.Cart) []models.OrderItem {

	items := make([]models.OrderItem, 0, len(cart.Items))

	for _, item := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	return items
}
