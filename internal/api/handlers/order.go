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

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// Checkout godoc
//	@Summary		Check out the cart
//	@Description	Converts the user's cart into an order and empties the cart. Replaying the same idempotency key returns the original order.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Idempotency key"
//	@Success		201			{object}	models.Order			"Created order"
//	@Failure		400			{object}	response.ErrorResponse	"Empty cart or validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		429			{object}	response.ErrorResponse	"Checkout already in progress"
//	@Security		BearerAuth
//	@Router			/orders/checkout [post]
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		order, err := h.orderService.CheckoutCart(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to checkout cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order created from cart", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

// BuyNow godoc
//	@Summary		Buy a single product directly
//	@Description	Creates a single-item order without touching the cart.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			purchase	body		models.BuyNowRequest	true	"Product, quantity and idempotency key"
//	@Success		201			{object}	models.Order			"Created order"
//	@Failure		404			{object}	response.ErrorResponse	"Product not found"
//	@Failure		409			{object}	response.ErrorResponse	"Insufficient stock"
//	@Failure		429			{object}	response.ErrorResponse	"Purchase already in progress"
//	@Security		BearerAuth
//	@Router			/orders/buy-now [post]
func (h *OrderHandler) BuyNow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized buy-now attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.BuyNowRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid buy-now input")
			return
		}

		order, err := h.orderService.BuyNow(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to buy now", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order created via buy-now", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Retrieves one of the authenticated user's orders.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order"
//	@Failure		403	{object}	response.ErrorResponse	"Order belongs to another user"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid order ID"))
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Error("Failed to fetch order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List order history
//	@Description	Lists the authenticated user's orders, newest first.
//	@Tags			Orders
//	@Produce		json
//	@Param			page	query		int						false	"Page number"	default(1)
//	@Param			size	query		int						false	"Page size"		default(10)
//	@Success		200		{object}	models.OrderHistoryResponse	"Order history page"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order history access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))

		if page < 1 {
			page = 1
		}

		if size < 1 {
			size = 10
		}

		orders, total, err := h.orderService.ListOrdersByUser(r.Context(), claims.UserID, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.OrderHistoryResponse{
			Orders: orders,
			Total:  total,
			Page:   page,
			Size:   size,
		})
	}
}
