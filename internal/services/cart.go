package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/Mitsuky01/shopee-clone-group1/internal/errors"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	repository "github.com/Mitsuky01/shopee-clone-group1/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns an empty cart, not an error, for users that have never
// added anything. The empty cart is not persisted until the first add.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyCart(userID), nil
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	// Stock is checked against the live catalog, not against quantity
	// already reserved in carts. There is no reservation mechanism.
	if req.Quantity > product.StockQuantity {
		return nil, appErrors.InsufficientStockError("Requested quantity exceeds available stock")
	}

	cart, created, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := req.ProductID.String()

	if item, exists := cart.Items[key]; exists {
		// Increment only. The name/price/image snapshot taken at first
		// add is deliberately not refreshed.
		item.Quantity += req.Quantity
		cart.Items[key] = item
	} else {
		cart.Items[key] = models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  req.Quantity,
		}
	}

	cart.UpdatedAt = time.Now()

	if err := s.persist(ctx, cart, created); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	// Setting the quantity below one removes the line item entirely.
	if req.Quantity < 1 {
		return s.RemoveItem(ctx, userID, req.ProductID)
	}

	cart, created, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := req.ProductID.String()

	item, exists := cart.Items[key]
	if !exists {
		return nil, appErrors.BadRequestError("Item not found in the cart")
	}

	// No stock re-validation here: the quantity can be raised past the
	// current catalog stock. Enforcement happens at add and buy-now only.
	item.Quantity = req.Quantity
	cart.Items[key] = item
	cart.UpdatedAt = time.Now()

	if err := s.persist(ctx, cart, created); err != nil {
		return nil, err
	}

	return cart, nil
}

// RemoveItem is idempotent: removing an absent line item is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {

	if userID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyCart(userID), nil
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	key := productID.String()

	if _, exists := cart.Items[key]; !exists {
		return cart, nil
	}

	delete(cart.Items, key)
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) getOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, false, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return emptyCart(userID), true, nil
}

// persist writes the full item collection back in one document replace.
func (s *cartService) persist(ctx context.Context, cart *models.Cart, created bool) error {

	var err error
	if created {
		err = s.cartRepo.CreateCart(ctx, cart)
	} else {
		err = s.cartRepo.UpdateCart(ctx, cart)
	}

	if err != nil {
		return appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return nil
}

func emptyCart(userID uuid.UUID) *models.Cart {
	now := time.Now()

	return &models.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     make(map[string]models.CartItem),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
