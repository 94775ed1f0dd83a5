package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Mitsuky01/shopee-clone-group1/internal/cache"
	appErrors "github.com/Mitsuky01/shopee-clone-group1/internal/errors"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	repository "github.com/Mitsuky01/shopee-clone-group1/internal/repositories"
	"github.com/Mitsuky01/shopee-clone-group1/internal/utils"
	"github.com/google/uuid"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	BrowseProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, error)
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, sellerID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, sellerID, id uuid.UUID) error
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	cache       cache.Cache
}

func NewCatalogService(productRepo repository.ProductRepository, userRepo repository.UserRepository, productCache cache.Cache) CatalogService {
	return &catalogService{productRepo: productRepo, userRepo: userRepo, cache: productCache}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]models.Product, error) {

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

func (s *catalogService) BrowseProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, error) {

	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	return FilterProducts(products, query), nil
}

// FilterProducts applies the browse view over a product listing: substring
// name search (case-insensitive), exact category match, price sort. The
// default sort preserves store order; filters commute and the sort is
// stable, so the result does not depend on application order.
func FilterProducts(products []models.Product, query models.ProductQuery) []models.Product {

	result := make([]models.Product, 0, len(products))

	search := strings.ToLower(query.Search)

	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}

		if query.Category != "" && query.Category != models.CategoryAll && string(p.Category) != query.Category {
			continue
		}

		result = append(result, p)
	}

	switch query.Sort {
	case models.SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case models.SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	}

	return result
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product := &models.Product{}

	cacheKey := cache.Key(cache.ProductKeyPrefix, id.String())

	if s.cache != nil {
		if found, err := s.cache.Get(ctx, cacheKey, product); err == nil && found {
			return product, nil
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, product, 0)
	}

	return product, nil
}

func (s *catalogService) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error) {

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{Product: product}

	// Seller email is best-effort on the detail screen, a deleted seller
	// account does not hide the product.
	if seller, err := s.userRepo.GetUserByID(ctx, product.SellerID); err == nil {
		detail.SellerEmail = seller.Email
	}

	return detail, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {

	if sellerID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	product := &models.Product{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Name:          utils.SanitizeText(req.Name),
		Description:   utils.SanitizeText(req.Description),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      models.Category(req.Category),
		ImageURL:      req.ImageURL,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, sellerID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = utils.SanitizeText(*req.Name)
	}

	if req.Description != nil {
		product.Description = utils.SanitizeText(*req.Description)
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}

	if req.Category != nil {
		product.Category = models.Category(*req.Category)
	}

	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, sellerID, id uuid.UUID) error {

	if _, err := s.ownedProduct(ctx, sellerID, id); err != nil {
		return err
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *catalogService) ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {

	if sellerID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	products, err := s.productRepo.ListProductsBySeller(ctx, sellerID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch seller products").WithError(err)
	}

	return products, nil
}

func (s *catalogService) ownedProduct(ctx context.Context, sellerID, id uuid.UUID) (*models.Product, error) {

	if sellerID == uuid.Nil {
		return nil, appErrors.UnauthorizedError("Authentication required")
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if product.SellerID != sellerID {
		return nil, appErrors.ForbiddenError("Product belongs to another seller")
	}

	return product, nil
}

func (s *catalogService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}

	delCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	_ = s.cache.Delete(delCtx, cache.Key(cache.ProductKeyPrefix, id.String()))
}
