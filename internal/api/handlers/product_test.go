package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mitsuky01/shopee-clone-group1/internal/api/handlers"
	appErrors "github.com/Mitsuky01/shopee-clone-group1/internal/errors"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	"github.com/Mitsuky01/shopee-clone-group1/internal/services/mocks"
	"github.com/Mitsuky01/shopee-clone-group1/internal/testutils"
	"github.com/Mitsuky01/shopee-clone-group1/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupProductTest() (*mocks.CatalogService, *handlers.ProductHandler) {
	mockCatalogService := new(mocks.CatalogService)
	productHandler := handlers.NewProductHandler(mockCatalogService)

	return mockCatalogService, productHandler
}

func TestListProductsHandler(t *testing.T) {
	t.Run("Success - Browse With Filters", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products?search=kaos&category=Pakaian&sort=low", nil, nil)
		recorder := httptest.NewRecorder()

		products := []models.Product{{ID: uuid.New(), Name: "Kaos Polos", Price: 50000, Category: models.CategoryPakaian}}
		mockCatalogService.On("BrowseProducts", mock.Anything, models.ProductQuery{
			Search:   "kaos",
			Category: "Pakaian",
			Sort:     models.SortPriceLow,
		}).Return(products, nil).Once()

		// Act
		productHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Success - Default Sort When Unspecified", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products", nil, nil)
		recorder := httptest.NewRecorder()

		mockCatalogService.On("BrowseProducts", mock.Anything, models.ProductQuery{Sort: models.SortDefault}).
			Return([]models.Product{}, nil).Once()

		// Act
		productHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestGetProductHandler(t *testing.T) {
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/"+productID.String(), nil,
			map[string]string{"id": productID.String()})
		recorder := httptest.NewRecorder()

		detail := &models.ProductDetail{
			Product:     &models.Product{ID: productID, Name: "Kaos Polos", Price: 50000},
			SellerEmail: "seller@example.com",
		}
		mockCatalogService.On("GetProductDetail", mock.Anything, productID).Return(detail, nil).Once()

		// Act
		productHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/"+productID.String(), nil,
			map[string]string{"id": productID.String()})
		recorder := httptest.NewRecorder()

		mockCatalogService.On("GetProductDetail", mock.Anything, productID).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		// Act
		productHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Product ID", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/abc", nil,
			map[string]string{"id": "abc"})
		recorder := httptest.NewRecorder()

		// Act
		productHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCatalogService.AssertNotCalled(t, "GetProductDetail", mock.Anything, mock.Anything)
	})
}

func TestCreateProductHandler(t *testing.T) {
	sellerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		body, _ := json.Marshal(models.CreateProductRequest{
			Name:          "Sepatu Lari",
			Description:   "Ringan dan nyaman",
			Price:         150000,
			StockQuantity: 20,
			Category:      "Pakaian",
		})
		req := testutils.CreateTestRequestWithRole("POST", "/api/v1/products", bytes.NewBuffer(body), sellerID, models.RoleSeller, nil)
		recorder := httptest.NewRecorder()

		created := &models.Product{ID: uuid.New(), SellerID: sellerID, Name: "Sepatu Lari", Price: 150000}
		mockCatalogService.On("CreateProduct", mock.Anything, sellerID, mock.AnythingOfType("*models.CreateProductRequest")).
			Return(created, nil).Once()

		// Act
		productHandler.CreateProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Category", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		body, _ := json.Marshal(models.CreateProductRequest{
			Name:          "Sepatu Lari",
			Price:         150000,
			StockQuantity: 20,
			Category:      "Otomotif",
		})
		req := testutils.CreateTestRequestWithRole("POST", "/api/v1/products", bytes.NewBuffer(body), sellerID, models.RoleSeller, nil)
		recorder := httptest.NewRecorder()

		// Act
		productHandler.CreateProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCatalogService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		body, _ := json.Marshal(models.CreateProductRequest{
			Name:          "Sepatu Lari",
			Price:         150000,
			StockQuantity: 20,
			Category:      "Pakaian",
		})
		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/products", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		productHandler.CreateProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockCatalogService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateProductHandler(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Partial Update", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		newPrice := int64(175000)
		body, _ := json.Marshal(models.UpdateProductRequest{Price: &newPrice})
		req := testutils.CreateTestRequestWithRole("PUT", "/api/v1/products/"+productID.String(), bytes.NewBuffer(body), sellerID, models.RoleSeller,
			map[string]string{"id": productID.String()})
		recorder := httptest.NewRecorder()

		updated := &models.Product{ID: productID, SellerID: sellerID, Name: "Sepatu Lari", Price: newPrice}
		mockCatalogService.On("UpdateProduct", mock.Anything, sellerID, productID, mock.AnythingOfType("*models.UpdateProductRequest")).
			Return(updated, nil).Once()

		// Act
		productHandler.UpdateProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Another Seller's Product", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		newPrice := int64(175000)
		body, _ := json.Marshal(models.UpdateProductRequest{Price: &newPrice})
		req := testutils.CreateTestRequestWithRole("PUT", "/api/v1/products/"+productID.String(), bytes.NewBuffer(body), sellerID, models.RoleSeller,
			map[string]string{"id": productID.String()})
		recorder := httptest.NewRecorder()

		mockCatalogService.On("UpdateProduct", mock.Anything, sellerID, productID, mock.AnythingOfType("*models.UpdateProductRequest")).
			Return(nil, appErrors.ForbiddenError("You do not own this product")).Once()

		// Act
		productHandler.UpdateProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestDeleteProductHandler(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithRole("DELETE", "/api/v1/products/"+productID.String(), nil, sellerID, models.RoleSeller,
			map[string]string{"id": productID.String()})
		recorder := httptest.NewRecorder()

		mockCatalogService.On("DeleteProduct", mock.Anything, sellerID, productID).Return(nil).Once()

		// Act
		productHandler.DeleteProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithRole("DELETE", "/api/v1/products/"+productID.String(), nil, sellerID, models.RoleSeller,
			map[string]string{"id": productID.String()})
		recorder := httptest.NewRecorder()

		mockCatalogService.On("DeleteProduct", mock.Anything, sellerID, productID).
			Return(appErrors.NotFoundError("Product not found")).Once()

		// Act
		productHandler.DeleteProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})
}

func TestListSellerProductsHandler(t *testing.T) {
	sellerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalogService, productHandler := setupProductTest()
		req := testutils.CreateTestRequestWithRole("GET", "/api/v1/sellers/products", nil, sellerID, models.RoleSeller, nil)
		recorder := httptest.NewRecorder()

		products := []models.Product{{ID: uuid.New(), SellerID: sellerID, Name: "Kaos Polos"}}
		mockCatalogService.On("ListSellerProducts", mock.Anything, sellerID).Return(products, nil).Once()

		// Act
		productHandler.ListSellerProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})
}
