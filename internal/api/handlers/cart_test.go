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

func setupCartTest() (*mocks.CartService, *handlers.CartHandler) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	return mockCartService, cartHandler
}

func TestGetCartHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/carts", nil, userID, nil)
		recorder := httptest.NewRecorder()

		mockCart := &models.Cart{ID: uuid.New(), UserID: userID, Items: map[string]models.CartItem{}}
		mockCartService.On("GetCart", mock.Anything, userID).Return(mockCart, nil).Once()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "Authentication required")
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestAddItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 2})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockCart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				productID.String(): {ProductID: productID, Name: "Kaos Polos", Price: 50000, Quantity: 2},
			},
		}
		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).Return(mockCart, nil).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Validation Error On Zero Quantity", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 0})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Insufficient Stock", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 100})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(nil, appErrors.InsufficientStockError("Requested quantity exceeds available stock")).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, resp.Error.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Zero Quantity Accepted", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.UpdateQuantityRequest{ProductID: productID, Quantity: 0})
		req := testutils.CreateTestRequestWithContext("PUT", "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		emptied := &models.Cart{ID: uuid.New(), UserID: userID, Items: map[string]models.CartItem{}}
		mockCartService.On("UpdateQuantity", mock.Anything, userID, mock.AnythingOfType("*models.UpdateQuantityRequest")).Return(emptied, nil).Once()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Item Not In Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.UpdateQuantityRequest{ProductID: productID, Quantity: 3})
		req := testutils.CreateTestRequestWithContext("PUT", "/api/v1/carts/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("UpdateQuantity", mock.Anything, userID, mock.AnythingOfType("*models.UpdateQuantityRequest")).
			Return(nil, appErrors.BadRequestError("Item not found in the cart")).Once()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/carts/items/"+productID.String(), nil, userID,
			map[string]string{"productId": productID.String()})
		recorder := httptest.NewRecorder()

		remaining := &models.Cart{ID: uuid.New(), UserID: userID, Items: map[string]models.CartItem{}}
		mockCartService.On("RemoveItem", mock.Anything, userID, productID).Return(remaining, nil).Once()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Product ID", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/carts/items/not-a-uuid", nil, userID,
			map[string]string{"productId": "not-a-uuid"})
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})
}
