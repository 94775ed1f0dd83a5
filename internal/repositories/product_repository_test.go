package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	repository "github.com/Mitsuky01/shopee-clone-group1/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"id", "seller_id", "name", "description", "price", "stock_quantity", "category", "image_url", "created_at", "updated_at"}

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewProductRepo(db)
	require.NotNil(t, repo)

	return repo, mock
}

func TestProductRepository(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	productID := uuid.New()
	sellerID := uuid.New()
	now := time.Now()

	product := &models.Product{
		ID:            productID,
		SellerID:      sellerID,
		Name:          "Kaos Polos",
		Description:   "Katun premium",
		Price:         50000,
		StockQuantity: 10,
		Category:      models.CategoryPakaian,
		ImageURL:      "https://example.com/kaos.jpg",
	}

	t.Run("Create Product", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`
			INSERT INTO products (id, seller_id, name, description, price, stock_quantity, category, image_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING created_at, updated_at
		`)

		// Arrange
		mock.ExpectQuery(expectedSQL).
			WithArgs(product.ID, product.SellerID, product.Name, product.Description, product.Price, product.StockQuantity, product.Category, product.ImageURL).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateProduct(ctx, product)

		// Assert
		require.NoError(t, err)
		assert.WithinDuration(t, now, product.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get Product By ID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, seller_id, name, description, price, stock_quantity, category, image_url, created_at, updated_at FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(productID).
				WillReturnRows(sqlmock.NewRows(productColumns).
					AddRow(productID, sellerID, product.Name, product.Description, product.Price, product.StockQuantity, product.Category, product.ImageURL, now, now))

			// Act
			got, err := repo.GetProductByID(ctx, productID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, productID, got.ID)
			assert.Equal(t, models.CategoryPakaian, got.Category)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(productID).
				WillReturnError(sql.ErrNoRows)

			// Act
			got, err := repo.GetProductByID(ctx, productID)

			// Assert
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Update Product", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`
			UPDATE products
			SET name = $1, description = $2, price = $3, stock_quantity = $4, category = $5, image_url = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at
		`)

		// Arrange
		mock.ExpectQuery(expectedSQL).
			WithArgs(product.Name, product.Description, product.Price, product.StockQuantity, product.Category, product.ImageURL, product.ID).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		// Act
		err := repo.UpdateProduct(ctx, product)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete Product", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(productID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.DeleteProduct(ctx, productID)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Already Gone", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(productID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.DeleteProduct(ctx, productID)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("List Products", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, seller_id, name, description, price, stock_quantity, category, image_url, created_at, updated_at FROM products ORDER BY created_at`)

		// Arrange
		mock.ExpectQuery(expectedSQL).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(productID, sellerID, "Kaos Polos", "", int64(50000), int64(10), models.CategoryPakaian, "", now, now).
				AddRow(uuid.New(), sellerID, "Laptop Gaming", "", int64(12000000), int64(3), models.CategoryElektronik, "", now, now))

		// Act
		products, err := repo.ListProducts(ctx)

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, "Kaos Polos", products[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("List Products By Seller", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, seller_id, name, description, price, stock_quantity, category, image_url, created_at, updated_at FROM products WHERE seller_id = $1 ORDER BY created_at`)

		// Arrange
		mock.ExpectQuery(expectedSQL).
			WithArgs(sellerID).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(productID, sellerID, "Kaos Polos", "", int64(50000), int64(10), models.CategoryPakaian, "", now, now))

		// Act
		products, err := repo.ListProductsBySeller(ctx, sellerID)

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
