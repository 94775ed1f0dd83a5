package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
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

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewCartRepo(db)
	require.NotNil(t, repo)

	return repo, mock
}

func TestCartRepository(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	userID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	items := map[string]models.CartItem{
		productID.String(): {ProductID: productID, Name: "Kaos Polos", Price: 50000, Quantity: 2},
	}
	itemsJSON, err := json.Marshal(items)
	require.NoError(t, err)

	t.Run("Create Cart", func(t *testing.T) {
		cart := &models.Cart{ID: cartID, UserID: userID, Items: items}

		expectedSQL := regexp.QuoteMeta(`
			INSERT INTO carts (id, user_id, items, created_at, updated_at)
			VALUES($1, $2, $3, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(cart.ID, cart.UserID, itemsJSON).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(cartID, now, now))

			// Act
			err := repo.CreateCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, cartID, cart.ID)
			assert.WithinDuration(t, now, cart.CreatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database insertion error")
			mock.ExpectQuery(expectedSQL).
				WithArgs(cart.ID, cart.UserID, itemsJSON).
				WillReturnError(dbError)

			// Act
			err := repo.CreateCart(ctx, cart)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, dbError)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Get Cart By User ID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`
			SELECT id, user_id, items, created_at, updated_at
			FROM carts
			WHERE user_id = $1
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
					AddRow(cartID, userID, itemsJSON, now, now))

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, cartID, cart.ID)
			assert.Len(t, cart.Items, 1)
			assert.Equal(t, int64(2), cart.Items[productID.String()].Quantity)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - No Cart Row", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(userID).
				WillReturnError(sql.ErrNoRows)

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.Error(t, err)
			assert.Nil(t, cart)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Malformed Items Document", func(t *testing.T) {
			// Arrange: a corrupt document is an error on read, not an
			// empty cart.
			mock.ExpectQuery(expectedSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
					AddRow(cartID, userID, []byte(`{"broken`), now, now))

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.Error(t, err)
			assert.Nil(t, cart)
			assert.ErrorContains(t, err, "failed to unmarshal cart items")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Update Cart", func(t *testing.T) {
		cart := &models.Cart{ID: cartID, UserID: userID, Items: items}

		expectedSQL := regexp.QuoteMeta(`
			UPDATE carts
			SET items = $1, updated_at = $2
			WHERE id = $3
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(itemsJSON, sqlmock.AnyArg(), cart.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.UpdateCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Cart Missing", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(itemsJSON, sqlmock.AnyArg(), cart.ID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.UpdateCart(ctx, cart)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
