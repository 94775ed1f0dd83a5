package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mitsuky01/shopee-clone-group1/internal/models"
	"github.com/Mitsuky01/shopee-clone-group1/internal/utils"
	"github.com/google/uuid"
)

// ErrIdempotencyConflict is returned when an order with the same
// idempotency key already exists. The caller resolves it by fetching the
// original order.
var ErrIdempotencyConflict = errors.New("order with this idempotency key already exists")

type OrderRepository interface {
	// CreateOrder inserts the order and, when clearCart is set, empties
	// the owning user's cart in the same transaction.
	CreateOrder(ctx context.Context, order *models.Order, clearCart bool) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order, clearCart bool) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The unique index on idempotency_key makes checkout replay-safe: the
	// second submission inserts nothing.
	insertQuery := `
		INSERT INTO orders (id, user_id, items, total_price, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, insertQuery, order.ID, order.UserID, itemsJSON, order.TotalPrice, order.Status, order.IdempotencyKey).Scan(&order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrIdempotencyConflict
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if clearCart {
		clearQuery := `
			UPDATE carts
			SET items = '{}'::jsonb, updated_at = NOW()
			WHERE user_id = $1
		`

		if _, err := tx.ExecContext(dbCtx, clearQuery, order.UserID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, items, total_price, status, idempotency_key, created_at
		FROM orders
		WHERE id = $1
	`

	return r.scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *orderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, items, total_price, status, idempotency_key, created_at
		FROM orders
		WHERE idempotency_key = $1
	`

	return r.scanOrder(r.DB.QueryRowContext(dbCtx, query, key))
}

func (r *orderRepository) scanOrder(row *sql.Row) (*models.Order, error) {
	order := &models.Order{}

	var itemsJSON []byte

	err := row.Scan(&order.ID, &order.UserID, &itemsJSON, &order.TotalPrice, &order.Status, &order.IdempotencyKey, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	offset := (page - 1) * size

	// Newest first, matching the order-history screen.
	query := `
		SELECT id, user_id, items, total_price, status, idempotency_key, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying database: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var order models.Order

		var itemsJSON []byte

		err := rows.Scan(&order.ID, &order.UserID, &itemsJSON, &order.TotalPrice, &order.Status, &order.IdempotencyKey, &order.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal order items: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, total, nil
}
