package cart

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mercatto/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CurrentOrder returns the customer's incomplete order with its items, or nil
// when the customer has no cart yet.
func (r *Repository) CurrentOrder(ctx context.Context, customerID string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, complete, COALESCE(transaction_id, ''), created_at
		FROM orders
		WHERE customer_id = $1 AND NOT complete
	`, customerID).Scan(&order.ID, &order.CustomerID, &order.Complete, &order.TransactionID, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.orderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetOrCreateOrder returns the customer's incomplete order, creating it when
// absent. The insert races safely: a partial unique index on
// (customer_id) WHERE NOT complete makes concurrent creates collapse into one
// row, so at most one incomplete order exists per customer. The re-read can
// still come back empty when a concurrent checkout finalizes the order
// between the two statements, so the create is retried before giving up.
func (r *Repository) GetOrCreateOrder(ctx context.Context, customerID string) (*domain.Order, error) {
	for attempt := 0; attempt < 3; attempt++ {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO orders (id, customer_id, complete, created_at)
			VALUES ($1, $2, false, NOW())
			ON CONFLICT (customer_id) WHERE NOT complete DO NOTHING
		`, uuid.New().String(), customerID)
		if err != nil {
			return nil, err
		}

		order, err := r.CurrentOrder(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}

	return nil, fmt.Errorf("no incomplete order for customer %s after create", customerID)
}

// AddItem increments the (order, product) row, creating it at quantity 1.
// The upsert is a single atomic statement, so concurrent adds cannot lose an
// update or duplicate the row.
func (r *Repository) AddItem(ctx context.Context, orderID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (order_id, product_id)
		DO UPDATE SET quantity = order_items.quantity + 1
	`, uuid.New().String(), orderID, productID)
	return err
}

// RemoveItem decrements the row, deleting it when the quantity would reach
// zero. A remove against a nonexistent item is a no-op; a non-positive
// quantity is never stored. The row is locked for the duration of the
// transaction so a concurrent add can never be erased by the delete branch.
func (r *Repository) RemoveItem(ctx context.Context, orderID, productID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var quantity int
	err = tx.QueryRowContext(ctx, `
		SELECT quantity FROM order_items
		WHERE order_id = $1 AND product_id = $2
		FOR UPDATE
	`, orderID, productID).Scan(&quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return tx.Commit()
		}
		return err
	}

	if quantity <= 1 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM order_items
			WHERE order_id = $1 AND product_id = $2
		`, orderID, productID)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE order_items
			SET quantity = quantity - 1
			WHERE order_id = $1 AND product_id = $2
		`, orderID, productID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, p.name, p.price, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY p.name
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
