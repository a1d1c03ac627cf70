package checkout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// MaterializeGuestOrder persists a guest checkout in one transaction: the ad
// hoc customer, the order, and the cookie-cart items. IDs and timestamps are
// written back into the arguments. Items with non-positive quantities are
// never stored.
func (r *Repository) MaterializeGuestOrder(ctx context.Context, customer *domain.Customer, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	customer.ID = uuid.New().String()
	customer.CreatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO customers (id, account_id, name, email, created_at)
		VALUES ($1, NULL, $2, $3, $4)
	`, customer.ID, customer.Name, customer.Email, now)
	if err != nil {
		return fmt.Errorf("insert guest customer: %w", err)
	}

	order.ID = uuid.New().String()
	order.CustomerID = customer.ID
	order.Complete = false
	order.CreatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, complete, created_at)
		VALUES ($1, $2, false, $3)
	`, order.ID, order.CustomerID, now)
	if err != nil {
		return fmt.Errorf("insert guest order: %w", err)
	}

	kept := order.Items[:0]
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), order.ID, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert guest order item %s: %w", item.ProductID, err)
		}
		kept = append(kept, item)
	}
	order.Items = kept

	return tx.Commit()
}

// FinalizeOrder assigns the transaction id and, when the submitted total
// matched, flips the order to complete. The OR keeps the transition one-way:
// an already-complete order can never revert.
func (r *Repository) FinalizeOrder(ctx context.Context, orderID, transactionID string, complete bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET transaction_id = $2, complete = complete OR $3
		WHERE id = $1
	`, orderID, transactionID, complete)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}

	return nil
}

func (r *Repository) CreateAddress(ctx context.Context, address *domain.Address) error {
	address.ID = uuid.New().String()
	address.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO addresses (id, customer_id, order_id, street, city, postal_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, address.ID, address.CustomerID, address.OrderID, address.Street, address.City, address.PostalCode, address.CreatedAt)
	return err
}
