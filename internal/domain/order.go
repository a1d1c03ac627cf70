package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartAction string

const (
	CartActionAdd    CartAction = "add"
	CartActionRemove CartAction = "remove"
)

// OrderItem joins an order to a product. Quantity is strictly positive while
// the row exists; a mutation that would take it to zero deletes the row
// instead.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is price at the product times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the cart/order aggregate. While Complete is false it acts as the
// customer's mutable cart; flipping Complete to true at checkout is a one-way
// transition.
type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customer_id,omitempty"`
	Complete      bool        `json:"complete"`
	TransactionID string      `json:"transaction_id,omitempty"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CartTotal sums the line totals of all attached items.
func (o Order) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CartItemCount sums the quantities of all attached items.
func (o Order) CartItemCount() int {
	var count int
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// Address is written once per checkout and never updated.
type Address struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	OrderID    string    `json:"order_id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
}
