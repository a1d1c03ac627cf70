package identity

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/mercatto/storefront/internal/domain"
)

// OrderSource loads a customer's current incomplete order. Implemented by the
// cart repository.
type OrderSource interface {
	CurrentOrder(ctx context.Context, customerID string) (*domain.Order, error)
}

// ProductSource looks catalog products up for guest cart synthesis.
// Implemented by the catalog repository.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Resolver produces the acting shopper for a request: the authenticated
// customer with their persisted cart, or a guest with a cart synthesized from
// the cookie and not persisted anywhere.
type Resolver struct {
	svc      *Service
	orders   OrderSource
	products ProductSource
}

func NewResolver(svc *Service, orders OrderSource, products ProductSource) *Resolver {
	return &Resolver{
		svc:      svc,
		orders:   orders,
		products: products,
	}
}

func (rv *Resolver) Resolve(ctx context.Context, r *http.Request) (domain.Shopper, error) {
	customer, err := rv.svc.CustomerFromRequest(ctx, r)
	if err != nil {
		return domain.Shopper{}, fmt.Errorf("resolve customer: %w", err)
	}

	if customer != nil {
		order, err := rv.orders.CurrentOrder(ctx, customer.ID)
		if err != nil {
			return domain.Shopper{}, fmt.Errorf("load current order: %w", err)
		}
		if order == nil {
			order = &domain.Order{CustomerID: customer.ID}
		}
		return domain.Shopper{Customer: customer, Order: *order}, nil
	}

	order, err := rv.guestOrder(ctx, ParseCartCookie(r))
	if err != nil {
		return domain.Shopper{}, err
	}
	return domain.Shopper{Order: order, Guest: true}, nil
}

// guestOrder builds a transient order from the cookie cart. Products that no
// longer exist are dropped silently, matching the defensive cookie handling.
func (rv *Resolver) guestOrder(ctx context.Context, cart map[string]int) (domain.Order, error) {
	var order domain.Order

	productIDs := make([]string, 0, len(cart))
	for id := range cart {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	for _, id := range productIDs {
		product, err := rv.products.GetProduct(ctx, id)
		if err != nil {
			return domain.Order{}, fmt.Errorf("look up product %s: %w", id, err)
		}
		if product == nil {
			continue
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    cart[id],
		})
	}

	return order, nil
}
