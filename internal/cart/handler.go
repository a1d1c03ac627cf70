package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mercatto/storefront/internal/domain"
)

// Store is the cart persistence surface the handler needs. Implemented by
// *Repository.
type Store interface {
	GetOrCreateOrder(ctx context.Context, customerID string) (*domain.Order, error)
	AddItem(ctx context.Context, orderID, productID string) error
	RemoveItem(ctx context.Context, orderID, productID string) error
}

// ProductGetter checks that a mutated product exists. Implemented by the
// catalog repository.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// CustomerResolver yields the authenticated customer, nil for guests.
// Implemented by the identity service.
type CustomerResolver interface {
	CustomerFromRequest(ctx context.Context, r *http.Request) (*domain.Customer, error)
}

// ShopperResolver yields the full acting shopper, guest carts included.
// Implemented by the identity resolver.
type ShopperResolver interface {
	Resolve(ctx context.Context, r *http.Request) (domain.Shopper, error)
}

type Handler struct {
	store     Store
	products  ProductGetter
	customers CustomerResolver
	shoppers  ShopperResolver
	logger    *slog.Logger
}

func NewHandler(store Store, products ProductGetter, customers CustomerResolver, shoppers ShopperResolver, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		products:  products,
		customers: customers,
		shoppers:  shoppers,
		logger:    logger,
	}
}

type updateItemRequest struct {
	ProductID string            `json:"product_id"`
	Action    domain.CartAction `json:"action"`
}

type cartResponse struct {
	Items     []domain.OrderItem `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
	Guest     bool               `json:"guest"`
}

// HandleUpdateItem mutates the authenticated customer's cart. Guests mutate
// only their cookie client-side; this endpoint rejects them.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action != domain.CartActionAdd && req.Action != domain.CartActionRemove {
		h.writeError(w, http.StatusBadRequest, "action must be add or remove")
		return
	}
	if req.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	customer, err := h.customers.CustomerFromRequest(r.Context(), r)
	if err != nil {
		h.logger.Error("failed to resolve customer", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if customer == nil {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.logger.Error("failed to look up product", "error", err, "product_id", req.ProductID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	order, err := h.store.GetOrCreateOrder(r.Context(), customer.ID)
	if err != nil {
		h.logger.Error("failed to get or create order", "error", err, "customer_id", customer.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch req.Action {
	case domain.CartActionAdd:
		err = h.store.AddItem(r.Context(), order.ID, product.ID)
	case domain.CartActionRemove:
		err = h.store.RemoveItem(r.Context(), order.ID, product.ID)
	}
	if err != nil {
		h.logger.Error("failed to update cart item", "error", err, "order_id", order.ID, "product_id", product.ID, "action", req.Action)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("cart updated", "order_id", order.ID, "product_id", product.ID, "action", req.Action)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

// HandleGetCart renders the acting shopper's cart, for both authenticated
// customers and cookie-cart guests.
func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	shopper, err := h.shoppers.Resolve(r.Context(), r)
	if err != nil {
		h.logger.Error("failed to resolve shopper", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := shopper.Order.Items
	if items == nil {
		items = []domain.OrderItem{}
	}

	h.writeJSON(w, http.StatusOK, cartResponse{
		Items:     items,
		Total:     shopper.Order.CartTotal(),
		ItemCount: shopper.Order.CartItemCount(),
		Guest:     shopper.Guest,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
