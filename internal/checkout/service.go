package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/storefront/internal/domain"
)

// ErrValidation marks client errors: missing shipping fields, unparseable
// totals. Nothing is persisted when Process fails with it.
var ErrValidation = errors.New("validation failed")

const defaultDispatchTimeout = 5 * time.Second

// Store is the checkout persistence surface. Implemented by *Repository.
type Store interface {
	MaterializeGuestOrder(ctx context.Context, customer *domain.Customer, order *domain.Order) error
	FinalizeOrder(ctx context.Context, orderID, transactionID string, complete bool) error
	CreateAddress(ctx context.Context, address *domain.Address) error
}

// CartStore supplies the incomplete order for authenticated checkouts.
// Implemented by the cart repository.
type CartStore interface {
	GetOrCreateOrder(ctx context.Context, customerID string) (*domain.Order, error)
}

// Dispatcher hands the serialized order summary to the notification queue.
// Implemented by the messaging producer.
type Dispatcher interface {
	Dispatch(ctx context.Context, key string, payload []byte) error
}

type Shipping struct {
	Street     string
	City       string
	PostalCode string
}

type Request struct {
	Shopper  domain.Shopper
	Shipping Shipping
	// Total is the client-submitted payment total, decimal-as-string.
	Total string
	// GuestName and GuestEmail identify the guest customer to materialize;
	// ignored for authenticated shoppers.
	GuestName  string
	GuestEmail string
}

type Result struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	// Completed reports whether the submitted total matched the server-side
	// cart total exactly. A mismatched order is persisted but stays
	// incomplete.
	Completed bool `json:"completed"`
	// Dispatched reports whether the notification send succeeded. A failed
	// send never rolls back the order.
	Dispatched bool `json:"dispatched"`
}

type Service struct {
	store           Store
	carts           CartStore
	dispatcher      Dispatcher
	logger          *slog.Logger
	dispatchTimeout time.Duration
}

func NewService(store Store, carts CartStore, dispatcher Dispatcher, logger *slog.Logger) *Service {
	return &Service{
		store:           store,
		carts:           carts,
		dispatcher:      dispatcher,
		logger:          logger,
		dispatchTimeout: defaultDispatchTimeout,
	}
}

// Process finalizes a checkout: it resolves or materializes the customer and
// order, persists the shipping address, assigns a transaction id, compares
// the submitted total against the computed cart total, and emits the order
// summary to the notification queue.
//
// The total comparison is exact, inherited from the system this replaces; a
// mismatch leaves the order incomplete but still acknowledged, with
// Result.Completed reporting which way it went. The notification is sent in
// either case.
func (s *Service) Process(ctx context.Context, req Request) (Result, error) {
	if req.Shipping.Street == "" || req.Shipping.City == "" || req.Shipping.PostalCode == "" {
		return Result{}, fmt.Errorf("%w: street, city and postal_code are required", ErrValidation)
	}

	submittedTotal, err := decimal.NewFromString(req.Total)
	if err != nil {
		return Result{}, fmt.Errorf("%w: total %q is not a decimal", ErrValidation, req.Total)
	}

	customer, order, err := s.resolveOrder(ctx, req)
	if err != nil {
		return Result{}, err
	}

	address := &domain.Address{
		CustomerID: customer.ID,
		OrderID:    order.ID,
		Street:     req.Shipping.Street,
		City:       req.Shipping.City,
		PostalCode: req.Shipping.PostalCode,
	}
	if err := s.store.CreateAddress(ctx, address); err != nil {
		return Result{}, fmt.Errorf("persist address: %w", err)
	}

	transactionID := uuid.New().String()
	completed := submittedTotal.Equal(order.CartTotal())
	if !completed {
		s.logger.Warn("submitted total does not match cart total",
			"order_id", order.ID,
			"submitted_total", submittedTotal.String(),
			"cart_total", order.CartTotal().String())
	}

	if err := s.store.FinalizeOrder(ctx, order.ID, transactionID, completed); err != nil {
		return Result{}, fmt.Errorf("finalize order: %w", err)
	}
	order.TransactionID = transactionID
	order.Complete = order.Complete || completed

	dispatched := s.dispatch(ctx, domain.NewOrderPlacedEvent(*order, *customer, *address))

	s.logger.Info("checkout processed",
		"order_id", order.ID,
		"customer_id", customer.ID,
		"completed", completed,
		"dispatched", dispatched)

	return Result{
		OrderID:       order.ID,
		TransactionID: transactionID,
		Completed:     completed,
		Dispatched:    dispatched,
	}, nil
}

func (s *Service) resolveOrder(ctx context.Context, req Request) (*domain.Customer, *domain.Order, error) {
	if req.Shopper.Guest {
		customer := &domain.Customer{
			Name:  req.GuestName,
			Email: req.GuestEmail,
		}
		if customer.Name == "" {
			customer.Name = "Guest"
		}
		order := req.Shopper.Order
		if err := s.store.MaterializeGuestOrder(ctx, customer, &order); err != nil {
			return nil, nil, fmt.Errorf("materialize guest order: %w", err)
		}
		return customer, &order, nil
	}

	customer := req.Shopper.Customer
	order := req.Shopper.Order
	if order.ID == "" {
		created, err := s.carts.GetOrCreateOrder(ctx, customer.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("get or create order: %w", err)
		}
		order = *created
	}
	return customer, &order, nil
}

// dispatch sends the order summary under a bounded timeout. Failures are
// reported through the log only: the order is already persisted and the
// client-visible acknowledgment must not depend on the queue.
func (s *Service) dispatch(ctx context.Context, event domain.OrderPlacedEvent) bool {
	if s.dispatcher == nil {
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to serialize order notification", "error", err, "order_id", event.OrderID)
		return false
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Dispatch(dispatchCtx, event.OrderID, payload); err != nil {
		s.logger.Error("failed to dispatch order notification", "error", err, "order_id", event.OrderID)
		return false
	}

	return true
}
