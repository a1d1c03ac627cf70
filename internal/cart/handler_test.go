package cart

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mercatto/storefront/internal/domain"
)

type fakeStore struct {
	order   *domain.Order
	added   []string
	removed []string
}

func (f *fakeStore) GetOrCreateOrder(context.Context, string) (*domain.Order, error) {
	return f.order, nil
}

func (f *fakeStore) AddItem(_ context.Context, _, productID string) error {
	f.added = append(f.added, productID)
	return nil
}

func (f *fakeStore) RemoveItem(_ context.Context, _, productID string) error {
	f.removed = append(f.removed, productID)
	return nil
}

type fakeProducts struct {
	products map[string]*domain.Product
}

func (f *fakeProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	return f.products[id], nil
}

type fakeCustomers struct {
	customer *domain.Customer
}

func (f *fakeCustomers) CustomerFromRequest(context.Context, *http.Request) (*domain.Customer, error) {
	return f.customer, nil
}

type fakeShoppers struct {
	shopper domain.Shopper
}

func (f *fakeShoppers) Resolve(context.Context, *http.Request) (domain.Shopper, error) {
	return f.shopper, nil
}

func newTestHandler(store *fakeStore, products *fakeProducts, customers *fakeCustomers, shoppers *fakeShoppers) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(store, products, customers, shoppers, logger)
}

func TestHandleUpdateItem(t *testing.T) {
	product := &domain.Product{ID: "p1", Name: "Coffee Beans", Price: decimal.RequireFromString("12.50")}
	customer := &domain.Customer{ID: "cust-1"}
	order := &domain.Order{ID: "order-1", CustomerID: "cust-1"}

	tests := []struct {
		name       string
		body       string
		customer   *domain.Customer
		wantStatus int
		wantAdds   int
		wantRemove int
	}{
		{
			name:       "invalid body",
			body:       "{not json",
			customer:   customer,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown action",
			body:       `{"product_id": "p1", "action": "duplicate"}`,
			customer:   customer,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing product id",
			body:       `{"action": "add"}`,
			customer:   customer,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "anonymous request",
			body:       `{"product_id": "p1", "action": "add"}`,
			customer:   nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown product",
			body:       `{"product_id": "missing", "action": "add"}`,
			customer:   customer,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "add",
			body:       `{"product_id": "p1", "action": "add"}`,
			customer:   customer,
			wantStatus: http.StatusOK,
			wantAdds:   1,
		},
		{
			name:       "remove",
			body:       `{"product_id": "p1", "action": "remove"}`,
			customer:   customer,
			wantStatus: http.StatusOK,
			wantRemove: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{order: order}
			handler := newTestHandler(
				store,
				&fakeProducts{products: map[string]*domain.Product{"p1": product}},
				&fakeCustomers{customer: tt.customer},
				&fakeShoppers{},
			)

			req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.HandleUpdateItem(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if len(store.added) != tt.wantAdds {
				t.Fatalf("expected %d adds, got %d", tt.wantAdds, len(store.added))
			}
			if len(store.removed) != tt.wantRemove {
				t.Fatalf("expected %d removes, got %d", tt.wantRemove, len(store.removed))
			}
		})
	}
}

func TestHandleGetCart(t *testing.T) {
	shopper := domain.Shopper{
		Customer: &domain.Customer{ID: "cust-1"},
		Order: domain.Order{
			ID: "order-1",
			Items: []domain.OrderItem{
				{ProductID: "p1", ProductName: "Coffee Beans", Price: decimal.RequireFromString("12.50"), Quantity: 2},
			},
		},
	}
	handler := newTestHandler(&fakeStore{}, &fakeProducts{}, &fakeCustomers{}, &fakeShoppers{shopper: shopper})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetCart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Items     []domain.OrderItem `json:"items"`
		Total     string             `json:"total"`
		ItemCount int                `json:"item_count"`
		Guest     bool               `json:"guest"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	if resp.Total != "25" {
		t.Fatalf("expected total 25, got %q", resp.Total)
	}
	if resp.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", resp.ItemCount)
	}
	if resp.Guest {
		t.Fatal("expected an authenticated cart")
	}
}

func TestHandleGetCartGuestEmpty(t *testing.T) {
	handler := newTestHandler(&fakeStore{}, &fakeProducts{}, &fakeCustomers{}, &fakeShoppers{
		shopper: domain.Shopper{Guest: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetCart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Items     []domain.OrderItem `json:"items"`
		ItemCount int                `json:"item_count"`
		Guest     bool               `json:"guest"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Items == nil || len(resp.Items) != 0 {
		t.Fatalf("expected an empty non-nil item list, got %v", resp.Items)
	}
	if !resp.Guest {
		t.Fatal("expected a guest cart")
	}
}
