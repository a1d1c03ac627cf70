package identity

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mercatto/storefront/internal/domain"
)

type fakeOrderSource struct{}

func (fakeOrderSource) CurrentOrder(context.Context, string) (*domain.Order, error) {
	return nil, nil
}

type fakeProductSource struct {
	products map[string]*domain.Product
}

func (f *fakeProductSource) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	return f.products[id], nil
}

func TestResolveGuestShopper(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := &fakeProductSource{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Coffee Beans", Price: decimal.RequireFromString("12.50")},
		"p2": {ID: "p2", Name: "Green Tea", Price: decimal.RequireFromString("4.25")},
	}}
	resolver := NewResolver(NewService(nil, logger), fakeOrderSource{}, products)

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.AddCookie(&http.Cookie{
		Name:  CartCookieName,
		Value: `{"p2":{"quantity":1},"p1":{"quantity":2},"gone":{"quantity":9}}`,
	})

	shopper, err := resolver.Resolve(context.Background(), r)
	if err != nil {
		t.Fatalf("failed to resolve shopper: %v", err)
	}

	if !shopper.Guest {
		t.Fatal("expected a guest shopper")
	}
	if shopper.Customer != nil {
		t.Fatal("expected no customer for guests")
	}
	if shopper.Order.ID != "" {
		t.Fatalf("guest order must not be persisted, got id %q", shopper.Order.ID)
	}

	// unknown products are dropped, remaining items come back in id order
	if len(shopper.Order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(shopper.Order.Items))
	}
	if shopper.Order.Items[0].ProductID != "p1" || shopper.Order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected first item: %+v", shopper.Order.Items[0])
	}
	if shopper.Order.Items[1].ProductID != "p2" || shopper.Order.Items[1].Quantity != 1 {
		t.Fatalf("unexpected second item: %+v", shopper.Order.Items[1])
	}

	want := decimal.RequireFromString("29.25")
	if got := shopper.Order.CartTotal(); !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
}

func TestResolveGuestShopperWithGarbageCookie(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := NewResolver(NewService(nil, logger), fakeOrderSource{}, &fakeProductSource{})

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.AddCookie(&http.Cookie{Name: CartCookieName, Value: "%%%garbage%%%"})

	shopper, err := resolver.Resolve(context.Background(), r)
	if err != nil {
		t.Fatalf("garbage cookie must not fail resolution: %v", err)
	}
	if !shopper.Guest {
		t.Fatal("expected a guest shopper")
	}
	if len(shopper.Order.Items) != 0 {
		t.Fatalf("expected an empty cart, got %d items", len(shopper.Order.Items))
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"bearer with spaces", "Bearer   abc123  ", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(r); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
