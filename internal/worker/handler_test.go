package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mercatto/storefront/internal/domain"
)

type emailSink struct {
	mu     sync.Mutex
	status int
	sent   []map[string]string
}

func (s *emailSink) handler(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.sent = append(s.sent, req)
	status := s.status
	s.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `{"status":"sent"}`)
}

func testEvent() domain.OrderPlacedEvent {
	return domain.OrderPlacedEvent{
		OrderID:       "order-1",
		CustomerName:  "Ada Byron",
		CustomerEmail: "ada@example.com",
		OrderDate:     "2026-08-29 10:00:00",
		Address: domain.OrderPlacedAddress{
			Street:     "1 Main St",
			City:       "Springfield",
			PostalCode: "12345",
		},
		OrderItems: []domain.OrderPlacedItem{
			{ProductName: "Coffee Beans", Quantity: 2},
			{ProductName: "Green Tea", Quantity: 1},
		},
	}
}

func TestHandleSendsConfirmationEmail(t *testing.T) {
	sink := &emailSink{}
	server := httptest.NewServer(http.HandlerFunc(sink.handler))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewNotificationHandler(server.URL, &http.Client{Timeout: 5 * time.Second}, logger)

	payload, err := json.Marshal(testEvent())
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	if err := handler.Handle(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sink.sent))
	}

	email := sink.sent[0]
	if email["to"] != "ada@example.com" {
		t.Fatalf("unexpected recipient: %q", email["to"])
	}
	if email["subject"] != "Order Confirmation: order-1" {
		t.Fatalf("unexpected subject: %q", email["subject"])
	}
	for _, want := range []string{"Ada Byron", "2026-08-29 10:00:00", "1 Main St", "Springfield", "Coffee Beans x2", "Green Tea x1"} {
		if !strings.Contains(email["body"], want) {
			t.Fatalf("expected body to contain %q, got: %q", want, email["body"])
		}
	}
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewNotificationHandler("http://unused", &http.Client{}, logger)

	if err := handler.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected an error for malformed payload")
	}
}

func TestHandleReportsEmailServiceFailure(t *testing.T) {
	sink := &emailSink{status: http.StatusInternalServerError}
	server := httptest.NewServer(http.HandlerFunc(sink.handler))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewNotificationHandler(server.URL, &http.Client{Timeout: 5 * time.Second}, logger)

	payload, err := json.Marshal(testEvent())
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	if err := handler.Handle(context.Background(), payload); err == nil {
		t.Fatal("expected an error when the email service fails")
	}
}
