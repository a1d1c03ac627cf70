package trivia

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mercatto/storefront/internal/domain"
)

type fakeStore struct {
	byDate map[string][]domain.Challenge
	byID   map[string]*domain.Challenge
}

func (f *fakeStore) ChallengesForDate(_ context.Context, date time.Time) ([]domain.Challenge, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}

func (f *fakeStore) GetChallenge(_ context.Context, id string) (*domain.Challenge, error) {
	return f.byID[id], nil
}

func newTestHandler(store Store) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(store, logger)
	h.now = func() time.Time {
		return time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	}
	return h
}

func TestHandleTodayChallenge(t *testing.T) {
	challenge := domain.Challenge{
		ID:            "ch-1",
		Text:          "What is the tallest mountain on Earth?",
		CorrectAnswer: "Everest",
		Date:          time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
	}
	handler := newTestHandler(&fakeStore{
		byDate: map[string][]domain.Challenge{"2026-08-29": {challenge}},
	})

	req := httptest.NewRequest(http.MethodGet, "/challenge", nil)
	rec := httptest.NewRecorder()
	handler.HandleTodayChallenge(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if strings.Contains(body, "Everest") {
		t.Fatalf("correct answer must not leave the server, got: %s", body)
	}

	var resp domain.Challenge
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "ch-1" {
		t.Fatalf("unexpected challenge id: %q", resp.ID)
	}
}

func TestHandleTodayChallengeNoneScheduled(t *testing.T) {
	handler := newTestHandler(&fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/challenge", nil)
	rec := httptest.NewRecorder()
	handler.HandleTodayChallenge(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d: %s", http.StatusNotFound, rec.Code, rec.Body.String())
	}
}

func TestHandleSubmitAnswer(t *testing.T) {
	store := &fakeStore{
		byID: map[string]*domain.Challenge{
			"ch-1": {ID: "ch-1", CorrectAnswer: "Everest"},
		},
	}

	tests := []struct {
		name        string
		challengeID string
		body        string
		wantStatus  int
		wantCorrect bool
	}{
		{
			name:        "exact match",
			challengeID: "ch-1",
			body:        `{"answer": "Everest"}`,
			wantStatus:  http.StatusOK,
			wantCorrect: true,
		},
		{
			name:        "case and whitespace insensitive",
			challengeID: "ch-1",
			body:        `{"answer": "  everest "}`,
			wantStatus:  http.StatusOK,
			wantCorrect: true,
		},
		{
			name:        "wrong answer",
			challengeID: "ch-1",
			body:        `{"answer": "K2"}`,
			wantStatus:  http.StatusOK,
			wantCorrect: false,
		},
		{
			name:        "unknown challenge",
			challengeID: "ch-404",
			body:        `{"answer": "Everest"}`,
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "invalid body",
			challengeID: "ch-1",
			body:        "{not json",
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(store)

			req := httptest.NewRequest(http.MethodPost, "/challenge/"+tt.challengeID+"/answer", strings.NewReader(tt.body))
			req.SetPathValue("id", tt.challengeID)
			rec := httptest.NewRecorder()
			handler.HandleSubmitAnswer(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Correct bool `json:"correct"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Correct != tt.wantCorrect {
				t.Fatalf("expected correct=%v, got %v", tt.wantCorrect, resp.Correct)
			}
		})
	}
}
