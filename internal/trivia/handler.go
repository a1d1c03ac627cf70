package trivia

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/mercatto/storefront/internal/domain"
)

// Store is the challenge persistence surface. Implemented by *Repository.
type Store interface {
	ChallengesForDate(ctx context.Context, date time.Time) ([]domain.Challenge, error)
	GetChallenge(ctx context.Context, id string) (*domain.Challenge, error)
}

type Handler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// HandleTodayChallenge picks one of today's challenges at random. The chosen
// challenge id travels back to the client and is submitted with the answer,
// instead of being stashed in server-side session state.
func (h *Handler) HandleTodayChallenge(w http.ResponseWriter, r *http.Request) {
	today := h.now().UTC().Truncate(24 * time.Hour)

	challenges, err := h.store.ChallengesForDate(r.Context(), today)
	if err != nil {
		h.logger.Error("failed to load challenges", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if len(challenges) == 0 {
		h.writeError(w, http.StatusNotFound, "no challenge today")
		return
	}

	selected := challenges[rand.Intn(len(challenges))]
	h.logger.Info("challenge selected", "challenge_id", selected.ID)
	h.writeJSON(w, http.StatusOK, selected)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerResponse struct {
	Correct bool `json:"correct"`
}

// HandleSubmitAnswer checks a submitted answer against the challenge,
// ignoring case and surrounding whitespace.
func (h *Handler) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing challenge id")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	challenge, err := h.store.GetChallenge(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get challenge", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if challenge == nil {
		h.writeError(w, http.StatusNotFound, "challenge not found")
		return
	}

	correct := answersMatch(challenge.CorrectAnswer, req.Answer)
	h.logger.Info("challenge answered", "challenge_id", id, "correct", correct)
	h.writeJSON(w, http.StatusOK, answerResponse{Correct: correct})
}

func answersMatch(expected, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(submitted))
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
