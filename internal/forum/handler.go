package forum

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mercatto/storefront/internal/domain"
)

// Store is the forum persistence surface. Implemented by *Repository.
type Store interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, question *domain.Question) error
	GetQuestion(ctx context.Context, id string) (*domain.Question, error)
	ListAnswers(ctx context.Context, questionID string) ([]domain.Answer, error)
	CreateAnswer(ctx context.Context, answer *domain.Answer) error
}

// CustomerResolver identifies the posting account. Implemented by the
// identity service.
type CustomerResolver interface {
	CustomerFromRequest(ctx context.Context, r *http.Request) (*domain.Customer, error)
}

type Handler struct {
	store     Store
	customers CustomerResolver
	logger    *slog.Logger
}

func NewHandler(store Store, customers CustomerResolver, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		customers: customers,
		logger:    logger,
	}
}

func (h *Handler) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.store.ListQuestions(r.Context())
	if err != nil {
		h.logger.Error("failed to list questions", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if questions == nil {
		questions = []domain.Question{}
	}
	h.writeJSON(w, http.StatusOK, questions)
}

type createQuestionRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

func (h *Handler) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		h.writeError(w, http.StatusBadRequest, "title and body are required")
		return
	}

	question := &domain.Question{
		AccountID: accountID,
		Title:     req.Title,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
	}
	if err := h.store.CreateQuestion(r.Context(), question); err != nil {
		h.logger.Error("failed to create question", "error", err, "account_id", accountID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("question created", "question_id", question.ID, "account_id", accountID)
	h.writeJSON(w, http.StatusCreated, question)
}

type questionResponse struct {
	Question domain.Question `json:"question"`
	Answers  []domain.Answer `json:"answers"`
}

func (h *Handler) HandleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing question id")
		return
	}

	question, err := h.store.GetQuestion(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get question", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if question == nil {
		h.writeError(w, http.StatusNotFound, "question not found")
		return
	}

	answers, err := h.store.ListAnswers(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list answers", "error", err, "question_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if answers == nil {
		answers = []domain.Answer{}
	}

	h.writeJSON(w, http.StatusOK, questionResponse{Question: *question, Answers: answers})
}

type createAnswerRequest struct {
	Body string `json:"body"`
}

func (h *Handler) HandleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		h.writeError(w, http.StatusBadRequest, "missing question id")
		return
	}

	accountID, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req createAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		h.writeError(w, http.StatusBadRequest, "body is required")
		return
	}

	question, err := h.store.GetQuestion(r.Context(), questionID)
	if err != nil {
		h.logger.Error("failed to get question", "error", err, "id", questionID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if question == nil {
		h.writeError(w, http.StatusNotFound, "question not found")
		return
	}

	answer := &domain.Answer{
		QuestionID: questionID,
		AccountID:  accountID,
		Body:       req.Body,
	}
	if err := h.store.CreateAnswer(r.Context(), answer); err != nil {
		h.logger.Error("failed to create answer", "error", err, "question_id", questionID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusCreated, answer)
}

func (h *Handler) requireAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	customer, err := h.customers.CustomerFromRequest(r.Context(), r)
	if err != nil {
		h.logger.Error("failed to resolve customer", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return "", false
	}
	if customer == nil || customer.AccountID == "" {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return customer.AccountID, true
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
