package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercatto/storefront/internal/domain"
)

const sessionTTL = 30 * 24 * time.Hour

type SignupParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Signup creates the account and then runs the account-created command that
// creates the linked customer. The linking is an explicit call here, not a
// persistence-layer hook.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*domain.Account, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Username:  params.Username,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
	}

	if err := s.repo.CreateAccount(ctx, account, string(hash)); err != nil {
		return nil, "", err
	}

	if err := s.onAccountCreated(ctx, account); err != nil {
		return nil, "", fmt.Errorf("create linked customer: %w", err)
	}

	token, err := s.startSession(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account created", "account_id", account.ID, "username", account.Username)
	return account, token, nil
}

func (s *Service) onAccountCreated(ctx context.Context, account *domain.Account) error {
	customer := &domain.Customer{
		AccountID: account.ID,
		Name:      strings.TrimSpace(account.FirstName + " " + account.LastName),
		Email:     account.Email,
	}
	return s.repo.CreateCustomer(ctx, customer)
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	account, hash, err := s.repo.AccountByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, account.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("session started", "account_id", account.ID)
	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

func (s *Service) startSession(ctx context.Context, accountID string) (string, error) {
	token := uuid.New().String()
	if err := s.repo.CreateSession(ctx, token, accountID, time.Now().UTC().Add(sessionTTL)); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// CustomerFromRequest resolves the bearer token to a customer. Returns nil
// without error when the request carries no usable token.
func (s *Service) CustomerFromRequest(ctx context.Context, r *http.Request) (*domain.Customer, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}
	return s.repo.CustomerByToken(ctx, token)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
