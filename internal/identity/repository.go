package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mercatto/storefront/internal/domain"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const uniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account, passwordHash string) error {
	account.ID = uuid.New().String()
	account.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, password_hash, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, account.ID, account.Username, passwordHash, account.FirstName, account.LastName, account.Email, account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrUsernameTaken
		}
		return err
	}

	return nil
}

// AccountByUsername returns the account and its password hash, or nil when
// the username is unknown.
func (r *Repository) AccountByUsername(ctx context.Context, username string) (*domain.Account, string, error) {
	account := &domain.Account{}
	var hash string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, first_name, last_name, email, created_at
		FROM accounts
		WHERE username = $1
	`, username).Scan(&account.ID, &account.Username, &hash, &account.FirstName, &account.LastName, &account.Email, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}

	return account, hash, nil
}

func (r *Repository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	customer.ID = uuid.New().String()
	customer.CreatedAt = time.Now().UTC()

	var accountID any
	if customer.AccountID != "" {
		accountID = customer.AccountID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, account_id, name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, customer.ID, accountID, customer.Name, customer.Email, customer.CreatedAt)
	return err
}

func (r *Repository) CreateSession(ctx context.Context, token, accountID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, account_id, created_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
	`, token, accountID, expiresAt)
	return err
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// CustomerByToken resolves a session token to the linked customer. Returns
// nil without error for unknown or expired tokens.
func (r *Repository) CustomerByToken(ctx context.Context, token string) (*domain.Customer, error) {
	customer := &domain.Customer{}
	var accountID sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.account_id, c.name, c.email, c.created_at
		FROM sessions s
		JOIN customers c ON c.account_id = s.account_id
		WHERE s.token = $1 AND s.expires_at > NOW()
	`, token).Scan(&customer.ID, &accountID, &customer.Name, &customer.Email, &customer.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	customer.AccountID = accountID.String
	return customer, nil
}
