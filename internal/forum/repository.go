package forum

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT q.id, q.account_id, a.username, q.title, q.body, COALESCE(q.image_url, ''), q.created_at
		FROM questions q
		JOIN accounts a ON a.id = q.account_id
		ORDER BY q.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.AccountID, &q.Author, &q.Title, &q.Body, &q.ImageURL, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *Repository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	question.ID = uuid.New().String()
	question.CreatedAt = time.Now().UTC()

	var imageURL any
	if question.ImageURL != "" {
		imageURL = question.ImageURL
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO questions (id, account_id, title, body, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, question.ID, question.AccountID, question.Title, question.Body, imageURL, question.CreatedAt)
	return err
}

// GetQuestion returns nil without error when the id is unknown.
func (r *Repository) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	q := &domain.Question{}

	err := r.db.QueryRowContext(ctx, `
		SELECT q.id, q.account_id, a.username, q.title, q.body, COALESCE(q.image_url, ''), q.created_at
		FROM questions q
		JOIN accounts a ON a.id = q.account_id
		WHERE q.id = $1
	`, id).Scan(&q.ID, &q.AccountID, &q.Author, &q.Title, &q.Body, &q.ImageURL, &q.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return q, nil
}

func (r *Repository) ListAnswers(ctx context.Context, questionID string) ([]domain.Answer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT an.id, an.question_id, an.account_id, ac.username, an.body, an.created_at
		FROM answers an
		JOIN accounts ac ON ac.id = an.account_id
		WHERE an.question_id = $1
		ORDER BY an.created_at
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AccountID, &a.Author, &a.Body, &a.CreatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}

func (r *Repository) CreateAnswer(ctx context.Context, answer *domain.Answer) error {
	answer.ID = uuid.New().String()
	answer.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (id, question_id, account_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, answer.ID, answer.QuestionID, answer.AccountID, answer.Body, answer.CreatedAt)
	return err
}
