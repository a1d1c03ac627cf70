package trivia

import (
	"context"
	"database/sql"
	"time"

	"github.com/mercatto/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ChallengesForDate returns every challenge scheduled for the given day.
func (r *Repository) ChallengesForDate(ctx context.Context, date time.Time) ([]domain.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, COALESCE(image_url, ''), correct_answer, date
		FROM challenges
		WHERE date = $1
	`, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var challenges []domain.Challenge
	for rows.Next() {
		var c domain.Challenge
		if err := rows.Scan(&c.ID, &c.Text, &c.ImageURL, &c.CorrectAnswer, &c.Date); err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}

// GetChallenge returns nil without error when the id is unknown.
func (r *Repository) GetChallenge(ctx context.Context, id string) (*domain.Challenge, error) {
	c := &domain.Challenge{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, text, COALESCE(image_url, ''), correct_answer, date
		FROM challenges
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Text, &c.ImageURL, &c.CorrectAnswer, &c.Date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return c, nil
}
