package domain

import "time"

type Question struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	AccountID  string    `json:"account_id"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
