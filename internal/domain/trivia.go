package domain

import "time"

// Challenge is a daily trivia question. CorrectAnswer never leaves the
// server; the public view strips it.
type Challenge struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	ImageURL      string    `json:"image_url,omitempty"`
	CorrectAnswer string    `json:"-"`
	Date          time.Time `json:"date"`
}
