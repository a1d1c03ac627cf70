package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is read-only from the cart's perspective: order operations look
// products up but never mutate them.
type Product struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
}
