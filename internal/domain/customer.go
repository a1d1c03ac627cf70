package domain

import "time"

// Account is an authenticated login. Guests have no account; their customer
// record is materialized at checkout.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer is the shopper identity orders hang off. AccountID is empty for
// guest customers created ad hoc during checkout.
type Customer struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Shopper is the resolved acting identity for a request: either an
// authenticated customer with their persisted incomplete order, or a guest
// whose order is synthesized from the cart cookie and not persisted yet.
type Shopper struct {
	Customer *Customer `json:"customer,omitempty"`
	Order    Order     `json:"order"`
	Guest    bool      `json:"guest"`
}
