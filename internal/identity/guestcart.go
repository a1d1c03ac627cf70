package identity

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// CartCookieName is the client-side cookie guests keep their cart in. Its
// value is a URL-encoded JSON object mapping product id to {"quantity": n}.
const CartCookieName = "cart"

type cartCookieEntry struct {
	Quantity int `json:"quantity"`
}

// ParseCartCookie reads the guest cart from the request. Anything malformed
// (missing cookie, bad encoding, bad JSON, non-positive quantities) degrades
// to an empty cart; rendering for guests must never fail on cookie garbage.
func ParseCartCookie(r *http.Request) map[string]int {
	cookie, err := r.Cookie(CartCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	raw := cookie.Value
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}

	var entries map[string]cartCookieEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	cart := make(map[string]int, len(entries))
	for productID, entry := range entries {
		if productID == "" || entry.Quantity <= 0 {
			continue
		}
		cart[productID] = entry.Quantity
	}

	if len(cart) == 0 {
		return nil
	}
	return cart
}
