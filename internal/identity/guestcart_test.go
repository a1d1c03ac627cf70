package identity

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
)

func TestParseCartCookie(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   map[string]int
	}{
		{
			name:   "no cookie",
			cookie: nil,
			want:   nil,
		},
		{
			name:   "empty value",
			cookie: &http.Cookie{Name: CartCookieName, Value: ""},
			want:   nil,
		},
		{
			name:   "url encoded json",
			cookie: &http.Cookie{Name: CartCookieName, Value: url.QueryEscape(`{"p1": {"quantity": 2}, "p2": {"quantity": 1}}`)},
			want:   map[string]int{"p1": 2, "p2": 1},
		},
		{
			name:   "plain json",
			cookie: &http.Cookie{Name: CartCookieName, Value: `{"p1":{"quantity":3}}`},
			want:   map[string]int{"p1": 3},
		},
		{
			name:   "garbage value",
			cookie: &http.Cookie{Name: CartCookieName, Value: "not-json-at-all"},
			want:   nil,
		},
		{
			name:   "json array instead of object",
			cookie: &http.Cookie{Name: CartCookieName, Value: `[1,2,3]`},
			want:   nil,
		},
		{
			name:   "non-positive quantities dropped",
			cookie: &http.Cookie{Name: CartCookieName, Value: `{"p1":{"quantity":0},"p2":{"quantity":-4},"p3":{"quantity":1}}`},
			want:   map[string]int{"p3": 1},
		},
		{
			name:   "all entries invalid",
			cookie: &http.Cookie{Name: CartCookieName, Value: `{"p1":{"quantity":0},"":{"quantity":5}}`},
			want:   nil,
		},
		{
			name:   "wrong entry shape",
			cookie: &http.Cookie{Name: CartCookieName, Value: `{"p1": "two"}`},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}

			got := ParseCartCookie(r)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
