package session

import (
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
)

// Session is the per-customer state that lives between requests.
type Session struct {
	ID        string            `json:"id"`
	Cart      cart.Cart         `json:"cart"`
	Checkout  *checkout.Details `json:"checkout,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// New returns an empty session for id.
func New(id string) Session {
	return Session{ID: id, Cart: cart.New()}
}

// Reset clears the cart and discards staged checkout details.
func (s *Session) Reset() {
	s.Cart.Clear()
	s.Checkout = nil
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	out := s
	out.Cart = s.Cart.Clone()
	if s.Checkout != nil {
		details := *s.Checkout
		out.Checkout = &details
	}

	return out
}
