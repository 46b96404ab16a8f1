package services

import (
	"context"
	"time"

	"jamaahmart/internal/domain"
)

// CheckoutService moves a session from cart to a frozen checkout payload.
// The payload lives only in the session; it is never stored.
type CheckoutService struct {
	Sessions *SessionStore
	Carts    *CartService
	Now      func() time.Time
}

func NewCheckoutService(sessions *SessionStore, carts *CartService) *CheckoutService {
	return &CheckoutService{Sessions: sessions, Carts: carts, Now: time.Now}
}

// Begin builds the payload from the cart. An empty cart yields domain.ErrEmptyCart
// and leaves any earlier payload alone.
func (s *CheckoutService) Begin(ctx context.Context, sid string) (*domain.CheckoutPayload, error) {
	var p *domain.CheckoutPayload
	err := s.Sessions.With(sid, func(sess *Session) error {
		if sess.Cart().IsEmpty() {
			return domain.ErrEmptyCart
		}
		snap, err := s.Carts.ensureSnapshot(ctx, sess)
		if err != nil {
			return err
		}
		p, err = domain.NewCheckoutPayload(sess.Cart(), snap, s.Now())
		if err != nil {
			return err
		}
		sess.SetPayload(p)
		return nil
	})
	return p, err
}

// Current returns the pending payload or domain.ErrNoCheckout.
func (s *CheckoutService) Current(sid string) (*domain.CheckoutPayload, error) {
	var p *domain.CheckoutPayload
	s.Sessions.Peek(sid, func(sess *Session) { p = sess.Payload() })
	if p == nil {
		return nil, domain.ErrNoCheckout
	}
	return p, nil
}

// Abandon discards the payload; the cart is kept.
func (s *CheckoutService) Abandon(sid string) {
	s.Sessions.Peek(sid, func(sess *Session) { sess.SetPayload(nil) })
}

// Complete clears payload and cart after the order is stored. It only clears
// when the session still holds p, so a newer checkout is not lost.
func (s *CheckoutService) Complete(sid string, p *domain.CheckoutPayload) {
	s.Sessions.Peek(sid, func(sess *Session) {
		if sess.Payload() != p {
			return
		}
		sess.SetPayload(nil)
		sess.Cart().Clear()
	})
}
