package services

import (
	"context"

	"jamaahmart/internal/domain"
)

type CartService struct {
	Sessions *SessionStore
	Catalog  *CatalogService
}

func NewCartService(sessions *SessionStore, catalog *CatalogService) *CartService {
	return &CartService{Sessions: sessions, Catalog: catalog}
}

type CartLine struct {
	Item     domain.CatalogItem `json:"item"`
	Quantity int                `json:"quantity"`
	Subtotal int64              `json:"subtotal"`
}

type CartView struct {
	Lines          []CartLine `json:"lines"`
	TotalAmount    int64      `json:"totalAmount"`
	TotalItemCount int        `json:"totalItemCount"`
}

// Enter refreshes the session's catalog snapshot, as opening the marketplace does.
func (s *CartService) Enter(ctx context.Context, sid string) (domain.Catalog, error) {
	snap, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	_ = s.Sessions.With(sid, func(sess *Session) error {
		sess.SetCatalog(snap)
		return nil
	})
	return snap, nil
}

// Add puts one more of itemID in the cart. The stock ceiling is the one in the
// session's snapshot, which may be stale.
func (s *CartService) Add(ctx context.Context, sid, itemID string) (CartView, error) {
	var view CartView
	err := s.Sessions.With(sid, func(sess *Session) error {
		snap, err := s.ensureSnapshot(ctx, sess)
		if err != nil {
			return err
		}
		item, ok := snap.Lookup(itemID)
		if !ok {
			return ErrItemNotFound
		}
		if err := sess.Cart().Add(item); err != nil {
			return err
		}
		view = buildView(sess.Cart(), snap)
		return nil
	})
	return view, err
}

func (s *CartService) Remove(ctx context.Context, sid, itemID string) (CartView, error) {
	var view CartView
	err := s.Sessions.With(sid, func(sess *Session) error {
		snap, err := s.ensureSnapshot(ctx, sess)
		if err != nil {
			return err
		}
		sess.Cart().Remove(itemID)
		view = buildView(sess.Cart(), snap)
		return nil
	})
	return view, err
}

func (s *CartService) View(ctx context.Context, sid string) (CartView, error) {
	var view CartView
	err := s.Sessions.With(sid, func(sess *Session) error {
		snap, err := s.ensureSnapshot(ctx, sess)
		if err != nil {
			return err
		}
		view = buildView(sess.Cart(), snap)
		return nil
	})
	return view, err
}

func (s *CartService) ensureSnapshot(ctx context.Context, sess *Session) (domain.Catalog, error) {
	if snap, ok := sess.Catalog(); ok {
		return snap, nil
	}
	snap, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	sess.SetCatalog(snap)
	return snap, nil
}

// buildView lists cart entries known to the snapshot; unknown ones are left out
// and add nothing to the total.
func buildView(cart *domain.Cart, snap domain.Catalog) CartView {
	view := CartView{
		Lines:          []CartLine{},
		TotalAmount:    cart.TotalAmount(snap),
		TotalItemCount: cart.TotalItemCount(),
	}
	for _, e := range cart.Entries() {
		it, ok := snap.Lookup(e.ItemID)
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, CartLine{Item: it, Quantity: e.Quantity, Subtotal: it.Price * int64(e.Quantity)})
	}
	return view
}
