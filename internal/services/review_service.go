package services

import (
	"context"
	"errors"
	"time"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/repos"
)

var (
	ErrInvalidStatus = errors.New("status must be approved or rejected")
	ErrOrderFinal    = errors.New("order has already been decided")
)

// ReviewService is the only writer of order status after creation.
type ReviewService struct {
	Orders *repos.OrderRepo
	Now    func() time.Time
}

func NewReviewService(orders *repos.OrderRepo) *ReviewService {
	return &ReviewService{Orders: orders, Now: time.Now}
}

// Decide approves or rejects a pending order. The check and the write are one
// conditional update, so two admins racing on the same order get one winner.
func (s *ReviewService) Decide(ctx context.Context, orderID string, next domain.OrderStatus) error {
	if !domain.OrderPending.CanTransitionTo(next) {
		return ErrInvalidStatus
	}
	ok, err := s.Orders.UpdateStatusFrom(ctx, orderID, domain.OrderPending, next, s.Now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.Orders.Status(ctx, orderID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return ErrOrderFinal
}
