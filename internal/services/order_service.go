package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/imaging"
	applog "jamaahmart/internal/log"
	"jamaahmart/internal/repos"
)

const MaxNotesLen = 500

var (
	ErrMissingProof  = errors.New("payment proof is required")
	ErrNotesTooLong  = fmt.Errorf("notes exceed %d characters", MaxNotesLen)
	ErrNoOwner       = errors.New("order owner is required")
	ErrPersist       = errors.New("order could not be saved")
	ErrOrderNotFound = errors.New("order not found")
)

// OrderStore appends a new order with its lines, atomically.
type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
}

type ProofProcessor interface {
	Process(ctx context.Context, u *imaging.Upload) (imaging.Evidence, error)
}

type SubmitRequest struct {
	Owner   *domain.User
	Payload *domain.CheckoutPayload
	Proof   *imaging.Upload
	Notes   string
}

type SubmitResult struct {
	Order    domain.Order
	Evidence imaging.Evidence
}

type OrderService struct {
	Store  OrderStore
	Orders *repos.OrderRepo
	Proofs ProofProcessor
	Now    func() time.Time
}

func NewOrderService(orders *repos.OrderRepo, proofs ProofProcessor) *OrderService {
	return &OrderService{Store: orders, Orders: orders, Proofs: proofs, Now: time.Now}
}

// Submit turns a checkout payload plus payment evidence into a pending order.
// Nothing is written unless every check passes. Lines and prices come from the
// payload only; stock is not touched.
func (s *OrderService) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	if req.Owner == nil {
		return SubmitResult{}, ErrNoOwner
	}
	if req.Payload == nil {
		return SubmitResult{}, domain.ErrNoCheckout
	}
	if req.Proof == nil || req.Proof.Size <= 0 {
		return SubmitResult{}, ErrMissingProof
	}
	notes := strings.TrimSpace(req.Notes)
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		return SubmitResult{}, ErrNotesTooLong
	}

	ev, err := s.Proofs.Process(ctx, req.Proof)
	if err != nil {
		return SubmitResult{}, err
	}

	now := s.Now()
	o := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     domain.NewOrderNumber(now),
		OwnerID:         req.Owner.ID,
		OwnerEmail:      req.Owner.Email,
		OwnerName:       req.Owner.Name,
		Items:           domain.LinesFromCheckout(req.Payload),
		TotalAmount:     req.Payload.TotalAmount(),
		PaymentProofURL: ev.DataURL,
		Notes:           notes,
		Status:          domain.OrderPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// once started the write finishes on its own even if the client goes away
	if err := s.Store.Create(context.WithoutCancel(ctx), &o); err != nil {
		applog.L().Error("order persist failed",
			zap.String("order_number", o.OrderNumber), zap.String("owner_id", o.OwnerID), zap.Error(err))
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	applog.L().Info("order submitted",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int64("total", o.TotalAmount),
		zap.Bool("proof_compressed", ev.Compressed),
		zap.Float64("proof_ratio", ev.Ratio),
	)
	return SubmitResult{Order: o, Evidence: ev}, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return o, ErrOrderNotFound
	}
	return o, err
}

// History lists the owner's orders, newest first.
func (s *OrderService) History(ctx context.Context, ownerID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListByOwner(ctx, ownerID)
}

// Queue lists orders for the admin screen; an empty status lists everything.
func (s *OrderService) Queue(ctx context.Context, status domain.OrderStatus, limit int) ([]repos.OrderSummary, error) {
	if status == "" {
		return s.Orders.ListLatest(ctx, limit)
	}
	return s.Orders.ListByStatus(ctx, status, limit)
}
