package order

import (
	"context"

	"gigmarket-be/internal/logger"
	"gigmarket-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// CreateFromConfirmation persists the order for a confirmed payment.
	// Submitting the same transaction id again returns the existing order
	// with created=false instead of writing a second one.
	CreateFromConfirmation(ctx context.Context, in ConfirmationInput) (*Order, bool, error)

	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error)
	GetDetail(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status) error
	RequestCancel(ctx context.Context, orderID uint) error
	Delete(ctx context.Context, orderID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateFromConfirmation(ctx context.Context, in ConfirmationInput) (*Order, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CreateFromConfirmation"),
		zap.String("payment_method", string(in.Method)),
		zap.String("transaction_id", in.TransactionID),
	)

	if in.TransactionID == "" {
		return nil, false, ErrMissingTransactionID
	}

	o := &Order{
		ExternalID: uuid.New(),

		UserID:    in.UserID,
		UserName:  in.UserName,
		UserEmail: in.UserEmail,
		UserPhone: in.UserPhone,

		GigID:    in.GigID,
		GigTitle: in.GigTitle,
		Tier:     in.Tier,
		Price:    in.Price,

		PaymentMethod: in.Method,
		TransactionID: in.TransactionID,
		PaymentStatus: PaymentPaid,

		Status: StatusPending,
	}

	inserted, err := s.repo.Insert(ctx, o)
	if err != nil {
		log.Error("failed to persist confirmed order", zap.Error(err))
		return nil, false, err
	}

	if !inserted {
		existing, err := s.repo.GetByTransactionID(ctx, in.TransactionID)
		if err != nil {
			return nil, false, err
		}
		log.Info("duplicate confirmation, returning existing order",
			zap.Uint("order_id", existing.ID),
		)
		return existing, false, nil
	}

	log.Info("order created from confirmation", zap.Uint("order_id", o.ID))
	return o, true, nil
}

func (s *service) List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error) {
	return s.repo.List(ctx, filter, sort, limit, page)
}

func (s *service) GetDetail(ctx context.Context, orderID uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	if !utils.IsAdmin(ctx) && o.UserID != userID {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uint, status Status) error {
	validStatuses := map[Status]bool{
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusCancelled:  true,
	}

	if !validStatuses[status] {
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, orderID, status)
}

func (s *service) RequestCancel(ctx context.Context, orderID uint) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	return s.repo.SetCancelRequested(ctx, orderID, userID)
}

func (s *service) Delete(ctx context.Context, orderID uint) error {
	return s.repo.Delete(ctx, orderID)
}
