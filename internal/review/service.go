package review

import (
	"context"
	"strings"

	"gigmarket-be/internal/utils"
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Review, error)
	ListByGig(ctx context.Context, gigID uint) ([]*Review, error)
	Moderate(ctx context.Context, id uint, status Status) error
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Review, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	rv := &Review{
		GigID:   in.GigID,
		UserID:  userID,
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
		Status:  StatusPending,
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// ListByGig shows unmoderated reviews to admins only.
func (s *service) ListByGig(ctx context.Context, gigID uint) ([]*Review, error) {
	return s.repo.ListByGig(ctx, gigID, !utils.IsAdmin(ctx))
}

func (s *service) Moderate(ctx context.Context, id uint, status Status) error {
	if status != StatusApproved && status != StatusRejected {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
