package coupon

import (
	"context"
	"errors"
	"strings"
)

type Service interface {
	Create(ctx context.Context, code string, discountPercent float64) (*Coupon, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*Coupon, error)
	Validate(ctx context.Context, code string) (*Coupon, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, code string, discountPercent float64) (*Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("code is required")
	}
	if discountPercent <= 0 || discountPercent > 100 {
		return nil, errors.New("discount percent must be between 0 and 100")
	}

	c := &Coupon{Code: code, DiscountPercent: discountPercent}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Coupon, error) {
	return s.repo.List(ctx)
}

// Validate returns the coupon for a code, or ErrCouponNotFound. Unlike the
// pricing path, a client asking explicitly about a code gets a definite
// answer rather than a silent no-op.
func (s *service) Validate(ctx context.Context, code string) (*Coupon, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}
	return c, nil
}
