package offer

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, o *Offer) error
	Update(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Offer, error)
	List(ctx context.Context) ([]*Offer, error)
	ListApplicable(ctx context.Context) ([]*Offer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(o *Offer) error {
	if o.Title == "" {
		return errors.New("title is required")
	}
	if o.OfferPrice < 0 {
		return errors.New("offer price must not be negative")
	}
	for _, p := range []*float64{o.BasicPrice, o.StandardPrice, o.PremiumPrice} {
		if p != nil && *p < 0 {
			return errors.New("tier prices must not be negative")
		}
	}
	if o.StartsAt != nil && o.EndsAt != nil && o.EndsAt.Before(*o.StartsAt) {
		return errors.New("offer window ends before it starts")
	}
	return nil
}

func (s *service) Create(ctx context.Context, o *Offer) error {
	if err := validate(o); err != nil {
		return err
	}
	return s.repo.Create(ctx, o)
}

func (s *service) Update(ctx context.Context, o *Offer) error {
	if err := validate(o); err != nil {
		return err
	}
	return s.repo.Update(ctx, o)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uint) (*Offer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Offer, error) {
	return s.repo.List(ctx)
}

func (s *service) ListApplicable(ctx context.Context) ([]*Offer, error) {
	return s.repo.ListApplicable(ctx, time.Now())
}
