package gig

import (
	"context"
	"errors"

	"gigmarket-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, g *Gig) error
	Update(ctx context.Context, g *Gig) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Gig, error)
	List(ctx context.Context, onlyActive bool) ([]*Gig, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(g *Gig) error {
	if g.Title == "" {
		return errors.New("title is required")
	}
	if len(g.Packages) == 0 {
		return errors.New("at least one package is required")
	}

	seen := make(map[string]bool, len(g.Packages))
	for _, p := range g.Packages {
		if p.Name == "" {
			return errors.New("package name is required")
		}
		if seen[p.Name] {
			return errors.New("duplicate package name: " + p.Name)
		}
		seen[p.Name] = true

		if p.SalePrice < 0 || p.RegularPrice < 0 {
			return errors.New("package prices must not be negative")
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, g *Gig) error {
	if err := validate(g); err != nil {
		return err
	}
	return s.repo.Create(ctx, g)
}

func (s *service) Update(ctx context.Context, g *Gig) error {
	if err := validate(g); err != nil {
		return err
	}
	return s.repo.Update(ctx, g)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx)
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info("gig deleted", zap.Uint("gig_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Gig, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, onlyActive bool) ([]*Gig, error) {
	return s.repo.List(ctx, onlyActive)
}
