package gig

import (
	"context"
	"database/sql"
	"errors"

	"gigmarket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, g *Gig) error
	Update(ctx context.Context, g *Gig) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Gig, error)
	List(ctx context.Context, onlyActive bool) ([]*Gig, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Gig) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("title", g.Title),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO gigs (title, description, category, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, g.Title, g.Description, g.Category, g.Active).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		log.Error("failed to insert gig", zap.Error(err))
		return err
	}

	for i := range g.Packages {
		p := &g.Packages[i]
		p.GigID = g.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO gig_packages (
				gig_id, name, description, delivery_days,
				revisions, regular_price, sale_price
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id
		`,
			p.GigID, p.Name, p.Description, p.DeliveryDays,
			p.Revisions, p.RegularPrice, p.SalePrice,
		).Scan(&p.ID)
		if err != nil {
			log.Error("failed to insert gig package",
				zap.String("package", p.Name),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("gig created", zap.Uint("gig_id", g.ID), zap.Int("packages", len(g.Packages)))
	return nil
}

func (r *repository) Update(ctx context.Context, g *Gig) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE gigs
		SET title = $1, description = $2, category = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`, g.Title, g.Description, g.Category, g.Active, g.ID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrGigNotFound
	}

	// Replace packages wholesale; orders keep their own frozen snapshot.
	if _, err := tx.ExecContext(ctx, `DELETE FROM gig_packages WHERE gig_id = $1`, g.ID); err != nil {
		return err
	}

	for i := range g.Packages {
		p := &g.Packages[i]
		p.GigID = g.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO gig_packages (
				gig_id, name, description, delivery_days,
				revisions, regular_price, sale_price
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id
		`,
			p.GigID, p.Name, p.Description, p.DeliveryDays,
			p.Revisions, p.RegularPrice, p.SalePrice,
		).Scan(&p.ID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrGigNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Gig, error) {
	var g Gig
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, category, active, created_at, updated_at
		FROM gigs
		WHERE id = $1
	`, id).
		Scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.Active, &g.CreatedAt, &g.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGigNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, gig_id, name, description, delivery_days, revisions, regular_price, sale_price
		FROM gig_packages
		WHERE gig_id = $1
		ORDER BY sale_price ASC
	`, g.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Package
		if err := rows.Scan(
			&p.ID, &p.GigID, &p.Name, &p.Description,
			&p.DeliveryDays, &p.Revisions, &p.RegularPrice, &p.SalePrice,
		); err != nil {
			return nil, err
		}
		g.Packages = append(g.Packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]*Gig, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "List"))

	query := `
		SELECT id, title, description, category, active, created_at, updated_at
		FROM gigs
	`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query gigs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var gigs []*Gig
	for rows.Next() {
		var g Gig
		if err := rows.Scan(
			&g.ID, &g.Title, &g.Description, &g.Category,
			&g.Active, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		gigs = append(gigs, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gigs, nil
}
