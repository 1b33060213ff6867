package offer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gigmarket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Offer) error
	Update(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Offer, error)
	List(ctx context.Context) ([]*Offer, error)
	ListApplicable(ctx context.Context, now time.Time) ([]*Offer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const offerColumns = `
	id, gig_id, title, offer_price,
	basic_price, standard_price, premium_price,
	active, starts_at, ends_at, created_at
`

func scanOffer(row interface{ Scan(...any) error }) (*Offer, error) {
	var o Offer
	err := row.Scan(
		&o.ID, &o.GigID, &o.Title, &o.OfferPrice,
		&o.BasicPrice, &o.StandardPrice, &o.PremiumPrice,
		&o.Active, &o.StartsAt, &o.EndsAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Offer) error {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO offers (
			gig_id, title, offer_price,
			basic_price, standard_price, premium_price,
			active, starts_at, ends_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`,
		o.GigID, o.Title, o.OfferPrice,
		o.BasicPrice, o.StandardPrice, o.PremiumPrice,
		o.Active, o.StartsAt, o.EndsAt,
	).Scan(&o.ID, &o.CreatedAt)

	if err != nil {
		log.Error("failed to insert offer", zap.String("title", o.Title), zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(ctx context.Context, o *Offer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE offers
		SET gig_id = $1, title = $2, offer_price = $3,
			basic_price = $4, standard_price = $5, premium_price = $6,
			active = $7, starts_at = $8, ends_at = $9
		WHERE id = $10
	`,
		o.GigID, o.Title, o.OfferPrice,
		o.BasicPrice, o.StandardPrice, o.PremiumPrice,
		o.Active, o.StartsAt, o.EndsAt, o.ID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE id = $1`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context) ([]*Offer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY created_at DESC`)
}

func (r *repository) ListApplicable(ctx context.Context, now time.Time) ([]*Offer, error) {
	return r.query(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE active = TRUE AND (ends_at IS NULL OR ends_at > $1)
		ORDER BY created_at DESC
	`, now)
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]*Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
