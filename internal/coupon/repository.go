package coupon

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gigmarket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*Coupon, error)

	// GetByCode looks a coupon up case-insensitively. A missing code is not
	// an error: it returns (nil, nil) so checkout can degrade to no discount.
	GetByCode(ctx context.Context, code string) (*Coupon, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, discount_percent)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, c.Code, c.DiscountPercent).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "coupons_code_key") {
			return ErrCodeExists
		}
		log.Error("failed to insert coupon", zap.String("code", c.Code), zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, discount_percent, created_at
		FROM coupons
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.CreatedAt); err != nil {
			return nil, err
		}
		coupons = append(coupons, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coupons, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.db.QueryRowContext(ctx, `
		SELECT id, code, discount_percent, created_at
		FROM coupons
		WHERE LOWER(code) = LOWER($1)
	`, code).Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}
